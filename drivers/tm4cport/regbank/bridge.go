package regbank

import (
	"io"
	"sync"

	"github.com/pkg/errors"
	"tinygo.org/x/drivers"

	"portcode-go/drivers/tm4cport"
	"portcode-go/errcode"
	"portcode-go/x/bitx"
)

// DefaultBridgeAddress is the 7-bit address of the register bridge.
const DefaultBridgeAddress uint16 = 0x2C

// Bridge opcodes. Every request starts with the opcode and the 32-bit
// register address, little-endian.
const (
	opRead  byte = 0x01 // -> 4 bytes value, little-endian
	opWrite byte = 0x02 // followed by 4 bytes value, little-endian
)

// Stream acknowledgements sent after a write.
const (
	ackOK  byte = 0x00
	ackBad byte = 0x01
)

// Bridge reaches the port registers of a target through a register bridge
// running on it (bring-up from a host or a second MCU). Transfer errors do
// not surface through the RegisterBank primitives; the first one is kept
// and returned by Err. Loads that fail read as zero.
type Bridge struct {
	mu   sync.Mutex
	xfer func(w, r []byte) error
	err  error

	w [9]byte
	r [4]byte
}

// NewI2CBridge returns a bank talking to the I2C bridge at addr; 0 selects
// DefaultBridgeAddress.
func NewI2CBridge(bus drivers.I2C, addr uint16) *Bridge {
	if addr == 0 {
		addr = DefaultBridgeAddress
	}
	return &Bridge{xfer: func(w, r []byte) error { return bus.Tx(addr, w, r) }}
}

// NewStreamBridge returns a bank speaking the bridge protocol over a byte
// stream such as a UART. Reads answer with 4 value bytes, writes with a
// single ack byte.
func NewStreamBridge(rw io.ReadWriter) *Bridge {
	var ack [1]byte
	return &Bridge{xfer: func(w, r []byte) error {
		if _, err := rw.Write(w); err != nil {
			return err
		}
		if len(r) > 0 {
			_, err := io.ReadFull(rw, r)
			return err
		}
		if _, err := io.ReadFull(rw, ack[:]); err != nil {
			return err
		}
		if ack[0] != ackOK {
			return errors.Errorf("bridge nak 0x%02x", ack[0])
		}
		return nil
	}}
}

// Err returns the first transfer error seen.
func (b *Bridge) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

// ClearErr forgets the sticky error.
func (b *Bridge) ClearErr() {
	b.mu.Lock()
	b.err = nil
	b.mu.Unlock()
}

func (b *Bridge) fail(op string, addr uintptr, err error) {
	if b.err == nil {
		b.err = errcode.Wrap(errcode.BankIO, op, errors.Wrapf(err, "reg 0x%08x", uint32(addr)))
	}
}

func (b *Bridge) header(op byte, addr uintptr) {
	a := uint32(addr)
	b.w[0] = op
	b.w[1] = byte(a)
	b.w[2] = byte(a >> 8)
	b.w[3] = byte(a >> 16)
	b.w[4] = byte(a >> 24)
}

func (b *Bridge) load(addr uintptr) (uint32, bool) {
	b.header(opRead, addr)
	if err := b.xfer(b.w[:5], b.r[:4]); err != nil {
		b.fail("bridge.load", addr, err)
		return 0, false
	}
	return uint32(b.r[0]) | uint32(b.r[1])<<8 | uint32(b.r[2])<<16 | uint32(b.r[3])<<24, true
}

func (b *Bridge) store(addr uintptr, v uint32) {
	b.header(opWrite, addr)
	b.w[5] = byte(v)
	b.w[6] = byte(v >> 8)
	b.w[7] = byte(v >> 16)
	b.w[8] = byte(v >> 24)
	if err := b.xfer(b.w[:9], nil); err != nil {
		b.fail("bridge.store", addr, err)
	}
}

// modify is a read-modify-write; the write is skipped when the read failed.
func (b *Bridge) modify(addr uintptr, fn func(uint32) uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.load(addr)
	if !ok {
		return
	}
	b.store(addr, fn(v))
}

func (b *Bridge) Load32(addr uintptr) uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, _ := b.load(addr)
	return v
}

func (b *Bridge) Store32(addr uintptr, v uint32) {
	b.mu.Lock()
	b.store(addr, v)
	b.mu.Unlock()
}

func (b *Bridge) ReadBit(addr uintptr, bit uint8) bool {
	return bitx.IsSet(b.Load32(addr), bit)
}

func (b *Bridge) SetBit(addr uintptr, bit uint8) {
	b.modify(addr, func(v uint32) uint32 { return bitx.Set(v, bit) })
}

func (b *Bridge) ClearBit(addr uintptr, bit uint8) {
	b.modify(addr, func(v uint32) uint32 { return bitx.Clear(v, bit) })
}

func (b *Bridge) WriteNibble(addr uintptr, index uint8, v uint8) {
	b.modify(addr, func(old uint32) uint32 { return bitx.WithNibble(old, index, v) })
}

// Serve is the target side of the stream protocol: it executes requests
// read from rw against bank until rw fails. A clean end of stream returns
// nil.
func Serve(rw io.ReadWriter, bank tm4cport.RegisterBank) error {
	var hdr [5]byte
	var val [4]byte
	for {
		if _, err := io.ReadFull(rw, hdr[:]); err != nil {
			if err == io.EOF {
				return nil
			}
			return errors.Wrap(err, "bridge.serve")
		}
		addr := uintptr(uint32(hdr[1]) | uint32(hdr[2])<<8 | uint32(hdr[3])<<16 | uint32(hdr[4])<<24)
		var reply []byte
		switch hdr[0] {
		case opRead:
			v := bank.Load32(addr)
			val[0], val[1], val[2], val[3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
			reply = val[:]
		case opWrite:
			if _, err := io.ReadFull(rw, val[:]); err != nil {
				return errors.Wrap(err, "bridge.serve")
			}
			bank.Store32(addr, uint32(val[0])|uint32(val[1])<<8|uint32(val[2])<<16|uint32(val[3])<<24)
			reply = []byte{ackOK}
		default:
			reply = []byte{ackBad}
		}
		if _, err := rw.Write(reply); err != nil {
			return errors.Wrap(err, "bridge.serve")
		}
	}
}
