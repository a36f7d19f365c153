// Package regbank provides RegisterBank implementations that do not touch
// the memory bus directly: an in-memory shadow of the TM4C123 port
// registers, and a bridge that tunnels register accesses to a target over
// I2C or a serial stream.
package regbank

import (
	"sort"
	"sync"

	"portcode-go/drivers/tm4cport"
	"portcode-go/x/bitx"
)

// Shadow is an in-memory register file. All primitives hold one mutex, so
// the shadow may be shared between goroutines.
//
// A strict shadow behaves like the silicon for the lock/commit logic:
// GPIOCR only accepts writes while the port is unlocked, and bits of
// AFSEL/PUR/PDR/DEN whose GPIOCR bit is clear keep their value.
type Shadow struct {
	mu       sync.Mutex
	regs     map[uintptr]uint32
	unlocked map[uintptr]bool
	strict   bool
	writes   int
}

// NewShadow returns an all-zero, permissive register file.
func NewShadow() *Shadow {
	return &Shadow{regs: make(map[uintptr]uint32), unlocked: make(map[uintptr]bool)}
}

// NewTM4C123 returns a strict shadow loaded with the reset values of the
// six ports. PC0..PC3 come out of reset on JTAG, and PC0..PC3, PD7 and PF0
// are locked.
func NewTM4C123() *Shadow {
	s := NewShadow()
	s.strict = true
	for p := tm4cport.PortA; p < tm4cport.NumPorts; p++ {
		base, _ := tm4cport.Base(p)
		s.regs[base+tm4cport.OffDR2R] = 0xFF
		s.regs[base+tm4cport.OffCommit] = 0xFF
	}
	c, _ := tm4cport.Base(tm4cport.PortC)
	s.regs[c+tm4cport.OffAFSel] = 0x0F
	s.regs[c+tm4cport.OffPUR] = 0x0F
	s.regs[c+tm4cport.OffDEN] = 0x0F
	s.regs[c+tm4cport.OffPCTL] = 0x00001111
	s.regs[c+tm4cport.OffCommit] = 0xF0
	d, _ := tm4cport.Base(tm4cport.PortD)
	s.regs[d+tm4cport.OffCommit] = 0x7F
	f, _ := tm4cport.Base(tm4cport.PortF)
	s.regs[f+tm4cport.OffCommit] = 0xFE
	return s
}

func split(addr uintptr) (base, off uintptr, ok bool) {
	base = addr &^ 0xFFF
	if _, ok := tm4cport.PortOf(base); !ok {
		return 0, 0, false
	}
	return base, addr & 0xFFF, true
}

func (s *Shadow) load(addr uintptr) uint32 {
	if s.strict {
		if base, off, ok := split(addr); ok && off == tm4cport.OffLock {
			if s.unlocked[base] {
				return 0
			}
			return 1
		}
	}
	return s.regs[addr]
}

func (s *Shadow) store(addr uintptr, v uint32) {
	s.writes++
	if !s.strict {
		s.regs[addr] = v
		return
	}
	base, off, ok := split(addr)
	if !ok {
		s.regs[addr] = v
		return
	}
	if tm4cport.CommitProtected(off) {
		v = bitx.Merge(s.regs[addr], v, ^s.regs[base+tm4cport.OffCommit])
	}
	switch off {
	case tm4cport.OffLock:
		s.unlocked[base] = v == tm4cport.UnlockKey
		return
	case tm4cport.OffCommit:
		if !s.unlocked[base] {
			return
		}
	case tm4cport.OffDR2R, tm4cport.OffDR4R, tm4cport.OffDR8R:
		// Selecting a drive strength deselects the other two.
		for _, o := range [...]uintptr{tm4cport.OffDR2R, tm4cport.OffDR4R, tm4cport.OffDR8R} {
			if o != off {
				s.regs[base+o] &^= v
			}
		}
	}
	s.regs[addr] = v
}

func (s *Shadow) Load32(addr uintptr) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(addr)
}

func (s *Shadow) Store32(addr uintptr, v uint32) {
	s.mu.Lock()
	s.store(addr, v)
	s.mu.Unlock()
}

func (s *Shadow) ReadBit(addr uintptr, bit uint8) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return bitx.IsSet(s.load(addr), bit)
}

func (s *Shadow) SetBit(addr uintptr, bit uint8) {
	s.mu.Lock()
	s.store(addr, bitx.Set(s.load(addr), bit))
	s.mu.Unlock()
}

func (s *Shadow) ClearBit(addr uintptr, bit uint8) {
	s.mu.Lock()
	s.store(addr, bitx.Clear(s.load(addr), bit))
	s.mu.Unlock()
}

func (s *Shadow) WriteNibble(addr uintptr, index uint8, v uint8) {
	s.mu.Lock()
	s.store(addr, bitx.WithNibble(s.load(addr), index, v))
	s.mu.Unlock()
}

// Writes returns the number of register writes since creation or the last
// ResetWrites.
func (s *Shadow) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *Shadow) ResetWrites() {
	s.mu.Lock()
	s.writes = 0
	s.mu.Unlock()
}

// Value is Load32 under a name that reads better in assertions.
func (s *Shadow) Value(addr uintptr) uint32 { return s.Load32(addr) }

// Poke sets a register directly, bypassing lock emulation and the write
// counter. Used to stage hardware state.
func (s *Shadow) Poke(addr uintptr, v uint32) {
	s.mu.Lock()
	s.regs[addr] = v
	s.mu.Unlock()
}

// Snapshot copies the register file.
func (s *Shadow) Snapshot() map[uintptr]uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[uintptr]uint32, len(s.regs))
	for a, v := range s.regs {
		out[a] = v
	}
	return out
}

// Addrs returns the addresses holding a value, sorted.
func (s *Shadow) Addrs() []uintptr {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]uintptr, 0, len(s.regs))
	for a := range s.regs {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
