//go:build tinygo

// Package mmio is the RegisterBank of the running TM4C123: plain volatile
// accesses to the peripheral aperture. Single-bit writes go through the
// Cortex-M4 bit-band alias, which makes them atomic without masking
// interrupts.
package mmio

import (
	"runtime/interrupt"
	"runtime/volatile"
	"unsafe"
)

const (
	periphBase   uintptr = 0x40000000
	periphEnd    uintptr = 0x40100000
	bitbandAlias uintptr = 0x42000000
)

// Bank accesses registers by absolute address.
type Bank struct{}

func reg(addr uintptr) *volatile.Register32 {
	return (*volatile.Register32)(unsafe.Pointer(addr))
}

// alias returns the bit-band word of bit in the register at addr, or nil
// when addr is outside the bit-band region.
func alias(addr uintptr, bit uint8) *volatile.Register32 {
	if addr < periphBase || addr >= periphEnd {
		return nil
	}
	return reg(bitbandAlias + (addr-periphBase)*32 + uintptr(bit)*4)
}

func (Bank) Load32(addr uintptr) uint32 { return reg(addr).Get() }

func (Bank) Store32(addr uintptr, v uint32) { reg(addr).Set(v) }

func (Bank) ReadBit(addr uintptr, bit uint8) bool {
	return reg(addr).HasBits(1 << bit)
}

func (Bank) SetBit(addr uintptr, bit uint8) {
	if a := alias(addr, bit); a != nil {
		a.Set(1)
		return
	}
	mask := interrupt.Disable()
	reg(addr).SetBits(1 << bit)
	interrupt.Restore(mask)
}

func (Bank) ClearBit(addr uintptr, bit uint8) {
	if a := alias(addr, bit); a != nil {
		a.Set(0)
		return
	}
	mask := interrupt.Disable()
	reg(addr).ClearBits(1 << bit)
	interrupt.Restore(mask)
}

func (Bank) WriteNibble(addr uintptr, index uint8, v uint8) {
	mask := interrupt.Disable()
	reg(addr).ReplaceBits(uint32(v), 0xF, index*4)
	interrupt.Restore(mask)
}
