package tm4cport

// RegisterBank is the register access seam of the engine. Addresses are
// absolute (port base + offset). Implementations used from more than one
// goroutine must make each primitive atomic.
type RegisterBank interface {
	Load32(addr uintptr) uint32
	Store32(addr uintptr, v uint32)
	ReadBit(addr uintptr, bit uint8) bool
	SetBit(addr uintptr, bit uint8)
	ClearBit(addr uintptr, bit uint8)
	// WriteNibble replaces the 4-bit field at index (bits 4*index..4*index+3).
	WriteNibble(addr uintptr, index uint8, v uint8)
}

func assignBit(b RegisterBank, addr uintptr, bit uint8, on bool) {
	if on {
		b.SetBit(addr, bit)
	} else {
		b.ClearBit(addr, bit)
	}
}
