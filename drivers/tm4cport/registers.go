// Package tm4cport programs the GPIO port pin multiplexer of the TM4C123GH6PM.
//
// An Engine applies a Table of per-pin configuration records to the port
// registers through a RegisterBank, and afterwards allows the direction and
// mode of pins flagged as changeable to be switched at runtime.
package tm4cport

// Port base addresses (APB aperture).
const (
	portABase uintptr = 0x40004000
	portBBase uintptr = 0x40005000
	portCBase uintptr = 0x40006000
	portDBase uintptr = 0x40007000
	portEBase uintptr = 0x40024000
	portFBase uintptr = 0x40025000
)

// SysctlRCGC2 is the legacy run-mode clock gating register; bit n gates port n.
const SysctlRCGC2 uintptr = 0x400FE108

// Register offsets from a port base.
const (
	OffData   uintptr = 0x3FC // GPIODATA through the all-bits address mask
	OffDir    uintptr = 0x400 // GPIODIR
	OffAFSel  uintptr = 0x420 // GPIOAFSEL
	OffDR2R   uintptr = 0x500 // 2 mA drive select
	OffDR4R   uintptr = 0x504 // 4 mA drive select
	OffDR8R   uintptr = 0x508 // 8 mA drive select
	OffODR    uintptr = 0x50C // open drain
	OffPUR    uintptr = 0x510 // pull-up
	OffPDR    uintptr = 0x514 // pull-down
	OffSLR    uintptr = 0x518 // slew rate control (8 mA only)
	OffDEN    uintptr = 0x51C // digital enable
	OffLock   uintptr = 0x520 // GPIOLOCK
	OffCommit uintptr = 0x524 // GPIOCR
	OffAMSel  uintptr = 0x528 // analog mode select
	OffPCTL   uintptr = 0x52C // port control, one nibble per pin
)

// UnlockKey opens GPIOCR for writing ("LOCK" in ASCII).
const UnlockKey uint32 = 0x4C4F434B

// CommitProtected reports whether the register at offset off only takes
// writes to the bits whose GPIOCR bit is set.
func CommitProtected(off uintptr) bool {
	switch off {
	case OffAFSel, OffPUR, OffPDR, OffDEN:
		return true
	}
	return false
}

var portBases = [NumPorts]uintptr{portABase, portBBase, portCBase, portDBase, portEBase, portFBase}

// Base returns the register base of port p.
func Base(p Port) (uintptr, bool) {
	if p >= NumPorts {
		return 0, false
	}
	return portBases[p], true
}

// PortOf maps a register base back to its port.
func PortOf(base uintptr) (Port, bool) {
	for i, b := range portBases {
		if b == base {
			return Port(i), true
		}
	}
	return 0, false
}

// Register names a port's registers in offset order, for dumps.
type Register struct {
	Name string
	Off  uintptr
}

var Registers = [...]Register{
	{"DATA", OffData}, {"DIR", OffDir}, {"AFSEL", OffAFSel},
	{"DR2R", OffDR2R}, {"DR4R", OffDR4R}, {"DR8R", OffDR8R},
	{"ODR", OffODR}, {"PUR", OffPUR}, {"PDR", OffPDR}, {"SLR", OffSLR},
	{"DEN", OffDEN}, {"LOCK", OffLock}, {"CR", OffCommit},
	{"AMSEL", OffAMSel}, {"PCTL", OffPCTL},
}
