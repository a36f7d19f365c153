package tm4cport

import (
	"strings"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/pin"
)

// Port identifies one of the six GPIO port groups.
type Port uint8

const (
	PortA Port = iota
	PortB
	PortC
	PortD
	PortE
	PortF
	NumPorts
)

// pinsPerPort is the number of bonded pins on each port of the 64-pin package.
var pinsPerPort = [NumPorts]uint8{8, 8, 8, 8, 6, 5}

func (p Port) String() string {
	if p >= NumPorts {
		return "?"
	}
	return string(rune('A' + p))
}

// ParsePort accepts "A".."F" (any case) or "0".."5".
func ParsePort(s string) (Port, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 1 {
		return 0, false
	}
	switch c := s[0]; {
	case c >= 'A' && c < 'A'+byte(NumPorts):
		return Port(c - 'A'), true
	case c >= '0' && c < '0'+byte(NumPorts):
		return Port(c - '0'), true
	}
	return 0, false
}

// Direction of a pin.
type Direction uint8

const (
	In Direction = iota
	Out
)

func (d Direction) String() string {
	if d == Out {
		return "out"
	}
	return "in"
}

// ParseDirection accepts "in"/"input" and "out"/"output".
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in", "input":
		return In, true
	case "out", "output":
		return Out, true
	}
	return In, false
}

// Mode is the peripheral function requested for a pin.
type Mode uint8

const (
	ModeDIO Mode = iota
	ModeADC
	ModeUART
	ModeSSI
	ModeI2C
	ModeCAN
	ModeUSB
	ModeGPT
	ModePWM
	ModeQEI
	ModeAnalogComp
	ModeNMI
	ModeTrace
	NumModes
)

var modeNames = [NumModes]string{
	"dio", "adc", "uart", "ssi", "i2c", "can", "usb", "gpt", "pwm", "qei", "acmp", "nmi", "trace",
}

var modeFuncs = [NumModes]pin.Func{
	"GPIO", "ADC", "UART", "SSI", "I2C", "CAN", "USB", "TIMER", "PWM", "QEI", "COMP", "NMI", "TRACE",
}

func (m Mode) String() string {
	if m >= NumModes {
		return "invalid"
	}
	return modeNames[m]
}

// Func returns the periph function name of the mode.
func (m Mode) Func() pin.Func {
	if m >= NumModes {
		return pin.FuncNone
	}
	return modeFuncs[m]
}

// ParseMode accepts the names returned by Mode.String.
func ParseMode(s string) (Mode, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range modeNames {
		if n == s {
			return Mode(i), true
		}
	}
	return 0, false
}

// Drive strengths accepted by the optional electrical block.
const (
	Drive2mA = 2 * physic.MilliAmpere
	Drive4mA = 4 * physic.MilliAmpere
	Drive8mA = 8 * physic.MilliAmpere
)

// PinConfig is the configuration record of one physical pin.
type PinConfig struct {
	Mode      Mode
	Port      Port
	Pin       uint8 // 0..7 within Port
	Direction Direction
	Resistor  gpio.Pull  // gpio.PullUp, gpio.PullDown, else none; inputs only
	Level     gpio.Level // initial level; outputs only

	DirectionChangeable bool
	ModeChangeable      bool

	// Applied only when Options.OptionalConfig is set; outputs only.
	OpenDrain bool
	Drive     physic.ElectricCurrent // Drive2mA, Drive4mA, Drive8mA or 0 for untouched
	SlewRate  bool                   // honoured with Drive8mA only
}

// Name returns the pin label, e.g. "PF4".
func (c PinConfig) Name() string { return PinName(c.Port, c.Pin) }

// Table is the ordered set of pin records handed to Init.
// The engine borrows it; callers must not modify it after Init.
type Table []PinConfig

// Options mirror the pre-compile switches of the driver.
type Options struct {
	// ErrorDetect enables development error checks and reports.
	ErrorDetect bool
	// OptionalConfig applies open drain, drive strength and slew rate.
	OptionalConfig bool
}

// DefaultOptions checks every precondition and leaves the optional
// electrical block untouched.
func DefaultOptions() Options { return Options{ErrorDetect: true} }

// VersionInfo is filled by GetVersionInfo.
type VersionInfo struct {
	VendorID uint16
	ModuleID uint16
	SWMajor  uint8
	SWMinor  uint8
	SWPatch  uint8
}
