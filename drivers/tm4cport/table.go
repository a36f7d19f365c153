package tm4cport

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"periph.io/x/conn/v3/gpio"

	"portcode-go/errcode"
	"portcode-go/x/conv"
)

// Pin ordinals: position of each bonded pin across the six ports.
// For ports A to E this equals port*8 + pin.
const (
	PA0 = iota
	PA1
	PA2
	PA3
	PA4
	PA5
	PA6
	PA7
	PB0
	PB1
	PB2
	PB3
	PB4
	PB5
	PB6
	PB7
	PC0
	PC1
	PC2
	PC3
	PC4
	PC5
	PC6
	PC7
	PD0
	PD1
	PD2
	PD3
	PD4
	PD5
	PD6
	PD7
	PE0
	PE1
	PE2
	PE3
	PE4
	PE5
	PF0
	PF1
	PF2
	PF3
	PF4
	NumOrdinals
)

var portFirstOrdinal = [NumPorts]int{PA0, PB0, PC0, PD0, PE0, PF0}

// Ordinal returns the pin's ordinal, or false if the pin is not bonded.
func Ordinal(p Port, n uint8) (int, bool) {
	if p >= NumPorts || n >= pinsPerPort[p] {
		return 0, false
	}
	return portFirstOrdinal[p] + int(n), true
}

// PinAt is the inverse of Ordinal.
func PinAt(ord int) (Port, uint8, bool) {
	if ord < 0 || ord >= NumOrdinals {
		return 0, 0, false
	}
	for p := NumPorts - 1; ; p-- {
		if ord >= portFirstOrdinal[p] {
			return p, uint8(ord - portFirstOrdinal[p]), true
		}
	}
}

// PinName formats a pin as "P<port><pin>".
func PinName(p Port, n uint8) string {
	var buf [3]byte
	return "P" + p.String() + string(conv.Utoa(buf[:], uint64(n)))
}

// debugPin reports the JTAG/SWD pins PC0..PC3. Their mux is never touched.
func debugPin(p Port, n uint8) bool { return p == PortC && n <= 3 }

// protectedPin reports the pins behind GPIOLOCK/GPIOCR: PD7 and PF0.
func protectedPin(p Port, n uint8) bool {
	return (p == PortD && n == 7) || (p == PortF && n == 0)
}

// DefaultTable returns the board table: every bonded pin as a pulled-down
// digital input whose direction may change at runtime.
func DefaultTable() Table {
	t := make(Table, 0, NumOrdinals)
	for ord := 0; ord < NumOrdinals; ord++ {
		p, n, _ := PinAt(ord)
		t = append(t, PinConfig{
			Mode:                ModeDIO,
			Port:                p,
			Pin:                 n,
			Direction:           In,
			Resistor:            gpio.PullDown,
			Level:               gpio.Low,
			DirectionChangeable: true,
			ModeChangeable:      false,
		})
	}
	return t
}

// Validate checks every record and returns all problems combined.
func (t Table) Validate() error {
	if len(t) == 0 {
		return errcode.New(errcode.NullConfig, "validate", "empty table")
	}
	var err error
	seen := make(map[int]int, len(t))
	for i, c := range t {
		ord, ok := Ordinal(c.Port, c.Pin)
		if !ok {
			err = multierr.Append(err, errors.Wrapf(errcode.InvalidPin, "record %d: port %d pin %d", i, c.Port, c.Pin))
			continue
		}
		if prev, dup := seen[ord]; dup {
			err = multierr.Append(err, errors.Wrapf(errcode.InvalidConfig, "record %d: %s already configured by record %d", i, c.Name(), prev))
		}
		seen[ord] = i
		if c.Mode >= NumModes {
			err = multierr.Append(err, errors.Wrapf(errcode.InvalidMode, "record %d: %s mode %d", i, c.Name(), c.Mode))
		}
		if c.Direction > Out {
			err = multierr.Append(err, errors.Wrapf(errcode.InvalidConfig, "record %d: %s direction %d", i, c.Name(), c.Direction))
		}
		switch c.Resistor {
		case gpio.PullNoChange, gpio.Float, gpio.PullUp, gpio.PullDown:
		default:
			err = multierr.Append(err, errors.Wrapf(errcode.InvalidConfig, "record %d: %s resistor %s", i, c.Name(), c.Resistor))
		}
		switch c.Drive {
		case 0, Drive2mA, Drive4mA, Drive8mA:
		default:
			err = multierr.Append(err, errors.Wrapf(errcode.InvalidConfig, "record %d: %s drive %s", i, c.Name(), c.Drive))
		}
	}
	return err
}
