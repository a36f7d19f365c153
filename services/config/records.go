package config

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"

	"portcode-go/drivers/tm4cport"
	"portcode-go/errcode"
	"portcode-go/types"
)

// ToTable converts the JSON pin records into an engine table and validates
// it. All problems found are returned together.
func ToTable(pc types.PortConfig) (tm4cport.Table, error) {
	if len(pc.Pins) == 0 {
		return nil, errcode.New(errcode.NullConfig, "config.table", "no pins")
	}
	var err error
	t := make(tm4cport.Table, 0, len(pc.Pins))
	for i, r := range pc.Pins {
		c, e := toPinConfig(r)
		if e != nil {
			err = multierr.Append(err, errors.Wrapf(e, "pins[%d]", i))
			continue
		}
		t = append(t, c)
	}
	if err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func toPinConfig(r types.PinRecord) (tm4cport.PinConfig, error) {
	var c tm4cport.PinConfig
	p, ok := tm4cport.ParsePort(r.Port)
	if !ok {
		return c, errors.Wrapf(errcode.InvalidPin, "port %q", r.Port)
	}
	if r.Pin < 0 || r.Pin > 7 {
		return c, errors.Wrapf(errcode.InvalidPin, "pin %d", r.Pin)
	}
	c.Port, c.Pin = p, uint8(r.Pin)

	c.Mode = tm4cport.ModeDIO
	if r.Mode != "" {
		if c.Mode, ok = tm4cport.ParseMode(r.Mode); !ok {
			return c, errors.Wrapf(errcode.InvalidMode, "mode %q", r.Mode)
		}
	}
	if r.Dir != "" {
		if c.Direction, ok = tm4cport.ParseDirection(r.Dir); !ok {
			return c, errors.Wrapf(errcode.InvalidConfig, "dir %q", r.Dir)
		}
	}
	switch strings.ToLower(r.Pull) {
	case "", "none", "float":
		c.Resistor = gpio.Float
	case "up":
		c.Resistor = gpio.PullUp
	case "down":
		c.Resistor = gpio.PullDown
	default:
		return c, errors.Wrapf(errcode.InvalidConfig, "pull %q", r.Pull)
	}
	switch strings.ToLower(r.Level) {
	case "", "low":
		c.Level = gpio.Low
	case "high":
		c.Level = gpio.High
	default:
		return c, errors.Wrapf(errcode.InvalidConfig, "level %q", r.Level)
	}
	c.DirectionChangeable = r.DirChangeable
	c.ModeChangeable = r.ModeChangeable
	c.OpenDrain = r.OpenDrain
	c.Drive = physic.ElectricCurrent(r.DriveMA) * physic.MilliAmpere
	c.SlewRate = r.Slew
	return c, nil
}

// FromTable is the inverse of ToTable.
func FromTable(board string, t tm4cport.Table) types.PortConfig {
	pc := types.PortConfig{Board: board, Pins: make([]types.PinRecord, 0, len(t))}
	for _, c := range t {
		r := types.PinRecord{
			Port:           c.Port.String(),
			Pin:            int(c.Pin),
			Mode:           c.Mode.String(),
			Dir:            c.Direction.String(),
			Pull:           pullName(c.Resistor),
			Level:          "low",
			DirChangeable:  c.DirectionChangeable,
			ModeChangeable: c.ModeChangeable,
			OpenDrain:      c.OpenDrain,
			DriveMA:        int(c.Drive / physic.MilliAmpere),
			Slew:           c.SlewRate,
		}
		if c.Level == gpio.High {
			r.Level = "high"
		}
		pc.Pins = append(pc.Pins, r)
	}
	return pc
}

func pullName(p gpio.Pull) string {
	switch p {
	case gpio.PullUp:
		return "up"
	case gpio.PullDown:
		return "down"
	}
	return "none"
}

// DefaultPortConfig is the record form of tm4cport.DefaultTable.
func DefaultPortConfig() types.PortConfig {
	return FromTable(DefaultBoard, tm4cport.DefaultTable())
}
