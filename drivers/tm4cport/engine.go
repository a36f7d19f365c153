package tm4cport

import (
	"sync/atomic"

	"periph.io/x/conn/v3/gpio"

	"portcode-go/det"
	"portcode-go/x/bitx"
)

// Engine applies a pin table to the port registers of one device.
//
// Init and RefreshPortDirection must not run concurrently with each other
// or with the setters. Once Init has returned, SetPinDirection and
// SetPinMode may be called from another goroutine provided the bank's
// primitives are atomic.
type Engine struct {
	bank RegisterBank
	det  det.Reporter
	opts Options

	table       Table
	initialized atomic.Bool
}

// New returns an engine writing through bank. A nil reporter discards
// development errors.
func New(bank RegisterBank, rep det.Reporter, opts Options) *Engine {
	if rep == nil {
		rep = det.Discard
	}
	return &Engine{bank: bank, det: rep, opts: opts}
}

// Initialized reports whether Init has completed at least once.
func (e *Engine) Initialized() bool { return e.initialized.Load() }

// Table returns the table applied by the last Init.
func (e *Engine) Table() Table { return e.table }

func (e *Engine) report(sid, errID uint8) {
	e.det.ReportError(ModuleID, InstanceID, sid, errID)
}

// Init applies every record of t in order and marks the engine initialized.
// Calling it again re-applies the whole table.
func (e *Engine) Init(t Table) {
	if len(t) == 0 && e.opts.ErrorDetect {
		e.report(SIDInit, EParamConfig)
		return
	}
	e.table = t
	for i := range t {
		e.applyRecord(&t[i])
	}
	e.initialized.Store(true)
}

func (e *Engine) applyRecord(c *PinConfig) {
	ord, ok := Ordinal(c.Port, c.Pin)
	if !ok {
		// Not bonded on this package; there is no bit to program.
		return
	}
	base, _ := Base(c.Port)
	bit := c.Pin

	// Clock the port, then read back once so the gate settles before the
	// first access to the port.
	e.bank.SetBit(SysctlRCGC2, uint8(c.Port))
	_ = e.bank.Load32(SysctlRCGC2)

	if protectedPin(c.Port, c.Pin) {
		e.bank.Store32(base+OffLock, UnlockKey)
		e.bank.SetBit(base+OffCommit, bit)
	}

	if c.Direction == Out {
		e.bank.SetBit(base+OffDir, bit)
		assignBit(e.bank, base+OffData, bit, c.Level == gpio.High)
		if e.opts.OptionalConfig {
			e.applyElectrical(base, c)
		}
	} else {
		e.bank.ClearBit(base+OffDir, bit)
		switch c.Resistor {
		case gpio.PullUp:
			e.bank.SetBit(base+OffPUR, bit)
			e.bank.ClearBit(base+OffPDR, bit)
		case gpio.PullDown:
			e.bank.SetBit(base+OffPDR, bit)
			e.bank.ClearBit(base+OffPUR, bit)
		default:
			// gpio.Float and the zero gpio.PullNoChange both mean no resistor.
			e.bank.ClearBit(base+OffPUR, bit)
			e.bank.ClearBit(base+OffPDR, bit)
		}
	}

	e.programMode(c, c.Mode, ord)
}

func (e *Engine) applyElectrical(base uintptr, c *PinConfig) {
	bit := c.Pin
	assignBit(e.bank, base+OffODR, bit, c.OpenDrain)
	switch c.Drive {
	case Drive2mA:
		e.bank.SetBit(base+OffDR2R, bit)
	case Drive4mA:
		e.bank.SetBit(base+OffDR4R, bit)
	case Drive8mA:
		e.bank.SetBit(base+OffDR8R, bit)
		assignBit(e.bank, base+OffSLR, bit, c.SlewRate)
	}
}

// programMode muxes the pin of c to mode m. Pins that cannot carry m are
// left untouched, as are the debug pins.
func (e *Engine) programMode(c *PinConfig, m Mode, ord int) {
	if debugPin(c.Port, c.Pin) {
		return
	}
	cp := lookup(m, ord)
	if cp.kind == kindNone {
		return
	}
	base, _ := Base(c.Port)
	bit := c.Pin

	if m == ModeADC && e.bank.ReadBit(base+OffDir, bit) {
		// ADC inputs only.
		return
	}

	switch cp.kind {
	case kindGPIO:
		e.bank.ClearBit(base+OffAMSel, bit)
		e.bank.ClearBit(base+OffAFSel, bit)
		e.bank.WriteNibble(base+OffPCTL, bit, 0)
		e.bank.SetBit(base+OffDEN, bit)
	case kindDigital:
		e.bank.ClearBit(base+OffAMSel, bit)
		e.bank.SetBit(base+OffAFSel, bit)
		e.bank.WriteNibble(base+OffPCTL, bit, e.selector(cp))
		e.bank.SetBit(base+OffDEN, bit)
	case kindAnalog:
		e.bank.SetBit(base+OffAFSel, bit)
		e.bank.ClearBit(base+OffDEN, bit)
		e.bank.SetBit(base+OffAMSel, bit)
		e.bank.WriteNibble(base+OffPCTL, bit, 0)
	}
}

// selector resolves the PCTL value, giving way to a rival pin that already
// carries the same peripheral instance.
func (e *Engine) selector(cp capability) uint8 {
	if cp.rival < 0 {
		return cp.selector
	}
	rp, rn, _ := PinAt(int(cp.rival))
	rb, _ := Base(rp)
	if bitx.Nibble(e.bank.Load32(rb+OffPCTL), rn) == cp.rivalSel {
		return cp.demoted
	}
	return cp.selector
}

// SetPinDirection switches the direction of the pin at table index pin.
// Only the DIR bit is written.
func (e *Engine) SetPinDirection(pin int, dir Direction) {
	if e.opts.ErrorDetect {
		switch {
		case !e.initialized.Load():
			e.report(SIDSetPinDirection, EUninit)
			return
		case pin < 0 || pin >= len(e.table):
			e.report(SIDSetPinDirection, EParamPin)
			return
		case !e.table[pin].DirectionChangeable:
			e.report(SIDSetPinDirection, EDirectionUnchangeable)
			return
		}
	}
	c := &e.table[pin]
	base, ok := Base(c.Port)
	if !ok {
		return
	}
	assignBit(e.bank, base+OffDir, c.Pin, dir == Out)
}

// SetPinMode re-muxes the pin at table index pin to mode.
func (e *Engine) SetPinMode(pin int, mode Mode) {
	if e.opts.ErrorDetect {
		switch {
		case !e.initialized.Load():
			e.report(SIDSetPinMode, EUninit)
			return
		case pin < 0 || pin >= len(e.table):
			e.report(SIDSetPinMode, EParamPin)
			return
		case mode >= NumModes:
			e.report(SIDSetPinMode, EParamInvalidMode)
			return
		case !e.table[pin].ModeChangeable:
			e.report(SIDSetPinMode, EModeUnchangeable)
			return
		}
	}
	c := &e.table[pin]
	ord, ok := Ordinal(c.Port, c.Pin)
	if !ok {
		return
	}
	e.programMode(c, mode, ord)
}

// RefreshPortDirection rewrites the DIR bit of every pin whose direction is
// not changeable with its current value.
func (e *Engine) RefreshPortDirection() {
	if e.opts.ErrorDetect && !e.initialized.Load() {
		e.report(SIDRefreshPortDirection, EUninit)
		return
	}
	for i := range e.table {
		c := &e.table[i]
		if c.DirectionChangeable {
			continue
		}
		if _, ok := Ordinal(c.Port, c.Pin); !ok {
			continue
		}
		base, _ := Base(c.Port)
		addr := base + OffDir
		assignBit(e.bank, addr, c.Pin, e.bank.ReadBit(addr, c.Pin))
	}
}

// GetVersionInfo fills out with the module identification.
func (e *Engine) GetVersionInfo(out *VersionInfo) {
	if out == nil {
		if e.opts.ErrorDetect {
			e.report(SIDGetVersionInfo, EParamPointer)
		}
		return
	}
	*out = VersionInfo{
		VendorID: VendorID,
		ModuleID: ModuleID,
		SWMajor:  SWMajorVersion,
		SWMinor:  SWMinorVersion,
		SWPatch:  SWPatchVersion,
	}
}

// ARVersion returns the AUTOSAR release the interface follows.
func ARVersion() (major, minor, patch uint8) {
	return ARMajorVersion, ARMinorVersion, ARPatchVersion
}
