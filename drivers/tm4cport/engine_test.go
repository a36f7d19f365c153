package tm4cport_test

import (
	"sync"
	"testing"

	"periph.io/x/conn/v3/gpio"

	"portcode-go/det"
	"portcode-go/drivers/tm4cport"
	"portcode-go/drivers/tm4cport/regbank"
	"portcode-go/x/bitx"
)

func reg(p tm4cport.Port, off uintptr) uintptr {
	base, ok := tm4cport.Base(p)
	if !ok {
		panic("bad port")
	}
	return base + off
}

func bit(s *regbank.Shadow, p tm4cport.Port, off uintptr, n uint8) bool {
	return bitx.IsSet(s.Value(reg(p, off)), n)
}

func newEngine(opts tm4cport.Options) (*tm4cport.Engine, *regbank.Shadow, *det.Recorder) {
	s := regbank.NewShadow()
	rec := &det.Recorder{}
	return tm4cport.New(s, rec, opts), s, rec
}

func pinCfg(p tm4cport.Port, n uint8, m tm4cport.Mode, d tm4cport.Direction) tm4cport.PinConfig {
	return tm4cport.PinConfig{Mode: m, Port: p, Pin: n, Direction: d, Resistor: gpio.Float, Level: gpio.Low}
}

func expectReport(t *testing.T, rec *det.Recorder, sid, errID uint8) {
	t.Helper()
	r, ok := rec.Last()
	if !ok {
		t.Fatalf("expected report sid=%#x err=%#x, got none", sid, errID)
	}
	want := det.Report{ModuleID: tm4cport.ModuleID, InstanceID: tm4cport.InstanceID, APIID: sid, ErrorID: errID}
	if r != want {
		t.Fatalf("report = %+v, want %+v", r, want)
	}
}

func TestInit_NilTableReportsAndDoesNothing(t *testing.T) {
	e, s, rec := newEngine(tm4cport.DefaultOptions())
	e.Init(nil)

	expectReport(t, rec, tm4cport.SIDInit, tm4cport.EParamConfig)
	if rec.Len() != 1 {
		t.Fatalf("reports = %d, want 1", rec.Len())
	}
	if s.Writes() != 0 {
		t.Fatalf("writes = %d, want 0", s.Writes())
	}
	if e.Initialized() {
		t.Fatal("engine must stay uninitialized")
	}
}

func TestInit_EmptyTableWithoutErrorDetect(t *testing.T) {
	e, s, rec := newEngine(tm4cport.Options{})
	e.Init(tm4cport.Table{})
	if rec.Len() != 0 || s.Writes() != 0 {
		t.Fatalf("reports=%d writes=%d, want none", rec.Len(), s.Writes())
	}
	if !e.Initialized() {
		t.Fatal("engine should be initialized")
	}
}

func TestInit_OutputHighDIO(t *testing.T) {
	e, s, rec := newEngine(tm4cport.DefaultOptions())
	c := pinCfg(tm4cport.PortF, 1, tm4cport.ModeDIO, tm4cport.Out)
	c.Level = gpio.High
	e.Init(tm4cport.Table{c})

	if rec.Len() != 0 {
		t.Fatalf("unexpected reports: %v", rec.Reports())
	}
	if !bitx.IsSet(s.Value(tm4cport.SysctlRCGC2), uint8(tm4cport.PortF)) {
		t.Fatal("port F clock not enabled")
	}
	checks := []struct {
		name string
		off  uintptr
		want bool
	}{
		{"DIR", tm4cport.OffDir, true},
		{"DATA", tm4cport.OffData, true},
		{"DEN", tm4cport.OffDEN, true},
		{"AFSEL", tm4cport.OffAFSel, false},
		{"AMSEL", tm4cport.OffAMSel, false},
	}
	for _, ck := range checks {
		if got := bit(s, tm4cport.PortF, ck.off, 1); got != ck.want {
			t.Errorf("%s bit 1 = %v, want %v", ck.name, got, ck.want)
		}
	}
	if n := bitx.Nibble(s.Value(reg(tm4cport.PortF, tm4cport.OffPCTL)), 1); n != 0 {
		t.Errorf("PCTL nibble = %d, want 0", n)
	}
	if !e.Initialized() {
		t.Fatal("engine should be initialized")
	}
}

func TestInit_OutputLowClearsData(t *testing.T) {
	e, s, _ := newEngine(tm4cport.DefaultOptions())
	s.Poke(reg(tm4cport.PortA, tm4cport.OffData), 0xFF)
	e.Init(tm4cport.Table{pinCfg(tm4cport.PortA, 3, tm4cport.ModeDIO, tm4cport.Out)})
	if got := s.Value(reg(tm4cport.PortA, tm4cport.OffData)); got != 0xF7 {
		t.Fatalf("DATA = %#x, want 0xF7", got)
	}
}

func TestInit_InputResistors(t *testing.T) {
	e, s, _ := newEngine(tm4cport.DefaultOptions())
	s.Poke(reg(tm4cport.PortA, tm4cport.OffPUR), 0xFF)
	s.Poke(reg(tm4cport.PortA, tm4cport.OffPDR), 0xFF)
	s.Poke(reg(tm4cport.PortA, tm4cport.OffDir), 0xFF)

	up := pinCfg(tm4cport.PortA, 2, tm4cport.ModeDIO, tm4cport.In)
	up.Resistor = gpio.PullUp
	down := pinCfg(tm4cport.PortA, 3, tm4cport.ModeDIO, tm4cport.In)
	down.Resistor = gpio.PullDown
	none := pinCfg(tm4cport.PortA, 4, tm4cport.ModeDIO, tm4cport.In)
	unset := pinCfg(tm4cport.PortA, 5, tm4cport.ModeDIO, tm4cport.In)
	unset.Resistor = gpio.PullNoChange
	e.Init(tm4cport.Table{up, down, none, unset})

	cases := []struct {
		pin      uint8
		pur, pdr bool
	}{
		{2, true, false},
		{3, false, true},
		{4, false, false},
		{5, false, false},
	}
	for _, c := range cases {
		if got := bit(s, tm4cport.PortA, tm4cport.OffPUR, c.pin); got != c.pur {
			t.Errorf("PA%d PUR = %v, want %v", c.pin, got, c.pur)
		}
		if got := bit(s, tm4cport.PortA, tm4cport.OffPDR, c.pin); got != c.pdr {
			t.Errorf("PA%d PDR = %v, want %v", c.pin, got, c.pdr)
		}
		if bit(s, tm4cport.PortA, tm4cport.OffDir, c.pin) {
			t.Errorf("PA%d DIR should be input", c.pin)
		}
	}
}

func TestInit_DebugPinsKeepMuxRegisters(t *testing.T) {
	e, s, _ := newEngine(tm4cport.DefaultOptions())
	muxRegs := []uintptr{tm4cport.OffAMSel, tm4cport.OffAFSel, tm4cport.OffPCTL, tm4cport.OffDEN}
	staged := map[uintptr]uint32{
		tm4cport.OffAMSel: 0x0A,
		tm4cport.OffAFSel: 0x0F,
		tm4cport.OffPCTL:  0x00003111,
		tm4cport.OffDEN:   0x05,
	}
	for off, v := range staged {
		s.Poke(reg(tm4cport.PortC, off), v)
	}

	e.Init(tm4cport.DefaultTable())

	for _, off := range muxRegs {
		got := s.Value(reg(tm4cport.PortC, off))
		want := staged[off]
		mask := uint32(0x0F)
		if off == tm4cport.OffPCTL {
			mask = 0xFFFF
		}
		if got&mask != want&mask {
			t.Errorf("port C reg %#x low pins = %#x, want %#x", off, got&mask, want&mask)
		}
	}
	// The rest of port C is plain GPIO.
	if got := s.Value(reg(tm4cport.PortC, tm4cport.OffDEN)) & 0xF0; got != 0xF0 {
		t.Errorf("PC4..PC7 DEN = %#x, want 0xF0", got)
	}
}

func TestInit_DebugPinsIgnoreAnyMode(t *testing.T) {
	for m := tm4cport.ModeDIO; m < tm4cport.NumModes; m++ {
		e, s, _ := newEngine(tm4cport.DefaultOptions())
		var tbl tm4cport.Table
		for n := uint8(0); n < 4; n++ {
			tbl = append(tbl, pinCfg(tm4cport.PortC, n, m, tm4cport.In))
		}
		e.Init(tbl)
		for _, off := range []uintptr{tm4cport.OffAMSel, tm4cport.OffAFSel, tm4cport.OffPCTL, tm4cport.OffDEN} {
			if v := s.Value(reg(tm4cport.PortC, off)); v != 0 {
				t.Fatalf("mode %v: port C reg %#x = %#x, want untouched", m, off, v)
			}
		}
	}
}

func TestInit_LockedPinsOnResetSilicon(t *testing.T) {
	s := regbank.NewTM4C123()
	rec := &det.Recorder{}
	e := tm4cport.New(s, rec, tm4cport.DefaultOptions())

	pf0 := pinCfg(tm4cport.PortF, 0, tm4cport.ModeDIO, tm4cport.In)
	pf0.Resistor = gpio.PullUp
	pd7 := pinCfg(tm4cport.PortD, 7, tm4cport.ModeUART, tm4cport.In)
	e.Init(tm4cport.Table{pf0, pd7})

	if !bit(s, tm4cport.PortF, tm4cport.OffPUR, 0) {
		t.Error("PF0 pull-up not committed")
	}
	if !bit(s, tm4cport.PortF, tm4cport.OffDEN, 0) {
		t.Error("PF0 digital enable not committed")
	}
	if !bit(s, tm4cport.PortD, tm4cport.OffAFSel, 7) || !bit(s, tm4cport.PortD, tm4cport.OffDEN, 7) {
		t.Error("PD7 alternate function not committed")
	}
	if n := bitx.Nibble(s.Value(reg(tm4cport.PortD, tm4cport.OffPCTL)), 7); n != 1 {
		t.Errorf("PD7 PCTL = %d, want 1", n)
	}
	if !bit(s, tm4cport.PortF, tm4cport.OffCommit, 0) || !bit(s, tm4cport.PortD, tm4cport.OffCommit, 7) {
		t.Error("commit bits not set")
	}
}

func TestInit_UARTArbitration(t *testing.T) {
	t.Run("port C alone takes UART1", func(t *testing.T) {
		e, s, _ := newEngine(tm4cport.DefaultOptions())
		e.Init(tm4cport.Table{
			pinCfg(tm4cport.PortC, 4, tm4cport.ModeUART, tm4cport.In),
			pinCfg(tm4cport.PortC, 5, tm4cport.ModeUART, tm4cport.Out),
		})
		pctl := s.Value(reg(tm4cport.PortC, tm4cport.OffPCTL))
		if bitx.Nibble(pctl, 4) != 2 || bitx.Nibble(pctl, 5) != 2 {
			t.Fatalf("PCTL = %#x, want selector 2 on PC4/PC5", pctl)
		}
	})
	t.Run("port B claimed first pushes C to UART4", func(t *testing.T) {
		e, s, _ := newEngine(tm4cport.DefaultOptions())
		e.Init(tm4cport.Table{
			pinCfg(tm4cport.PortB, 0, tm4cport.ModeUART, tm4cport.In),
			pinCfg(tm4cport.PortB, 1, tm4cport.ModeUART, tm4cport.Out),
			pinCfg(tm4cport.PortC, 4, tm4cport.ModeUART, tm4cport.In),
			pinCfg(tm4cport.PortC, 5, tm4cport.ModeUART, tm4cport.Out),
		})
		pctlB := s.Value(reg(tm4cport.PortB, tm4cport.OffPCTL))
		if bitx.Nibble(pctlB, 0) != 1 || bitx.Nibble(pctlB, 1) != 1 {
			t.Fatalf("port B PCTL = %#x, want UART1 on PB0/PB1", pctlB)
		}
		pctlC := s.Value(reg(tm4cport.PortC, tm4cport.OffPCTL))
		if bitx.Nibble(pctlC, 4) != 1 || bitx.Nibble(pctlC, 5) != 1 {
			t.Fatalf("port C PCTL = %#x, want selector 1 on PC4/PC5", pctlC)
		}
	})
}

func TestInit_AnalogModes(t *testing.T) {
	e, s, _ := newEngine(tm4cport.DefaultOptions())
	s.Poke(reg(tm4cport.PortE, tm4cport.OffDEN), 0xFF)
	e.Init(tm4cport.Table{
		pinCfg(tm4cport.PortE, 3, tm4cport.ModeADC, tm4cport.In),
		pinCfg(tm4cport.PortE, 2, tm4cport.ModeADC, tm4cport.Out),
	})

	if !bit(s, tm4cport.PortE, tm4cport.OffAMSel, 3) || !bit(s, tm4cport.PortE, tm4cport.OffAFSel, 3) {
		t.Error("PE3 should be analog")
	}
	if bit(s, tm4cport.PortE, tm4cport.OffDEN, 3) {
		t.Error("PE3 digital enable should be cleared")
	}
	// An output cannot be an ADC input; nothing is muxed.
	if bit(s, tm4cport.PortE, tm4cport.OffAMSel, 2) || bit(s, tm4cport.PortE, tm4cport.OffAFSel, 2) {
		t.Error("PE2 should not be muxed")
	}
	if !bit(s, tm4cport.PortE, tm4cport.OffDEN, 2) {
		t.Error("PE2 DEN should be untouched")
	}
}

func TestInit_IneligiblePinUntouched(t *testing.T) {
	e, s, _ := newEngine(tm4cport.DefaultOptions())
	e.Init(tm4cport.Table{pinCfg(tm4cport.PortA, 2, tm4cport.ModeI2C, tm4cport.In)})
	for _, off := range []uintptr{tm4cport.OffAMSel, tm4cport.OffAFSel, tm4cport.OffPCTL, tm4cport.OffDEN} {
		if v := s.Value(reg(tm4cport.PortA, off)); v != 0 {
			t.Fatalf("reg %#x = %#x, want 0", off, v)
		}
	}
}

func TestInit_OptionalElectricalBlock(t *testing.T) {
	strong := pinCfg(tm4cport.PortB, 6, tm4cport.ModeDIO, tm4cport.Out)
	strong.OpenDrain = true
	strong.Drive = tm4cport.Drive8mA
	strong.SlewRate = true
	medium := pinCfg(tm4cport.PortB, 7, tm4cport.ModeDIO, tm4cport.Out)
	medium.Drive = tm4cport.Drive4mA
	medium.SlewRate = true

	t.Run("applied", func(t *testing.T) {
		s := regbank.NewTM4C123()
		e := tm4cport.New(s, nil, tm4cport.Options{ErrorDetect: true, OptionalConfig: true})
		e.Init(tm4cport.Table{strong, medium})

		if !bit(s, tm4cport.PortB, tm4cport.OffODR, 6) {
			t.Error("PB6 open drain not set")
		}
		if !bit(s, tm4cport.PortB, tm4cport.OffDR8R, 6) || bit(s, tm4cport.PortB, tm4cport.OffDR2R, 6) {
			t.Error("PB6 should be on 8 mA only")
		}
		if !bit(s, tm4cport.PortB, tm4cport.OffSLR, 6) {
			t.Error("PB6 slew control not set")
		}
		if !bit(s, tm4cport.PortB, tm4cport.OffDR4R, 7) {
			t.Error("PB7 should be on 4 mA")
		}
		if bit(s, tm4cport.PortB, tm4cport.OffSLR, 7) {
			t.Error("slew control needs 8 mA")
		}
	})
	t.Run("disabled", func(t *testing.T) {
		s := regbank.NewShadow()
		e := tm4cport.New(s, nil, tm4cport.DefaultOptions())
		e.Init(tm4cport.Table{strong})
		for _, off := range []uintptr{tm4cport.OffODR, tm4cport.OffDR8R, tm4cport.OffSLR} {
			if v := s.Value(reg(tm4cport.PortB, off)); v != 0 {
				t.Errorf("reg %#x = %#x, want untouched", off, v)
			}
		}
	})
}

func TestSetPinDirection(t *testing.T) {
	e, s, rec := newEngine(tm4cport.DefaultOptions())

	e.SetPinDirection(0, tm4cport.Out)
	expectReport(t, rec, tm4cport.SIDSetPinDirection, tm4cport.EUninit)
	if s.Writes() != 0 {
		t.Fatalf("writes before init = %d, want 0", s.Writes())
	}

	e.SetPinDirection(99, tm4cport.Out)
	if rec.Len() != 2 {
		t.Fatalf("reports = %d, want one per call", rec.Len())
	}

	locked := pinCfg(tm4cport.PortA, 1, tm4cport.ModeDIO, tm4cport.In)
	free := pinCfg(tm4cport.PortA, 2, tm4cport.ModeDIO, tm4cport.In)
	free.DirectionChangeable = true
	e.Init(tm4cport.Table{locked, free})
	rec.Reset()
	s.ResetWrites()

	e.SetPinDirection(2, tm4cport.Out)
	expectReport(t, rec, tm4cport.SIDSetPinDirection, tm4cport.EParamPin)
	e.SetPinDirection(-1, tm4cport.Out)
	expectReport(t, rec, tm4cport.SIDSetPinDirection, tm4cport.EParamPin)
	e.SetPinDirection(0, tm4cport.Out)
	expectReport(t, rec, tm4cport.SIDSetPinDirection, tm4cport.EDirectionUnchangeable)
	if s.Writes() != 0 {
		t.Fatalf("rejected calls wrote %d times", s.Writes())
	}

	rec.Reset()
	e.SetPinDirection(1, tm4cport.Out)
	if rec.Len() != 0 {
		t.Fatalf("unexpected reports: %v", rec.Reports())
	}
	if !bit(s, tm4cport.PortA, tm4cport.OffDir, 2) {
		t.Fatal("PA2 should be output")
	}
	if s.Writes() != 1 {
		t.Fatalf("writes = %d, want only the DIR write", s.Writes())
	}
	e.SetPinDirection(1, tm4cport.In)
	if bit(s, tm4cport.PortA, tm4cport.OffDir, 2) {
		t.Fatal("PA2 should be input again")
	}
}

func muxImage(s *regbank.Shadow, p tm4cport.Port) [4]uint32 {
	return [4]uint32{
		s.Value(reg(p, tm4cport.OffAMSel)),
		s.Value(reg(p, tm4cport.OffAFSel)),
		s.Value(reg(p, tm4cport.OffPCTL)),
		s.Value(reg(p, tm4cport.OffDEN)),
	}
}

func TestSetPinMode_RejectedCallsWriteNothing(t *testing.T) {
	e, s, rec := newEngine(tm4cport.DefaultOptions())

	s.ResetWrites()
	e.SetPinMode(0, tm4cport.ModeUART)
	expectReport(t, rec, tm4cport.SIDSetPinMode, tm4cport.EUninit)
	if s.Writes() != 0 {
		t.Fatalf("uninitialised SetPinMode wrote %d registers", s.Writes())
	}

	fixed := pinCfg(tm4cport.PortA, 0, tm4cport.ModeDIO, tm4cport.In)
	e.Init(tm4cport.Table{fixed})
	before := muxImage(s, tm4cport.PortA)
	rec.Reset()
	s.ResetWrites()

	e.SetPinMode(0, tm4cport.ModeUART)
	expectReport(t, rec, tm4cport.SIDSetPinMode, tm4cport.EModeUnchangeable)
	e.SetPinMode(3, tm4cport.ModeUART)
	expectReport(t, rec, tm4cport.SIDSetPinMode, tm4cport.EParamPin)
	e.SetPinMode(0, tm4cport.NumModes)
	expectReport(t, rec, tm4cport.SIDSetPinMode, tm4cport.EParamInvalidMode)

	if s.Writes() != 0 {
		t.Fatalf("rejected SetPinMode wrote %d registers", s.Writes())
	}
	if after := muxImage(s, tm4cport.PortA); after != before {
		t.Fatalf("mux registers changed: %08X -> %08X", before, after)
	}
}

func TestSetPinMode(t *testing.T) {
	e, s, rec := newEngine(tm4cport.DefaultOptions())

	e.SetPinMode(0, tm4cport.ModeUART)
	expectReport(t, rec, tm4cport.SIDSetPinMode, tm4cport.EUninit)

	fixed := pinCfg(tm4cport.PortA, 0, tm4cport.ModeDIO, tm4cport.In)
	i2c := pinCfg(tm4cport.PortB, 2, tm4cport.ModeDIO, tm4cport.In)
	i2c.ModeChangeable = true
	e.Init(tm4cport.Table{fixed, i2c})
	rec.Reset()

	e.SetPinMode(5, tm4cport.ModeDIO)
	expectReport(t, rec, tm4cport.SIDSetPinMode, tm4cport.EParamPin)
	e.SetPinMode(1, tm4cport.NumModes)
	expectReport(t, rec, tm4cport.SIDSetPinMode, tm4cport.EParamInvalidMode)
	e.SetPinMode(0, tm4cport.ModeUART)
	expectReport(t, rec, tm4cport.SIDSetPinMode, tm4cport.EModeUnchangeable)

	rec.Reset()
	e.SetPinMode(1, tm4cport.ModeI2C)
	if rec.Len() != 0 {
		t.Fatalf("unexpected reports: %v", rec.Reports())
	}
	if n := bitx.Nibble(s.Value(reg(tm4cport.PortB, tm4cport.OffPCTL)), 2); n != 3 {
		t.Fatalf("PB2 PCTL = %d, want 3", n)
	}
	if !bit(s, tm4cport.PortB, tm4cport.OffAFSel, 2) || !bit(s, tm4cport.PortB, tm4cport.OffDEN, 2) {
		t.Fatal("PB2 should be an enabled alternate function")
	}

	// Back to GPIO.
	e.SetPinMode(1, tm4cport.ModeDIO)
	if bit(s, tm4cport.PortB, tm4cport.OffAFSel, 2) {
		t.Fatal("PB2 AFSEL should be cleared")
	}
	if n := bitx.Nibble(s.Value(reg(tm4cport.PortB, tm4cport.OffPCTL)), 2); n != 0 {
		t.Fatalf("PB2 PCTL = %d, want 0", n)
	}
}

func TestSetPinMode_IneligibleIsSilent(t *testing.T) {
	e, s, rec := newEngine(tm4cport.DefaultOptions())
	c := pinCfg(tm4cport.PortA, 0, tm4cport.ModeDIO, tm4cport.In)
	c.ModeChangeable = true
	e.Init(tm4cport.Table{c})
	s.ResetWrites()

	e.SetPinMode(0, tm4cport.ModeI2C)
	if rec.Len() != 0 || s.Writes() != 0 {
		t.Fatalf("reports=%d writes=%d, want a silent no-op", rec.Len(), s.Writes())
	}
}

func TestRefreshPortDirection(t *testing.T) {
	e, s, rec := newEngine(tm4cport.DefaultOptions())
	e.RefreshPortDirection()
	expectReport(t, rec, tm4cport.SIDRefreshPortDirection, tm4cport.EUninit)
	if s.Writes() != 0 {
		t.Fatal("refresh before init must not write")
	}

	out := pinCfg(tm4cport.PortA, 5, tm4cport.ModeDIO, tm4cport.Out)
	in := pinCfg(tm4cport.PortA, 6, tm4cport.ModeDIO, tm4cport.In)
	free := pinCfg(tm4cport.PortA, 7, tm4cport.ModeDIO, tm4cport.Out)
	free.DirectionChangeable = true
	e.Init(tm4cport.Table{out, in, free})

	before := s.Snapshot()
	s.ResetWrites()
	e.RefreshPortDirection()
	e.RefreshPortDirection()
	after := s.Snapshot()

	if s.Writes() != 4 {
		t.Fatalf("writes = %d, want 2 per refresh", s.Writes())
	}
	if len(before) != len(after) {
		t.Fatalf("register count changed: %d -> %d", len(before), len(after))
	}
	for a, v := range before {
		if after[a] != v {
			t.Fatalf("reg %#x changed %#x -> %#x", a, v, after[a])
		}
	}
}

func TestRefreshPortDirection_RestoresDrift(t *testing.T) {
	e, s, _ := newEngine(tm4cport.DefaultOptions())
	e.Init(tm4cport.Table{pinCfg(tm4cport.PortD, 2, tm4cport.ModeDIO, tm4cport.Out)})
	// Refresh rewrites what DIR holds; it does not reapply the table.
	s.Poke(reg(tm4cport.PortD, tm4cport.OffDir), 0)
	e.RefreshPortDirection()
	if bit(s, tm4cport.PortD, tm4cport.OffDir, 2) {
		t.Fatal("refresh should write back the current DIR value")
	}
}

func TestGetVersionInfo(t *testing.T) {
	e, s, rec := newEngine(tm4cport.DefaultOptions())

	e.GetVersionInfo(nil)
	expectReport(t, rec, tm4cport.SIDGetVersionInfo, tm4cport.EParamPointer)

	var vi tm4cport.VersionInfo
	e.GetVersionInfo(&vi)
	want := tm4cport.VersionInfo{VendorID: 1000, ModuleID: 124, SWMajor: 1, SWMinor: 0, SWPatch: 0}
	if vi != want {
		t.Fatalf("version = %+v, want %+v", vi, want)
	}
	if rec.Len() != 1 || s.Writes() != 0 {
		t.Fatalf("reports=%d writes=%d", rec.Len(), s.Writes())
	}
	if ma, mi, pa := tm4cport.ARVersion(); ma != 4 || mi != 0 || pa != 3 {
		t.Fatalf("AR version = %d.%d.%d", ma, mi, pa)
	}
}

func TestInit_ReapplyIsIdempotent(t *testing.T) {
	e, s, _ := newEngine(tm4cport.DefaultOptions())
	tbl := tm4cport.DefaultTable()
	e.Init(tbl)
	first := s.Snapshot()
	e.Init(tbl)
	second := s.Snapshot()
	for a, v := range first {
		if second[a] != v {
			t.Fatalf("reg %#x changed on re-init: %#x -> %#x", a, v, second[a])
		}
	}
}

func TestSetters_ConcurrentAfterInit(t *testing.T) {
	e, s, rec := newEngine(tm4cport.DefaultOptions())
	e.Init(tm4cport.DefaultTable())

	var wg sync.WaitGroup
	for i := tm4cport.PA0; i <= tm4cport.PA7; i++ {
		wg.Add(1)
		go func(pin int) {
			defer wg.Done()
			for k := 0; k < 50; k++ {
				e.SetPinDirection(pin, tm4cport.Out)
			}
		}(i)
	}
	wg.Wait()
	if rec.Len() != 0 {
		t.Fatalf("unexpected reports: %v", rec.Reports())
	}
	if got := s.Value(reg(tm4cport.PortA, tm4cport.OffDir)); got != 0xFF {
		t.Fatalf("port A DIR = %#x, want 0xFF", got)
	}
}
