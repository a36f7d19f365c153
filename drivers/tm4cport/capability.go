package tm4cport

// fnKind says how an eligible pin is muxed for a mode.
type fnKind uint8

const (
	kindNone    fnKind = iota // pin cannot carry the mode
	kindGPIO                  // plain digital I/O
	kindDigital               // alternate function selected through PCTL
	kindAnalog                // analog function: AMSEL on, DEN off
)

// capability is the silicon answer for one (mode, ordinal) pair.
type capability struct {
	kind     fnKind
	selector uint8 // PCTL nibble for kindDigital
	// rival, when >= 0, is the ordinal whose claim on rivalSel demotes this
	// pin to demoted. Used for UART1 which can sit on PB0/PB1 or PC4/PC5.
	rival    int8
	rivalSel uint8
	demoted  uint8
}

var capabilities = buildCapabilities()

func buildCapabilities() (t [NumModes][NumOrdinals]capability) {
	for m := range t {
		for o := range t[m] {
			t[m][o].rival = -1
		}
	}
	digital := func(m Mode, sel uint8, ords ...int) {
		for _, o := range ords {
			t[m][o].kind = kindDigital
			t[m][o].selector = sel
		}
	}
	analog := func(m Mode, ords ...int) {
		for _, o := range ords {
			t[m][o].kind = kindAnalog
		}
	}
	span := func(from, to int) []int {
		s := make([]int, 0, to-from+1)
		for o := from; o <= to; o++ {
			s = append(s, o)
		}
		return s
	}

	for o := 0; o < NumOrdinals; o++ {
		t[ModeDIO][o].kind = kindGPIO
	}

	analog(ModeADC, append([]int{PB4, PB5}, append(span(PD0, PD3), span(PE0, PE5)...)...)...)

	digital(ModeUART, 1, PA0, PA1, PB0, PB1, PC6, PC7, PD4, PD5, PD6, PD7, PE0, PE1, PE4, PE5, PF0, PF1)
	digital(ModeUART, 2, PC4, PC5)
	t[ModeUART][PC4].rival, t[ModeUART][PC4].rivalSel, t[ModeUART][PC4].demoted = PB0, 1, 1
	t[ModeUART][PC5].rival, t[ModeUART][PC5].rivalSel, t[ModeUART][PC5].demoted = PB1, 1, 1

	digital(ModeSSI, 2, append(span(PA2, PA5), append(span(PB4, PB7), span(PF0, PF3)...)...)...)
	digital(ModeSSI, 1, span(PD0, PD3)...)

	digital(ModeI2C, 3, PA6, PA7, PB2, PB3, PD0, PD1, PE4, PE5)

	digital(ModeCAN, 8, PA0, PA1, PB4, PB5, PE4, PE5)
	digital(ModeCAN, 3, PF0, PF3)

	analog(ModeUSB, PB0, PB1, PD4, PD5)
	digital(ModeUSB, 8, PC6, PC7, PD2, PD3, PF4)

	digital(ModeGPT, 7, append(span(PB0, PB7), append(span(PC4, PC7), append(span(PD0, PD7), span(PF0, PF4)...)...)...)...)

	digital(ModePWM, 4, PB4, PB5, PB6, PB7, PC4, PC5, PD0, PD1, PD2, PD6, PE4, PE5, PF2)
	digital(ModePWM, 5, PA6, PA7, PF0, PF1, PF3, PF4)

	digital(ModeQEI, 6, PC4, PC5, PC6, PD3, PD6, PD7, PF0, PF1, PF4)

	analog(ModeAnalogComp, span(PC4, PC7)...)
	digital(ModeAnalogComp, 9, PF0, PF1)

	digital(ModeNMI, 8, PD7, PF0)

	digital(ModeTrace, 14, span(PF1, PF3)...)

	// The debug port stays on JTAG/SWD whatever is requested.
	for m := range t {
		for _, o := range span(PC0, PC3) {
			t[m][o] = capability{rival: -1}
		}
	}
	return t
}

func lookup(m Mode, ord int) capability {
	if m >= NumModes || ord < 0 || ord >= NumOrdinals {
		return capability{rival: -1}
	}
	return capabilities[m][ord]
}

// Capable reports whether the pin at ordinal can carry mode m. For digital
// alternate functions selector is the default PCTL value; analog reports an
// analog function.
func Capable(m Mode, ord int) (selector uint8, analog, ok bool) {
	c := lookup(m, ord)
	switch c.kind {
	case kindGPIO:
		return 0, false, true
	case kindDigital:
		return c.selector, false, true
	case kindAnalog:
		return 0, true, true
	}
	return 0, false, false
}
