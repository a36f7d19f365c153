// Package conv formats numbers into caller buffers without fmt or strconv,
// for MCU builds where the formatted log lines are assembled by hand.
package conv

const hexDigits = "0123456789ABCDEF"

// Utoa writes the base-10 form of n into the tail of buf and returns it.
// buf should be at least 20 bytes.
func Utoa(buf []byte, n uint64) []byte {
	if len(buf) == 0 {
		return buf[:0]
	}
	i := len(buf)
	if n == 0 {
		i--
		buf[i] = '0'
		return buf[i:]
	}
	for n > 0 && i > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return buf[i:]
}

// hexN writes the low digits hex digits of n, zero padded, uppercase.
func hexN(buf []byte, n uint32, digits int) []byte {
	if len(buf) < digits {
		return buf[:0]
	}
	i := len(buf)
	for j := 0; j < digits; j++ {
		i--
		buf[i] = hexDigits[n&0xF]
		n >>= 4
	}
	return buf[i:]
}

// U8Hex writes two hex digits.
func U8Hex(buf []byte, n uint8) []byte { return hexN(buf, uint32(n), 2) }

// U32Hex writes eight hex digits.
func U32Hex(buf []byte, n uint32) []byte { return hexN(buf, n, 8) }

// Atou parses a non-empty run of decimal digits. It fails on any other
// byte and on overflow.
func Atou(s string) (uint64, bool) {
	if s == "" {
		return 0, false
	}
	var n uint64
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		d := uint64(c - '0')
		if n > (1<<64-1-d)/10 {
			return 0, false
		}
		n = n*10 + d
	}
	return n, true
}
