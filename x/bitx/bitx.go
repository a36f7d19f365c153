// Package bitx holds the bit and nibble helpers used for register programming.
package bitx

import "golang.org/x/exp/constraints"

// Set returns v with bit n set.
func Set[T constraints.Unsigned](v T, n uint8) T { return v | (T(1) << n) }

// Clear returns v with bit n cleared.
func Clear[T constraints.Unsigned](v T, n uint8) T { return v &^ (T(1) << n) }

// IsSet reports whether bit n of v is set.
func IsSet[T constraints.Unsigned](v T, n uint8) bool { return v&(T(1)<<n) != 0 }

// Assign sets or clears bit n depending on on.
func Assign[T constraints.Unsigned](v T, n uint8, on bool) T {
	if on {
		return Set(v, n)
	}
	return Clear(v, n)
}

// Nibble returns the 4-bit field at index i (bits 4i..4i+3).
func Nibble[T constraints.Unsigned](v T, i uint8) uint8 {
	return uint8((v >> (i * 4)) & 0xF)
}

// WithNibble replaces the 4-bit field at index i with x.
func WithNibble[T constraints.Unsigned](v T, i uint8, x uint8) T {
	shift := i * 4
	return (v &^ (T(0xF) << shift)) | (T(x&0xF) << shift)
}

// Merge keeps the bits of old selected by keep and takes the rest from new.
func Merge[T constraints.Unsigned](old, new, keep T) T {
	return (old & keep) | (new &^ keep)
}
