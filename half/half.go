// Package half implements the IEEE 754 binary16 ("half precision") format.
//
// A Float16 is stored as its raw 16-bit pattern: bit 15 is the sign, bits
// 14-10 the exponent (bias 15) and bits 9-0 the mantissa. Every pattern is a
// valid value. Values are immutable; all operations return a new value.
//
// The package converts to and from float32 and float64, classifies values,
// orders them and parses/formats them through the float32 routines of the
// standard library. It deliberately provides no arithmetic.
package half

const (
	signMask16 = 0x8000
	expMask16  = 0x7c00
	mantMask16 = 0x03ff
	mantBits16 = 10
	bias16     = 15

	nanBits = 0xfe00
)

// Introspection constants, mirroring the ones Go and C expose for the wide
// formats.
const (
	Digits         = 3
	MantissaDigits = 11
	MaxExp         = 16
	MinExp         = -13
	Max10Exp       = 4
	Min10Exp       = -4
	Radix          = 2
)

// Float16 is an IEEE 754 binary16 value.
//
// The zero value is positive zero. Comparing two Float16 with == compares bit
// patterns; use Equal for NaN-aware equality.
type Float16 struct {
	bits uint16
}

var (
	// Max is the largest finite value, 65504.
	Max = Float16{bits: 0x7bff}
	// Lowest is the most negative finite value, -65504.
	Lowest = Float16{bits: 0xfbff}
	// MinPositive is the smallest positive normal value, 2^-14.
	MinPositive = Float16{bits: 0x0400}
	// SmallestSubnormal is the smallest positive value, 2^-24.
	SmallestSubnormal = Float16{bits: 0x0001}
	// Epsilon is the difference between 1 and the next larger value, 2^-10.
	Epsilon = Float16{bits: 0x1400}
)

// FromBits returns the value whose binary16 encoding is b.
func FromBits(b uint16) Float16 {
	return Float16{bits: b}
}

// Bits returns the binary16 encoding of f.
func (f Float16) Bits() uint16 {
	return f.bits
}

// NaN returns the canonical quiet NaN. Every NaN produced by narrowing has
// this encoding.
func NaN() Float16 {
	return Float16{bits: nanBits}
}

// Inf returns positive infinity if sign >= 0, negative infinity if sign < 0.
func Inf(sign int) Float16 {
	if sign < 0 {
		return Float16{bits: signMask16 | expMask16}
	}
	return Float16{bits: expMask16}
}

// FromInt8 converts v. Every int8 is exactly representable.
func FromInt8(v int8) Float16 {
	return FromFloat32(float32(v))
}

// FromUint8 converts v. Every uint8 is exactly representable.
func FromUint8(v uint8) Float16 {
	return FromFloat32(float32(v))
}

// Abs returns f with the sign bit cleared.
func (f Float16) Abs() Float16 {
	return Float16{bits: f.bits &^ signMask16}
}

// Neg returns f with the sign bit flipped.
func (f Float16) Neg() Float16 {
	return Float16{bits: f.bits ^ signMask16}
}
