package half

// Category is the IEEE 754 class of a value.
type Category int

const (
	CategoryZero Category = iota
	CategorySubnormal
	CategoryNormal
	CategoryInfinite
	CategoryNaN
)

func (c Category) String() string {
	switch c {
	case CategoryZero:
		return "zero"
	case CategorySubnormal:
		return "subnormal"
	case CategoryNormal:
		return "normal"
	case CategoryInfinite:
		return "infinite"
	case CategoryNaN:
		return "nan"
	default:
		return "unknown"
	}
}

// IsNaN reports whether f is a NaN.
func (f Float16) IsNaN() bool {
	return f.bits&expMask16 == expMask16 && f.bits&mantMask16 != 0
}

// IsInf reports whether f is an infinity of either sign.
func (f Float16) IsInf() bool {
	return f.bits&expMask16 == expMask16 && f.bits&mantMask16 == 0
}

// IsFinite reports whether f is neither an infinity nor a NaN.
func (f Float16) IsFinite() bool {
	return f.bits&expMask16 != expMask16
}

// IsNormal reports whether f is neither zero, subnormal, infinite nor NaN.
func (f Float16) IsNormal() bool {
	exp := f.bits & expMask16
	return exp != expMask16 && exp != 0
}

// Classify returns the category of f.
func (f Float16) Classify() Category {
	exp := f.bits & expMask16
	man := f.bits & mantMask16
	switch {
	case exp == 0 && man == 0:
		return CategoryZero
	case exp == 0:
		return CategorySubnormal
	case exp == expMask16 && man == 0:
		return CategoryInfinite
	case exp == expMask16:
		return CategoryNaN
	default:
		return CategoryNormal
	}
}

// Signum returns f unchanged if it is a NaN, and otherwise a zero carrying
// the sign of f. It does not return ±1.
func (f Float16) Signum() Float16 {
	if f.IsNaN() {
		return f
	}
	return Float16{bits: f.bits & signMask16}
}

// IsSignPositive reports whether the sign bit of f is clear. It holds for +0
// and for NaNs without the sign bit.
func (f Float16) IsSignPositive() bool {
	return f.bits&signMask16 == 0
}

// IsSignNegative reports whether the sign bit of f is set.
func (f Float16) IsSignNegative() bool {
	return f.bits&signMask16 != 0
}
