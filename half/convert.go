package half

import "math"

// wideFormat describes an IEEE 754 binary interchange format wider than
// binary16.
type wideFormat struct {
	expBits  uint
	mantBits uint
	bias     int
	// nan is the pattern widening emits for every binary16 NaN.
	nan uint64
}

var (
	binary32 = wideFormat{expBits: 8, mantBits: 23, bias: 127, nan: 0xffc00000}
	binary64 = wideFormat{expBits: 11, mantBits: 52, bias: 1023, nan: 0xfff8000000000000}
)

func (w wideFormat) signShift() uint { return w.expBits + w.mantBits }

// narrow converts the wide pattern x to binary16. Precision below the kept
// mantissa is rounded by the first discarded bit alone.
func (w wideFormat) narrow(x uint64) uint16 {
	sign := uint16(x>>(w.signShift()-15)) & signMask16

	// Signed zero.
	if x&^(1<<w.signShift()) == 0 {
		return sign
	}

	exp := int(x>>w.mantBits) & (1<<w.expBits - 1)
	man := x & (1<<w.mantBits - 1)

	// Wide subnormals are far below the smallest binary16 subnormal.
	if exp == 0 {
		return sign
	}

	if exp == 1<<w.expBits-1 {
		if man == 0 {
			return sign | expMask16
		}
		return nanBits
	}

	e := exp - w.bias + bias16
	if e >= 0x1f {
		return sign | expMask16
	}

	drop := w.mantBits - mantBits16
	if e <= 0 {
		shift := drop + 1 + uint(-e)
		if shift > w.mantBits+1 {
			return sign
		}
		man |= 1 << w.mantBits
		h := man >> shift
		if (man>>(shift-1))&1 != 0 {
			h++
		}
		return sign | uint16(h)
	}

	// The increment may carry into the exponent, up to infinity.
	h := uint32(sign) | uint32(e)<<mantBits16 | uint32(man>>drop)
	if (man>>(drop-1))&1 != 0 {
		h++
	}
	return uint16(h)
}

// widen converts h to the wide format. It never rounds.
func (w wideFormat) widen(h uint16) uint64 {
	sign := uint64(h&signMask16) << (w.signShift() - 15)
	if h&^signMask16 == 0 {
		return sign
	}

	exp := int(h&expMask16) >> mantBits16
	man := uint64(h & mantMask16)

	if exp == 0x1f {
		if man == 0 {
			return sign | (1<<w.expBits-1)<<w.mantBits
		}
		return w.nan
	}

	drop := w.mantBits - mantBits16
	if exp == 0 {
		// Normalize: shift until the implicit bit appears.
		adj := 0
		m := man << 1
		for m&(1<<mantBits16) == 0 {
			adj++
			m <<= 1
		}
		e := uint64(-bias16 - adj + w.bias)
		return sign | e<<w.mantBits | (m&mantMask16)<<drop
	}

	e := uint64(exp - bias16 + w.bias)
	return sign | e<<w.mantBits | man<<drop
}

// FromFloat32 returns the binary16 value nearest to f. Values too large
// become infinities, values too small become signed zeros and every NaN
// becomes NaN().
func FromFloat32(f float32) Float16 {
	return Float16{bits: binary32.narrow(uint64(math.Float32bits(f)))}
}

// FromFloat64 is FromFloat32 for float64 input.
func FromFloat64(f float64) Float16 {
	return Float16{bits: binary64.narrow(math.Float64bits(f))}
}

// Float32 returns f as a float32. The conversion is exact except that every
// NaN widens to the same quiet NaN.
func (f Float16) Float32() float32 {
	return math.Float32frombits(uint32(binary32.widen(f.bits)))
}

// Float64 returns f as a float64. The conversion is exact except that every
// NaN widens to the same quiet NaN.
func (f Float16) Float64() float64 {
	return math.Float64frombits(binary64.widen(f.bits))
}
