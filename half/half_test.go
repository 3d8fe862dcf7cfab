package half

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstants(t *testing.T) {
	tests := []struct {
		name string
		f    Float16
		want float64
	}{
		{"Max", Max, 65504},
		{"Lowest", Lowest, -65504},
		{"MinPositive", MinPositive, math.Ldexp(1, -14)},
		{"SmallestSubnormal", SmallestSubnormal, math.Ldexp(1, -24)},
		{"Epsilon", Epsilon, math.Ldexp(1, -10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.f.Float64())
		})
	}

	// One plus epsilon is the next representable value after one.
	assert.Equal(t, uint16(0x3c01), FromFloat64(1+Epsilon.Float64()).Bits())

	assert.True(t, NaN().IsNaN())
	assert.Equal(t, uint16(0xfe00), NaN().Bits())
	assert.Equal(t, uint16(0x7c00), Inf(1).Bits())
	assert.Equal(t, uint16(0x7c00), Inf(0).Bits())
	assert.Equal(t, uint16(0xfc00), Inf(-1).Bits())

	assert.Less(t, Max.Float64(), math.Ldexp(1, MaxExp))
	assert.GreaterOrEqual(t, Max.Float64(), math.Ldexp(1, MaxExp-1))
	assert.Equal(t, MinPositive.Float64(), math.Ldexp(1, MinExp-1))
	assert.Less(t, Max.Float64(), math.Pow10(Max10Exp+1))
	assert.Greater(t, MinPositive.Float64(), math.Pow10(Min10Exp-1))
}

func TestBits(t *testing.T) {
	for _, b := range []uint16{0, 1, 0x3c00, 0x7fff, 0x8000, 0xffff} {
		assert.Equal(t, b, FromBits(b).Bits())
	}
	var zero Float16
	assert.Equal(t, uint16(0), zero.Bits())
	assert.Equal(t, CategoryZero, zero.Classify())
}

func TestFromInts(t *testing.T) {
	for i := math.MinInt8; i <= math.MaxInt8; i++ {
		assert.Equal(t, float32(i), FromInt8(int8(i)).Float32())
	}
	for i := 0; i <= math.MaxUint8; i++ {
		assert.Equal(t, float32(i), FromUint8(uint8(i)).Float32())
	}
}

func TestAbsNeg(t *testing.T) {
	assert.Equal(t, uint16(0x3c00), FromBits(0xbc00).Abs().Bits())
	assert.Equal(t, uint16(0x3c00), FromBits(0x3c00).Abs().Bits())
	assert.Equal(t, uint16(0xbc00), FromBits(0x3c00).Neg().Bits())
	assert.Equal(t, uint16(0x0000), FromBits(0x8000).Neg().Bits())
	assert.True(t, NaN().Abs().IsNaN())
}
