package half

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	one      = FromBits(0x3c00)
	two      = FromBits(0x4000)
	minusOne = FromBits(0xbc00)
	minusTwo = FromBits(0xc000)
	posZero  = FromBits(0x0000)
	negZero  = FromBits(0x8000)
)

func TestEqual(t *testing.T) {
	assert.True(t, one.Equal(FromFloat32(1)))
	assert.False(t, one.Equal(two))
	assert.False(t, NaN().Equal(NaN()))
	assert.False(t, NaN().Equal(one))
	assert.False(t, one.Equal(NaN()))
	// Equality is by encoding, so the two zeros differ.
	assert.False(t, posZero.Equal(negZero))
}

func TestPartialCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Float16
		want Ordering
	}{
		{"1 vs 2", one, two, OrderLess},
		{"2 vs 1", two, one, OrderGreater},
		{"equal", Max, Max, OrderEqual},
		{"nan left", NaN(), one, Unordered},
		{"nan right", one, NaN(), Unordered},
		{"nan self", NaN(), NaN(), Unordered},
		{"positive vs zero", SmallestSubnormal, posZero, OrderGreater},
		// Bit-pattern order: negatives sort after positives and by
		// magnitude among themselves.
		{"-1 vs 1", minusOne, one, OrderGreater},
		{"-1 vs -2", minusOne, minusTwo, OrderLess},
		{"-0 vs +0", negZero, posZero, OrderGreater},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.PartialCompare(tt.b)
			assert.Equal(t, tt.want, got, "got %s", got)

			assert.Equal(t, got == OrderLess, tt.a.Less(tt.b))
			assert.Equal(t, got == OrderLess || got == OrderEqual, tt.a.LessEqual(tt.b))
			assert.Equal(t, got == OrderGreater, tt.a.Greater(tt.b))
			assert.Equal(t, got == OrderGreater || got == OrderEqual, tt.a.GreaterEqual(tt.b))
			assert.Equal(t, got == OrderEqual, tt.a.Equal(tt.b))
		})
	}
}

func TestNaNNeverOrdered(t *testing.T) {
	for _, n := range []Float16{NaN(), FromBits(0x7c01), FromBits(0xffff)} {
		for _, x := range []Float16{n, one, Inf(1), Inf(-1), posZero} {
			assert.False(t, n.Less(x))
			assert.False(t, n.LessEqual(x))
			assert.False(t, n.Greater(x))
			assert.False(t, n.GreaterEqual(x))
			assert.False(t, x.Less(n))
			assert.False(t, x.GreaterEqual(n))
		}
	}
}

func TestTotalCompare(t *testing.T) {
	want := []Float16{
		FromBits(0xfe00), Inf(-1), Lowest, minusTwo, minusOne, FromBits(0x8001), negZero,
		posZero, SmallestSubnormal, MinPositive, one, two, Max, Inf(1), FromBits(0x7e00),
	}
	got := slices.Clone(want)
	slices.Reverse(got)
	slices.SortFunc(got, Float16.TotalCompare)
	assert.Equal(t, want, got)

	assert.Equal(t, -1, negZero.TotalCompare(posZero))
	assert.Equal(t, 1, minusOne.TotalCompare(minusTwo))
	assert.Equal(t, 0, one.TotalCompare(one))
}

func TestOrderingString(t *testing.T) {
	assert.Equal(t, "less", OrderLess.String())
	assert.Equal(t, "unordered", Unordered.String())
}
