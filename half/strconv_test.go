package half

import (
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want uint16
	}{
		{"3.25", 0x4280},
		{"1", 0x3c00},
		{"-2", 0xc000},
		{"0.1", 0x2e66},
		{"65504", 0x7bff},
		{"65520", 0x7c00},
		{"1e40", 0x7c00},
		{"-1e40", 0xfc00},
		{"2.0e-10", 0x0000},
		{"-0", 0x8000},
		{"+Inf", 0x7c00},
		{"-inf", 0xfc00},
		{"NaN", 0xfe00},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Bits(), "got 0x%04x", got.Bits())
		})
	}
}

func TestParseError(t *testing.T) {
	for _, in := range []string{"not-a-number-literal", "", "1.2.3", "0x"} {
		_, err := Parse(in)
		require.Error(t, err, "input %q", in)
		assert.True(t, errors.Is(err, strconv.ErrSyntax), "input %q: %v", in, err)

		var numErr *strconv.NumError
		require.True(t, errors.As(err, &numErr))
		assert.Equal(t, "ParseFloat", numErr.Func)
		assert.Equal(t, in, numErr.Num)
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		bits uint16
		want string
	}{
		{0x3c00, "1"},
		{0xc000, "-2"},
		{0x5b8f, "241.875"},
		{0x4280, "3.25"},
		{0x7bff, "65504"},
		{0x8000, "-0"},
		{0x7c00, "+Inf"},
		{0xfc00, "-Inf"},
		{0x7e00, "NaN"},
	}
	for _, tt := range tests {
		f := FromBits(tt.bits)
		assert.Equal(t, tt.want, f.String())
		assert.Equal(t, tt.want, fmt.Sprint(f))
		assert.Equal(t, tt.want, fmt.Sprintf("%v", f))
	}
}

func TestFormatDelegatesToFloat32(t *testing.T) {
	values := []Float16{FromBits(0x3c00), FromBits(0x5b8f), FromBits(0x0001), FromBits(0x2e66), Max, Inf(-1), NaN()}
	for _, format := range []string{"%e", "%E", "%g", "%G", "%f", "%.2f", "%10.3e", "%+v", "%-8g|", "%x"} {
		for _, f := range values {
			assert.Equal(t, fmt.Sprintf(format, f.Float32()), fmt.Sprintf(format, f), "format %q", format)
		}
	}
	assert.Equal(t, "1.000000e+00", fmt.Sprintf("%e", FromBits(0x3c00)))
	assert.Equal(t, "1.000000E+00", fmt.Sprintf("%E", FromBits(0x3c00)))
	assert.Equal(t, "3.25", fmt.Sprintf("%.2f", FromBits(0x4280)))
	assert.Equal(t, `"1"`, fmt.Sprintf("%q", FromBits(0x3c00)))
	assert.Equal(t, "   1", fmt.Sprintf("%4s", FromBits(0x3c00)))
}

func TestTextRoundTrip(t *testing.T) {
	for _, b := range []uint16{0x0000, 0x8000, 0x0001, 0x3555, 0x7bff, 0xfc00} {
		f := FromBits(b)
		text, err := f.MarshalText()
		require.NoError(t, err)

		var got Float16
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, b, got.Bits(), "text %s", text)
	}

	var f Float16
	assert.Error(t, f.UnmarshalText([]byte("bogus")))
}
