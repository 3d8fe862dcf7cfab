package half

import (
	"errors"
	"fmt"
	"strconv"
)

// Parse parses s as a float32 literal with strconv.ParseFloat and narrows the
// result. Syntax errors are returned unchanged as *strconv.NumError. A
// literal beyond the float32 range is not an error: it narrows to an
// infinity.
func Parse(s string) (Float16, error) {
	v, err := strconv.ParseFloat(s, 32)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return Float16{}, err
	}
	return FromFloat32(float32(v)), nil
}

// String formats f like a float32 printed with %v.
func (f Float16) String() string {
	return strconv.FormatFloat(float64(f.Float32()), 'g', -1, 32)
}

// Format implements fmt.Formatter. Every verb, flag, width and precision is
// handed to the float32 formatter, so %e, %E, %f and %g print exactly what
// they print for f.Float32().
func (f Float16) Format(s fmt.State, verb rune) {
	switch verb {
	case 's', 'q':
		fmt.Fprintf(s, fmt.FormatString(s, verb), f.String())
	default:
		fmt.Fprintf(s, fmt.FormatString(s, verb), f.Float32())
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f Float16) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Float16) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}
