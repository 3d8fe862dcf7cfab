package codec

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/23skdu/longbow-halfprec/half"
)

var (
	// ErrOddLength is returned when a byte payload is not a whole number of
	// 16-bit values.
	ErrOddLength = errors.New("codec: payload length is not a multiple of 2")
	// ErrRagged is returned when vectors in one batch have different
	// dimensions.
	ErrRagged = errors.New("codec: vectors have different dimensions")
)

// Narrow appends the binary16 form of every value in src to dst.
func Narrow(dst []half.Float16, src []float32) []half.Float16 {
	for _, v := range src {
		dst = append(dst, half.FromFloat32(v))
	}
	return dst
}

// Narrow64 is Narrow for float64 input.
func Narrow64(dst []half.Float16, src []float64) []half.Float16 {
	for _, v := range src {
		dst = append(dst, half.FromFloat64(v))
	}
	return dst
}

// Widen appends the float32 form of every value in src to dst.
func Widen(dst []float32, src []half.Float16) []float32 {
	for _, v := range src {
		dst = append(dst, v.Float32())
	}
	return dst
}

// Widen64 is Widen for float64 output.
func Widen64(dst []float64, src []half.Float16) []float64 {
	for _, v := range src {
		dst = append(dst, v.Float64())
	}
	return dst
}

// Encode serializes values as consecutive 16-bit patterns in the given byte
// order.
func Encode(order binary.ByteOrder, values []half.Float16) []byte {
	buf := make([]byte, 2*len(values))
	for i, v := range values {
		order.PutUint16(buf[2*i:], v.Bits())
	}
	return buf
}

// Decode is the inverse of Encode.
func Decode(order binary.ByteOrder, data []byte) ([]half.Float16, error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("decode %d bytes: %w", len(data), ErrOddLength)
	}
	out := make([]half.Float16, len(data)/2)
	for i := range out {
		out[i] = half.FromBits(order.Uint16(data[2*i:]))
	}
	return out, nil
}

// Flatten concatenates vectors of one dimension and returns the dimension.
func Flatten(vectors [][]float32) ([]float32, int, error) {
	if len(vectors) == 0 {
		return nil, 0, nil
	}
	dim := len(vectors[0])
	flat := make([]float32, 0, dim*len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, 0, fmt.Errorf("vector %d has %d values, want %d: %w", i, len(v), dim, ErrRagged)
		}
		flat = append(flat, v...)
	}
	return flat, dim, nil
}
