package half

import (
	"encoding/binary"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// cborHalfHead is the initial byte of a CBOR half-precision float
// (major type 7, additional information 25).
const cborHalfHead = 0xf9

// MarshalBinary encodes f as two little-endian bytes.
func (f Float16) MarshalBinary() ([]byte, error) {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, f.bits)
	return b, nil
}

// UnmarshalBinary decodes two little-endian bytes.
func (f *Float16) UnmarshalBinary(data []byte) error {
	if len(data) != 2 {
		return fmt.Errorf("half: binary encoding must be 2 bytes, got %d", len(data))
	}
	f.bits = binary.LittleEndian.Uint16(data)
	return nil
}

// MarshalCBOR encodes f as a CBOR half-precision float. The encoding is
// bit-exact, NaN payloads included.
func (f Float16) MarshalCBOR() ([]byte, error) {
	return []byte{cborHalfHead, byte(f.bits >> 8), byte(f.bits)}, nil
}

// UnmarshalCBOR decodes a CBOR half-precision float bit-exactly. Any other
// CBOR number is decoded as a float64 and narrowed.
func (f *Float16) UnmarshalCBOR(data []byte) error {
	if len(data) == 3 && data[0] == cborHalfHead {
		f.bits = binary.BigEndian.Uint16(data[1:])
		return nil
	}
	var v float64
	if err := cbor.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("half: decode cbor number: %w", err)
	}
	*f = FromFloat64(v)
	return nil
}
