package half

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinary(t *testing.T) {
	b, err := FromBits(0x3c00).MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x3c}, b)

	var f Float16
	require.NoError(t, f.UnmarshalBinary([]byte{0x8f, 0x5b}))
	assert.Equal(t, uint16(0x5b8f), f.Bits())

	assert.Error(t, f.UnmarshalBinary([]byte{0x01}))
	assert.Error(t, f.UnmarshalBinary([]byte{0x01, 0x02, 0x03}))
}

func TestCBOR(t *testing.T) {
	t.Run("half floats are bit exact", func(t *testing.T) {
		in := []Float16{FromBits(0x3c00), NaN(), FromBits(0x7c01), FromBits(0x8000)}
		data, err := cbor.Marshal(in)
		require.NoError(t, err)
		assert.Equal(t, []byte{
			0x84,
			0xf9, 0x3c, 0x00,
			0xf9, 0xfe, 0x00,
			0xf9, 0x7c, 0x01,
			0xf9, 0x80, 0x00,
		}, data)

		var out []Float16
		require.NoError(t, cbor.Unmarshal(data, &out))
		require.Len(t, out, len(in))
		for i := range in {
			assert.Equal(t, in[i].Bits(), out[i].Bits())
		}
	})

	t.Run("wider numbers are narrowed", func(t *testing.T) {
		data, err := cbor.Marshal([]any{1.5, float32(65520), 2, -3})
		require.NoError(t, err)

		var out []Float16
		require.NoError(t, cbor.Unmarshal(data, &out))
		require.Len(t, out, 4)
		assert.Equal(t, uint16(0x3e00), out[0].Bits())
		assert.Equal(t, uint16(0x7c00), out[1].Bits())
		assert.Equal(t, uint16(0x4000), out[2].Bits())
		assert.Equal(t, uint16(0xc200), out[3].Bits())
	})

	t.Run("non numbers fail", func(t *testing.T) {
		data, err := cbor.Marshal("text")
		require.NoError(t, err)

		var f Float16
		assert.Error(t, cbor.Unmarshal(data, &f))
	})

	t.Run("struct field", func(t *testing.T) {
		type sample struct {
			Value Float16 `cbor:"value"`
		}
		data, err := cbor.Marshal(sample{Value: Max})
		require.NoError(t, err)

		var got sample
		require.NoError(t, cbor.Unmarshal(data, &got))
		assert.Equal(t, Max, got.Value)
	})
}
