package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/23skdu/longbow-halfprec/half"
)

func TestMapCache(t *testing.T) {
	c := NewMapCache(0)
	vec := []half.Float16{half.FromFloat32(1), half.NaN()}

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Put("a", vec)
	got, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, vec, got)
	assert.Equal(t, 1, c.Size())

	// Stored and returned slices are copies.
	vec[0] = half.Max
	got[1] = half.Max
	again, _ := c.Get("a")
	assert.Equal(t, uint16(0x3c00), again[0].Bits())
	assert.True(t, again[1].IsNaN())
}

func TestMapCacheLimit(t *testing.T) {
	c := NewMapCache(2)
	c.Put("a", nil)
	c.Put("b", nil)
	c.Put("b", nil)
	assert.Equal(t, 2, c.Size())

	c.Put("c", nil)
	assert.Equal(t, 2, c.Size())
	_, ok := c.Get("c")
	assert.True(t, ok)
}

func TestMapCacheConcurrent(t *testing.T) {
	c := NewMapCache(16)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := Key([]byte{byte(i)})
			c.Put(key, []half.Float16{half.FromUint8(uint8(i))})
			_, _ = c.Get(key)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 8, c.Size())
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key([]byte("payload")), Key([]byte("payload")))
	assert.NotEqual(t, Key([]byte("payload")), Key([]byte("payload2")))
	assert.NotEmpty(t, Key(nil))
}
