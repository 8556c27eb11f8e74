package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTLMap_SetGet(t *testing.T) {
	m := NewTTLMap(time.Minute)

	m.Set("k", []byte{1, 2, 3})
	v, ok := m.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, v)

	_, ok = m.Get("missing")
	assert.False(t, ok)
}

func TestTTLMap_Expiry(t *testing.T) {
	m := NewTTLMap(10 * time.Millisecond)

	m.Set("k", "v")
	time.Sleep(20 * time.Millisecond)

	_, ok := m.Get("k")
	assert.False(t, ok)

	m.Set("k", "v2")
	v, ok := m.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v2", v)
}

func TestTTLMap_DeleteAndClear(t *testing.T) {
	m := NewTTLMap(time.Minute)
	m.Set("a", 1)
	m.Set("b", 2)

	m.Delete("a")
	_, ok := m.Get("a")
	assert.False(t, ok)

	m.Clear()
	_, ok = m.Get("b")
	assert.False(t, ok)
}

func TestCache_NamedTTLMaps(t *testing.T) {
	c := NewCacheWithClient(nil)

	first := c.CreateTTLMap(KeyMaterialTTLName, time.Minute)
	second := c.CreateTTLMap(KeyMaterialTTLName, time.Hour)
	assert.Same(t, first, second)

	assert.Same(t, first, c.GetTTLMap(KeyMaterialTTLName))
	assert.Nil(t, c.GetTTLMap("unknown"))
}
