package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopCache_NuncaEncuentra(t *testing.T) {
	ctx := context.Background()
	c := NoopCache{}
	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.Delete(ctx, "k"))
}

// TestRedisCache_Integracion requiere un Redis real: REDIS_ADDR=localhost:6379 go test ./...
func TestRedisCache_Integracion(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR no definido")
	}
	ctx := context.Background()
	c := NewRedisCache(addr, os.Getenv("REDIS_PASSWORD"), 0)
	defer c.Close()
	require.NoError(t, c.Ping(ctx))

	key := "pods:test:" + time.Now().Format("150405.000000000")
	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, key, []byte(`{"a":1}`), time.Minute))
	val, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"a":1}`, string(val))

	require.NoError(t, c.Delete(ctx, key))
	_, ok, err = c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}
