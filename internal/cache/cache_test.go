package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyIsStableAndPrefixed(t *testing.T) {
	a := Key("courses", "https://api.example/courses?page=1")
	b := Key("courses", "https://api.example/courses?page=1")
	c := Key("courses", "https://api.example/courses?page=2")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.True(t, strings.HasPrefix(a, "courses:"))
	assert.Len(t, strings.TrimPrefix(a, "courses:"), 64)
	assert.NotEqual(t, a, Key("subject_areas", "https://api.example/courses?page=1"))
}

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute, time.Minute)

	_, ok, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "k", []byte("v"), 0))
	got, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), got)
}

func TestRedisRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	ctx := context.Background()
	r := NewRedis(RedisOptions{Addr: mr.Addr()})
	defer r.Close()

	require.NoError(t, r.Ping(ctx))

	_, ok, err := r.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.Set(ctx, "k", []byte(`{"data":[]}`), time.Minute))
	got, ok, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"data":[]}`, string(got))

	mr.FastForward(2 * time.Minute)
	_, ok, err = r.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisSetWithoutTTLStillExpires(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	ctx := context.Background()
	r := NewRedis(RedisOptions{Addr: mr.Addr(), DefaultTTL: time.Minute})
	defer r.Close()

	require.NoError(t, r.Set(ctx, "k", []byte("v"), 0))
	assert.Equal(t, time.Minute, mr.TTL("k"))

	mr.FastForward(2 * time.Minute)
	_, ok, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNopNeverHits(t *testing.T) {
	ctx := context.Background()
	var s Store = Nop{}
	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Minute))
	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}
