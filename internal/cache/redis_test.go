package cache

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Temperature float64 `json:"temperature"`
	Description string  `json:"description"`
}

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, "test:"), mr
}

func TestSetAndGetJSON(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := t.Context()

	require.NoError(t, store.SetJSON(ctx, "weather:1", payload{Temperature: 12.5, Description: "pluie"}, time.Minute))
	assert.True(t, mr.Exists("test:weather:1"))

	var got payload
	hit, err := store.GetJSON(ctx, "weather:1", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "pluie", got.Description)
}

func TestGetJSONMissAndExpiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := t.Context()

	var got payload
	hit, err := store.GetJSON(ctx, "absent", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, store.SetJSON(ctx, "short", payload{}, 10*time.Minute))
	mr.FastForward(11 * time.Minute)

	hit, err = store.GetJSON(ctx, "short", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestGetJSONDropsCorruptEntry(t *testing.T) {
	store, mr := newTestStore(t)
	require.NoError(t, mr.Set("test:bad", "{not json"))

	var got payload
	hit, err := store.GetJSON(t.Context(), "bad", &got)

	require.NoError(t, err)
	assert.False(t, hit)
	assert.False(t, mr.Exists("test:bad"))
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()

	store, err := Connect(t.Context(), addr)
	require.NoError(t, err)
	defer store.Close()
	assert.NoError(t, store.Ping(t.Context()))

	mr.Close()
	_, err = Connect(t.Context(), addr)
	assert.Error(t, err)
}
