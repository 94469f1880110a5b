package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/fring-api/internal/domain/common"
	"github.com/gravadigital/fring-api/internal/retry"
)

func fastRetry() retry.Options {
	return retry.Options{MaxRetries: 3, BaseDelay: time.Millisecond}
}

func TestClientCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/forecast", r.URL.Path)
		assert.Equal(t, "48.8566", r.URL.Query().Get("latitude"))
		assert.Equal(t, "true", r.URL.Query().Get("current_weather"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"current_weather":{"temperature":21.5,"weathercode":61}}`))
	}))
	defer srv.Close()

	reading, err := NewClient(srv.URL, fastRetry()).Current(t.Context(), 48.8566, 2.3522)

	require.NoError(t, err)
	assert.InDelta(t, 21.5, reading.Temperature, 0.001)
	assert.Equal(t, "pluie", reading.Description)
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"current_weather":{"temperature":3,"weathercode":0}}`))
	}))
	defer srv.Close()

	reading, err := NewClient(srv.URL, fastRetry()).Current(t.Context(), 10, 10)

	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, "ciel dégagé", reading.Description)
}

func TestClientUnavailableAfterRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, fastRetry()).Current(t.Context(), 10, 10)

	assert.True(t, common.IsKind(err, common.KindUnavailable))
	assert.Equal(t, int32(3), calls.Load())
}

func TestClientRejectsBadCoordinates(t *testing.T) {
	_, err := NewClient("http://unused", fastRetry()).Current(t.Context(), 91, 0)
	assert.True(t, common.IsKind(err, common.KindValidation))
}

type memoryStore struct {
	data    map[string]Reading
	failGet bool
}

func (m *memoryStore) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	if m.failGet {
		return false, errors.New("cache down")
	}
	r, ok := m.data[key]
	if ok {
		*dest.(*Reading) = r
	}
	return ok, nil
}

func (m *memoryStore) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	m.data[key] = *value.(*Reading)
	return nil
}

type countingProvider struct {
	calls int
}

func (p *countingProvider) Current(_ context.Context, lat, lon float64) (*Reading, error) {
	p.calls++
	return &Reading{Latitude: lat, Longitude: lon, Temperature: 18}, nil
}

func TestCachedServesSecondReadFromStore(t *testing.T) {
	provider := &countingProvider{}
	cached := NewCached(provider, &memoryStore{data: map[string]Reading{}}, time.Minute)

	_, err := cached.Current(t.Context(), 45.001, 4.001)
	require.NoError(t, err)
	r, err := cached.Current(t.Context(), 45.002, 4.002)
	require.NoError(t, err)

	assert.Equal(t, 1, provider.calls)
	assert.InDelta(t, 18, r.Temperature, 0.001)
}

func TestCachedFallsBackOnStoreFailure(t *testing.T) {
	provider := &countingProvider{}
	cached := NewCached(provider, &memoryStore{data: map[string]Reading{}, failGet: true}, time.Minute)

	_, err := cached.Current(t.Context(), 1, 1)

	require.NoError(t, err)
	assert.Equal(t, 1, provider.calls)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "orage", Describe(95))
	assert.Equal(t, "neige", Describe(73))
	assert.Equal(t, "conditions inconnues", Describe(-1))
}
