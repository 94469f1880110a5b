package weather

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/fring-api/internal/logger"
)

// Store is the key/value cache used for readings
type Store interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Cached serves readings from a Store before asking the provider.
// Cache failures are logged and the provider is used instead.
type Cached struct {
	provider Provider
	store    Store
	ttl      time.Duration
	log      *log.Logger
}

// NewCached wraps provider with store; readings live for ttl
func NewCached(provider Provider, store Store, ttl time.Duration) *Cached {
	return &Cached{
		provider: provider,
		store:    store,
		ttl:      ttl,
		log:      logger.WithContext("component", "weather_cache"),
	}
}

// CacheKey rounds coordinates to two decimals, about one kilometre
func CacheKey(lat, lon float64) string {
	return fmt.Sprintf("weather:%.2f:%.2f", lat, lon)
}

func (c *Cached) Current(ctx context.Context, lat, lon float64) (*Reading, error) {
	if err := ValidateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	key := CacheKey(lat, lon)
	var cached Reading
	hit, err := c.store.GetJSON(ctx, key, &cached)
	switch {
	case err != nil:
		c.log.Warn("Weather cache read failed", "key", key, "error", err)
	case hit:
		c.log.Debug("Weather cache hit", "key", key)
		return &cached, nil
	}

	reading, err := c.provider.Current(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	if err := c.store.SetJSON(ctx, key, reading, c.ttl); err != nil {
		c.log.Warn("Weather cache write failed", "key", key, "error", err)
	}
	return reading, nil
}
