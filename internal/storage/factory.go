// Package storage picks the repository backend named by DB_DRIVER
package storage

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/gravadigital/fring-api/internal/config"
	"github.com/gravadigital/fring-api/internal/storage/postgres"
)

// Backend names a repository implementation
type Backend string

// BackendPostgres is the only production backend
const BackendPostgres Backend = "postgres"

type opener func(ctx context.Context, cfg *config.Config) (postgres.RepositoryContainer, error)

var openers = map[Backend]opener{
	BackendPostgres: func(ctx context.Context, cfg *config.Config) (postgres.RepositoryContainer, error) {
		return postgres.NewContainer(ctx, cfg)
	},
}

// Backends lists the registered backends, sorted
func Backends() []Backend {
	out := make([]Backend, 0, len(openers))
	for b := range openers {
		out = append(out, b)
	}
	slices.Sort(out)
	return out
}

// ParseBackend maps a DB_DRIVER value to a backend. Case and surrounding
// spaces are ignored; an empty value selects postgres.
func ParseBackend(s string) (Backend, error) {
	b := Backend(strings.ToLower(strings.TrimSpace(s)))
	if b == "" {
		return BackendPostgres, nil
	}
	if _, ok := openers[b]; !ok {
		return "", fmt.Errorf("unsupported DB_DRIVER %q, expected one of %v", s, Backends())
	}
	return b, nil
}

// Open connects, migrates and health-checks the backend selected by cfg.DB.Driver
func Open(ctx context.Context, cfg *config.Config) (postgres.RepositoryContainer, error) {
	b, err := ParseBackend(cfg.DB.Driver)
	if err != nil {
		return nil, err
	}
	return openers[b](ctx, cfg)
}
