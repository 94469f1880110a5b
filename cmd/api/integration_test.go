//go:build integration
// +build integration

package main

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/fring-api/internal/config"
	"github.com/gravadigital/fring-api/internal/domain/profile"
	"github.com/gravadigital/fring-api/internal/storage/postgres"
)

// Integration tests that require a real PostgreSQL database
// Run with: go test -tags=integration ./cmd/api

func testConfig() *config.Config {
	cfg := config.Load()
	if testDB := os.Getenv("TEST_DB_NAME"); testDB != "" {
		cfg.DB.Name = testDB
	}
	cfg.Retry.MaxRetries = 1
	return cfg
}

func TestDatabaseConnection(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := postgres.Connect(ctx, testConfig())
	require.NoError(t, err, "Should be able to connect to test database")
	defer postgres.Close(db)

	assert.NoError(t, postgres.Ping(ctx, db), "Should be able to ping the database")
}

func TestDatabaseMigration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := postgres.Connect(ctx, testConfig())
	require.NoError(t, err, "Should be able to connect to test database")
	defer postgres.Close(db)

	assert.NoError(t, postgres.Migrate(ctx, db), "Should be able to run migrations")
	// a second run finds every migration recorded
	assert.NoError(t, postgres.Migrate(ctx, db))
}

func TestContainerRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repos, err := postgres.NewContainer(ctx, testConfig())
	require.NoError(t, err)
	defer repos.Close()

	p := profile.NewProfile(uuid.New(), "it-"+uuid.NewString()[:8]+"@example.com", "integration")
	require.NoError(t, repos.Profiles().Create(ctx, p))
	defer repos.Profiles().Delete(ctx, p.ID)

	got, err := repos.Profiles().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Email, got.Email)

	stats, err := repos.DatabaseStats(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, stats.Tables)
}
