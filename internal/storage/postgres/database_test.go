package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/gravadigital/fring-api/internal/config"
)

func TestCheckConfigListsEveryMissingField(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Host = "db"

	err := checkConfig(cfg)

	require.Error(t, err)
	for _, name := range []string{"DB_PORT", "DB_NAME", "DB_USER"} {
		assert.Contains(t, err.Error(), name)
	}
	assert.NotContains(t, err.Error(), "DB_HOST")
	assert.Error(t, checkConfig(nil))
}

func TestConnectRejectsIncompleteConfig(t *testing.T) {
	_, err := Connect(context.Background(), &config.Config{})

	assert.ErrorContains(t, err, "invalid database configuration")
}

func TestPing(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectPing()
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), GormConfig(false))
	require.NoError(t, err)

	mock.ExpectPing()
	assert.NoError(t, Ping(context.Background(), db))

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	assert.ErrorContains(t, Ping(context.Background(), db), "connection refused")

	assert.Error(t, Ping(context.Background(), nil))
}

func TestPoolStatsAndClose(t *testing.T) {
	db := newTestDB(t)

	stats := PoolStats(db)
	assert.GreaterOrEqual(t, stats.OpenConnections, 0)
	assert.Zero(t, stats.InUseConnections)

	assert.NoError(t, Close(nil))
}
