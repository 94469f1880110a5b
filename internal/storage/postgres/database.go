package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/gravadigital/fring-api/internal/config"
	"github.com/gravadigital/fring-api/internal/logger"
	"github.com/gravadigital/fring-api/internal/retry"
	"github.com/gravadigital/fring-api/internal/storage/migrations"
)

const (
	pingTimeout     = 5 * time.Second
	connMaxIdleTime = 30 * time.Minute
)

// DatabaseMetrics is a snapshot of the connection pool
type DatabaseMetrics struct {
	OpenConnections  int   `json:"open_connections"`
	InUseConnections int   `json:"in_use_connections"`
	IdleConnections  int   `json:"idle_connections"`
	WaitCount        int64 `json:"wait_count"`
}

// GormConfig is shared by the server, the tools and the tests.
// TranslateError lets repositories match gorm.ErrDuplicatedKey.
func GormConfig(debug bool) *gorm.Config {
	level := gormLogger.Silent
	if debug {
		level = gormLogger.Info
	}
	return &gorm.Config{
		Logger:         gormLogger.Default.LogMode(level),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	}
}

// Connect opens the pool described by cfg.DB. Open and ping are retried
// so the API can boot alongside a database that is still starting.
func Connect(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	log := logger.Database()

	if err := checkConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid database configuration: %w", err)
	}

	opts := retry.Options{
		MaxRetries: cfg.Retry.MaxRetries,
		BaseDelay:  2 * cfg.Retry.BaseDelay,
		Retryable:  func(error) bool { return true },
	}
	gormCfg := GormConfig(cfg.Server.GinMode == "debug")

	db, err := retry.Do(ctx, func(ctx context.Context) (*gorm.DB, error) {
		db, err := gorm.Open(postgres.Open(cfg.GetDatabaseURL()), gormCfg)
		if err != nil {
			log.Warn("open failed", "host", cfg.DB.Host, "error", err)
			return nil, err
		}
		if err := Ping(ctx, db); err != nil {
			log.Warn("ping failed", "host", cfg.DB.Host, "error", err)
			_ = Close(db)
			return nil, err
		}
		return db, nil
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("database unreachable after %d attempts: %w", opts.MaxRetries, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	log.Info("Connected to PostgreSQL",
		"host", cfg.DB.Host,
		"database", cfg.DB.Name,
		"max_open_conns", cfg.DB.MaxOpenConns,
		"max_idle_conns", cfg.DB.MaxIdleConns)
	return db, nil
}

func checkConfig(cfg *config.Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	required := []struct{ env, value string }{
		{"DB_HOST", cfg.DB.Host},
		{"DB_PORT", cfg.DB.Port},
		{"DB_NAME", cfg.DB.Name},
		{"DB_USER", cfg.DB.User},
	}
	var errs []error
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("%s is empty", r.env))
		}
	}
	return errors.Join(errs...)
}

// Ping checks the connection within a short deadline
func Ping(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return errors.New("database connection is nil")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// PoolStats reads the pool counters. A closed handle reports zeros.
func PoolStats(db *gorm.DB) DatabaseMetrics {
	sqlDB, err := db.DB()
	if err != nil {
		return DatabaseMetrics{}
	}
	s := sqlDB.Stats()
	return DatabaseMetrics{
		OpenConnections:  s.OpenConnections,
		InUseConnections: s.InUse,
		IdleConnections:  s.Idle,
		WaitCount:        s.WaitCount,
	}
}

// Migrate applies pending schema migrations
func Migrate(ctx context.Context, db *gorm.DB) error {
	log := logger.Migration()

	if err := Ping(ctx, db); err != nil {
		return err
	}
	start := time.Now()
	if err := migrations.Run(db.WithContext(ctx)); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	log.Info("Schema up to date", "duration", time.Since(start))
	return nil
}

// Close releases the pool. A nil handle is a no-op.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	pool := PoolStats(db)
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	logger.Database().Info("Database pool closed", "in_use_at_close", pool.InUseConnections)
	return nil
}
