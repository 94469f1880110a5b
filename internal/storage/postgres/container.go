package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/gravadigital/fring-api/internal/config"
	"github.com/gravadigital/fring-api/internal/logger"
)

// Container implements RepositoryContainer interface
type Container struct {
	db             *gorm.DB
	log            *log.Logger
	profileRepo    ProfileRepository
	itemRepo       ItemRepository
	ensembleRepo   EnsembleRepository
	voteRepo       VoteRepository
	challengeRepo  ChallengeRepository
	friendshipRepo FriendshipRepository
	favoriteRepo   FavoriteRepository
	messageRepo    MessageRepository
	activityRepo   ActivityRepository
	stats          *StatsReader
}

// NewContainer connects, migrates and returns a container with all repositories initialized
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	log := logger.Repository("postgres_container")
	log.Info("Initializing PostgreSQL repository container...")

	db, err := Connect(ctx, cfg)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(ctx, db); err != nil {
		log.Error("Failed to run migrations", "error", err)
		_ = Close(db)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	container := NewContainerWithDB(db)
	if err := container.Health(); err != nil {
		log.Error("Container health check failed", "error", err)
		_ = Close(db)
		return nil, fmt.Errorf("container health check failed: %w", err)
	}

	log.Info("PostgreSQL repository container initialized successfully")
	return container, nil
}

// NewContainerWithDB creates a container with an existing database connection
func NewContainerWithDB(db *gorm.DB) *Container {
	return &Container{
		db:             db,
		log:            logger.Repository("postgres_container"),
		profileRepo:    NewPostgresProfileRepository(db),
		itemRepo:       NewPostgresItemRepository(db),
		ensembleRepo:   NewPostgresEnsembleRepository(db),
		voteRepo:       NewPostgresVoteRepository(db),
		challengeRepo:  NewPostgresChallengeRepository(db),
		friendshipRepo: NewPostgresFriendshipRepository(db),
		favoriteRepo:   NewPostgresFavoriteRepository(db),
		messageRepo:    NewPostgresMessageRepository(db),
		activityRepo:   NewPostgresActivityRepository(db),
		stats:          NewStatsReader(db),
	}
}

func (c *Container) Profiles() ProfileRepository {
	return c.profileRepo
}

func (c *Container) Items() ItemRepository {
	return c.itemRepo
}

func (c *Container) Ensembles() EnsembleRepository {
	return c.ensembleRepo
}

func (c *Container) Votes() VoteRepository {
	return c.voteRepo
}

func (c *Container) Challenges() ChallengeRepository {
	return c.challengeRepo
}

func (c *Container) Friendships() FriendshipRepository {
	return c.friendshipRepo
}

func (c *Container) Favorites() FavoriteRepository {
	return c.favoriteRepo
}

func (c *Container) Messages() MessageRepository {
	return c.messageRepo
}

func (c *Container) Activity() ActivityRepository {
	return c.activityRepo
}

// WithTransaction commits when fn returns nil and rolls back otherwise
func (c *Container) WithTransaction(ctx context.Context, fn func(tx RepositoryContainer) error) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c.log.Debug("Database transaction started")
		return fn(NewContainerWithDB(tx))
	})
}

// DatabaseStats reports table sizes and pool metrics
func (c *Container) DatabaseStats(ctx context.Context) (*DatabaseStats, error) {
	return c.stats.Collect(ctx)
}

// GetDB returns the underlying database connection
func (c *Container) GetDB() *gorm.DB {
	return c.db
}

// Health checks the connection and that every application table answers a count
func (c *Container) Health() error {
	c.log.Debug("Performing container health check...")

	if err := Ping(context.Background(), c.db); err != nil {
		c.log.Error("Database health check failed", "error", err)
		return err
	}

	pool := PoolStats(c.db)
	c.log.Debug("Connection pool",
		"open", pool.OpenConnections,
		"in_use", pool.InUseConnections,
		"idle", pool.IdleConnections)

	var errs []error
	for _, table := range ApplicationTables {
		var count int64
		if err := c.db.Table(table).Limit(1).Count(&count).Error; err != nil {
			c.log.Error("Repository health check failed", "table", table, "error", err)
			errs = append(errs, fmt.Errorf("table %s: %w", table, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	c.log.Debug("Container health check completed successfully")
	return nil
}

// Close shuts down the container and closes database connections
func (c *Container) Close() error {
	c.log.Info("Closing PostgreSQL repository container...")

	if c.db == nil {
		c.log.Warn("Database connection is nil, nothing to close")
		return nil
	}
	if err := Close(c.db); err != nil {
		return err
	}
	c.db = nil

	c.log.Info("PostgreSQL repository container closed successfully")
	return nil
}
