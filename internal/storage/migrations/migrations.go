package migrations

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/gravadigital/fring-api/internal/logger"
)

// ErrNothingToRollback is returned when no migration has been applied
var ErrNothingToRollback = errors.New("no applied migration to roll back")

// Migration is one reversible schema step
type Migration struct {
	ID   string
	Name string
	Up   func(*gorm.DB) error
	Down func(*gorm.DB) error
}

// SchemaMigration records an applied step
type SchemaMigration struct {
	ID        string    `gorm:"primaryKey;size:10"`
	Name      string    `gorm:"size:255;not null"`
	AppliedAt time.Time `gorm:"not null"`
}

func (SchemaMigration) TableName() string { return "schema_migrations" }

// StepStatus pairs a known migration with the time it was applied, if any
type StepStatus struct {
	ID        string
	Name      string
	AppliedAt *time.Time
}

// GetMigrations returns the schema steps in application order
func GetMigrations() []Migration {
	return []Migration{
		{ID: "001", Name: "create_extensions", Up: migration001Up, Down: migration001Down},
		{ID: "002", Name: "create_core_tables", Up: migration002Up, Down: migration002Down},
		{ID: "003", Name: "create_indexes", Up: migration003Up, Down: migration003Down},
		{ID: "004", Name: "create_constraints_and_triggers", Up: migration004Up, Down: migration004Down},
		{ID: "005", Name: "create_search_indexes_and_views", Up: migration005Up, Down: migration005Down},
	}
}

// Run applies every pending migration
func Run(db *gorm.DB) error {
	return run(db, GetMigrations())
}

// Rollback reverts the most recently applied migration
func Rollback(db *gorm.DB) error {
	return rollback(db, GetMigrations())
}

// Status reports every known migration and whether it has been applied
func Status(db *gorm.DB) ([]StepStatus, error) {
	return status(db, GetMigrations())
}

func run(db *gorm.DB, steps []Migration) error {
	log := logger.Migration()

	applied, err := appliedSet(db)
	if err != nil {
		return err
	}

	pending := 0
	for _, m := range steps {
		if _, ok := applied[m.ID]; ok {
			continue
		}
		pending++
		log.Info("Applying migration", "id", m.ID, "name", m.Name)
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.Up(tx); err != nil {
				return fmt.Errorf("migration %s (%s): %w", m.ID, m.Name, err)
			}
			return tx.Create(&SchemaMigration{ID: m.ID, Name: m.Name, AppliedAt: time.Now().UTC()}).Error
		})
		if err != nil {
			return err
		}
	}

	log.Info("Migrations done", "applied", pending, "known", len(steps))
	return nil
}

func rollback(db *gorm.DB, steps []Migration) error {
	if err := db.AutoMigrate(&SchemaMigration{}); err != nil {
		return fmt.Errorf("schema_migrations: %w", err)
	}

	var last SchemaMigration
	err := db.Order("applied_at DESC").Order("id DESC").Take(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNothingToRollback
	}
	if err != nil {
		return fmt.Errorf("read last migration: %w", err)
	}

	for _, m := range steps {
		if m.ID != last.ID {
			continue
		}
		logger.Migration().Info("Rolling back migration", "id", m.ID, "name", m.Name)
		return db.Transaction(func(tx *gorm.DB) error {
			if err := m.Down(tx); err != nil {
				return fmt.Errorf("rollback %s (%s): %w", m.ID, m.Name, err)
			}
			return tx.Delete(&SchemaMigration{}, "id = ?", m.ID).Error
		})
	}
	return fmt.Errorf("applied migration %s is unknown to this binary", last.ID)
}

func status(db *gorm.DB, steps []Migration) ([]StepStatus, error) {
	applied, err := appliedSet(db)
	if err != nil {
		return nil, err
	}
	out := make([]StepStatus, 0, len(steps))
	for _, m := range steps {
		s := StepStatus{ID: m.ID, Name: m.Name}
		if at, ok := applied[m.ID]; ok {
			s.AppliedAt = &at
		}
		out = append(out, s)
	}
	return out, nil
}

func appliedSet(db *gorm.DB) (map[string]time.Time, error) {
	if err := db.AutoMigrate(&SchemaMigration{}); err != nil {
		return nil, fmt.Errorf("schema_migrations: %w", err)
	}
	var rows []SchemaMigration
	if err := db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	set := make(map[string]time.Time, len(rows))
	for _, r := range rows {
		set[r.ID] = r.AppliedAt
	}
	return set, nil
}
