package migrations

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func TestGetMigrationsOrdered(t *testing.T) {
	migrations := GetMigrations()
	require.NotEmpty(t, migrations)

	seen := map[string]bool{}
	previous := ""
	for _, m := range migrations {
		assert.False(t, seen[m.ID], "duplicate migration %s", m.ID)
		assert.Greater(t, m.ID, previous)
		assert.NotNil(t, m.Up)
		assert.NotNil(t, m.Down)
		seen[m.ID] = true
		previous = m.ID
	}
}

func TestAllModelsCoverTimestampedTables(t *testing.T) {
	type tabler interface{ TableName() string }

	tables := map[string]bool{}
	for _, model := range AllModels() {
		tm, ok := model.(tabler)
		require.True(t, ok, "%T has no TableName", model)
		tables[tm.TableName()] = true
	}

	for _, table := range timestampedTables {
		assert.True(t, tables[table], "trigger table %s is not a model", table)
	}
	assert.Len(t, tables, 11)
}

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func tableStep(id, table string) Migration {
	return Migration{
		ID:   id,
		Name: "create_" + table,
		Up: func(db *gorm.DB) error {
			return db.Exec("CREATE TABLE " + table + " (id INTEGER PRIMARY KEY)").Error
		},
		Down: func(db *gorm.DB) error {
			return db.Exec("DROP TABLE " + table).Error
		},
	}
}

func TestRunAppliesPendingStepsOnce(t *testing.T) {
	db := openSQLite(t)
	steps := []Migration{tableStep("001", "closets"), tableStep("002", "hangers")}

	require.NoError(t, run(db, steps))
	require.NoError(t, run(db, steps))

	assert.True(t, db.Migrator().HasTable("closets"))
	assert.True(t, db.Migrator().HasTable("hangers"))

	var count int64
	require.NoError(t, db.Model(&SchemaMigration{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestRunStopsAtFailingStep(t *testing.T) {
	db := openSQLite(t)
	broken := Migration{
		ID:   "002",
		Name: "broken",
		Up:   func(*gorm.DB) error { return errors.New("boom") },
		Down: func(*gorm.DB) error { return nil },
	}

	err := run(db, []Migration{tableStep("001", "closets"), broken, tableStep("003", "hangers")})

	require.ErrorContains(t, err, "migration 002 (broken)")
	assert.False(t, db.Migrator().HasTable("hangers"))

	st, err := status(db, []Migration{tableStep("001", "closets"), broken})
	require.NoError(t, err)
	require.Len(t, st, 2)
	assert.NotNil(t, st[0].AppliedAt)
	assert.Nil(t, st[1].AppliedAt)
}

func TestRollbackRevertsLastStep(t *testing.T) {
	db := openSQLite(t)
	steps := []Migration{tableStep("001", "closets"), tableStep("002", "hangers")}
	require.NoError(t, run(db, steps))

	require.NoError(t, rollback(db, steps))

	assert.True(t, db.Migrator().HasTable("closets"))
	assert.False(t, db.Migrator().HasTable("hangers"))

	require.NoError(t, rollback(db, steps))
	assert.ErrorIs(t, rollback(db, steps), ErrNothingToRollback)
}
