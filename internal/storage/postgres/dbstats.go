package postgres

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/gravadigital/fring-api/internal/logger"
)

// TableStats is the live size of one application table
type TableStats struct {
	TableName    string     `json:"table_name"`
	LiveRows     int64      `json:"live_rows"`
	TableSize    string     `json:"table_size"`
	IndexSize    string     `json:"index_size"`
	LastAnalyzed *time.Time `json:"last_analyzed"`
}

// DatabaseStats is what the admin database endpoint reports
type DatabaseStats struct {
	Tables      []TableStats    `json:"tables"`
	Connections DatabaseMetrics `json:"connections"`
}

// StatsReader reads PostgreSQL statistics views
type StatsReader struct {
	db  *gorm.DB
	log *log.Logger
}

// NewStatsReader creates a reader over db
func NewStatsReader(db *gorm.DB) *StatsReader {
	return &StatsReader{
		db:  db,
		log: logger.Repository("stats"),
	}
}

// Collect returns per-table sizes and pool metrics. A failing statistics
// query is logged and reported with an empty table list.
func (s *StatsReader) Collect(ctx context.Context) (*DatabaseStats, error) {
	stats := &DatabaseStats{
		Tables:      []TableStats{},
		Connections: PoolStats(s.db),
	}

	rows, err := s.db.WithContext(ctx).Raw(`
		SELECT
			relname AS table_name,
			n_live_tup AS live_rows,
			pg_size_pretty(pg_total_relation_size(relid)) AS table_size,
			pg_size_pretty(pg_indexes_size(relid)) AS index_size,
			GREATEST(last_analyze, last_autoanalyze) AS last_analyzed
		FROM pg_stat_user_tables
		WHERE relname IN ?
		ORDER BY pg_total_relation_size(relid) DESC
	`, ApplicationTables).Rows()
	if err != nil {
		s.log.Warn("failed to read table statistics", "error", err)
		return stats, nil
	}
	defer rows.Close()

	for rows.Next() {
		var t TableStats
		if err := rows.Scan(&t.TableName, &t.LiveRows, &t.TableSize, &t.IndexSize, &t.LastAnalyzed); err != nil {
			s.log.Warn("failed to scan table statistics", "error", err)
			continue
		}
		stats.Tables = append(stats.Tables, t)
	}
	return stats, rows.Err()
}

// ApplicationTables lists every table owned by the API
var ApplicationTables = []string{
	"profiles",
	"clothing_items",
	"outfits",
	"outfit_items",
	"votes",
	"challenges",
	"participations",
	"friendships",
	"favorites",
	"messages",
	"activity_logs",
}
