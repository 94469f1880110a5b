package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gravadigital/fring-api/internal/config"
	"github.com/gravadigital/fring-api/internal/logger"
	"github.com/gravadigital/fring-api/internal/storage/migrations"
	"github.com/gravadigital/fring-api/internal/storage/postgres"
)

func main() {
	rollback := flag.Bool("rollback", false, "revert the most recent migration")
	showStatus := flag.Bool("status", false, "list migrations and when they were applied")
	flag.Parse()

	cfg := config.Load()
	logger.Setup(logger.Options{Level: cfg.LogLevel, JSON: cfg.JSONLogs()})
	log := logger.Migration()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := postgres.Connect(ctx, cfg)
	if err != nil {
		log.Fatal("Cannot reach database", "error", err)
	}
	defer postgres.Close(db)

	switch {
	case *showStatus:
		steps, err := migrations.Status(db.WithContext(ctx))
		if err != nil {
			log.Fatal("Cannot read migration status", "error", err)
		}
		for _, s := range steps {
			applied := "pending"
			if s.AppliedAt != nil {
				applied = s.AppliedAt.Format(time.RFC3339)
			}
			fmt.Printf("%s  %-36s %s\n", s.ID, s.Name, applied)
		}
	case *rollback:
		if err := migrations.Rollback(db.WithContext(ctx)); err != nil {
			log.Error("Rollback failed", "error", err)
			os.Exit(1)
		}
		log.Info("Rolled back one migration")
	default:
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Error("Migration failed", "error", err)
			os.Exit(1)
		}
	}
}
