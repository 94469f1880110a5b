package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gravadigital/fring-api/internal/config"
	"github.com/gravadigital/fring-api/internal/logger"
	"github.com/gravadigital/fring-api/internal/seed"
	"github.com/gravadigital/fring-api/internal/storage"
)

func main() {
	cfg := config.Load()

	logger.Setup(logger.Options{Level: cfg.LogLevel, JSON: cfg.JSONLogs()})
	log := logger.Get()

	users := flag.Int("users", 8, "Number of demo users")
	items := flag.Int("items", 2, "Clothing items per slot and user")
	seedValue := flag.Int64("seed", 0, "Random seed, 0 for a random one")
	flag.Parse()

	if cfg.IsProduction() {
		log.Error("Refusing to seed a production database")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	repos, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer repos.Close()

	res, err := seed.New(repos, *seedValue).Run(ctx, seed.Options{
		Users:        *users,
		ItemsPerSlot: *items,
	})
	if err != nil {
		log.Error("Seed failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Seeded %d users, %d items, %d ensembles and défi %s\n", res.Users, res.Items, res.Ensembles, res.ChallengeID)
}
