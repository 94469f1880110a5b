// Package app wires the long-lived dependencies of the API process
package app

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/fring-api/internal/cache"
	"github.com/gravadigital/fring-api/internal/config"
	"github.com/gravadigital/fring-api/internal/connectivity"
	"github.com/gravadigital/fring-api/internal/detection"
	"github.com/gravadigital/fring-api/internal/logger"
	"github.com/gravadigital/fring-api/internal/realtime"
	"github.com/gravadigital/fring-api/internal/retry"
	"github.com/gravadigital/fring-api/internal/services"
	"github.com/gravadigital/fring-api/internal/storage"
	"github.com/gravadigital/fring-api/internal/storage/objectstore"
	"github.com/gravadigital/fring-api/internal/storage/postgres"
	"github.com/gravadigital/fring-api/internal/weather"
)

// State holds the resources shared by every request
type State struct {
	Config   *config.Config
	Repos    postgres.RepositoryContainer
	Cache    *cache.Store
	Photos   *objectstore.Store
	Hub      *realtime.Hub
	Services *services.Services

	log *log.Logger
}

// Init connects to the database and the optional backends. Redis and the
// object store are optional: without them the weather cache is skipped and
// photo operations answer as unavailable.
func Init(ctx context.Context, cfg *config.Config) (*State, error) {
	s := &State{
		Config: cfg,
		Hub:    realtime.NewHub(),
		log:    logger.Service("app"),
	}

	repos, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	s.Repos = repos

	checker := connectivity.NewChecker(cfg.Connectivity.ProbeURL, cfg.Connectivity.Timeout)
	retryOpts := retry.Options{
		MaxRetries: cfg.Retry.MaxRetries,
		BaseDelay:  cfg.Retry.BaseDelay,
		Online:     checker.Online,
	}

	var provider weather.Provider = weather.NewClient(cfg.Weather.BaseURL, retryOpts)
	if store, err := cache.Connect(ctx, cfg.Redis.URL); err != nil {
		s.log.Warn("Redis unavailable, weather readings will not be cached", "error", err)
	} else {
		s.Cache = store
		provider = weather.NewCached(provider, store, cfg.Redis.WeatherTTL)
	}

	deps := services.Deps{
		Repos:    repos,
		Notifier: s.Hub,
		Detector: detection.NewClient(cfg.Detection.URL, cfg.Detection.APIKey, retryOpts),
		Weather:  provider,
	}

	if cfg.Storage.AccessKey == "" {
		s.log.Warn("Object storage credentials missing, photo uploads are disabled")
	} else {
		photos, err := s.openPhotos(ctx)
		if err != nil {
			s.log.Warn("Object storage unavailable, photo uploads are disabled", "error", err)
		} else {
			s.Photos = photos
			deps.Photos = photos
		}
	}

	s.Services = services.New(deps)
	s.log.Info("Application state initialized",
		"cache", s.Cache != nil,
		"photos", s.Photos != nil,
		"detection", cfg.Detection.URL != "")
	return s, nil
}

func (s *State) openPhotos(ctx context.Context) (*objectstore.Store, error) {
	st := s.Config.Storage
	photos, err := objectstore.New(st.Endpoint, st.AccessKey, st.SecretKey, st.Bucket, st.Region, st.UseSSL)
	if err != nil {
		return nil, err
	}
	if err := photos.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return photos, nil
}

// Close releases the hub, Redis and the database pool, in that order
func (s *State) Close() error {
	s.Hub.Close()

	if s.Cache != nil {
		if err := s.Cache.Close(); err != nil {
			s.log.Warn("Failed to close redis", "error", err)
		}
	}

	if s.Repos != nil {
		if err := s.Repos.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	return nil
}
