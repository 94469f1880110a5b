package services

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/gravadigital/fring-api/internal/domain/common"
	"github.com/gravadigital/fring-api/internal/domain/suggestion"
	"github.com/gravadigital/fring-api/internal/logger"
	"github.com/gravadigital/fring-api/internal/storage/postgres"
	"github.com/gravadigital/fring-api/internal/weather"
)

// SuggestionService proposes an outfit for the current weather
type SuggestionService struct {
	repos   postgres.RepositoryContainer
	weather weather.Provider
	log     *log.Logger
}

// NewSuggestionService creates a new suggestion service
func NewSuggestionService(repos postgres.RepositoryContainer, provider weather.Provider) *SuggestionService {
	return &SuggestionService{
		repos:   repos,
		weather: provider,
		log:     logger.Service("suggestion"),
	}
}

// Suggest reads the weather at lat/lon and picks an outfit from userID's wardrobe
func (s *SuggestionService) Suggest(ctx context.Context, userID uuid.UUID, lat, lon float64) (*suggestion.Suggestion, error) {
	if err := weather.ValidateCoordinates(lat, lon); err != nil {
		return nil, err
	}
	if s.weather == nil {
		return nil, common.NewUnavailableError("weather provider is not configured", nil)
	}

	reading, err := s.weather.Current(ctx, lat, lon)
	if err != nil {
		return nil, err
	}
	items, err := s.repos.Items().ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := suggestion.Suggest(items, suggestion.Weather{
		Temperature: reading.Temperature,
		Description: reading.Description,
	})
	s.log.Debug("Suggestion computed", "user_id", userID, "band", result.Band, "missing", len(result.Missing))
	return &result, nil
}
