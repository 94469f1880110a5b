package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/fring-api/internal/domain/common"
	"github.com/gravadigital/fring-api/internal/logger"
	"github.com/gravadigital/fring-api/internal/retry"
)

// Reading is the current weather at a coordinate pair
type Reading struct {
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Temperature float64   `json:"temperature"`
	Code        int       `json:"code"`
	Description string    `json:"description"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// Provider returns the current weather for a position
type Provider interface {
	Current(ctx context.Context, lat, lon float64) (*Reading, error)
}

// Client calls the Open-Meteo forecast API
type Client struct {
	baseURL string
	http    *http.Client
	retry   retry.Options
	log     *log.Logger
}

// NewClient creates a client for baseURL using the given retry policy
func NewClient(baseURL string, opts retry.Options) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		retry:   opts,
		log:     logger.Client("open-meteo"),
	}
}

type forecastResponse struct {
	CurrentWeather *struct {
		Temperature float64 `json:"temperature"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
}

// ValidateCoordinates rejects positions outside the WGS84 ranges
func ValidateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return common.NewValidationError("latitude must be between -90 and 90")
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return common.NewValidationError("longitude must be between -180 and 180")
	}
	return nil
}

// Current fetches the current temperature and weather code
func (c *Client) Current(ctx context.Context, lat, lon float64) (*Reading, error) {
	if err := ValidateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	reading, err := retry.Do(ctx, func(ctx context.Context) (*Reading, error) {
		return c.fetch(ctx, lat, lon)
	}, c.retry)
	if err != nil {
		c.log.Error("Failed to fetch weather", "lat", lat, "lon", lon, "error", err)
		if retry.IsRetryable(err) {
			return nil, common.NewUnavailableError("weather provider unavailable", err)
		}
		return nil, common.NewInternalError("weather provider error", err)
	}

	c.log.Debug("Weather fetched", "lat", lat, "lon", lon, "temperature", reading.Temperature, "code", reading.Code)
	return reading, nil
}

func (c *Client) fetch(ctx context.Context, lat, lon float64) (*Reading, error) {
	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	query.Set("longitude", strconv.FormatFloat(lon, 'f', 4, 64))
	query.Set("current_weather", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/forecast?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build weather request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach weather provider: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read weather response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &retry.StatusError{Provider: "open-meteo", StatusCode: resp.StatusCode}
	}

	var parsed forecastResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse weather response: %w", err)
	}
	if parsed.CurrentWeather == nil {
		return nil, fmt.Errorf("weather response has no current_weather")
	}

	return &Reading{
		Latitude:    lat,
		Longitude:   lon,
		Temperature: parsed.CurrentWeather.Temperature,
		Code:        parsed.CurrentWeather.WeatherCode,
		Description: Describe(parsed.CurrentWeather.WeatherCode),
		FetchedAt:   time.Now(),
	}, nil
}

// Describe maps a WMO weather code to a French description
func Describe(code int) string {
	switch {
	case code == 0:
		return "ciel dégagé"
	case code >= 1 && code <= 3:
		return "partiellement nuageux"
	case code == 45 || code == 48:
		return "brouillard"
	case code >= 51 && code <= 57:
		return "bruine"
	case code >= 61 && code <= 67:
		return "pluie"
	case code >= 71 && code <= 77:
		return "neige"
	case code >= 80 && code <= 82:
		return "averses"
	case code == 85 || code == 86:
		return "averses de neige"
	case code >= 95:
		return "orage"
	default:
		return "conditions inconnues"
	}
}
