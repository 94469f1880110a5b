package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	Port        string
	LogLevel    string
	LogFormat   string

	DB struct {
		Driver          string
		Host            string
		Port            string
		User            string
		Password        string
		Name            string
		SSLMode         string
		MaxOpenConns    int
		MaxIdleConns    int
		ConnMaxLifetime time.Duration
	}

	Server struct {
		Port    string
		GinMode string
	}

	Auth struct {
		JWTSecret string
		Issuer    string
	}

	Redis struct {
		URL        string
		WeatherTTL time.Duration
	}

	Storage struct {
		Endpoint    string
		AccessKey   string
		SecretKey   string
		Bucket      string
		Region      string
		UseSSL      bool
		MaxFileSize int64
	}

	Weather struct {
		BaseURL string
	}

	Detection struct {
		URL    string
		APIKey string
	}

	Connectivity struct {
		ProbeURL string
		Timeout  time.Duration
	}

	Retry struct {
		MaxRetries int
		BaseDelay  time.Duration
	}

	CORS struct {
		AllowOrigins string
		AllowMethods string
		AllowHeaders string
	}
}

// Load loads configuration from environment variables
func Load() *Config {
	_ = godotenv.Load()

	config := &Config{}

	config.Environment = getEnv("APP_ENV", "development")
	config.LogLevel = getEnv("LOG_LEVEL", "info")
	config.LogFormat = getEnv("LOG_FORMAT", "text")

	config.DB.Driver = getEnv("DB_DRIVER", "postgres")
	config.DB.Host = getEnv("DB_HOST", "localhost")
	config.DB.Port = getEnv("DB_PORT", "5432")
	config.DB.User = getEnv("DB_USER", "fring")
	config.DB.Password = getEnv("DB_PASSWORD", "fring_password")
	config.DB.Name = getEnv("DB_NAME", "fring_db")
	config.DB.SSLMode = getEnv("DB_SSLMODE", "disable")
	config.DB.MaxOpenConns = int(getEnvAsInt64("DB_MAX_OPEN_CONNS", 50))
	config.DB.MaxIdleConns = int(getEnvAsInt64("DB_MAX_IDLE_CONNS", 10))
	config.DB.ConnMaxLifetime = getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour)

	config.Server.Port = getEnv("PORT", "8080")
	config.Server.GinMode = getEnv("GIN_MODE", "debug")
	config.Port = config.Server.Port

	config.Auth.JWTSecret = getEnv("AUTH_JWT_SECRET", "")
	config.Auth.Issuer = getEnv("AUTH_JWT_ISSUER", "")

	config.Redis.URL = getEnv("REDIS_URL", "localhost:6379")
	config.Redis.WeatherTTL = getEnvAsDuration("WEATHER_CACHE_TTL", 10*time.Minute)

	config.Storage.Endpoint = getEnv("STORAGE_ENDPOINT", "localhost:9000")
	config.Storage.AccessKey = getEnv("STORAGE_ACCESS_KEY", "")
	config.Storage.SecretKey = getEnv("STORAGE_SECRET_KEY", "")
	config.Storage.Bucket = getEnv("STORAGE_BUCKET", "clothing")
	config.Storage.Region = getEnv("STORAGE_REGION", "")
	config.Storage.UseSSL = getEnvAsBool("STORAGE_USE_SSL", false)
	config.Storage.MaxFileSize = getEnvAsInt64("MAX_FILE_SIZE", 10485760)

	config.Weather.BaseURL = getEnv("WEATHER_BASE_URL", "https://api.open-meteo.com")

	config.Detection.URL = getEnv("DETECTION_URL", "")
	config.Detection.APIKey = getEnv("DETECTION_API_KEY", "")

	config.Connectivity.ProbeURL = getEnv("CONNECTIVITY_PROBE_URL", "")
	config.Connectivity.Timeout = getEnvAsDuration("CONNECTIVITY_TIMEOUT", 3*time.Second)

	config.Retry.MaxRetries = int(getEnvAsInt64("RETRY_MAX_ATTEMPTS", 3))
	config.Retry.BaseDelay = getEnvAsDuration("RETRY_BASE_DELAY", time.Second)

	config.CORS.AllowOrigins = getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173")
	config.CORS.AllowMethods = getEnv("CORS_ALLOW_METHODS", "GET,POST,PUT,PATCH,DELETE,HEAD,OPTIONS")
	config.CORS.AllowHeaders = getEnv("CORS_ALLOW_HEADERS", "Origin,Content-Length,Content-Type,Authorization")

	return config
}

// GetDatabaseURL returns the database connection URL
func (c *Config) GetDatabaseURL() string {
	return "postgres://" + c.DB.User + ":" + c.DB.Password + "@" + c.DB.Host + ":" + c.DB.Port + "/" + c.DB.Name + "?sslmode=" + c.DB.SSLMode
}

// JSONLogs reports whether logs are written as JSON lines
func (c *Config) JSONLogs() bool {
	return strings.EqualFold(c.LogFormat, "json")
}

// IsProduction reports whether the service runs with production settings
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// SplitList splits a comma separated config value, dropping empty entries
func SplitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt64 gets an environment variable as int64 or returns a default value
func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go duration strings ("1500ms", "2s")
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
