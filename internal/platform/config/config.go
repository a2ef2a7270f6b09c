package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// External rate APIs
	FiatRateAPIURL   string
	CryptoRateAPIURL string

	// Rate staleness policy
	RateCacheTTL       time.Duration
	CryptoRateCacheTTL time.Duration
	RateGraceWindow    time.Duration
	RateFetchTimeout   time.Duration

	// Request rate limiting, in ulule/limiter notation (e.g. "120-M")
	APIRateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("FIAT_RATE_API_URL", "https://api.frankfurter.app")
	viper.SetDefault("CRYPTO_RATE_API_URL", "https://api.coingecko.com/api/v3")
	viper.SetDefault("RATE_CACHE_TTL", "15m")
	viper.SetDefault("CRYPTO_RATE_CACHE_TTL", "5m")
	viper.SetDefault("RATE_GRACE_WINDOW", "24h")
	viper.SetDefault("RATE_FETCH_TIMEOUT", "5s")
	viper.SetDefault("API_RATE_LIMIT", "120-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL not set. Historical rate valuation will be unavailable.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.FiatRateAPIURL = viper.GetString("FIAT_RATE_API_URL")
	cfg.CryptoRateAPIURL = viper.GetString("CRYPTO_RATE_API_URL")
	cfg.APIRateLimit = viper.GetString("API_RATE_LIMIT")

	cfg.RateCacheTTL = parseDurationOrDefault("RATE_CACHE_TTL", 15*time.Minute)
	cfg.CryptoRateCacheTTL = parseDurationOrDefault("CRYPTO_RATE_CACHE_TTL", 5*time.Minute)
	cfg.RateGraceWindow = parseDurationOrDefault("RATE_GRACE_WINDOW", 24*time.Hour)
	cfg.RateFetchTimeout = parseDurationOrDefault("RATE_FETCH_TIMEOUT", 5*time.Second)

	return cfg, nil
}

func parseDurationOrDefault(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: Invalid value for %s (%q). Defaulting to %s.\n", key, raw, fallback)
		return fallback
	}
	return d
}
