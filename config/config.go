package config

import (
	"os"
	"time"
)

// Config holds application configuration
type Config struct {
	ServerPort        string
	AWSRegion         string
	TableName         string
	S3Bucket          string
	InvitationTTL     time.Duration
	StorePollInterval time.Duration
	TMDBBaseURL       string
	TMDBImageBaseURL  string
	TMDBAPIKey        string
	JWTSecret         string
	TokenTTL          time.Duration
	SESFromEmail      string
	SESFromName       string
	AppBaseURL        string
	RateLimitPerMin   int
	RateLimitBurst    int
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		ServerPort:        getEnv("PORT", "8080"),
		AWSRegion:         getEnv("AWS_REGION", "eu-central-1"),
		TableName:         getEnv("DYNAMO_TABLE", "CoupleSwipeDocuments"),
		S3Bucket:          getEnv("S3_BUCKET_NAME", ""),
		InvitationTTL:     getDuration("INVITATION_TTL", 20*time.Second),
		StorePollInterval: getDuration("STORE_POLL_INTERVAL", 2*time.Second),
		TMDBBaseURL:       getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
		TMDBImageBaseURL:  getEnv("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p/w500"),
		TMDBAPIKey:        getEnv("TMDB_API_KEY", ""),
		JWTSecret:         getEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:          getDuration("TOKEN_TTL", 24*time.Hour),
		SESFromEmail:      getEnv("SES_FROM_EMAIL", ""),
		SESFromName:       getEnv("SES_FROM_NAME", "CoupleSwipe"),
		AppBaseURL:        getEnv("APP_BASE_URL", "http://localhost:8080"),
		RateLimitPerMin:   60,
		RateLimitBurst:    20,
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration reads a duration-valued environment variable, falling back to
// the default when unset or unparsable.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
