package config

import (
	"os"
	"strconv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Matching MatchingConfig
}

type ServerConfig struct {
	Port    string
	GinMode string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

// MatchingConfig tunes the worker ranking score. The defaults are a
// behavioral contract with the mobile clients; change them deliberately.
type MatchingConfig struct {
	WeightAvailability float64
	WeightDistance     float64
	WeightRating       float64
	WeightPrice        float64
	RadiusKm           float64
	PriceNorm          float64
}

var AppConfig *Config

func Load() {
	AppConfig = &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "password"),
			Name:     getEnv("DB_NAME", "quickfix_db"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", "your-super-secret-jwt-key-change-this-in-production"),
			ExpiryHours: getEnvAsInt("JWT_EXPIRY_HOURS", 24),
		},
		Matching: MatchingConfig{
			WeightAvailability: getEnvAsFloat("MATCH_WEIGHT_AVAILABILITY", 0.4),
			WeightDistance:     getEnvAsFloat("MATCH_WEIGHT_DISTANCE", 0.3),
			WeightRating:       getEnvAsFloat("MATCH_WEIGHT_RATING", 0.2),
			WeightPrice:        getEnvAsFloat("MATCH_WEIGHT_PRICE", 0.1),
			RadiusKm:           getEnvAsFloat("MATCH_RADIUS_KM", 20),
			PriceNorm:          getEnvAsFloat("MATCH_PRICE_NORM", 1000),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
