package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	AppEnv             string
	LogLevel           slog.Level
	ApiServicePort     string
	PostgreSQLHost     string
	PostgreSQLPort     int64
	PostgreSQLUser     string
	PostgreSQLPassword string
	PostgreSQLDatabase string
	BcryptCost         int64
	RedisHost          string
	RedisPort          int64
	RedisPassword      string
	RedisDatabase      int64
	RateLimitPerMinute int64 // 0 disables the request rate limiter
}

func LoadConfig() *Config {
	return &Config{
		AppEnv:             getEnv("APP_ENV", "development"),                  // Default development
		LogLevel:           getLogLevel(),                                     // Default INFO
		ApiServicePort:     getEnv("API_SERVICE_PORT", "2222"),                // Default 2222
		PostgreSQLHost:     getEnv("POSTGRESQL_HOST", "db"),                   // Default db
		PostgreSQLPort:     getEnvAsInt64("POSTGRESQL_PORT", 5432),            // Default 5432
		PostgreSQLUser:     getEnv("POSTGRESQL_USER", "userdir_user"),         // Default user
		PostgreSQLPassword: getEnv("POSTGRESQL_PASSWORD", "userdir_password"), // Default password
		PostgreSQLDatabase: getEnv("POSTGRESQL_DATABASE", "userdir_db"),       // Default database name
		BcryptCost:         getEnvAsInt64("BCRYPT_COST", 10),                  // Default bcrypt work factor
		RedisHost:          getEnv("REDIS_HOST", "redis"),                     // Default redis
		RedisPort:          getEnvAsInt64("REDIS_PORT", 6379),                 // Default 6379
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),                      // Default empty
		RedisDatabase:      getEnvAsInt64("REDIS_DATABASE", 0),                // Default 0
		RateLimitPerMinute: getEnvAsInt64("RATE_LIMIT_PER_MINUTE", 120),       // Default 120 requests/minute per client
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
			return value
		}
	}
	return fallback
}

func getLogLevel() slog.Level {
	levelStr := getEnv("LOG_LEVEL", "INFO")

	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
