package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string

	// Events gateway (websocket upstream).
	SocketURL         string
	SocketToken       string
	ReconnectDelay    time.Duration
	ReconnectDelayMax time.Duration
	ReconnectAttempts int
	ConnectTimeout    time.Duration
	ReauthOnReconnect bool

	// Toast display time, also the dedupe cooldown window.
	ToastDuration time.Duration

	JWTSecret string

	// Optional backends. Empty value disables the feature.
	DatabaseURL string
	RedisURL    string

	CORSOrigins string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		SocketURL:         getEnv("SOCKET_URL", "ws://localhost:3000/ws"),
		SocketToken:       getEnv("SOCKET_TOKEN", ""),
		ReconnectDelay:    getDurationEnv("SOCKET_RECONNECT_DELAY", time.Second),
		ReconnectDelayMax: getDurationEnv("SOCKET_RECONNECT_DELAY_MAX", 5*time.Second),
		ReconnectAttempts: getIntEnv("SOCKET_RECONNECT_ATTEMPTS", 5),
		ConnectTimeout:    getDurationEnv("SOCKET_CONNECT_TIMEOUT", 10*time.Second),
		ReauthOnReconnect: getBoolEnv("SOCKET_REAUTH_ON_RECONNECT", true),

		ToastDuration: getDurationEnv("TOAST_DURATION", 4*time.Second),

		JWTSecret: getEnv("JWT_SECRET", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),

		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:4200"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
