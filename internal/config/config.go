package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	DatabaseURL            string
	JWTSecret              string
	JWTIssuer              string
	AccessTTLSeconds       int64
	RefreshTTLSeconds      int64
	CorsOrigins            []string
	DashboardSampleSeconds int
	DashboardDiskPath      string
}

func Load() Config {
	return Config{
		DatabaseURL:            mustEnv("DATABASE_URL"),
		JWTSecret:              mustEnv("JWT_SECRET"),
		JWTIssuer:              envOr("JWT_ISSUER", "iger"),
		AccessTTLSeconds:       int64(envOrInt("ACCESS_TTL_SECONDS", 86400)),
		RefreshTTLSeconds:      int64(envOrInt("REFRESH_TTL_SECONDS", 1209600)),
		CorsOrigins:            parseCSV(envOr("CORS_ORIGINS", "http://localhost:5173")),
		DashboardSampleSeconds: envOrInt("DASHBOARD_SAMPLE_INTERVAL", 30),
		DashboardDiskPath:      envOr("DASHBOARD_DISK_PATH", "/"),
	}
}

func mustEnv(key string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		panic("missing env var: " + key)
	}
	return value
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		value := strings.TrimSpace(part)
		if value != "" {
			items = append(items, value)
		}
	}
	return items
}
