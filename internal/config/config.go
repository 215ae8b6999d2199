package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config agrupa la configuración necesaria para correr la aplicación.
type Config struct {
	Port             string
	DatabaseURL      string
	DatabaseMaxConns int32
	AutoMigrate      bool

	// RedisURL vacío desactiva la caché de la carta.
	RedisURL          string
	MenuCacheTTL      time.Duration
	CacheWarmInterval time.Duration

	// AdminPassword vacío deja la API de administración cerrada.
	AdminPassword   string
	JWTSecret       string
	AdminSessionTTL time.Duration

	Log LogConfig
}

// LogConfig configura el logger de la aplicación.
type LogConfig struct {
	Level  string
	Format string
	File   string
}

// AdminEnabled indica si hay credenciales de administración configuradas.
func (config Config) AdminEnabled() bool {
	return config.AdminPassword != ""
}

// loadDotEnv se puede reemplazar en tests.
var loadDotEnv = func() error {
	return godotenv.Load()
}

// Load lee variables de entorno (y .env si existe) y valida lo mínimo indispensable.
func Load() (Config, error) {
	// godotenv no pisa variables ya definidas en el entorno.
	if err := loadDotEnv(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	port := env("PORT", "8080")
	// Normalizamos por si alguien manda ":8080"
	port = strings.TrimPrefix(port, ":")

	databaseURL := env("DATABASE_URL", "")
	if databaseURL == "" {
		return Config{}, fmt.Errorf("missing required env var: DATABASE_URL")
	}

	maxConns, err := strconv.ParseInt(env("DATABASE_MAX_CONNS", "10"), 10, 32)
	if err != nil || maxConns < 1 {
		return Config{}, fmt.Errorf("invalid env var DATABASE_MAX_CONNS: %q", os.Getenv("DATABASE_MAX_CONNS"))
	}

	autoMigrate, err := strconv.ParseBool(env("AUTO_MIGRATE", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid env var AUTO_MIGRATE: %w", err)
	}

	menuCacheTTL, err := duration("MENU_CACHE_TTL", "60s")
	if err != nil {
		return Config{}, err
	}
	cacheWarmInterval, err := duration("CACHE_WARM_INTERVAL", "5m")
	if err != nil {
		return Config{}, err
	}
	adminSessionTTL, err := duration("ADMIN_SESSION_TTL", "24h")
	if err != nil {
		return Config{}, err
	}

	adminPassword := env("ADMIN_PASSWORD", "")
	jwtSecret := env("JWT_SECRET", "")
	if adminPassword != "" && jwtSecret == "" {
		return Config{}, fmt.Errorf("missing required env var: JWT_SECRET (ADMIN_PASSWORD is set)")
	}

	logFormat := strings.ToLower(env("LOG_FORMAT", "json"))
	if logFormat != "json" && logFormat != "text" {
		return Config{}, fmt.Errorf("invalid env var LOG_FORMAT: %q", logFormat)
	}

	return Config{
		Port:              port,
		DatabaseURL:       databaseURL,
		DatabaseMaxConns:  int32(maxConns),
		AutoMigrate:       autoMigrate,
		RedisURL:          env("REDIS_URL", ""),
		MenuCacheTTL:      menuCacheTTL,
		CacheWarmInterval: cacheWarmInterval,
		AdminPassword:     adminPassword,
		JWTSecret:         jwtSecret,
		AdminSessionTTL:   adminSessionTTL,
		Log: LogConfig{
			Level:  strings.ToLower(env("LOG_LEVEL", "info")),
			Format: logFormat,
			File:   env("LOG_FILE", ""),
		},
	}, nil
}

func env(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func duration(key, fallback string) (time.Duration, error) {
	value, err := time.ParseDuration(env(key, fallback))
	if err != nil || value < 0 {
		return 0, fmt.Errorf("invalid env var %s: %q", key, os.Getenv(key))
	}
	return value, nil
}
