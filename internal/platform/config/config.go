package config

import (
	"os"
	"time"

	"vet-clinic-backend/internal/platform/logger"
)

type Config struct {
	Port          string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	SessionTTL    time.Duration
	LogLevel      logger.Level
	LogFormat     logger.Format
	AppName       string
}

// Load arma la configuración desde el entorno.
// DATABASE_URL y REDIS_ADDR pueden faltar: el router cae a los adapters
// in-memory (modo dev); main lo deja registrado en el log.
func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	ttl := 24 * time.Hour
	if v := os.Getenv("SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			ttl = d
		}
	}

	app := os.Getenv("APP_NAME")
	if app == "" {
		app = "vet-clinic-backend"
	}

	return &Config{
		Port:          port,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		SessionTTL:    ttl,
		LogLevel:      logger.ParseLevel(os.Getenv("LOG_LEVEL")),
		LogFormat:     logger.ParseFormat(os.Getenv("LOG_FORMAT")),
		AppName:       app,
	}
}
