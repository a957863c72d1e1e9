package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"vet-clinic-backend/internal/adapters/storage/postgres"
	"vet-clinic-backend/internal/platform/config"
	"vet-clinic-backend/internal/platform/logger"
	"vet-clinic-backend/internal/router"
	"vet-clinic-backend/internal/session"
)

func main() {
	// .env opcional; en deploy las variables vienen del entorno
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		App:    cfg.AppName,
	})

	var db *sql.DB
	if cfg.DatabaseURL != "" {
		opened, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			log.Error("no se pudo conectar a la base de datos", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		db = opened
		defer db.Close()
		log.Info("conectado a postgres", nil)
	} else {
		log.Warn("DATABASE_URL no configurada, usando almacenamiento in-memory", nil)
	}

	var sessions session.Store
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Error("no se pudo conectar a redis", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		sessions = session.NewRedisStore(client, cfg.SessionTTL, log)
		log.Info("sesiones en redis", map[string]any{"addr": cfg.RedisAddr})
	} else {
		sessions = session.NewMemoryStore(cfg.SessionTTL)
		log.Warn("REDIS_ADDR no configurada, sesiones in-memory", nil)
	}

	h := router.New(router.Options{
		DB:         db,
		Sessions:   sessions,
		SessionTTL: cfg.SessionTTL,
		Log:        log,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("servidor iniciado", map[string]any{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("error del servidor", map[string]any{"err": err.Error()})
			stop()
		}
	}()

	<-ctx.Done()

	// apagado ordenado: se drenan los requests en vuelo antes de cerrar el pool
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("apagado forzado", map[string]any{"err": err.Error()})
	}
	log.Info("servidor detenido", nil)
}
