package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"vet-clinic-backend/internal/platform/logger"
)

// RedisClient es el subconjunto de go-redis que usa el store; *redis.Client
// lo satisface y los tests pueden inyectar un fake.
type RedisClient interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore guarda cada sesión como JSON bajo session:<id> con TTL.
// Todas las llamadas pasan por un circuit breaker: si Redis se cae,
// el breaker corta rápido en vez de colgar cada request en el timeout.
type RedisStore struct {
	client RedisClient
	ttl    time.Duration
	cb     *gobreaker.CircuitBreaker
}

func NewRedisStore(client RedisClient, ttl time.Duration, log logger.Logger) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = logger.New(logger.Options{})
	}
	return &RedisStore{
		client: client,
		ttl:    ttl,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "Redis-Sessions",
			MaxRequests: 3,
			Interval:    10 * time.Second,
			Timeout:     5 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn("cambio de estado del circuit breaker", map[string]any{
					"breaker": name,
					"from":    from.String(),
					"to":      to.String(),
				})
			},
		}),
	}
}

func (r *RedisStore) Create(ctx context.Context, s Session) (string, error) {
	id := uuid.NewString()

	payload, err := json.Marshal(s)
	if err != nil {
		return "", err
	}

	_, err = r.cb.Execute(func() (any, error) {
		return nil, r.client.Set(ctx, sessionKey(id), payload, r.ttl).Err()
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (Session, error) {
	raw, err := r.cb.Execute(func() (any, error) {
		return r.client.Get(ctx, sessionKey(id)).Result()
	})
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}

	var s Session
	if err := json.Unmarshal([]byte(raw.(string)), &s); err != nil {
		return Session{}, err
	}
	return s, nil
}

func (r *RedisStore) Destroy(ctx context.Context, id string) error {
	_, err := r.cb.Execute(func() (any, error) {
		return nil, r.client.Del(ctx, sessionKey(id)).Err()
	})
	return err
}

func sessionKey(id string) string {
	return "session:" + id
}
