package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"vet-clinic-backend/internal/platform/logger"
)

type fakeValue struct {
	value     string
	expiresAt time.Time
}

// fakeRedisClient implementa RedisClient sobre un mapa, con inyección de
// errores para ejercitar el circuit breaker.
type fakeRedisClient struct {
	mu   sync.RWMutex
	data map[string]fakeValue

	setErr error
	getErr error
	delErr error
}

func newFakeRedisClient() *fakeRedisClient {
	return &fakeRedisClient{data: make(map[string]fakeValue)}
}

func (f *fakeRedisClient) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	cmd := redis.NewStatusCmd(ctx)
	if f.setErr != nil {
		cmd.SetErr(f.setErr)
		return cmd
	}

	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	}

	expiresAt := time.Time{}
	if expiration > 0 {
		expiresAt = time.Now().Add(expiration)
	}
	f.data[key] = fakeValue{value: raw, expiresAt: expiresAt}
	cmd.SetVal("OK")
	return cmd
}

func (f *fakeRedisClient) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.RLock()
	defer f.mu.RUnlock()

	cmd := redis.NewStringCmd(ctx)
	if f.getErr != nil {
		cmd.SetErr(f.getErr)
		return cmd
	}

	v, ok := f.data[key]
	if !ok || (!v.expiresAt.IsZero() && time.Now().After(v.expiresAt)) {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(v.value)
	return cmd
}

func (f *fakeRedisClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	cmd := redis.NewIntCmd(ctx)
	if f.delErr != nil {
		cmd.SetErr(f.delErr)
		return cmd
	}

	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	cmd.SetVal(n)
	return cmd
}

type logEntry struct {
	level  string
	msg    string
	fields map[string]any
}

// recordingLogger captura las entradas para afirmar sobre lo que se registró.
type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) record(level, msg string, fields map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg, fields: fields})
}

func (l *recordingLogger) With(map[string]any) logger.Logger { return l }
func (l *recordingLogger) Debug(msg string, fields map[string]any) { l.record("debug", msg, fields) }
func (l *recordingLogger) Info(msg string, fields map[string]any) { l.record("info", msg, fields) }
func (l *recordingLogger) Warn(msg string, fields map[string]any) { l.record("warn", msg, fields) }
func (l *recordingLogger) Error(msg string, fields map[string]any) { l.record("error", msg, fields) }

func (l *recordingLogger) count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.entries {
		if e.level == level {
			n++
		}
	}
	return n
}

func TestRedisStore_Lifecycle(t *testing.T) {
	client := newFakeRedisClient()
	store := NewRedisStore(client, time.Hour, &recordingLogger{})
	ctx := context.Background()

	want := Session{UserID: 7, Username: "ana", Rol: "usuario"}
	id, err := store.Create(ctx, want)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty session id")
	}
	if _, ok := client.data[sessionKey(id)]; !ok {
		t.Fatal("session not stored under session:<id>")
	}

	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	if err := store.Destroy(ctx, id); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if _, err := store.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after destroy, got %v", err)
	}

	// destruir un id inexistente no es error
	if err := store.Destroy(ctx, id); err != nil {
		t.Fatalf("second destroy: %v", err)
	}
}

func TestRedisStore_UnknownID(t *testing.T) {
	store := NewRedisStore(newFakeRedisClient(), time.Hour, &recordingLogger{})
	if _, err := store.Get(context.Background(), "no-existe"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRedisStore_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	client := newFakeRedisClient()
	rec := &recordingLogger{}
	store := NewRedisStore(client, time.Hour, rec)
	ctx := context.Background()

	down := errors.New("connection refused")
	client.getErr = down

	for i := 0; i < 3; i++ {
		if _, err := store.Get(ctx, "cualquiera"); !errors.Is(err, down) {
			t.Fatalf("call %d: expected underlying error, got %v", i+1, err)
		}
	}

	// a la cuarta el breaker ya corta sin tocar el cliente
	if _, err := store.Get(ctx, "cualquiera"); !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected breaker open, got %v", err)
	}

	if rec.count("warn") == 0 {
		t.Fatal("breaker state change was not logged")
	}
}
