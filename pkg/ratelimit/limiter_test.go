package ratelimit_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saludigital/cadastro/pkg/ratelimit"
)

func TestNew_InvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := ratelimit.New(nil, "x", ratelimit.Config{Limit: 1, Window: time.Second})
	assert.ErrorIs(t, err, ratelimit.ErrInvalidConfig)

	_, err = ratelimit.New(ratelimit.NewMemoryStore(), "x", ratelimit.Config{Limit: 0, Window: time.Second})
	assert.ErrorIs(t, err, ratelimit.ErrInvalidConfig)
}

func TestLimiter_MemoryStore(t *testing.T) {
	t.Parallel()

	l, err := ratelimit.New(ratelimit.NewMemoryStore(), "login", ratelimit.Config{Limit: 2, Window: time.Minute})
	require.NoError(t, err)
	ctx := context.Background()

	res, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 1, res.Remaining)

	res, _ = l.Allow(ctx, "1.2.3.4")
	assert.True(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)

	res, _ = l.Allow(ctx, "1.2.3.4")
	assert.False(t, res.Allowed)
	assert.Greater(t, res.RetryAfter(), 50*time.Second)

	res, _ = l.Allow(ctx, "5.6.7.8")
	assert.True(t, res.Allowed, "keys are independent")

	require.NoError(t, l.Reset(ctx, "1.2.3.4"))
	res, _ = l.Allow(ctx, "1.2.3.4")
	assert.True(t, res.Allowed)
}

func TestLimiter_WindowExpires(t *testing.T) {
	t.Parallel()

	l, err := ratelimit.New(ratelimit.NewMemoryStore(), "", ratelimit.Config{Limit: 1, Window: 20 * time.Millisecond})
	require.NoError(t, err)
	ctx := context.Background()

	res, _ := l.Allow(ctx, "k")
	assert.True(t, res.Allowed)
	res, _ = l.Allow(ctx, "k")
	assert.False(t, res.Allowed)

	time.Sleep(30 * time.Millisecond)
	res, _ = l.Allow(ctx, "k")
	assert.True(t, res.Allowed)
}

func TestMemoryStore_Cleanup(t *testing.T) {
	t.Parallel()

	s := ratelimit.NewMemoryStore()
	ctx := context.Background()
	_, _, _ = s.Increment(ctx, "k", time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	s.Cleanup()

	count, _, err := s.Increment(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

type failingStore struct{}

func (failingStore) Increment(context.Context, string, time.Duration) (int64, time.Duration, error) {
	return 0, 0, errors.New("down")
}
func (failingStore) Reset(context.Context, string) error { return errors.New("down") }

func TestMiddleware(t *testing.T) {
	t.Parallel()

	l, err := ratelimit.New(ratelimit.NewMemoryStore(), "submit", ratelimit.Config{Limit: 1, Window: time.Minute})
	require.NoError(t, err)

	h := ratelimit.Middleware(l, ratelimit.ByIP)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestMiddleware_CustomResponseAndFailOpen(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	l, err := ratelimit.New(failingStore{}, "x", ratelimit.Config{Limit: 1, Window: time.Minute})
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	ratelimit.Middleware(l, ratelimit.ByIP)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	l, err = ratelimit.New(ratelimit.NewMemoryStore(), "x", ratelimit.Config{Limit: 1, Window: time.Minute})
	require.NoError(t, err)
	mw := ratelimit.Middleware(l, func(*http.Request) string { return "same" },
		ratelimit.WithOnLimited(func(w http.ResponseWriter, r *http.Request, res ratelimit.Result) {
			w.WriteHeader(http.StatusTeapot)
		}))
	mw(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	rec = httptest.NewRecorder()
	mw(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	opts, err := goredis.ParseURL(url)
	require.NoError(t, err)
	client := goredis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	store := ratelimit.NewRedisStore(client)
	ctx := context.Background()
	key := "test:" + t.Name()
	t.Cleanup(func() { _ = store.Reset(ctx, key) })

	count, ttl, err := store.Increment(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Greater(t, ttl, 50*time.Second)

	count, _, err = store.Increment(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
