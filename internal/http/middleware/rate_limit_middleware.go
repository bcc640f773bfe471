package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stylecloset/wardrobe-service/internal/http/response"
)

type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// Limiter decides whether a keyed request fits in the current window.
// Implementations: in-process fixed window, Redis fixed window.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

type FailureMode string

const (
	FailOpen   FailureMode = "fail_open"
	FailClosed FailureMode = "fail_closed"
)

type windowState struct {
	count   int
	resetAt time.Time
}

// FixedWindowLimiter is the in-process default. It replaces the original
// process-global counter map with a scoped, clock-injectable value.
type FixedWindowLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	now    func() time.Time
	state  map[string]*windowState
}

func NewFixedWindowLimiter(limit int, window time.Duration) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		limit:  limit,
		window: window,
		now:    time.Now,
		state:  make(map[string]*windowState),
	}
}

func (l *FixedWindowLimiter) WithClock(now func() time.Time) *FixedWindowLimiter {
	l.now = now
	return l
}

func (l *FixedWindowLimiter) Allow(_ context.Context, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	st, ok := l.state[key]
	if !ok || !st.resetAt.After(now) {
		l.state[key] = &windowState{count: 1, resetAt: now.Add(l.window)}
		l.gc(now)
		return Decision{Allowed: true}, nil
	}
	if st.count >= l.limit {
		return Decision{Allowed: false, RetryAfter: st.resetAt.Sub(now)}, nil
	}
	st.count++
	return Decision{Allowed: true}, nil
}

// gc drops windows that already rolled over so idle keys do not accumulate.
func (l *FixedWindowLimiter) gc(now time.Time) {
	if len(l.state) < 1024 {
		return
	}
	for k, st := range l.state {
		if !st.resetAt.After(now) {
			delete(l.state, k)
		}
	}
}

// RedisFixedWindowLimiter shares one window across replicas: INCR plus an
// expiry set on the first hit of each window.
type RedisFixedWindowLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	scope  string
}

func NewRedisFixedWindowLimiter(client *redis.Client, limit int, window time.Duration, scope string) *RedisFixedWindowLimiter {
	return &RedisFixedWindowLimiter{client: client, limit: limit, window: window, scope: scope}
}

func (l *RedisFixedWindowLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	redisKey := "ratelimit:" + l.scope + ":" + key
	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return Decision{}, err
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return Decision{}, err
		}
	}
	if count > int64(l.limit) {
		ttl, err := l.client.TTL(ctx, redisKey).Result()
		if err != nil || ttl < 0 {
			ttl = l.window
		}
		return Decision{Allowed: false, RetryAfter: ttl}, nil
	}
	return Decision{Allowed: true}, nil
}

type RateLimiter struct {
	limiter Limiter
	mode    FailureMode
	keyFunc func(r *http.Request) string
}

func NewRateLimiter(limiter Limiter, mode FailureMode) *RateLimiter {
	return &RateLimiter{limiter: limiter, mode: mode, keyFunc: ClientIP}
}

func (rl *RateLimiter) WithKeyFunc(keyFunc func(r *http.Request) string) *RateLimiter {
	rl.keyFunc = keyFunc
	return rl
}

func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision, err := rl.limiter.Allow(r.Context(), rl.keyFunc(r))
			if err != nil {
				slog.ErrorContext(r.Context(), "rate limiter unavailable", "error", err, "mode", string(rl.mode))
				if rl.mode == FailOpen {
					next.ServeHTTP(w, r)
					return
				}
				response.Error(w, r, http.StatusServiceUnavailable, "Servico indisponivel", nil)
				return
			}
			if !decision.Allowed {
				if secs := int(decision.RetryAfter.Seconds()); secs > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(secs))
				}
				response.Error(w, r, http.StatusTooManyRequests, "Rate limit exceeded", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP prefers the proxy-supplied headers, falling back to the socket
// peer address.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	if real := r.Header.Get("X-Real-Ip"); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
