package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stylecloset/wardrobe-service/internal/domain"
	"github.com/stylecloset/wardrobe-service/internal/observability"
	"github.com/stylecloset/wardrobe-service/internal/repository"
	"github.com/stylecloset/wardrobe-service/internal/security"
)

// ErrNoSession is the normal "not signed in" outcome of Resolve. It covers a
// missing cookie, a stale or tampered token and lazy expiry alike; callers
// translate it to 401, never to 500.
var ErrNoSession = errors.New("no active session")

// TokenCookie is the cookie read/write capability handed to the lifecycle
// manager per request. Keeping it an interface makes the manager testable
// without a live HTTP context.
type TokenCookie interface {
	Token() string
	Set(token string, maxAge int)
	Clear()
}

// SessionService orchestrates the token codec, the session store and the
// cookie: one authenticated browser session per Create call.
type SessionService struct {
	sessions    repository.SessionRepository
	defaultTTL  time.Duration
	rememberTTL time.Duration
	now         func() time.Time
}

func NewSessionService(sessions repository.SessionRepository, defaultTTL, rememberTTL time.Duration) *SessionService {
	return &SessionService{
		sessions:    sessions,
		defaultTTL:  defaultTTL,
		rememberTTL: rememberTTL,
		now:         time.Now,
	}
}

// WithClock overrides the time source. Expiry tests depend on it.
func (s *SessionService) WithClock(now func() time.Time) *SessionService {
	s.now = now
	return s
}

func (s *SessionService) TTL(remember bool) time.Duration {
	if remember {
		return s.rememberTTL
	}
	return s.defaultTTL
}

// Create issues a fresh token, persists its digest and only then writes the
// cookie. A store failure therefore never leaves an orphaned cookie behind.
func (s *SessionService) Create(ctx context.Context, cookie TokenCookie, userID string, remember bool) error {
	token, err := security.GenerateSessionToken()
	if err != nil {
		return err
	}
	ttl := s.TTL(remember)
	if err := s.sessions.Create(&domain.Session{
		TokenHash: security.HashSessionToken(token),
		UserID:    userID,
		ExpiresAt: s.now().Add(ttl),
	}); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	cookie.Set(token, int(ttl.Seconds()))
	return nil
}

// Resolve maps the inbound cookie to its session and user. Anomalies clear
// the cookie silently: a missing row means a stale or tampered token, and an
// expired row is deleted on this first observation (lazy expiry, no sweep).
func (s *SessionService) Resolve(ctx context.Context, cookie TokenCookie) (*domain.Session, *domain.User, error) {
	token := cookie.Token()
	if token == "" {
		observability.RecordSessionResolution(ctx, "miss")
		return nil, nil, ErrNoSession
	}

	hash := security.HashSessionToken(token)
	sess, err := s.sessions.FindByTokenHash(hash)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			cookie.Clear()
			observability.RecordSessionResolution(ctx, "stale")
			return nil, nil, ErrNoSession
		}
		return nil, nil, err
	}

	if sess.Expired(s.now()) {
		if err := s.sessions.DeleteByTokenHash(hash); err != nil {
			return nil, nil, err
		}
		cookie.Clear()
		observability.RecordSessionResolution(ctx, "expired")
		return nil, nil, ErrNoSession
	}

	observability.RecordSessionResolution(ctx, "hit")
	user := sess.User
	return sess, &user, nil
}

// Destroy deletes the session row (a miss is fine, the other tab won the
// race) and always clears the cookie, even when none was sent.
func (s *SessionService) Destroy(ctx context.Context, cookie TokenCookie) error {
	token := cookie.Token()
	if token == "" {
		cookie.Clear()
		return nil
	}
	err := s.sessions.DeleteByTokenHash(security.HashSessionToken(token))
	cookie.Clear()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// SweepExpired removes dead rows eagerly. Lazy expiry remains authoritative;
// this only bounds storage growth when enabled.
func (s *SessionService) SweepExpired(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired()
}
