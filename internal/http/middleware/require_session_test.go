package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/stylecloset/wardrobe-service/internal/domain"
	"github.com/stylecloset/wardrobe-service/internal/http/cookies"
	"github.com/stylecloset/wardrobe-service/internal/repository"
	"github.com/stylecloset/wardrobe-service/internal/security"
	"github.com/stylecloset/wardrobe-service/internal/service"
)

func newSessionEnv(t *testing.T) (*service.SessionService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Session{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc := service.NewSessionService(repository.NewSessionRepository(db), time.Hour, 2*time.Hour)
	return svc, db
}

func issueSession(t *testing.T, db *gorm.DB, email string, expiresAt time.Time) string {
	t.Helper()
	u := &domain.User{Email: email, FirstName: "Rosa", LastName: "Parks"}
	if err := repository.NewUserRepository(db).Create(u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	token, err := security.GenerateSessionToken()
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	err = repository.NewSessionRepository(db).Create(&domain.Session{
		TokenHash: security.HashSessionToken(token),
		UserID:    u.ID,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return token
}

func TestRequireSessionInjectsUserAndSession(t *testing.T) {
	svc, db := newSessionEnv(t)
	token := issueSession(t, db, "rosa@example.com", time.Now().Add(time.Hour))

	cfg := cookies.Config{Name: "wardrobe_session"}
	var seenEmail string
	h := RequireSession(svc, cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			t.Fatal("user missing from context")
		}
		if _, ok := SessionFromContext(r.Context()); !ok {
			t.Fatal("session missing from context")
		}
		seenEmail = user.Email
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/wardrobe", nil)
	req.AddCookie(&http.Cookie{Name: "wardrobe_session", Value: token})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if seenEmail != "rosa@example.com" {
		t.Fatalf("unexpected user %q", seenEmail)
	}
}

func TestRequireSessionRejectsMissingCookie(t *testing.T) {
	svc, _ := newSessionEnv(t)

	h := RequireSession(svc, cookies.Config{Name: "wardrobe_session"})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/wardrobe", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Nao autorizado") {
		t.Fatalf("unexpected body %q", rr.Body.String())
	}
}

func TestRequireSessionRejectsExpiredAndClearsCookie(t *testing.T) {
	svc, db := newSessionEnv(t)
	token := issueSession(t, db, "expired@example.com", time.Now().Add(-time.Minute))

	h := RequireSession(svc, cookies.Config{Name: "wardrobe_session"})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/wardrobe", nil)
	req.AddCookie(&http.Cookie{Name: "wardrobe_session", Value: token})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	cks := rr.Result().Cookies()
	if len(cks) != 1 || cks[0].MaxAge >= 0 {
		t.Fatalf("expected clearing Set-Cookie, got %+v", cks)
	}
}

func TestRequireSessionRejectsUnknownToken(t *testing.T) {
	svc, _ := newSessionEnv(t)

	h := RequireSession(svc, cookies.Config{Name: "wardrobe_session"})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/wardrobe", nil)
	req.AddCookie(&http.Cookie{Name: "wardrobe_session", Value: "deadbeef"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}
