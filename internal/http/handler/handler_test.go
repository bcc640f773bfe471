package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	s3aws "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-chi/chi/v5"
	"github.com/openai/openai-go"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/stylecloset/wardrobe-service/internal/domain"
	"github.com/stylecloset/wardrobe-service/internal/http/cookies"
	"github.com/stylecloset/wardrobe-service/internal/http/middleware"
	"github.com/stylecloset/wardrobe-service/internal/repository"
	"github.com/stylecloset/wardrobe-service/internal/service"
	"github.com/stylecloset/wardrobe-service/internal/storage"
)

const testCookieName = "wardrobe_session"

type stubCompleter struct {
	reply string
	err   error
}

func (s *stubCompleter) Complete(context.Context, openai.ChatCompletionNewParams) (string, error) {
	return s.reply, s.err
}

type stubS3 struct {
	lastKey string
	err     error
}

func (s *stubS3) PutObject(_ context.Context, in *s3aws.PutObjectInput, _ ...func(*s3aws.Options)) (*s3aws.PutObjectOutput, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.lastKey = *in.Key
	return &s3aws.PutObjectOutput{}, nil
}

type handlerEnv struct {
	db        *gorm.DB
	sessions  *service.SessionService
	completer *stubCompleter
	s3        *stubS3
	mux       http.Handler
}

func newHandlerEnv(t *testing.T) *handlerEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Session{}, &domain.WardrobeItem{}, &domain.StyleProfile{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cookieCfg := cookies.Config{Name: testCookieName}
	sessions := service.NewSessionService(repository.NewSessionRepository(db), time.Hour, 24*time.Hour)
	auth := service.NewAuthService(repository.NewUserRepository(db), bcrypt.MinCost)
	completer := &stubCompleter{}
	s3 := &stubS3{}

	authHandler := NewAuthHandler(auth, sessions, cookieCfg)
	wardrobeHandler := NewWardrobeHandler(repository.NewWardrobeRepository(db))
	profileHandler := NewStyleProfileHandler(repository.NewStyleProfileRepository(db))
	chatHandler := NewStyleChatHandler(service.NewStyleChatService(completer, "gpt-4o-mini"))
	uploadHandler := NewUploadHandler(storage.NewWithClient(s3, storage.Config{Bucket: "closet", Region: "us-east-1"}))

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)
		r.Get("/auth/me", authHandler.Me)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(sessions, cookieCfg))
			r.Get("/wardrobe", wardrobeHandler.List)
			r.Post("/wardrobe/manual", wardrobeHandler.CreateManual)
			r.Get("/wardrobe/{id}", wardrobeHandler.Get)
			r.Put("/wardrobe/{id}", wardrobeHandler.Update)
			r.Delete("/wardrobe/{id}", wardrobeHandler.Delete)
			r.Get("/style-profile", profileHandler.Get)
			r.Put("/style-profile", profileHandler.Put)
			r.Post("/style-chat", chatHandler.Advise)
			r.Post("/uploads/wardrobe", uploadHandler.UploadWardrobeImage)
		})
	})

	return &handlerEnv{db: db, sessions: sessions, completer: completer, s3: s3, mux: r}
}

func (e *handlerEnv) do(t *testing.T, method, target string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	e.mux.ServeHTTP(rr, req)
	return rr
}

// signUpAndIn registers a user and signs them in, returning the session cookie.
func (e *handlerEnv) signUpAndIn(t *testing.T, email string) *http.Cookie {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/api/auth/register", map[string]any{
		"firstName": "Frida", "lastName": "Kahlo",
		"email": email, "password": "senha-secreta", "acceptTerms": true,
	}, nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = e.do(t, http.MethodPost, "/api/auth/login", map[string]any{
		"email": email, "password": "senha-secreta",
	}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	for _, ck := range rr.Result().Cookies() {
		if ck.Name == testCookieName {
			return ck
		}
	}
	t.Fatal("login did not set the session cookie")
	return nil
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rr.Body.String(), err)
	}
	return out
}
