package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/stylecloset/wardrobe-service/internal/http/cookies"
	"github.com/stylecloset/wardrobe-service/internal/http/middleware"
	"github.com/stylecloset/wardrobe-service/internal/http/response"
	"github.com/stylecloset/wardrobe-service/internal/observability"
	"github.com/stylecloset/wardrobe-service/internal/repository"
	"github.com/stylecloset/wardrobe-service/internal/service"
)

type AuthHandler struct {
	auth      *service.AuthService
	sessions  *service.SessionService
	cookieCfg cookies.Config
}

func NewAuthHandler(auth *service.AuthService, sessions *service.SessionService, cookieCfg cookies.Config) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, cookieCfg: cookieCfg}
}

// Register creates the account but issues no session; the frontend sends the
// user to the sign-in page next.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "JSON invalido", nil)
		return
	}
	if errs := req.Validate(); errs != nil {
		observability.RecordAuthRegister("invalid")
		response.Error(w, r, http.StatusBadRequest, "Dados invalidos", errs)
		return
	}

	user, err := h.auth.Register(r.Context(), service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			observability.RecordAuthRegister("conflict")
			response.Error(w, r, http.StatusConflict, "Email ja esta em uso", nil)
			return
		}
		observability.RecordAuthRegister("error")
		slog.ErrorContext(r.Context(), "register failed", "error", err)
		response.Error(w, r, http.StatusInternalServerError, "Erro interno", nil)
		return
	}

	observability.RecordAuthRegister("success")
	observability.Audit(r, "auth.register", "email", observability.MaskEmail(user.Email))
	response.JSON(w, r, http.StatusCreated, map[string]any{"user": user.View()})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "JSON invalido", nil)
		return
	}
	if errs := req.Validate(); errs != nil {
		response.Error(w, r, http.StatusBadRequest, "Dados invalidos", errs)
		return
	}

	user, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			observability.RecordAuthLogin("invalid_credentials")
			response.Error(w, r, http.StatusUnauthorized, "Email ou senha invalidos", nil)
			return
		}
		observability.RecordAuthLogin("error")
		slog.ErrorContext(r.Context(), "login failed", "error", err)
		response.Error(w, r, http.StatusInternalServerError, "Erro interno", nil)
		return
	}

	cookie := cookies.NewSession(w, r, h.cookieCfg)
	if err := h.sessions.Create(r.Context(), cookie, user.ID, req.Remember); err != nil {
		observability.RecordAuthLogin("error")
		slog.ErrorContext(r.Context(), "session create failed", "error", err)
		response.Error(w, r, http.StatusInternalServerError, "Erro interno", nil)
		return
	}

	observability.RecordAuthLogin("success")
	observability.Audit(r, "auth.login", "email", observability.MaskEmail(user.Email), "remember", req.Remember)
	response.JSON(w, r, http.StatusOK, map[string]any{"user": user.View()})
}

// Logout is idempotent: it reports ok even when no session existed.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie := cookies.NewSession(w, r, h.cookieCfg)
	if err := h.sessions.Destroy(r.Context(), cookie); err != nil {
		observability.RecordAuthLogout("error")
		slog.ErrorContext(r.Context(), "logout failed", "error", err)
		response.Error(w, r, http.StatusInternalServerError, "Erro interno", nil)
		return
	}
	observability.RecordAuthLogout("success")
	observability.Audit(r, "auth.logout")
	response.JSON(w, r, http.StatusOK, map[string]any{"ok": true})
}

// Me resolves the current session without the RequireSession middleware so it
// can answer 401 with `{user:null}` instead of the generic error shape.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	cookie := cookies.NewSession(w, r, h.cookieCfg)
	_, user, err := h.sessions.Resolve(r.Context(), cookie)
	if err != nil {
		if errors.Is(err, service.ErrNoSession) {
			response.JSON(w, r, http.StatusUnauthorized, map[string]any{"user": nil})
			return
		}
		slog.ErrorContext(r.Context(), "session resolution failed", "error", err)
		response.Error(w, r, http.StatusInternalServerError, "Erro interno", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"user": user.View()})
}

// requestUser pulls the user injected by RequireSession; a miss is a wiring
// bug, answered as 401 to stay on the safe side.
func requestUser(w http.ResponseWriter, r *http.Request) (userID string, ok bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "Nao autorizado", nil)
		return "", false
	}
	return user.ID, true
}
