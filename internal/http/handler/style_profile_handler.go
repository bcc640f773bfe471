package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/stylecloset/wardrobe-service/internal/http/response"
	"github.com/stylecloset/wardrobe-service/internal/repository"
)

type StyleProfileHandler struct {
	profiles repository.StyleProfileRepository
}

func NewStyleProfileHandler(profiles repository.StyleProfileRepository) *StyleProfileHandler {
	return &StyleProfileHandler{profiles: profiles}
}

// Get returns `{profile: null}` for users who never finished the chat flow,
// which the frontend treats as "start the questionnaire".
func (h *StyleProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	profile, err := h.profiles.FindByUser(userID)
	if err != nil {
		if errors.Is(err, repository.ErrStyleProfileNotFound) {
			response.JSON(w, r, http.StatusOK, map[string]any{"profile": nil})
			return
		}
		slog.ErrorContext(r.Context(), "style profile get failed", "error", err)
		response.Error(w, r, http.StatusInternalServerError, "Erro interno", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"profile": profile})
}

func (h *StyleProfileHandler) Put(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	var req StyleProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "JSON invalido", nil)
		return
	}
	if errs := req.Validate(); errs != nil {
		response.Error(w, r, http.StatusBadRequest, "Dados invalidos", errs)
		return
	}

	profile := req.toDomain(userID)
	if err := h.profiles.Upsert(profile); err != nil {
		slog.ErrorContext(r.Context(), "style profile upsert failed", "error", err)
		response.Error(w, r, http.StatusInternalServerError, "Erro interno", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"profile": profile})
}
