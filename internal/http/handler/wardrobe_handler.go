package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stylecloset/wardrobe-service/internal/domain"
	"github.com/stylecloset/wardrobe-service/internal/http/response"
	"github.com/stylecloset/wardrobe-service/internal/repository"
)

type WardrobeHandler struct {
	items repository.WardrobeRepository
}

func NewWardrobeHandler(items repository.WardrobeRepository) *WardrobeHandler {
	return &WardrobeHandler{items: items}
}

func (h *WardrobeHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	items, err := h.items.ListByUser(userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "wardrobe list failed", "error", err)
		response.Error(w, r, http.StatusInternalServerError, "Erro interno", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"items": items})
}

func (h *WardrobeHandler) CreateManual(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	var req WardrobeItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "JSON invalido", nil)
		return
	}
	if errs := req.Validate(); errs != nil {
		response.Error(w, r, http.StatusBadRequest, "Dados invalidos", errs)
		return
	}

	item := &domain.WardrobeItem{UserID: userID}
	req.apply(item)
	if err := h.items.Create(item); err != nil {
		slog.ErrorContext(r.Context(), "wardrobe create failed", "error", err)
		response.Error(w, r, http.StatusInternalServerError, "Erro interno", nil)
		return
	}
	response.JSON(w, r, http.StatusCreated, map[string]any{"item": item})
}

func (h *WardrobeHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	item, err := h.items.FindByIDForUser(userID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repository.ErrWardrobeItemNotFound) {
			response.Error(w, r, http.StatusNotFound, "Item nao encontrado", nil)
			return
		}
		slog.ErrorContext(r.Context(), "wardrobe get failed", "error", err)
		response.Error(w, r, http.StatusInternalServerError, "Erro interno", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"item": item})
}

func (h *WardrobeHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	var req WardrobeItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "JSON invalido", nil)
		return
	}
	if errs := req.Validate(); errs != nil {
		response.Error(w, r, http.StatusBadRequest, "Dados invalidos", errs)
		return
	}

	item, err := h.items.FindByIDForUser(userID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repository.ErrWardrobeItemNotFound) {
			response.Error(w, r, http.StatusNotFound, "Item nao encontrado", nil)
			return
		}
		slog.ErrorContext(r.Context(), "wardrobe lookup failed", "error", err)
		response.Error(w, r, http.StatusInternalServerError, "Erro interno", nil)
		return
	}

	req.apply(item)
	if err := h.items.Update(item); err != nil {
		slog.ErrorContext(r.Context(), "wardrobe update failed", "error", err)
		response.Error(w, r, http.StatusInternalServerError, "Erro interno", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"item": item})
}

func (h *WardrobeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	if err := h.items.DeleteByIDForUser(userID, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, repository.ErrWardrobeItemNotFound) {
			response.Error(w, r, http.StatusNotFound, "Item nao encontrado", nil)
			return
		}
		slog.ErrorContext(r.Context(), "wardrobe delete failed", "error", err)
		response.Error(w, r, http.StatusInternalServerError, "Erro interno", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"ok": true})
}
