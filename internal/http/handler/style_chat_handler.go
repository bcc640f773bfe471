package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/stylecloset/wardrobe-service/internal/http/response"
	"github.com/stylecloset/wardrobe-service/internal/observability"
	"github.com/stylecloset/wardrobe-service/internal/service"
)

type StyleChatHandler struct {
	chat *service.StyleChatService
}

func NewStyleChatHandler(chat *service.StyleChatService) *StyleChatHandler {
	return &StyleChatHandler{chat: chat}
}

// Advise proxies the conversation to the model. Upstream failures and
// contract violations both map to 502: the client retries, we never serve a
// reply we could not validate.
func (h *StyleChatHandler) Advise(w http.ResponseWriter, r *http.Request) {
	if _, ok := requestUser(w, r); !ok {
		return
	}
	var req StyleChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "JSON invalido", nil)
		return
	}
	if errs := req.Validate(); errs != nil {
		observability.RecordChatRequest(r.Context(), "invalid")
		response.Error(w, r, http.StatusBadRequest, "Dados invalidos", errs)
		return
	}

	result, err := h.chat.Advise(r.Context(), req.Messages, req.Profile)
	if err != nil {
		if errors.Is(err, service.ErrChatUpstream) || errors.Is(err, service.ErrChatBadReply) {
			observability.RecordChatRequest(r.Context(), "upstream_error")
			slog.ErrorContext(r.Context(), "style chat upstream failed", "error", err)
			response.Error(w, r, http.StatusBadGateway, "Falha ao consultar o assistente", nil)
			return
		}
		observability.RecordChatRequest(r.Context(), "error")
		slog.ErrorContext(r.Context(), "style chat failed", "error", err)
		response.Error(w, r, http.StatusInternalServerError, "Erro interno", nil)
		return
	}

	observability.RecordChatRequest(r.Context(), "success")
	response.JSON(w, r, http.StatusOK, result)
}
