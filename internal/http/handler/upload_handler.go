package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stylecloset/wardrobe-service/internal/http/response"
	"github.com/stylecloset/wardrobe-service/internal/storage"
)

// MaxUploadBytes caps wardrobe images at 8 MB, matching the frontend check.
const MaxUploadBytes = 8 << 20

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type UploadHandler struct {
	uploader *storage.Uploader
}

func NewUploadHandler(uploader *storage.Uploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

func (h *UploadHandler) UploadWardrobeImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		response.Error(w, r, http.StatusRequestEntityTooLarge, "Arquivo muito grande (max 8MB)", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "Dados invalidos", map[string]string{"file": "Envie um arquivo no campo 'file'"})
		return
	}
	defer file.Close()

	if header.Size > MaxUploadBytes {
		response.Error(w, r, http.StatusRequestEntityTooLarge, "Arquivo muito grande (max 8MB)", nil)
		return
	}

	contentType := header.Header.Get("Content-Type")
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "Dados invalidos", map[string]string{"file": "Formato nao suportado (jpeg, png ou webp)"})
		return
	}

	key := fmt.Sprintf("wardrobe/%s/%d-%s-%s%s",
		userID, time.Now().UnixMilli(), uuid.NewString()[:8], sanitizeFileName(header.Filename), ext)

	url, err := h.uploader.Upload(r.Context(), key, contentType, file)
	if err != nil {
		slog.ErrorContext(r.Context(), "image upload failed", "error", err)
		response.Error(w, r, http.StatusInternalServerError, "Erro interno", nil)
		return
	}
	response.JSON(w, r, http.StatusCreated, map[string]string{"url": url})
}

// sanitizeFileName keeps only safe characters from the client filename so it
// can appear in an object key without escaping surprises.
func sanitizeFileName(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "upload"
	}
	if len(out) > 60 {
		out = out[:60]
	}
	return out
}
