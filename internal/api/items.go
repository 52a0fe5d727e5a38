package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/prft/internal/imaging"
	"github.com/erazemk/prft/internal/ledger"
	"github.com/erazemk/prft/internal/model"
	"github.com/erazemk/prft/internal/stats"
)

// ItemsHandler handles item endpoints. Every operation acts for the
// authenticated user.
type ItemsHandler struct {
	Ledger *ledger.Ledger
}

type deleteResponse struct {
	ID        string    `json:"id"`
	UndoUntil time.Time `json:"undo_until"`
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, ok := stats.ParseFilter(r.URL.Query().Get("status"))
	if !ok {
		jsonError(w, http.StatusBadRequest, "status must be all, listed or sold")
		return
	}

	snap, err := h.Ledger.List(r.Context(), GetClaims(r.Context()).UserID, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, newSnapshotView(snap))
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.ItemInput
	if err := decodeJSON(w, r, &in); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Ledger.Create(r.Context(), GetClaims(r.Context()).UserID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, newItemView(*item))
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.Ledger.Get(r.Context(), GetClaims(r.Context()).UserID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, newItemView(*item))
}

// Update handles PATCH /api/items/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in model.ItemInput
	if err := decodeJSON(w, r, &in); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Ledger.Update(r.Context(), GetClaims(r.Context()).UserID, r.PathValue("id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, newItemView(*item))
}

// Toggle handles POST /api/items/{id}/toggle.
func (h *ItemsHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	item, err := h.Ledger.ToggleStatus(r.Context(), GetClaims(r.Context()).UserID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, newItemView(*item))
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.Ledger.Delete(r.Context(), GetClaims(r.Context()).UserID, id); err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, deleteResponse{
		ID:        id,
		UndoUntil: time.Now().Add(h.Ledger.UndoWindow()).UTC(),
	})
}

// Restore handles POST /api/items/{id}/restore.
func (h *ItemsHandler) Restore(w http.ResponseWriter, r *http.Request) {
	item, err := h.Ledger.Restore(r.Context(), GetClaims(r.Context()).UserID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, newItemView(*item))
}

// UploadImage handles PUT /api/items/{id}/image.
func (h *ItemsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, imaging.DefaultMaxBytes+(1<<20))

	if err := r.ParseMultipartForm(imaging.DefaultMaxBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	claims := GetClaims(r.Context())
	if err := h.Ledger.SetImage(r.Context(), claims.UserID, r.PathValue("id"), file); err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("photo uploaded", "user", claims.Username, "item", r.PathValue("id"))
	jsonResponse(w, http.StatusOK, map[string]string{"message": "image uploaded"})
}

// GetImage handles GET /api/items/{id}/image.
func (h *ItemsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	data, mime, err := h.Ledger.Image(r.Context(), GetClaims(r.Context()).UserID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(data)
}
