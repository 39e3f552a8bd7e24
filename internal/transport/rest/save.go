package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pollylang/pollylang-backend/internal/domain"
)

type saveService interface {
	Save(ctx context.Context, data json.RawMessage) error
	Load(ctx context.Context) (json.RawMessage, error)
}

// SaveHandler stores and returns the signed-in player's game state.
type SaveHandler struct {
	svc saveService
	log *slog.Logger
}

// NewSaveHandler creates a SaveHandler.
func NewSaveHandler(svc saveService, logger *slog.Logger) *SaveHandler {
	return &SaveHandler{svc: svc, log: logger.With("handler", "save")}
}

type saveRequest struct {
	Data json.RawMessage `json:"data"`
}

type loadResponse struct {
	Data json.RawMessage `json:"data"`
}

// Save handles POST /api/save.
func (h *SaveHandler) Save(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req saveRequest
	if err := decodeBody(r, &req); err != nil {
		if errors.Is(err, errBodyTooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Save too large")
			return
		}
		writeDecodeError(w, err)
		return
	}

	if err := h.svc.Save(r.Context(), req.Data); err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

// Load handles GET /api/load.
func (h *SaveHandler) Load(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	data, err := h.svc.Load(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loadResponse{Data: data})
}

func (h *SaveHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "No session")
	case errors.Is(err, domain.ErrTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "Save too large")
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, validationMessage(err))
	default:
		h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "Internal error")
	}
}
