package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pollylang/pollylang-backend/internal/domain"
	"github.com/pollylang/pollylang-backend/internal/service/dialogue"
)

type dialogueService interface {
	Generate(ctx context.Context, in dialogue.GenerateInput) (dialogue.Result, error)
	Chat(ctx context.Context, in dialogue.ChatInput) (string, error)
}

// DialogueHandler serves NPC replies and free chat.
type DialogueHandler struct {
	svc dialogueService
	log *slog.Logger
}

// NewDialogueHandler creates a DialogueHandler.
func NewDialogueHandler(svc dialogueService, logger *slog.Logger) *DialogueHandler {
	return &DialogueHandler{svc: svc, log: logger.With("handler", "dialogue")}
}

type replyRequest struct {
	Persona  string `json:"persona"`
	Language string `json:"language"`
	LangCode string `json:"langCode"`
	Level    level  `json:"level"`
	Topic    string `json:"topic"`
	User     string `json:"user"`
}

type chatRequest struct {
	Persona  string `json:"persona"`
	Language string `json:"language"`
	User     string `json:"user"`
}

type textResponse struct {
	Text string `json:"text"`
}

// Reply handles POST /api/npc/reply.
func (h *DialogueHandler) Reply(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req replyRequest
	if err := decodeBody(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	res, err := h.svc.Generate(r.Context(), dialogue.GenerateInput{
		Persona:  req.Persona,
		Language: req.Language,
		LangCode: req.LangCode,
		Level:    string(req.Level),
		Topic:    req.Topic,
		User:     req.User,
	})
	if err != nil {
		h.handleError(w, r, err, "")
		return
	}

	writeJSON(w, http.StatusOK, textResponse{Text: res.Text})
}

// Chat handles POST /api/chat.
func (h *DialogueHandler) Chat(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req chatRequest
	if err := decodeBody(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	text, err := h.svc.Chat(r.Context(), dialogue.ChatInput{
		Persona:  req.Persona,
		Language: req.Language,
		User:     req.User,
	})
	if err != nil {
		h.handleError(w, r, err, "Groq error: ")
		return
	}

	writeJSON(w, http.StatusOK, textResponse{Text: text})
}

// statusClientClosedRequest is recorded when the caller went away before
// the reply was ready. Nobody reads the response.
const statusClientClosedRequest = 499

// handleError maps upstream failures to 502 with the upstream message.
func (h *DialogueHandler) handleError(w http.ResponseWriter, r *http.Request, err error, prefix string) {
	if errors.Is(err, context.Canceled) {
		h.log.DebugContext(r.Context(), "client closed request", slog.String("error", err.Error()))
		w.WriteHeader(statusClientClosedRequest)
		return
	}
	if domain.IsUpstream(err) {
		h.log.WarnContext(r.Context(), "upstream failure", slog.String("error", err.Error()))
		writeError(w, http.StatusBadGateway, prefix+upstreamMessage(err))
		return
	}
	h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
	writeError(w, http.StatusInternalServerError, "Internal error")
}
