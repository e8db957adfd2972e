package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sterna-backend/internal/middleware"
	"sterna-backend/internal/models"
	"sterna-backend/internal/services"
)

type ChatHandler struct {
	chatService *services.ChatService
	logger      *slog.Logger
}

func NewChatHandler(chatService *services.ChatService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// ListMessages handles GET /sessions/{sessionId}/messages.
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	messages, err := h.chatService.List(r.Context(), sessionID)
	if err != nil {
		h.logError(r, "failed to fetch messages", sessionID, err)
		writeJSON(w, http.StatusInternalServerError, errorResp("Failed to fetch messages"))
		return
	}

	writeJSON(w, http.StatusOK, messages)
}

// SendMessage handles POST /messages.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req models.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorRespWithDetails("Invalid request data", []models.FieldError{
			{Field: "body", Message: "Request body must be a JSON object"},
		}))
		return
	}

	resp, err := h.chatService.Send(r.Context(), req)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, errorRespWithDetails("Invalid request data", verr.Fields))
			return
		}
		h.logError(r, "failed to process message", req.SessionID, err)
		writeJSON(w, http.StatusInternalServerError, errorResp("Failed to process message"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ClearMessages handles DELETE /sessions/{sessionId}/messages.
func (h *ChatHandler) ClearMessages(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	if err := h.chatService.Clear(r.Context(), sessionID); err != nil {
		h.logError(r, "failed to clear messages", sessionID, err)
		writeJSON(w, http.StatusInternalServerError, errorResp("Failed to clear messages"))
		return
	}

	writeJSON(w, http.StatusOK, models.SuccessResponse{Success: true})
}

func (h *ChatHandler) logError(r *http.Request, msg, sessionID string, err error) {
	h.logger.Error(msg,
		"session_id", sessionID,
		"request_id", r.Header.Get(middleware.RequestIDHeader),
		"error", err,
	)
}
