package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chenhw7/MoonLight/internal/interview"
	"github.com/chenhw7/MoonLight/internal/middleware"
	"github.com/chenhw7/MoonLight/internal/models"
	"github.com/chenhw7/MoonLight/internal/utils"
)

type MessageHandler struct {
	service *interview.Service
	logger  *zap.Logger
}

func NewMessageHandler(service *interview.Service, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{service: service, logger: logger}
}

// ensureRequestID generates a request ID if one is not provided
func ensureRequestID(requestID string) string {
	if requestID == "" {
		return uuid.New().String()
	}
	return requestID
}

func (h *MessageHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	id := sessionID(w, r)
	if id == 0 {
		return
	}

	messages, err := h.service.ListMessages(r.Context(), middleware.GetUserID(r), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, messages)
}

func (h *MessageHandler) SendHandler(w http.ResponseWriter, r *http.Request) {
	id := sessionID(w, r)
	if id == 0 {
		return
	}
	req := middleware.GetValidatedRequest[*models.SendMessageRequest](r)
	req.RequestID = ensureRequestID(req.RequestID)
	userID := middleware.GetUserID(r)

	resp, err := h.service.SendMessage(r.Context(), userID, id, req)
	if err != nil {
		h.logger.Error("turn failed",
			zap.Uint("session_id", id),
			zap.Uint("user_id", userID),
			zap.Error(err))
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}

// StreamHandler runs a streaming turn over SSE. Ownership and state are
// checked before the stream opens so those failures get real status codes;
// after the stream starts all failures are delivered in-band as a terminal
// error event.
func (h *MessageHandler) StreamHandler(w http.ResponseWriter, r *http.Request) {
	id := sessionID(w, r)
	if id == 0 {
		return
	}
	req := middleware.GetValidatedRequest[*models.SendMessageRequest](r)
	req.RequestID = ensureRequestID(req.RequestID)
	userID := middleware.GetUserID(r)

	if err := h.service.PrecheckTurn(r.Context(), userID, id); err != nil {
		writeServiceError(w, err)
		return
	}

	sse, err := utils.NewSSEWriter(w)
	if err != nil {
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "streaming_unsupported",
			Message: "response writer does not support streaming",
		})
		return
	}

	h.service.StreamMessage(r.Context(), userID, id, req, func(event models.StreamEvent) error {
		return sse.Send(event)
	})
}

func (h *MessageHandler) ProgressHandler(w http.ResponseWriter, r *http.Request) {
	id := sessionID(w, r)
	if id == 0 {
		return
	}

	progress, err := h.service.Progress(r.Context(), middleware.GetUserID(r), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, progress)
}

func (h *MessageHandler) NextRoundHandler(w http.ResponseWriter, r *http.Request) {
	id := sessionID(w, r)
	if id == 0 {
		return
	}

	session, err := h.service.AdvanceRound(r.Context(), middleware.GetUserID(r), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, session)
}
