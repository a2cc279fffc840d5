package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/chenhw7/MoonLight/internal/interview"
	"github.com/chenhw7/MoonLight/internal/middleware"
	"github.com/chenhw7/MoonLight/internal/models"
	"github.com/chenhw7/MoonLight/internal/utils"
)

type SessionHandler struct {
	service *interview.Service
	logger  *zap.Logger
}

func NewSessionHandler(service *interview.Service, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{service: service, logger: logger}
}

// sessionID parses the {sessionID} route parameter. A zero return means the
// parameter was bad and the error is already written.
func sessionID(w http.ResponseWriter, r *http.Request) uint {
	raw := chi.URLParam(r, "sessionID")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "invalid_session_id",
			Message: "session id must be a positive integer",
		})
		return 0
	}
	return uint(id)
}

func (h *SessionHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.CreateSessionRequest](r)
	userID := middleware.GetUserID(r)

	session, err := h.service.CreateSession(r.Context(), userID, req)
	if err != nil {
		h.logger.Error("failed to create session", zap.Uint("user_id", userID), zap.Error(err))
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, session)
}

func (h *SessionHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	query := r.URL.Query()
	skip, _ := strconv.Atoi(query.Get("skip"))
	limit, _ := strconv.Atoi(query.Get("limit"))

	resp, err := h.service.ListSessions(r.Context(), userID, query.Get("status"), skip, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}

func (h *SessionHandler) ConfigsHandler(w http.ResponseWriter, r *http.Request) {
	configs, err := h.service.ListAIConfigs(r.Context(), middleware.GetUserID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, configs)
}

func (h *SessionHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	id := sessionID(w, r)
	if id == 0 {
		return
	}

	session, err := h.service.GetSession(r.Context(), middleware.GetUserID(r), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, session)
}

func (h *SessionHandler) CompleteHandler(w http.ResponseWriter, r *http.Request) {
	id := sessionID(w, r)
	if id == 0 {
		return
	}

	session, err := h.service.CompleteSession(r.Context(), middleware.GetUserID(r), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, session)
}

func (h *SessionHandler) AbortHandler(w http.ResponseWriter, r *http.Request) {
	id := sessionID(w, r)
	if id == 0 {
		return
	}

	session, err := h.service.AbortSession(r.Context(), middleware.GetUserID(r), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, session)
}
