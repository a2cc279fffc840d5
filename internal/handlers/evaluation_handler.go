package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/chenhw7/MoonLight/internal/interview"
	"github.com/chenhw7/MoonLight/internal/middleware"
	"github.com/chenhw7/MoonLight/internal/utils"
)

type EvaluationHandler struct {
	service *interview.Service
	logger  *zap.Logger
}

func NewEvaluationHandler(service *interview.Service, logger *zap.Logger) *EvaluationHandler {
	return &EvaluationHandler{service: service, logger: logger}
}

func (h *EvaluationHandler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	id := sessionID(w, r)
	if id == 0 {
		return
	}
	userID := middleware.GetUserID(r)

	evaluation, err := h.service.GenerateEvaluation(r.Context(), userID, id)
	if err != nil {
		h.logger.Error("failed to generate evaluation",
			zap.Uint("session_id", id),
			zap.Error(err))
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, evaluation)
}

func (h *EvaluationHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	id := sessionID(w, r)
	if id == 0 {
		return
	}

	evaluation, err := h.service.GetEvaluation(r.Context(), middleware.GetUserID(r), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, evaluation)
}
