package handlers

import (
	"errors"
	"net/http"

	"github.com/chenhw7/MoonLight/internal/interview"
	"github.com/chenhw7/MoonLight/internal/llm"
	"github.com/chenhw7/MoonLight/internal/models"
	"github.com/chenhw7/MoonLight/internal/utils"
)

// writeServiceError maps the service error taxonomy onto HTTP. Provider
// failures become 502 so clients can tell "your model endpoint is broken"
// apart from "this backend is broken".
func writeServiceError(w http.ResponseWriter, err error) {
	var provErr *llm.ProviderError
	switch {
	case errors.Is(err, interview.ErrNotFound):
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "not_found",
			Message: err.Error(),
		})
	case errors.Is(err, interview.ErrForbidden):
		utils.JSON(w, http.StatusForbidden, models.ErrorResponse{
			Code:    "forbidden",
			Message: err.Error(),
		})
	case errors.Is(err, interview.ErrInvalidState):
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "invalid_state",
			Message: err.Error(),
		})
	case errors.As(err, &provErr):
		utils.JSON(w, http.StatusBadGateway, models.ErrorResponse{
			Code:    provErr.Code,
			Message: provErr.Message,
		})
	default:
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Internal server error",
		})
	}
}
