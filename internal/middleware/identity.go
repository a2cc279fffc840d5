package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/chenhw7/MoonLight/internal/models"
	"github.com/chenhw7/MoonLight/internal/utils"
)

const userIDKey contextKey = "user_id"

// RequireUser reads the X-User-ID header the auth gateway sets after
// verifying the token. Requests without it never reach the handlers.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("X-User-ID")
		userID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || userID == 0 {
			utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{
				Code:    "unauthorized",
				Message: "Missing or invalid user identity",
			})
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, uint(userID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID retrieves the authenticated user id from context.
func GetUserID(r *http.Request) uint {
	id, _ := r.Context().Value(userIDKey).(uint)
	return id
}
