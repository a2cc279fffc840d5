package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chenhw7/MoonLight/internal/models"
)

func wrapSend(next http.HandlerFunc) http.Handler {
	return ValidateRequest[*models.SendMessageRequest]()(next)
}

func TestValidateRequestPassesValidBody(t *testing.T) {
	var got *models.SendMessageRequest
	handler := wrapSend(func(w http.ResponseWriter, r *http.Request) {
		got = GetValidatedRequest[*models.SendMessageRequest](r)
	})

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"content":"你好"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got == nil || got.Content != "你好" {
		t.Fatalf("validated request not stored in context: %+v", got)
	}
}

func TestValidateRequestRejectsBadJSON(t *testing.T) {
	handler := wrapSend(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run for malformed JSON")
	})

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestValidateRequestRejectsFailedValidation(t *testing.T) {
	handler := wrapSend(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run for an empty message")
	})

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"content":"  "}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var errResp models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("bad error json: %v", err)
	}
	if errResp.Code != "missing_content" {
		t.Fatalf("expected missing_content, got %q", errResp.Code)
	}
}

func TestRequireUser(t *testing.T) {
	var got uint
	handler := RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetUserID(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-User-ID", "42")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || got != 42 {
		t.Fatalf("expected user 42 through, got code=%d user=%d", rec.Code, got)
	}

	for _, raw := range []string{"", "0", "-1", "abc"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if raw != "" {
			req.Header.Set("X-User-ID", raw)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", raw, rec.Code)
		}
	}
}
