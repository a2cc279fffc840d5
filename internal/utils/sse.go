package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// SSEWriter writes server-sent events as `data: {json}` frames, flushing
// after each one so chunks reach the client as they arrive.
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter sets the streaming headers and wraps w. It fails when the
// response writer cannot flush (e.g. behind a buffering test recorder that
// does not implement http.Flusher).
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("response writer does not support streaming")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// Send serializes data as one SSE frame. Its error means the client is
// gone.
func (s *SSEWriter) Send(data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", payload); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}
