package interview

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chenhw7/MoonLight/internal/llm"
	"github.com/chenhw7/MoonLight/internal/models"
	"github.com/chenhw7/MoonLight/internal/store"

	"go.uber.org/zap"
)

// persistTimeout bounds the post-stream persistence step. It runs on its
// own context so a client disconnect cannot abort the write.
const persistTimeout = 15 * time.Second

// StreamMessage runs one streaming turn. Events go through emit in order:
// one start, zero or more chunks, then exactly one end or error. Failures
// never escape as panics; every one becomes a single terminal error event.
// An emit failure means the client is gone: forwarding stops, but the
// provider stream is still drained and the buffered reply persisted.
func (s *Service) StreamMessage(ctx context.Context, userID, sessionID uint, req *models.SendMessageRequest, emit func(models.StreamEvent) error) {
	turn, err := s.prepareTurn(ctx, userID, sessionID, req)
	if err != nil {
		s.emitError(emit, sessionID, err)
		return
	}

	if err := emit(models.StreamEvent{Type: models.EventStart}); err != nil {
		// Client left before the first byte. Nothing is buffered yet and
		// the provider has not been called, so stop here; the committed
		// user message stands.
		s.logger.Warn("client gone before stream start", zap.Uint("session_id", sessionID))
		return
	}

	// The provider read runs detached from the request context: a client
	// disconnect cancels r.Context(), and an aborted read would throw away
	// the buffered reply. Disconnects surface through emit instead, which
	// stops forwarding but keeps the stream draining.
	reply, streamErr := turn.provider.ChatStream(context.WithoutCancel(ctx), turn.chat, turn.opts, func(chunk string) error {
		return emit(models.StreamEvent{Type: models.EventChunk, Content: chunk})
	})
	if streamErr != nil {
		s.emitError(emit, sessionID, streamErr)
		return
	}
	if reply == "" {
		s.emitError(emit, sessionID, &llm.ProviderError{
			Provider: turn.session.ModelConfig.Provider,
			Code:     llm.ErrCodeServiceDown,
			Message:  "provider returned an empty response",
		})
		return
	}

	// Persistence runs on a fresh context and a fresh read of the session:
	// the request context may already be cancelled, and the session may
	// have been ended or deleted while the stream was running.
	pctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	var (
		aiMsg      *models.InterviewMessage
		transition bool
		next       string
	)
	err = s.store.RunInUnitOfWork(pctx, func(tx *store.Store) error {
		fresh, err := tx.GetSession(pctx, sessionID)
		if err != nil {
			if store.IsNotFound(err) {
				return fmt.Errorf("%w: session %d vanished during stream", ErrNotFound, sessionID)
			}
			return err
		}
		if !fresh.Ongoing() {
			return fmt.Errorf("%w: session ended during stream", ErrInvalidState)
		}

		// The reply answered the round captured before the stream opened;
		// the transition decision and the message tag use that round, not
		// whatever the row says now.
		fresh.CurrentRound = turn.session.CurrentRound
		aiMsg, transition, next, err = persistReply(pctx, tx, fresh, reply)
		return err
	})
	if err != nil {
		s.emitError(emit, sessionID, err)
		return
	}

	end := models.StreamEvent{
		Type:       models.EventEnd,
		MessageID:  aiMsg.ID,
		Transition: transition,
	}
	if transition {
		end.NextRound = &next
		s.logger.Info("round transition",
			zap.Uint("session_id", sessionID),
			zap.String("next_round", next))
	}
	if err := emit(end); err != nil {
		s.logger.Warn("client gone before end event", zap.Uint("session_id", sessionID))
	}
}

// emitError sends the single terminal error event. A failed emit only gets
// logged: there is nobody left to tell.
func (s *Service) emitError(emit func(models.StreamEvent) error, sessionID uint, cause error) {
	s.logger.Error("streaming turn failed",
		zap.Uint("session_id", sessionID),
		zap.Error(cause))

	event := models.StreamEvent{Type: models.EventError, Message: errorMessage(cause)}
	if err := emit(event); err != nil {
		s.logger.Warn("failed to deliver error event", zap.Uint("session_id", sessionID))
	}
}

// errorMessage picks the client-facing text for a failure without leaking
// internals.
func errorMessage(err error) string {
	var provErr *llm.ProviderError
	switch {
	case errors.As(err, &provErr):
		return provErr.Message
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrForbidden),
		errors.Is(err, ErrInvalidState):
		return err.Error()
	default:
		return "internal error"
	}
}
