package interview

import (
	"context"
	"fmt"
	"time"

	"github.com/chenhw7/MoonLight/internal/flow"
	"github.com/chenhw7/MoonLight/internal/llm"
	"github.com/chenhw7/MoonLight/internal/models"
	"github.com/chenhw7/MoonLight/internal/prompts"
	"github.com/chenhw7/MoonLight/internal/store"

	"go.uber.org/zap"
)

// Service orchestrates interview sessions: lifecycle, turns, round
// transitions and evaluations. Handlers call it; it owns no HTTP concerns.
// Turns on one session are expected to arrive one at a time; concurrent
// turns are not serialized here.
type Service struct {
	store    *store.Store
	registry *llm.Registry
	prompts  *prompts.Manager
	logger   *zap.Logger
}

func NewService(st *store.Store, registry *llm.Registry, manager *prompts.Manager, logger *zap.Logger) *Service {
	return &Service{
		store:    st,
		registry: registry,
		prompts:  manager,
		logger:   logger,
	}
}

// CreateSession starts a new interview. It requires the user to own the
// resume and to have an active provider config, whose snapshot is frozen
// into the session.
func (s *Service) CreateSession(ctx context.Context, userID uint, req *models.CreateSessionRequest) (*models.InterviewSession, error) {
	config, err := s.store.ActiveAIConfig(ctx, userID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, fmt.Errorf("%w: no active model configuration", ErrInvalidState)
		}
		return nil, err
	}

	resume, err := s.store.GetResume(ctx, req.ResumeID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, fmt.Errorf("%w: resume %d", ErrNotFound, req.ResumeID)
		}
		return nil, err
	}
	if resume.UserID != userID {
		return nil, fmt.Errorf("%w: resume %d", ErrForbidden, req.ResumeID)
	}

	session := &models.InterviewSession{
		UserID:           userID,
		ResumeID:         req.ResumeID,
		CompanyName:      req.CompanyName,
		PositionName:     req.PositionName,
		JobDescription:   req.JobDescription,
		RecruitmentType:  req.RecruitmentType,
		InterviewMode:    req.InterviewMode,
		InterviewerStyle: req.InterviewerStyle,
		ModelConfig:      config.Snapshot(),
		Status:           models.StatusOngoing,
		CurrentRound:     models.RoundOpening,
		StartTime:        time.Now(),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("interview session created",
		zap.Uint("session_id", session.ID),
		zap.Uint("user_id", userID),
		zap.String("provider", session.ModelConfig.Provider))
	return session, nil
}

// GetSession returns a session the user owns.
func (s *Service) GetSession(ctx context.Context, userID, sessionID uint) (*models.InterviewSession, error) {
	return s.ownedSession(ctx, userID, sessionID)
}

// ListSessions returns a page of the user's sessions, optionally filtered
// by status.
func (s *Service) ListSessions(ctx context.Context, userID uint, status string, skip, limit int) (*models.SessionListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if skip < 0 {
		skip = 0
	}
	if status != "" && !models.ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidState, status)
	}

	items, total, err := s.store.ListSessions(ctx, userID, status, skip, limit)
	if err != nil {
		return nil, err
	}
	return &models.SessionListResponse{Items: items, Total: total, Skip: skip, Limit: limit}, nil
}

// ListAIConfigs returns the user's provider configurations for the session
// setup screen. Keys never leave the server: the model's json tag drops
// them.
func (s *Service) ListAIConfigs(ctx context.Context, userID uint) ([]models.AIConfig, error) {
	return s.store.ListAIConfigs(ctx, userID)
}

// CompleteSession ends an ongoing session normally.
func (s *Service) CompleteSession(ctx context.Context, userID, sessionID uint) (*models.InterviewSession, error) {
	return s.endSession(ctx, userID, sessionID, models.StatusCompleted)
}

// AbortSession ends an ongoing session early.
func (s *Service) AbortSession(ctx context.Context, userID, sessionID uint) (*models.InterviewSession, error) {
	return s.endSession(ctx, userID, sessionID, models.StatusAborted)
}

// AdvanceRound manually moves the session to the next round, bypassing the
// cue detection. It rejects on the last round.
func (s *Service) AdvanceRound(ctx context.Context, userID, sessionID uint) (*models.InterviewSession, error) {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.Ongoing() {
		return nil, fmt.Errorf("%w: session is %s", ErrInvalidState, session.Status)
	}

	next := flow.NextRound(session.CurrentRound)
	if next == "" {
		return nil, fmt.Errorf("%w: already in the final round", ErrInvalidState)
	}

	session.CurrentRound = next
	if err := s.store.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("round advanced manually",
		zap.Uint("session_id", session.ID),
		zap.String("round", next))
	return session, nil
}

// Progress reports where the session stands inside its current round.
func (s *Service) Progress(ctx context.Context, userID, sessionID uint) (*models.RoundProgress, error) {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	messages, err := s.store.ListMessages(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	progress := flow.Progress(session, messages)
	return &progress, nil
}

// ListMessages returns the session transcript in order.
func (s *Service) ListMessages(ctx context.Context, userID, sessionID uint) ([]models.InterviewMessage, error) {
	if _, err := s.ownedSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	return s.store.ListMessages(ctx, sessionID)
}

func (s *Service) endSession(ctx context.Context, userID, sessionID uint, status string) (*models.InterviewSession, error) {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.Ongoing() {
		return nil, fmt.Errorf("%w: session is already %s", ErrInvalidState, session.Status)
	}
	if err := s.store.EndSession(ctx, session, status); err != nil {
		return nil, err
	}

	s.logger.Info("interview session ended",
		zap.Uint("session_id", session.ID),
		zap.String("status", status))
	return session, nil
}

func (s *Service) ownedSession(ctx context.Context, userID, sessionID uint) (*models.InterviewSession, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, fmt.Errorf("%w: session %d", ErrNotFound, sessionID)
		}
		return nil, err
	}
	if session.UserID != userID {
		return nil, fmt.Errorf("%w: session %d", ErrForbidden, sessionID)
	}
	return session, nil
}
