package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chenhw7/MoonLight/internal/models"

	"gorm.io/gorm"
)

// Store wraps the database handle. All interview persistence goes through
// it so the orchestrator never touches gorm directly.
type Store struct {
	db *gorm.DB
}

// NewStore creates a store over an open database handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// IsNotFound reports whether err means the queried row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// RunInUnitOfWork runs fn inside a dedicated transaction with its own
// store. The streaming pipeline uses it to re-open persistence after the
// provider stream finishes, independent of whatever context the request
// started with.
func (s *Store) RunInUnitOfWork(ctx context.Context, fn func(*Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// CreateSession inserts a new session row.
func (s *Store) CreateSession(ctx context.Context, session *models.InterviewSession) error {
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetSession fetches a session by id. Returns gorm.ErrRecordNotFound when
// the row does not exist; use IsNotFound to test.
func (s *Store) GetSession(ctx context.Context, id uint) (*models.InterviewSession, error) {
	var session models.InterviewSession
	if err := s.db.WithContext(ctx).First(&session, id).Error; err != nil {
		if IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get session %d: %w", id, err)
	}
	return &session, nil
}

// ListSessions returns a page of a user's sessions, newest first, plus the
// total count before paging. An empty status means no status filter.
func (s *Store) ListSessions(ctx context.Context, userID uint, status string, skip, limit int) ([]models.InterviewSession, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.InterviewSession{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	var sessions []models.InterviewSession
	if err := query.Order("created_at DESC").Offset(skip).Limit(limit).Find(&sessions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, total, nil
}

// SaveSession persists mutable session fields (status, round, end time).
func (s *Store) SaveSession(ctx context.Context, session *models.InterviewSession) error {
	if err := s.db.WithContext(ctx).Save(session).Error; err != nil {
		return fmt.Errorf("failed to save session %d: %w", session.ID, err)
	}
	return nil
}

// EndSession marks a session finished with the given terminal status.
func (s *Store) EndSession(ctx context.Context, session *models.InterviewSession, status string) error {
	now := time.Now()
	session.Status = status
	session.EndTime = &now
	return s.SaveSession(ctx, session)
}

// StaleOngoingSessions returns ongoing sessions whose last update is older
// than the cutoff. The reaper job aborts these.
func (s *Store) StaleOngoingSessions(ctx context.Context, cutoff time.Time, limit int) ([]models.InterviewSession, error) {
	var sessions []models.InterviewSession
	query := s.db.WithContext(ctx).
		Where("status = ?", models.StatusOngoing).
		Where("updated_at < ?", cutoff).
		Order("updated_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to query stale sessions: %w", err)
	}
	return sessions, nil
}

// AppendMessage appends one message to a session transcript.
func (s *Store) AppendMessage(ctx context.Context, message *models.InterviewMessage) error {
	if err := s.db.WithContext(ctx).Create(message).Error; err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

// ListMessages returns a session's full transcript in insertion order.
func (s *Store) ListMessages(ctx context.Context, sessionID uint) ([]models.InterviewMessage, error) {
	var messages []models.InterviewMessage
	if err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id ASC").
		Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to list messages for session %d: %w", sessionID, err)
	}
	return messages, nil
}

// CreateEvaluation inserts a session's evaluation. The unique index on
// session_id makes a second insert fail.
func (s *Store) CreateEvaluation(ctx context.Context, evaluation *models.InterviewEvaluation) error {
	if err := s.db.WithContext(ctx).Create(evaluation).Error; err != nil {
		return fmt.Errorf("failed to create evaluation: %w", err)
	}
	return nil
}

// GetEvaluation fetches the evaluation for a session, if any.
func (s *Store) GetEvaluation(ctx context.Context, sessionID uint) (*models.InterviewEvaluation, error) {
	var evaluation models.InterviewEvaluation
	if err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&evaluation).Error; err != nil {
		if IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get evaluation for session %d: %w", sessionID, err)
	}
	return &evaluation, nil
}

// GetResume fetches a resume with all sub-collections loaded, ordered for
// the prompt renderer.
func (s *Store) GetResume(ctx context.Context, id uint) (*models.Resume, error) {
	var resume models.Resume
	if err := s.db.WithContext(ctx).
		Preload("Educations", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("WorkExperiences", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("Projects", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("Skills", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		First(&resume, id).Error; err != nil {
		if IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get resume %d: %w", id, err)
	}
	return &resume, nil
}

// ListAIConfigs returns all of a user's provider configs, newest first.
func (s *Store) ListAIConfigs(ctx context.Context, userID uint) ([]models.AIConfig, error) {
	var configs []models.AIConfig
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&configs).Error; err != nil {
		return nil, fmt.Errorf("failed to list ai configs for user %d: %w", userID, err)
	}
	return configs, nil
}

// ActiveAIConfig returns the user's currently active provider config.
func (s *Store) ActiveAIConfig(ctx context.Context, userID uint) (*models.AIConfig, error) {
	var config models.AIConfig
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		First(&config).Error; err != nil {
		if IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get active ai config for user %d: %w", userID, err)
	}
	return &config, nil
}
