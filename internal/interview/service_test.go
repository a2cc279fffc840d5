package interview

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/chenhw7/MoonLight/internal/llm"
	"github.com/chenhw7/MoonLight/internal/models"
	"github.com/chenhw7/MoonLight/internal/prompts"
	"github.com/chenhw7/MoonLight/internal/store"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// mockProvider lets each test script the provider's behavior.
type mockProvider struct {
	completeFn func(ctx context.Context, messages []llm.Message, opts llm.Options) (string, error)
	streamFn   func(ctx context.Context, messages []llm.Message, opts llm.Options, onChunk func(string) error) (string, error)
	calls      int
}

func (m *mockProvider) ChatComplete(ctx context.Context, messages []llm.Message, opts llm.Options) (string, error) {
	m.calls++
	if m.completeFn == nil {
		return "ok", nil
	}
	return m.completeFn(ctx, messages, opts)
}

func (m *mockProvider) ChatStream(ctx context.Context, messages []llm.Message, opts llm.Options, onChunk func(string) error) (string, error) {
	m.calls++
	if m.streamFn == nil {
		return "ok", nil
	}
	return m.streamFn(ctx, messages, opts, onChunk)
}

func (m *mockProvider) GetProviderName() string { return "mock" }

type testEnv struct {
	service  *Service
	store    *store.Store
	db       *gorm.DB
	provider *mockProvider
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.InterviewSession{},
		&models.InterviewMessage{},
		&models.InterviewEvaluation{},
		&models.Resume{},
		&models.Education{},
		&models.WorkExperience{},
		&models.Project{},
		&models.Skill{},
		&models.AIConfig{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	manager, err := prompts.NewManager()
	if err != nil {
		t.Fatalf("failed to load prompt templates: %v", err)
	}

	provider := &mockProvider{}
	registry := llm.NewRegistry()
	registry.Register("mock", func(cfg models.ModelConfig) (llm.Provider, error) {
		return provider, nil
	})

	st := store.NewStore(db)
	return &testEnv{
		service:  NewService(st, registry, manager, zap.NewNop()),
		store:    st,
		db:       db,
		provider: provider,
	}
}

// seedUser gives userID an owned resume and an active mock provider config,
// returning the resume id.
func (e *testEnv) seedUser(t *testing.T, userID uint) uint {
	t.Helper()

	resume := &models.Resume{UserID: userID, ResumeType: "standard", FullName: "张三"}
	if err := e.db.Create(resume).Error; err != nil {
		t.Fatalf("failed to seed resume: %v", err)
	}
	config := &models.AIConfig{
		UserID:    userID,
		IsActive:  true,
		Provider:  "mock",
		BaseURL:   "http://mock",
		APIKey:    "key",
		ChatModel: "mock-model",
	}
	if err := e.db.Create(config).Error; err != nil {
		t.Fatalf("failed to seed ai config: %v", err)
	}
	return resume.ID
}

func (e *testEnv) createSession(t *testing.T, userID uint) *models.InterviewSession {
	t.Helper()

	resumeID := e.seedUser(t, userID)
	session, err := e.service.CreateSession(context.Background(), userID, &models.CreateSessionRequest{
		ResumeID:         resumeID,
		CompanyName:      "test co",
		PositionName:     "backend",
		JobDescription:   "jd",
		RecruitmentType:  models.RecruitmentCampus,
		InterviewMode:    "basic_knowledge",
		InterviewerStyle: "strict",
	})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	return session
}

func TestCreateSessionFreezesSnapshot(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	session := e.createSession(t, 1)
	if session.Status != models.StatusOngoing || session.CurrentRound != models.RoundOpening {
		t.Fatalf("unexpected initial state: %+v", session)
	}
	if session.ModelConfig.Provider != "mock" || session.ModelConfig.ChatModel != "mock-model" {
		t.Fatalf("model snapshot not frozen: %+v", session.ModelConfig)
	}

	// Later config edits must not leak into the session.
	if err := e.db.Model(&models.AIConfig{}).Where("user_id = ?", 1).
		Update("chat_model", "changed").Error; err != nil {
		t.Fatalf("failed to update config: %v", err)
	}
	got, err := e.service.GetSession(ctx, 1, session.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.ModelConfig.ChatModel != "mock-model" {
		t.Fatalf("snapshot mutated after config edit: %+v", got.ModelConfig)
	}
}

func TestCreateSessionRequiresActiveConfig(t *testing.T) {
	e := newTestEnv(t)

	resume := &models.Resume{UserID: 1, ResumeType: "standard", FullName: "张三"}
	if err := e.db.Create(resume).Error; err != nil {
		t.Fatalf("failed to seed resume: %v", err)
	}

	_, err := e.service.CreateSession(context.Background(), 1, &models.CreateSessionRequest{
		ResumeID:         resume.ID,
		CompanyName:      "co",
		PositionName:     "pos",
		JobDescription:   "jd",
		RecruitmentType:  models.RecruitmentCampus,
		InterviewMode:    "basic_knowledge",
		InterviewerStyle: "strict",
	})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState without active config, got %v", err)
	}
}

func TestCreateSessionResumeOwnership(t *testing.T) {
	e := newTestEnv(t)
	resumeID := e.seedUser(t, 1)

	// another user with their own config tries to use user 1's resume
	config := &models.AIConfig{UserID: 2, IsActive: true, Provider: "mock", BaseURL: "http://mock", APIKey: "k"}
	if err := e.db.Create(config).Error; err != nil {
		t.Fatalf("failed to seed config: %v", err)
	}

	req := &models.CreateSessionRequest{
		ResumeID:         resumeID,
		CompanyName:      "co",
		PositionName:     "pos",
		JobDescription:   "jd",
		RecruitmentType:  models.RecruitmentCampus,
		InterviewMode:    "basic_knowledge",
		InterviewerStyle: "strict",
	}
	if _, err := e.service.CreateSession(context.Background(), 2, req); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	req.ResumeID = 9999
	if _, err := e.service.CreateSession(context.Background(), 2, req); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing resume, got %v", err)
	}
}

func TestGetSessionErrors(t *testing.T) {
	e := newTestEnv(t)
	session := e.createSession(t, 1)

	if _, err := e.service.GetSession(context.Background(), 2, session.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for another user, got %v", err)
	}
	if _, err := e.service.GetSession(context.Background(), 1, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListSessionsPagination(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	session := e.createSession(t, 1)
	for i := 0; i < 2; i++ {
		clone := *session
		clone.ID = 0
		if err := e.store.CreateSession(ctx, &clone); err != nil {
			t.Fatalf("seed session: %v", err)
		}
	}

	resp, err := e.service.ListSessions(ctx, 1, "", 0, 2)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if resp.Total != 3 || len(resp.Items) != 2 || resp.Limit != 2 {
		t.Fatalf("unexpected page: total=%d len=%d limit=%d", resp.Total, len(resp.Items), resp.Limit)
	}

	if _, err := e.service.ListSessions(ctx, 1, "bogus", 0, 10); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState for bad status filter, got %v", err)
	}
}

func TestCompleteAndAbortSession(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	session := e.createSession(t, 1)
	done, err := e.service.CompleteSession(ctx, 1, session.ID)
	if err != nil {
		t.Fatalf("CompleteSession: %v", err)
	}
	if done.Status != models.StatusCompleted || done.EndTime == nil {
		t.Fatalf("unexpected completed session: %+v", done)
	}

	// ending twice is an invalid state
	if _, err := e.service.AbortSession(ctx, 1, session.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on double end, got %v", err)
	}
}

func TestAdvanceRound(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	session := e.createSession(t, 1)
	advanced, err := e.service.AdvanceRound(ctx, 1, session.ID)
	if err != nil {
		t.Fatalf("AdvanceRound: %v", err)
	}
	if advanced.CurrentRound != models.RoundSelfIntro {
		t.Fatalf("expected self_intro, got %s", advanced.CurrentRound)
	}

	if err := e.db.Model(&models.InterviewSession{}).Where("id = ?", session.ID).
		Update("current_round", models.RoundClosing).Error; err != nil {
		t.Fatalf("failed to move session to closing: %v", err)
	}
	if _, err := e.service.AdvanceRound(ctx, 1, session.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on the final round, got %v", err)
	}
}

func TestProgressFreshSession(t *testing.T) {
	e := newTestEnv(t)

	session := e.createSession(t, 1)
	progress, err := e.service.Progress(context.Background(), 1, session.ID)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if progress.CurrentRound != models.RoundOpening || progress.RoundIndex != 1 {
		t.Fatalf("unexpected progress: %+v", progress)
	}
	if !progress.CanTransition {
		t.Fatalf("opening has no minimum, CanTransition must be true")
	}
}
