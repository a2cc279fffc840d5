package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/chenhw7/MoonLight/internal/models"
	"github.com/chenhw7/MoonLight/internal/store"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SessionReaperJob aborts interview sessions that have been sitting idle in
// the ongoing state. Candidates close the tab mid-interview all the time;
// without the reaper those sessions would stay "ongoing" forever and keep
// blocking evaluation.
type SessionReaperJob struct {
	store  *store.Store
	config *ReaperConfig
	logger *zap.Logger
	cron   *cron.Cron
}

// ReaperConfig contains configuration for the reaper job
type ReaperConfig struct {
	Schedule string        // cron schedule (e.g. "*/30 * * * *")
	Enabled  bool          // whether to run at all
	MaxIdle  time.Duration // how long an ongoing session may sit untouched
	Batch    int           // max sessions aborted per run, 0 for unlimited
}

func NewSessionReaperJob(st *store.Store, config *ReaperConfig, logger *zap.Logger) *SessionReaperJob {
	return &SessionReaperJob{
		store:  st,
		config: config,
		logger: logger,
		cron:   cron.New(),
	}
}

// Start begins the scheduled reaper job.
func (j *SessionReaperJob) Start() error {
	if !j.config.Enabled {
		j.logger.Info("session reaper is disabled, skipping scheduler")
		return nil
	}

	_, err := j.cron.AddFunc(j.config.Schedule, func() {
		if _, err := j.RunOnce(context.Background()); err != nil {
			j.logger.Error("session reaper run failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reaper job: %w", err)
	}

	j.cron.Start()
	j.logger.Info("session reaper started", zap.String("schedule", j.config.Schedule))
	return nil
}

// Stop stops the scheduled reaper job.
func (j *SessionReaperJob) Stop() {
	if j.cron != nil {
		j.cron.Stop()
		j.logger.Info("session reaper stopped")
	}
}

// RunOnce performs a single reap pass and returns how many sessions it
// aborted.
func (j *SessionReaperJob) RunOnce(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-j.config.MaxIdle)
	stale, err := j.store.StaleOngoingSessions(ctx, cutoff, j.config.Batch)
	if err != nil {
		return 0, err
	}

	aborted := 0
	for i := range stale {
		session := &stale[i]
		if err := j.store.EndSession(ctx, session, models.StatusAborted); err != nil {
			j.logger.Error("failed to abort stale session",
				zap.Uint("session_id", session.ID),
				zap.Error(err))
			continue
		}
		aborted++
	}

	if aborted > 0 {
		j.logger.Info("reaped stale sessions", zap.Int("aborted", aborted))
	}
	return aborted, nil
}
