package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SessionCleanupJobName is the name of the expired-session cleanup job
const SessionCleanupJobName = "session_cleanup"

// ExpiredSessionDeleter removes sessions that expired before a cutoff
type ExpiredSessionDeleter interface {
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// SessionCleanupJob deletes sessions that expired more than retention ago
type SessionCleanupJob struct {
	sessions  ExpiredSessionDeleter
	retention time.Duration
	logger    *zap.Logger
	timeout   time.Duration
	now       func() time.Time
}

func NewSessionCleanupJob(sessions ExpiredSessionDeleter, retention time.Duration, logger *zap.Logger, timeout time.Duration) *SessionCleanupJob {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &SessionCleanupJob{
		sessions:  sessions,
		retention: retention,
		logger:    logger.Named(SessionCleanupJobName),
		timeout:   timeout,
		now:       time.Now,
	}
}

func (j *SessionCleanupJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	deleted, err := j.sessions.DeleteExpired(ctx, j.now().Add(-j.retention))
	if err != nil {
		j.logger.Error("session cleanup failed", zap.Error(err))
		return
	}
	j.logger.Info("expired sessions deleted", zap.Int64("count", deleted))
}
