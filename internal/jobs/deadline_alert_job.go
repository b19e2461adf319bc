package jobs

import (
	"context"
	"time"

	"github.com/contractgov/contract-api/internal/dashboard"
	"github.com/contractgov/contract-api/internal/domain"
	"github.com/contractgov/contract-api/internal/mapper"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DeadlineAlertJobName is the name of the deadline alert job
const DeadlineAlertJobName = "deadline_alert"

// DeadlineSource lists open contracts of every owner with a deadline on or before until
type DeadlineSource interface {
	ListOpenWithDeadline(ctx context.Context, until domain.Date) ([]domain.Contract, error)
}

// DeadlineAlertSummary counts the alerts raised by one run
type DeadlineAlertSummary struct {
	Owners  int
	Overdue int
	DueSoon int
}

// DeadlineAlertJob logs, per owner, the open contracts whose execution
// deadline is past or within the window.
type DeadlineAlertJob struct {
	source     DeadlineSource
	windowDays int
	logger     *zap.Logger
	timeout    time.Duration
	now        func() time.Time
}

// NewDeadlineAlertJob creates the job. A non-positive window uses the dashboard default.
func NewDeadlineAlertJob(source DeadlineSource, windowDays int, logger *zap.Logger, timeout time.Duration) *DeadlineAlertJob {
	if windowDays <= 0 {
		windowDays = dashboard.DefaultDeadlineWindowDays
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &DeadlineAlertJob{
		source:     source,
		windowDays: windowDays,
		logger:     logger.Named(DeadlineAlertJobName),
		timeout:    timeout,
		now:        time.Now,
	}
}

// Run is called by the scheduler.
func (j *DeadlineAlertJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	summary, err := j.RunOnce(ctx)
	if err != nil {
		j.logger.Error("deadline alert job failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return
	}
	j.logger.Info("deadline alert job finished",
		zap.Int("owners", summary.Owners),
		zap.Int("overdue", summary.Overdue),
		zap.Int("due_soon", summary.DueSoon),
		zap.Duration("duration", time.Since(start)),
	)
}

// RunOnce evaluates deadlines once and returns the counts
func (j *DeadlineAlertJob) RunOnce(ctx context.Context) (DeadlineAlertSummary, error) {
	now := j.now()
	until := domain.NewDate(now).AddDays(j.windowDays)

	contracts, err := j.source.ListOpenWithDeadline(ctx, until)
	if err != nil {
		return DeadlineAlertSummary{}, err
	}

	byOwner := make(map[uuid.UUID][]domain.ContractDTO)
	var owners []uuid.UUID
	for i := range contracts {
		owner := contracts[i].UserID
		if _, seen := byOwner[owner]; !seen {
			owners = append(owners, owner)
		}
		byOwner[owner] = append(byOwner[owner], mapper.ToContractDTO(&contracts[i]))
	}

	var summary DeadlineAlertSummary
	for _, owner := range owners {
		alerts := dashboard.ApproachingDeadlines(byOwner[owner], now, j.windowDays)
		if len(alerts) == 0 {
			continue
		}
		summary.Owners++
		for _, a := range alerts {
			if a.Overdue {
				summary.Overdue++
			} else {
				summary.DueSoon++
			}
			j.logger.Warn("contract deadline approaching",
				zap.String("user_id", owner.String()),
				zap.String("contract_id", a.ContractID.String()),
				zap.String("client_agency", a.ClientAgency),
				zap.String("deadline", a.Deadline.String()),
				zap.Int("days_remaining", a.DaysRemaining),
				zap.String("level", string(a.Level)),
			)
		}
	}
	return summary, nil
}
