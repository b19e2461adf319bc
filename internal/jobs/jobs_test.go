package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/contractgov/contract-api/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeDeadlineSource struct {
	contracts []domain.Contract
	until     domain.Date
	err       error
}

func (f *fakeDeadlineSource) ListOpenWithDeadline(ctx context.Context, until domain.Date) ([]domain.Contract, error) {
	f.until = until
	return f.contracts, f.err
}

func contractDue(owner uuid.UUID, now time.Time, days int) domain.Contract {
	d := domain.NewDate(now).AddDays(days)
	return domain.Contract{
		BaseModel:    domain.BaseModel{ID: uuid.New()},
		UserID:       owner,
		ClientAgency: "Prefeitura",
		State:        "SP",
		Status:       domain.ContractStatusActive,
		Deadline:     &d,
	}
}

func TestDeadlineAlertJob_RunOnce(t *testing.T) {
	now := time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)
	alice, bob := uuid.New(), uuid.New()

	source := &fakeDeadlineSource{contracts: []domain.Contract{
		contractDue(alice, now, -3),
		contractDue(alice, now, 0),
		contractDue(bob, now, 10),
	}}

	core, logs := observer.New(zap.WarnLevel)
	job := NewDeadlineAlertJob(source, 15, zap.New(core), time.Second)
	job.now = func() time.Time { return now }

	summary, err := job.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DeadlineAlertSummary{Owners: 2, Overdue: 1, DueSoon: 2}, summary)
	assert.Equal(t, "2026-10-29", source.until.String())
	assert.Equal(t, 3, logs.FilterMessage("contract deadline approaching").Len())
}

func TestDeadlineAlertJob_SourceError(t *testing.T) {
	source := &fakeDeadlineSource{err: errors.New("database unavailable")}
	job := NewDeadlineAlertJob(source, 0, zap.NewNop(), time.Second)

	_, err := job.RunOnce(context.Background())
	assert.Error(t, err)
	assert.NotPanics(t, job.Run)
}

type fakeSessionDeleter struct {
	cutoff time.Time
}

func (f *fakeSessionDeleter) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return 4, nil
}

func TestSessionCleanupJob_Run(t *testing.T) {
	now := time.Date(2026, 10, 14, 3, 30, 0, 0, time.UTC)
	deleter := &fakeSessionDeleter{}
	job := NewSessionCleanupJob(deleter, 7*24*time.Hour, zap.NewNop(), time.Second)
	job.now = func() time.Time { return now }

	job.Run()
	assert.Equal(t, now.AddDate(0, 0, -7), deleter.cutoff)
}

func TestScheduler_AddRemove(t *testing.T) {
	s := NewScheduler(zap.NewNop())

	require.NoError(t, s.AddJob(SessionCleanupJobName, "0 30 3 * * *", func() {}))
	require.NoError(t, s.AddJob(DeadlineAlertJobName, "0 0 8 * * *", func() {}))
	assert.Equal(t, []string{DeadlineAlertJobName, SessionCleanupJobName}, s.JobNames())

	assert.Error(t, s.AddJob(DeadlineAlertJobName, "@daily", func() {}), "duplicate name")
	assert.Error(t, s.AddJob("broken", "not a cron", func() {}))

	require.NoError(t, s.RemoveJob(DeadlineAlertJobName))
	assert.Error(t, s.RemoveJob(DeadlineAlertJobName))
	assert.Equal(t, []string{SessionCleanupJobName}, s.JobNames())
}

func TestScheduler_RunsJobs(t *testing.T) {
	s := NewScheduler(zap.NewNop())
	ran := make(chan struct{}, 1)
	require.NoError(t, s.AddJob("tick", "@every 1s", func() {
		select {
		case ran <- struct{}{}:
		default:
		}
	}))

	s.Start()
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("scheduled job did not run")
	}
}
