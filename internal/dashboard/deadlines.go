package dashboard

import (
	"sort"
	"time"

	"github.com/contractgov/contract-api/internal/domain"
)

// ApproachingDeadlines returns the active and pending contracts whose execution
// deadline falls within windowDays of today, overdue ones included, sorted by
// deadline ascending. Days are compared in now's location.
func ApproachingDeadlines(contracts []domain.ContractDTO, now time.Time, windowDays int) []domain.DeadlineAlert {
	if windowDays < 0 {
		windowDays = DefaultDeadlineWindowDays
	}
	today := domain.NewDate(now)
	limit := today.AddDays(windowDays)

	alerts := make([]domain.DeadlineAlert, 0)
	for _, c := range contracts {
		if !c.Status.IsOpen() || c.Deadline == nil || c.Deadline.IsZero() {
			continue
		}
		deadline := *c.Deadline
		if deadline.After(limit) {
			continue
		}

		overdue := deadline.Before(today)
		level := domain.DeadlineDueSoon
		if overdue {
			level = domain.DeadlineOverdue
		}
		alerts = append(alerts, domain.DeadlineAlert{
			ContractID:    c.ID,
			ClientAgency:  c.ClientAgency,
			State:         c.State,
			Status:        c.Status,
			Deadline:      deadline,
			DaysRemaining: today.DaysUntil(deadline),
			Overdue:       overdue,
			Level:         level,
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Deadline.Before(alerts[j].Deadline)
	})
	return alerts
}
