package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/contractgov/contract-api/internal/dashboard"
	"github.com/contractgov/contract-api/internal/domain"
	"github.com/contractgov/contract-api/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Controller owns the loaded contract list and the metrics derived from it.
// Metrics are recomputed after every load, never incrementally.
type Controller struct {
	store  Store
	auth   Authenticator
	gate   *SessionGate
	nav    *Navigator
	logger *zap.Logger
	now    func() time.Time

	mu        sync.RWMutex
	contracts []domain.ContractDTO
	metrics   domain.DashboardMetrics
}

// Option configures a Controller
type Option func(*Controller)

// WithClock overrides the time source used for metrics and drafts
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// NewController creates a controller with an empty contract list
func NewController(store Store, authn Authenticator, gate *SessionGate, nav *Navigator, logger *zap.Logger, opts ...Option) *Controller {
	c := &Controller{
		store:     store,
		auth:      authn,
		gate:      gate,
		nav:       nav,
		logger:    logger,
		now:       time.Now,
		contracts: []domain.ContractDTO{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.metrics = dashboard.Aggregate(c.contracts, c.now())
	return c
}

func (c *Controller) Gate() *SessionGate {
	return c.gate
}

func (c *Controller) Navigator() *Navigator {
	return c.nav
}

// Start validates a restored session and loads data when it is still valid.
// A session the backend rejects is cleared.
func (c *Controller) Start(ctx context.Context) error {
	if _, ok := c.gate.Current(); !ok {
		c.reset()
		return nil
	}

	if _, err := c.auth.Session(ctx); err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			c.logger.Info("stored session rejected, signing out")
			c.gate.Clear()
			c.reset()
			return nil
		}
		return fmt.Errorf("failed to check session: %w", err)
	}

	c.LoadData(ctx)
	return nil
}

// Watch reloads on sign-in and clears on sign-out until ctx is done
func (c *Controller) Watch(ctx context.Context) {
	changes, unsubscribe := c.gate.Subscribe(4)
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-changes:
			if !ok {
				return
			}
			c.logger.Debug("session changed", zap.Stringer("event", change.Event))
			switch change.Event {
			case SignedIn:
				c.LoadData(ctx)
			case SignedOut:
				c.reset()
			}
		}
	}
}

func (c *Controller) SignUp(ctx context.Context, req *domain.SignUpRequest) (*domain.SessionDTO, error) {
	session, err := c.auth.SignUp(ctx, req)
	if err != nil {
		return nil, err
	}
	c.gate.Set(session)
	return session, nil
}

func (c *Controller) SignIn(ctx context.Context, req *domain.SignInRequest) (*domain.SessionDTO, error) {
	session, err := c.auth.SignIn(ctx, req)
	if err != nil {
		return nil, err
	}
	c.gate.Set(session)
	return session, nil
}

// SignOut clears the local session even when the backend call fails
func (c *Controller) SignOut(ctx context.Context) error {
	err := c.auth.SignOut(ctx)
	if err != nil {
		c.logger.Warn("failed to revoke session", zap.Error(err))
	}
	c.gate.Clear()
	c.reset()
	return err
}

// LoadData fetches every contract of the signed-in user and recomputes the
// metrics. A failed fetch is logged and leaves an empty list.
func (c *Controller) LoadData(ctx context.Context) {
	contracts := []domain.ContractDTO{}
	if _, ok := c.gate.Current(); ok {
		list, err := c.store.List(ctx, "")
		if err != nil {
			c.logger.Error("failed to load contracts", zap.Error(err))
		} else if list != nil {
			contracts = list
		}
	}
	c.replace(contracts)
}

// Contracts returns the loaded contracts matching search
func (c *Controller) Contracts(search string) []domain.ContractDTO {
	c.mu.RLock()
	defer c.mu.RUnlock()
	matched := dashboard.FilterContracts(c.contracts, search)
	out := make([]domain.ContractDTO, len(matched))
	for i, ct := range matched {
		out[i] = ct.Clone()
	}
	return out
}

// Contract returns a loaded contract by id
func (c *Controller) Contract(id uuid.UUID) (domain.ContractDTO, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, ct := range c.contracts {
		if ct.ID != nil && *ct.ID == id {
			return ct.Clone(), true
		}
	}
	return domain.ContractDTO{}, false
}

func (c *Controller) Metrics() domain.DashboardMetrics {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.metrics
}

// Deadlines lists open contracts due within windowDays, overdue ones included
func (c *Controller) Deadlines(windowDays int) []domain.DeadlineAlert {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return dashboard.ApproachingDeadlines(c.contracts, c.now(), windowDays)
}

// Save upserts the record, reloads and leaves the form. The store error is
// returned unchanged so the caller can show it.
func (c *Controller) Save(ctx context.Context, req *domain.UpsertContractRequest) (*domain.UpsertContractResponse, error) {
	resp, err := c.store.Upsert(ctx, req)
	if err != nil {
		return nil, err
	}

	c.LoadData(ctx)
	if c.nav.View() == ViewForm {
		if err := c.nav.Saved(); err != nil {
			return resp, err
		}
	}
	return resp, nil
}

// Delete removes a contract after confirm approves it. It reports whether the
// contract was deleted; the list is reloaded only on success.
func (c *Controller) Delete(ctx context.Context, id uuid.UUID, confirm func(domain.ContractDTO) bool) (bool, error) {
	record, ok := c.Contract(id)
	if !ok {
		record = domain.ContractDTO{ID: &id}
	}
	if confirm != nil && !confirm(record) {
		return false, nil
	}

	if err := c.store.Delete(ctx, id); err != nil {
		c.logger.Error("failed to delete contract", zap.String("contract_id", id.String()), zap.Error(err))
		return false, err
	}

	c.LoadData(ctx)
	return true, nil
}

func (c *Controller) reset() {
	c.replace([]domain.ContractDTO{})
}

func (c *Controller) replace(contracts []domain.ContractDTO) {
	metrics := dashboard.Aggregate(contracts, c.now())

	c.mu.Lock()
	defer c.mu.Unlock()
	c.contracts = contracts
	c.metrics = metrics
}
