package app

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/contractgov/contract-api/internal/domain"
)

// View is one of the dashboard screens
type View string

const (
	ViewDashboard View = "dashboard"
	ViewList      View = "list"
	ViewForm      View = "form"
)

// ErrInvalidTransition is returned for a navigation the current view does not allow
var ErrInvalidTransition = errors.New("invalid view transition")

// Navigator tracks the current view and the record open in the form
type Navigator struct {
	mu      sync.Mutex
	view    View
	editing *domain.ContractDTO
}

// NewNavigator starts on the dashboard
func NewNavigator() *Navigator {
	return &Navigator{view: ViewDashboard}
}

func (n *Navigator) View() View {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.view
}

// Editing returns a copy of the record open in the form, or nil outside the form
func (n *Navigator) Editing() *domain.ContractDTO {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.editing == nil {
		return nil
	}
	c := n.editing.Clone()
	return &c
}

// ShowDashboard and ShowList are sidebar navigation; the form must be left
// through Cancel or Saved.
func (n *Navigator) ShowDashboard() error {
	return n.sidebar(ViewDashboard)
}

func (n *Navigator) ShowList() error {
	return n.sidebar(ViewList)
}

func (n *Navigator) sidebar(to View) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.view == ViewForm {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, n.view, to)
	}
	n.view = to
	return nil
}

// OpenNew opens the form on a fresh draft
func (n *Navigator) OpenNew(now time.Time) error {
	draft := domain.NewContractDraft(now)
	return n.openForm(&draft)
}

// OpenEdit opens the form on an existing record
func (n *Navigator) OpenEdit(c domain.ContractDTO) error {
	c = c.Clone()
	return n.openForm(&c)
}

func (n *Navigator) openForm(c *domain.ContractDTO) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.view != ViewList {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, n.view, ViewForm)
	}
	n.view = ViewForm
	n.editing = c
	return nil
}

// Cancel leaves the form without saving
func (n *Navigator) Cancel() error {
	return n.closeForm()
}

// Saved leaves the form after a successful save
func (n *Navigator) Saved() error {
	return n.closeForm()
}

func (n *Navigator) closeForm() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.view != ViewForm {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, n.view, ViewList)
	}
	n.view = ViewList
	n.editing = nil
	return nil
}
