package usermgmt

import (
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// ConfirmationState tracks a pending destructive action.
type ConfirmationState string

const (
	// ConfirmationPending awaits an explicit decision.
	ConfirmationPending ConfirmationState = "pending"
	// ConfirmationConfirmed authorizes the action to proceed.
	ConfirmationConfirmed ConfirmationState = "confirmed"
	// ConfirmationCancelled abandons the action.
	ConfirmationCancelled ConfirmationState = "cancelled"
)

const textCodeConfirmationResolved = "CONFIRMATION_RESOLVED"

// ErrConfirmationResolved is returned when a decision is applied to a
// confirmation that already left the pending state.
var ErrConfirmationResolved = goerrors.New("delete confirmation already resolved", goerrors.CategoryValidation).
	WithTextCode(textCodeConfirmationResolved).
	WithCode(goerrors.CodeConflict)

// DeleteConfirmation is the explicit two step gate in front of a user
// deletion. It replaces an imperative modal with a deterministic
// pending -> confirmed | cancelled transition that tests can drive directly.
type DeleteConfirmation struct {
	ID     uuid.UUID
	Target User
	state  ConfirmationState
}

// NewDeleteConfirmation opens a pending confirmation for the target user.
func NewDeleteConfirmation(target User) *DeleteConfirmation {
	return &DeleteConfirmation{
		ID:     uuid.New(),
		Target: target,
		state:  ConfirmationPending,
	}
}

// State returns the current confirmation state.
func (c *DeleteConfirmation) State() ConfirmationState {
	return c.state
}

// Resolved reports whether a decision has been made.
func (c *DeleteConfirmation) Resolved() bool {
	return c.state != ConfirmationPending
}

// Confirm authorizes the deletion. Only a pending confirmation may be
// confirmed.
func (c *DeleteConfirmation) Confirm() error {
	if c.Resolved() {
		return ErrConfirmationResolved
	}
	c.state = ConfirmationConfirmed
	return nil
}

// Cancel abandons the deletion. Only a pending confirmation may be
// cancelled.
func (c *DeleteConfirmation) Cancel() error {
	if c.Resolved() {
		return ErrConfirmationResolved
	}
	c.state = ConfirmationCancelled
	return nil
}
