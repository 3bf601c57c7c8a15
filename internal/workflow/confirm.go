// Package workflow implements the confirmation gate for destructive
// actions. Edits and deletes are staged as a pending action and executed
// only after an explicit confirmation; creates bypass this gate entirely,
// since creation is additive and cheap to undo via delete.
package workflow

import (
	"context"
	"sync"

	"github.com/mercadito/console/model"
)

// State of a Confirmer. Confirm and cancel both return to idle; the
// machine is reusable across actions.
type State string

const (
	StateIdle                 State = "idle"
	StateAwaitingConfirmation State = "awaiting_confirmation"
)

// ActionKind identifies the gated mutation held in a PendingAction.
type ActionKind string

const (
	ActionEdit   ActionKind = "edit"
	ActionDelete ActionKind = "delete"
)

// PendingAction is an edit or delete awaiting explicit confirmation. The
// execute closure carries the validated draft (edit) or target id (delete)
// and performs the backend call plus the post-mutation reload.
type PendingAction struct {
	Kind     ActionKind
	TargetID model.ID
	execute  func(ctx context.Context) error
}

// NewPendingAction builds a pending action around its execute closure.
func NewPendingAction(kind ActionKind, targetID model.ID, execute func(ctx context.Context) error) PendingAction {
	return PendingAction{Kind: kind, TargetID: targetID, execute: execute}
}

// Confirmer is the two-state confirmation machine. One exhaustive state
// value replaces the independent modal flags of a typical form UI, so two
// confirmations can never be open at once. Safe for concurrent use; the
// lock is never held across the backend call.
type Confirmer struct {
	mu      sync.Mutex
	pending *PendingAction
}

// NewConfirmer creates a Confirmer in the idle state.
func NewConfirmer() *Confirmer {
	return &Confirmer{}
}

// State reports the current state.
func (c *Confirmer) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending != nil {
		return StateAwaitingConfirmation
	}
	return StateIdle
}

// Pending returns the kind and target of the held action, if any.
func (c *Confirmer) Pending() (ActionKind, model.ID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return "", "", false
	}
	return c.pending.Kind, c.pending.TargetID, true
}

// Request stages an action for confirmation. It is rejected while another
// action is already awaiting confirmation.
func (c *Confirmer) Request(action PendingAction) error {
	if action.execute == nil {
		return model.NewInternalError()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending != nil {
		return model.NewInvalidTransitionError(
			"another action is already awaiting confirmation",
		)
	}
	c.pending = &action
	return nil
}

// Confirm executes the held action exactly once and returns to idle. The
// pending action is consumed even when the backend call fails: a retry is
// a fresh, explicit user action, never an automatic one.
func (c *Confirmer) Confirm(ctx context.Context) error {
	c.mu.Lock()
	action := c.pending
	c.pending = nil
	c.mu.Unlock()

	if action == nil {
		return model.NewInvalidTransitionError("no action is awaiting confirmation")
	}
	return action.execute(ctx)
}

// Cancel discards the pending action, if any, and performs no backend
// call. Valid in any state.
func (c *Confirmer) Cancel() {
	c.mu.Lock()
	c.pending = nil
	c.mu.Unlock()
}
