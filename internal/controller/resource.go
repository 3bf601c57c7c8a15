// Package controller owns the authoritative in-memory collection for each
// catalog entity type and orchestrates fetch, create, update, and delete
// against the backend, gated by validation and the confirmation workflow.
package controller

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/mercadito/console/internal/validation"
	"github.com/mercadito/console/internal/workflow"
	"github.com/mercadito/console/model"
)

// Store is the backend surface a resource controller drives. Implemented
// by the per-entity stores in the backend package.
type Store[D model.Draft, E model.Entity] interface {
	List(ctx context.Context) ([]E, error)
	Create(ctx context.Context, draft D) error
	Update(ctx context.Context, id model.ID, draft D) error
	Delete(ctx context.Context, id model.ID) error
}

// Resource is a generic per-entity controller. The collection it holds is
// the only authoritative client-side source of truth: it is replaced
// wholesale by each successful Load and never patched in place, so the
// console never diverges from server state for longer than one reload.
//
// Overlapping operations are not sequenced. If a second mutation is fired
// before the first's reload resolves, both reloads run and the collection
// reflects whichever completes last. That weak-consistency tradeoff is
// deliberate; see DESIGN.md.
type Resource[D model.Draft, E model.Entity] struct {
	name    string
	store   Store[D, E]
	engine  *validation.Engine[D, E]
	confirm *workflow.Confirmer
	logger  *zap.Logger

	mu         sync.Mutex
	collection []E
	loadErr    *model.ErrorEnvelope
}

// NewResource creates a controller for one entity type. The name is used
// for logging only.
func NewResource[D model.Draft, E model.Entity](
	name string,
	store Store[D, E],
	engine *validation.Engine[D, E],
	logger *zap.Logger,
) *Resource[D, E] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resource[D, E]{
		name:       name,
		store:      store,
		engine:     engine,
		confirm:    workflow.NewConfirmer(),
		logger:     logger.With(zap.String("resource", name)),
		collection: []E{},
	}
}

// Load fetches the list, normalizes it, and replaces the collection. On a
// malformed response the collection is reset to empty; on a transport or
// backend failure it keeps its last good value. Either failure is recorded
// as user-visible error state and returned.
func (r *Resource[D, E]) Load(ctx context.Context) error {
	items, err := r.store.List(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	if err != nil {
		ee := model.AsEnvelope(err)
		r.loadErr = ee
		if ee.Code == model.ErrMalformedResponse {
			r.collection = []E{}
		}
		r.logger.Warn("load failed", zap.String("code", ee.Code), zap.String("message", ee.Message))
		return ee
	}

	r.collection = items
	r.loadErr = nil
	r.logger.Debug("collection replaced", zap.Int("count", len(items)))
	return nil
}

// Create validates the draft in create mode and, on success, submits it
// and reloads. Field errors are returned without any network call. Creates
// bypass the confirmation workflow: creation is additive and cheap to undo.
func (r *Resource[D, E]) Create(ctx context.Context, draft D) error {
	if fe := r.engine.Validate(draft, r.Collection(), validation.ModeCreate); fe != nil {
		r.logger.Debug("create rejected", zap.String("field", fe.Field), zap.String("code", fe.Code))
		return model.NewValidationError(fe)
	}

	if err := r.store.Create(ctx, draft); err != nil {
		return model.AsEnvelope(err)
	}
	r.logger.Info("entity created")

	return r.Load(ctx)
}

// RequestEdit validates the draft in edit mode and stages it for
// confirmation. Nothing is submitted until Confirm.
func (r *Resource[D, E]) RequestEdit(draft D) error {
	if fe := r.engine.Validate(draft, r.Collection(), validation.ModeEdit); fe != nil {
		r.logger.Debug("edit rejected", zap.String("field", fe.Field), zap.String("code", fe.Code))
		return model.NewValidationError(fe)
	}

	id := draft.DraftID()
	return r.confirm.Request(workflow.NewPendingAction(workflow.ActionEdit, id,
		func(ctx context.Context) error {
			if err := r.store.Update(ctx, id, draft); err != nil {
				return model.AsEnvelope(err)
			}
			r.logger.Info("entity updated", zap.String("id", string(id)))
			return r.Load(ctx)
		},
	))
}

// RequestDelete stages a delete for confirmation. Deletion carries no
// payload, so no field validation applies.
func (r *Resource[D, E]) RequestDelete(id model.ID) error {
	return r.confirm.Request(workflow.NewPendingAction(workflow.ActionDelete, id,
		func(ctx context.Context) error {
			if err := r.store.Delete(ctx, id); err != nil {
				return model.AsEnvelope(err)
			}
			r.logger.Info("entity deleted", zap.String("id", string(id)))
			return r.Load(ctx)
		},
	))
}

// Confirm executes the staged action: the backend call followed by exactly
// one reload.
func (r *Resource[D, E]) Confirm(ctx context.Context) error {
	if err := r.confirm.Confirm(ctx); err != nil {
		return model.AsEnvelope(err)
	}
	return nil
}

// Cancel discards the staged action without touching the backend.
func (r *Resource[D, E]) Cancel() {
	r.confirm.Cancel()
}

// PendingState reports the confirmation machine's state and held action.
func (r *Resource[D, E]) PendingState() (workflow.State, workflow.ActionKind, model.ID) {
	kind, id, ok := r.confirm.Pending()
	if !ok {
		return workflow.StateIdle, "", ""
	}
	return workflow.StateAwaitingConfirmation, kind, id
}

// Collection returns a snapshot copy of the current collection.
func (r *Resource[D, E]) Collection() []E {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]E, len(r.collection))
	copy(out, r.collection)
	return out
}

// LoadError returns the user-visible error state from the last load, or
// nil when the last load succeeded.
func (r *Resource[D, E]) LoadError() *model.ErrorEnvelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadErr
}
