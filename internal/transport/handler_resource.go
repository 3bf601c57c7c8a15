package transport

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mercadito/console/internal/controller"
	"github.com/mercadito/console/internal/workflow"
	"github.com/mercadito/console/model"
)

// listResponse is the payload for collection listings. Load failures are
// reported in-band: the collection state machine keeps serving whatever it
// holds, and loadError carries the banner the UI shows alongside it.
type listResponse[T any] struct {
	Items     []T                  `json:"items"`
	Pending   *pendingInfo         `json:"pending,omitempty"`
	LoadError *model.ErrorEnvelope `json:"loadError,omitempty"`
}

// pendingInfo describes a staged edit or delete awaiting confirmation.
type pendingInfo struct {
	Action   workflow.ActionKind `json:"action"`
	TargetID model.ID            `json:"targetId"`
}

func pendingOf[D model.Draft, E model.Entity](rc *controller.Resource[D, E]) *pendingInfo {
	state, kind, id := rc.PendingState()
	if state != workflow.StateAwaitingConfirmation {
		return nil
	}
	return &pendingInfo{Action: kind, TargetID: id}
}

// handleList reloads the collection and returns it via the supplied
// projection. Load failures still answer 200 with the error in-band.
func handleList[D model.Draft, E model.Entity, V any](
	rc *controller.Resource[D, E],
	project func() []V,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = rc.Load(r.Context())
		WriteJSON(w, http.StatusOK, listResponse[V]{
			Items:     project(),
			Pending:   pendingOf(rc),
			LoadError: rc.LoadError(),
		})
	}
}

func handleCreate[D model.Draft, E model.Entity, V any](
	rc *controller.Resource[D, E],
	project func() []V,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var draft D
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			WriteError(w, model.NewBadRequestError("invalid JSON body"))
			return
		}

		if err := rc.Create(r.Context(), draft); err != nil {
			WriteError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, listResponse[V]{
			Items:     project(),
			LoadError: rc.LoadError(),
		})
	}
}

// handleEditRequest stages an edit for confirmation. The path id is
// authoritative; a body id that disagrees with it is rejected.
func handleEditRequest[D model.Draft, E model.Entity](
	rc *controller.Resource[D, E],
	withID func(D, model.ID) D,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := model.ID(chi.URLParam(r, "id"))

		var draft D
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			WriteError(w, model.NewBadRequestError("invalid JSON body"))
			return
		}
		if bodyID := draft.DraftID(); bodyID != "" && bodyID != id {
			WriteError(w, model.NewBadRequestError("body id does not match path id"))
			return
		}
		draft = withID(draft, id)

		if err := rc.RequestEdit(draft); err != nil {
			WriteError(w, err)
			return
		}
		WriteJSON(w, http.StatusAccepted, pendingOf(rc))
	}
}

func handleDeleteRequest[D model.Draft, E model.Entity](rc *controller.Resource[D, E]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := model.ID(chi.URLParam(r, "id"))
		if err := rc.RequestDelete(id); err != nil {
			WriteError(w, err)
			return
		}
		WriteJSON(w, http.StatusAccepted, pendingOf(rc))
	}
}

func handleConfirm[D model.Draft, E model.Entity, V any](
	rc *controller.Resource[D, E],
	project func() []V,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := rc.Confirm(r.Context()); err != nil {
			WriteError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, listResponse[V]{
			Items:     project(),
			LoadError: rc.LoadError(),
		})
	}
}

func handleCancel[D model.Draft, E model.Entity](rc *controller.Resource[D, E]) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		rc.Cancel()
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleProductList refreshes the category collection first so the product
// views can resolve category names.
func handleProductList(categories *controller.Categories, products *controller.Products) http.HandlerFunc {
	list := handleList(products.Resource, products.Views)
	return func(w http.ResponseWriter, r *http.Request) {
		_ = categories.Load(r.Context())
		list(w, r)
	}
}

func handleCategoryOptions(categories *controller.Categories, products *controller.Products) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = categories.Load(r.Context())
		WriteJSON(w, http.StatusOK, products.CategoryOptions())
	}
}
