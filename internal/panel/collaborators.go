package panel

import "context"

// ConfirmRequest describes the destructive-action dialog shown before a
// delete goes out.
type ConfirmRequest struct {
	Title        string `json:"title"`
	Message      string `json:"message"`
	ConfirmLabel string `json:"confirm_label"`
	CancelLabel  string `json:"cancel_label"`
	Variant      string `json:"variant"`
}

// Confirmer is the confirmation-dialog collaborator. It is consulted before
// any delete network call is issued; a false outcome aborts the operation
// with no state change.
type Confirmer interface {
	Confirm(ctx context.Context, req ConfirmRequest) (bool, error)
}

// CountFunc receives the new top-level comment count after a successful
// top-level add or delete. It is never called for reply operations.
type CountFunc func(newCount int)

// OpenController delegates the panel's open/close flag to a parent surface.
// When a session is built with one, the panel must not keep its own copy.
type OpenController interface {
	IsOpen() bool
	SetOpen(open bool)
}
