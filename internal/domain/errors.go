package domain

import (
	"errors"
	"fmt"
)

// ErrDraftNotFound is returned by stores when no draft exists for the
// requested id.
var ErrDraftNotFound = errors.New("draft not found")

// ContaminationError reports an anchored draft whose thread does not
// match the turn's thread. It is fatal for the turn's draft handling:
// the anchor must be dropped entirely before any field of the draft is
// read.
type ContaminationError struct {
	DraftID        string
	AnchorThreadID string
	TurnThreadID   string
}

func (e *ContaminationError) Error() string {
	return fmt.Sprintf("draft %s belongs to thread %s, not %s", e.DraftID, e.AnchorThreadID, e.TurnThreadID)
}

// NotActiveError reports an update attempted against a closed draft.
// The draft is left untouched, including updated_at.
type NotActiveError struct {
	DraftID string
	Status  DraftStatus
}

func (e *NotActiveError) Error() string {
	return fmt.Sprintf("draft %s is not active (status %s)", e.DraftID, e.Status)
}

// IncompleteDraftError reports a conversion attempted before the
// completeness check passed. This is a programming-contract violation
// inside the drafting core, not a user-facing condition.
type IncompleteDraftError struct {
	DraftID       string
	MissingFields []string
}

func (e *IncompleteDraftError) Error() string {
	return fmt.Sprintf("draft %s is incomplete, missing %v", e.DraftID, e.MissingFields)
}

// DeliveryFailure reports that the external delivery collaborator did
// not deliver. The draft keeps its fields and moves to composio_error;
// the user can edit it to implicitly retry.
type DeliveryFailure struct {
	DraftID string
	Detail  string
}

func (e *DeliveryFailure) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("delivery failed for draft %s", e.DraftID)
	}
	return fmt.Sprintf("delivery failed for draft %s: %s", e.DraftID, e.Detail)
}
