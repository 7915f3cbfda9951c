// Package storage defines the persistence ports for the drafting
// subsystem. Adapters live in subpackages (sqldb, memory).
package storage

import (
	"context"

	"github.com/attache-ai/attache/internal/domain"
)

// DraftStore is the durable keyed storage for drafts. Implementations
// must be read-after-write consistent within a single process, and
// ApplyPatch must be atomic: field changes, the updated_at refresh and
// the implicit composio_error -> active reactivation land together or
// not at all.
type DraftStore interface {
	// Get retrieves a draft by id. Returns domain.ErrDraftNotFound when
	// no such draft exists.
	Get(ctx context.Context, draftID string) (*domain.Draft, error)

	// GetActiveByThread lists the active drafts of one conversation
	// thread, most recently updated first.
	GetActiveByThread(ctx context.Context, threadID string) ([]*domain.Draft, error)

	// Upsert inserts or fully replaces a draft keyed by its id.
	Upsert(ctx context.Context, draft *domain.Draft) error

	// ApplyPatch applies a narrow field update to a draft and returns
	// the updated snapshot. A draft in composio_error is reset to
	// active as part of the same operation. A closed draft is rejected
	// with *domain.NotActiveError and left untouched. An empty patch is
	// a no-op and does not refresh updated_at.
	ApplyPatch(ctx context.Context, draftID string, patch domain.FieldPatch) (*domain.Draft, error)

	// SetStatus transitions a draft's status (delivery outcome:
	// active -> closed on success, active -> composio_error on
	// failure). Field data is left unmodified.
	SetStatus(ctx context.Context, draftID string, status domain.DraftStatus) (*domain.Draft, error)

	// Close releases the underlying resources.
	Close() error
}
