// Package draftrules holds the pure decision procedures of the
// drafting core: thread isolation, completeness, and conversion into
// delivery parameters. Everything here is side-effect free.
package draftrules

import "github.com/attache-ai/attache/internal/domain"

// ValidateThread confirms an anchored draft reference belongs to the
// turn's conversation thread. Any mismatch is a contamination: the
// caller must drop the anchor entirely and proceed as if the turn had
// none. This check runs before any store lookup so a contaminated
// reference can never select which row gets refreshed.
func ValidateThread(ref domain.DraftRef, turnThreadID string) error {
	if ref.ThreadID != turnThreadID {
		return &domain.ContaminationError{
			DraftID:        ref.DraftID,
			AnchorThreadID: ref.ThreadID,
			TurnThreadID:   turnThreadID,
		}
	}
	return nil
}
