package intent

import (
	"context"
	"log/slog"

	"github.com/attache-ai/attache/internal/domain"
	"github.com/attache-ai/attache/internal/nlp"
)

// Extractor pulls out only the fields implicated by the user's
// utterance. Writes are narrow: whatever the collaborator returns, the
// result is structurally filtered to the fields the category permits,
// so a recipient change can never regress a previously set subject or
// time.
type Extractor struct {
	nlp    nlp.Collaborator
	logger *slog.Logger
}

// NewExtractor creates an extractor over the given NLP collaborator.
func NewExtractor(collaborator nlp.Collaborator, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{nlp: collaborator, logger: logger}
}

// ExtractUpdates returns the category-scoped patch for an update turn.
// CategoryCompletion and CategoryNone yield an empty patch; malformed
// collaborator output also yields an empty patch.
func (e *Extractor) ExtractUpdates(ctx context.Context, query string, draft *domain.Draft, category UpdateCategory) (domain.FieldPatch, error) {
	if category == CategoryCompletion || category == CategoryNone {
		return domain.FieldPatch{}, nil
	}

	raw, err := e.nlp.ExtractFields(ctx, query, draft, string(category))
	if err != nil {
		return domain.FieldPatch{}, err
	}

	var payload fieldPayload
	if !parseJSON(raw, &payload) {
		e.logger.Warn("field extraction payload unparsable, applying no changes",
			slog.String("category", string(category)))
		return domain.FieldPatch{}, nil
	}

	return scopePatch(payload.toPatch(), category, draft.DraftType), nil
}

// scopePatch keeps only the fields the category permits for the given
// draft type and drops everything else.
func scopePatch(patch domain.FieldPatch, category UpdateCategory, draftType domain.DraftType) domain.FieldPatch {
	var scoped domain.FieldPatch

	switch category {
	case CategoryRecipient:
		if draftType == domain.DraftTypeEmail {
			scoped.ToEmails = patch.ToEmails
			scoped.CcEmails = patch.CcEmails
			scoped.BccEmails = patch.BccEmails
		} else {
			scoped.Attendees = patch.Attendees
		}
	case CategorySubject:
		if draftType == domain.DraftTypeEmail {
			scoped.Subject = patch.Subject
		} else {
			scoped.Summary = patch.Summary
		}
	case CategoryTime:
		if draftType == domain.DraftTypeCalendarEvent {
			scoped.StartTime = patch.StartTime
			scoped.EndTime = patch.EndTime
		}
	case CategoryBody:
		if draftType == domain.DraftTypeEmail {
			scoped.Body = patch.Body
		} else {
			scoped.Description = patch.Description
			scoped.Location = patch.Location
		}
	case CategoryAttachment:
		if draftType == domain.DraftTypeEmail {
			scoped.Attachments = patch.Attachments
		}
	}

	return scoped
}
