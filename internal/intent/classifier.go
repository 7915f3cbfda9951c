// Package intent is the decision procedure in front of the NLP
// collaborator. It turns a user utterance plus optional anchor into a
// tagged routing decision, and scopes field extraction so updates stay
// narrow. Anything the collaborator returns that fails to parse as
// valid structured data degrades to "no signal": the subsystem never
// fabricates a draft from garbage.
package intent

import (
	"context"
	"log/slog"

	"github.com/attache-ai/attache/internal/domain"
	"github.com/attache-ai/attache/internal/nlp"
)

// Kind tags the routing decision for a turn.
type Kind string

const (
	KindNone    Kind = "none"
	KindCreate  Kind = "create"
	KindUpdate  Kind = "update"
	KindTooling Kind = "tooling"
)

// UpdateCategory is the coarse hint that scopes field extraction.
type UpdateCategory string

const (
	// CategoryNone means the update classifier produced no usable
	// signal; the turn becomes a no-op.
	CategoryNone       UpdateCategory = ""
	CategoryRecipient  UpdateCategory = "recipient"
	CategorySubject    UpdateCategory = "subject"
	CategoryTime       UpdateCategory = "time"
	CategoryBody       UpdateCategory = "body"
	CategoryAttachment UpdateCategory = "attachment"
	// CategoryCompletion is the "that's all" signal: an empty update
	// that advances the draft toward validation and delivery.
	CategoryCompletion UpdateCategory = "completion"
)

var knownCategories = map[UpdateCategory]bool{
	CategoryRecipient:  true,
	CategorySubject:    true,
	CategoryTime:       true,
	CategoryBody:       true,
	CategoryAttachment: true,
	CategoryCompletion: true,
}

// CreateIntent is a validated instruction to start a new draft.
type CreateIntent struct {
	DraftType            domain.DraftType
	Fields               domain.FieldPatch
	OriginatingThreadRef string
	ReplyToMessageRef    string
}

// Decision is the classifier's tagged result.
type Decision struct {
	Kind   Kind
	Create *CreateIntent
	// Ref identifies the anchored draft for update decisions. Only the
	// ids are carried; the authoritative draft is always re-read from
	// the store.
	Ref domain.DraftRef
}

// Classifier decides, per turn, whether the utterance is unrelated to
// drafting, starts a new draft, or targets the anchored one.
type Classifier struct {
	nlp    nlp.Collaborator
	logger *slog.Logger
}

// NewClassifier creates a classifier over the given NLP collaborator.
func NewClassifier(collaborator nlp.Collaborator, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{nlp: collaborator, logger: logger}
}

// Classify applies the priority rules, first match wins:
//
//  1. anchored non-draft item -> tooling; the draft subsystem takes no
//     further action this turn.
//  2. anchored draft -> update, carrying only the ids. The caller must
//     have run the thread-isolation guard already; an anchor whose
//     snapshot lacks ids degrades to rule 3.
//  3. no anchor -> delegate to the NLP collaborator for create/none.
//
// Anchoring short-circuits the collaborator entirely: it is a
// stronger, cheaper signal than re-running intent inference.
func (c *Classifier) Classify(ctx context.Context, query string, history []nlp.Message, anchor *domain.AnchoredItem) (Decision, error) {
	if anchor != nil {
		if anchor.Type != domain.AnchorTypeDraft {
			return Decision{Kind: KindTooling}, nil
		}
		if ref, ok := anchor.DraftRef(); ok {
			return Decision{Kind: KindUpdate, Ref: ref}, nil
		}
		c.logger.Warn("anchored draft snapshot missing identifiers, treating turn as unanchored")
	}

	raw, err := c.nlp.ClassifyIntent(ctx, query, history)
	if err != nil {
		return Decision{}, err
	}

	var payload creationPayload
	if !parseJSON(raw, &payload) {
		c.logger.Warn("intent payload unparsable, degrading to none")
		return Decision{Kind: KindNone}, nil
	}
	if payload.Intent != "create" {
		return Decision{Kind: KindNone}, nil
	}

	draftType := domain.DraftType(payload.DraftType)
	if draftType != domain.DraftTypeEmail && draftType != domain.DraftTypeCalendarEvent {
		c.logger.Warn("create intent with unknown draft type, degrading to none",
			slog.String("draft_type", payload.DraftType))
		return Decision{Kind: KindNone}, nil
	}

	return Decision{
		Kind: KindCreate,
		Create: &CreateIntent{
			DraftType:            draftType,
			Fields:               payload.toPatch(),
			OriginatingThreadRef: payload.OriginatingThreadRef,
			ReplyToMessageRef:    payload.ReplyToMessageRef,
		},
	}, nil
}

// ClassifyUpdate assigns the coarse category for a turn anchored to an
// existing draft. Unparsable or unknown categories degrade to
// CategoryNone.
func (c *Classifier) ClassifyUpdate(ctx context.Context, query string, draft *domain.Draft) (UpdateCategory, error) {
	raw, err := c.nlp.ClassifyUpdate(ctx, query, draft)
	if err != nil {
		return CategoryNone, err
	}

	var payload categoryPayload
	if !parseJSON(raw, &payload) {
		c.logger.Warn("update category payload unparsable, degrading to no-op")
		return CategoryNone, nil
	}

	category := UpdateCategory(payload.Category)
	if !knownCategories[category] {
		c.logger.Warn("unknown update category, degrading to no-op",
			slog.String("category", payload.Category))
		return CategoryNone, nil
	}
	return category, nil
}
