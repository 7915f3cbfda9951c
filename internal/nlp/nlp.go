// Package nlp defines the port to the language-understanding
// collaborator. The collaborator is a fallible black box returning raw
// JSON; the intent layer owns parsing and validation, and malformed
// output always degrades to "no signal" there rather than faulting the
// router.
package nlp

import (
	"context"
	"encoding/json"

	"github.com/attache-ai/attache/internal/domain"
)

// Message is one turn of conversation history handed to the
// collaborator for context.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Collaborator is the language-understanding backend.
type Collaborator interface {
	// ClassifyIntent decides between draft creation and no draft
	// intent for an unanchored turn, extracting candidate fields when
	// the answer is creation. Expected payload shape:
	// {"intent": "create"|"none", "draft_type": ..., fields...}.
	ClassifyIntent(ctx context.Context, query string, history []Message) (json.RawMessage, error)

	// ClassifyUpdate assigns the coarse update category for a turn
	// anchored to an existing draft. Expected payload shape:
	// {"category": "recipient"|"subject"|"time"|"body"|"attachment"|"completion"}.
	ClassifyUpdate(ctx context.Context, query string, draft *domain.Draft) (json.RawMessage, error)

	// ExtractFields extracts only the fields implicated by the user's
	// utterance, scoped by the category hint. The payload must never
	// re-derive fields outside the category's scope; the intent layer
	// additionally enforces this structurally.
	ExtractFields(ctx context.Context, query string, draft *domain.Draft, category string) (json.RawMessage, error)
}
