package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/attache-ai/attache/internal/domain"
	"github.com/attache-ai/attache/internal/nlp"
)

// Collaborator implements nlp.Collaborator over the chat completions
// client. Conversation history is token-budgeted before each call so
// long threads cannot blow the model's context window.
type Collaborator struct {
	client  *Client
	counter *tokenCounter
	budget  int
}

var _ nlp.Collaborator = (*Collaborator)(nil)

// CollaboratorOption configures the collaborator.
type CollaboratorOption func(*Collaborator)

// WithHistoryBudget caps the token count of the history slice included
// in classification calls.
func WithHistoryBudget(tokens int) CollaboratorOption {
	return func(c *Collaborator) {
		if tokens > 0 {
			c.budget = tokens
		}
	}
}

const defaultHistoryBudget = 4096

// NewCollaborator creates the collaborator over an existing client.
func NewCollaborator(client *Client, opts ...CollaboratorOption) (*Collaborator, error) {
	counter, err := newTokenCounter(client.model)
	if err != nil {
		return nil, fmt.Errorf("init token counter: %w", err)
	}
	c := &Collaborator{
		client:  client,
		counter: counter,
		budget:  defaultHistoryBudget,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Collaborator) ClassifyIntent(ctx context.Context, query string, history []nlp.Message) (json.RawMessage, error) {
	messages := []chatMessage{{Role: "system", Content: intentSystemPrompt}}
	for _, m := range c.truncateHistory(history) {
		messages = append(messages, chatMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, chatMessage{Role: "user", Content: query})
	return c.client.complete(ctx, messages)
}

func (c *Collaborator) ClassifyUpdate(ctx context.Context, query string, draft *domain.Draft) (json.RawMessage, error) {
	snapshot, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal draft snapshot: %w", err)
	}
	messages := []chatMessage{
		{Role: "system", Content: updateCategorySystemPrompt + "\n\nDraft:\n" + string(snapshot)},
		{Role: "user", Content: query},
	}
	return c.client.complete(ctx, messages)
}

func (c *Collaborator) ExtractFields(ctx context.Context, query string, draft *domain.Draft, category string) (json.RawMessage, error) {
	snapshot, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal draft snapshot: %w", err)
	}
	system := fmt.Sprintf(extractFieldsSystemPrompt, category) + "\n\nDraft:\n" + string(snapshot)
	messages := []chatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: query},
	}
	return c.client.complete(ctx, messages)
}

// truncateHistory drops the oldest messages until the remainder fits
// the token budget. The most recent message always survives.
func (c *Collaborator) truncateHistory(history []nlp.Message) []nlp.Message {
	if len(history) == 0 {
		return history
	}

	total := 0
	// Walk backwards so the newest messages are kept.
	cut := 0
	for i := len(history) - 1; i >= 0; i-- {
		tokens := c.counter.count(history[i].Content)
		if i < len(history)-1 && total+tokens > c.budget {
			cut = i + 1
			break
		}
		total += tokens
	}
	return history[cut:]
}
