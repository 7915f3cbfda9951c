package runtime

import (
	"fmt"
	"log/slog"

	"github.com/attache-ai/attache/internal/config"
	"github.com/attache-ai/attache/internal/delivery"
	"github.com/attache-ai/attache/internal/nlp"
	"github.com/attache-ai/attache/internal/storage"
)

// Option is a functional option for configuring an Assistant.
type Option func(*Assistant) error

// WithConfigFile loads configuration from a YAML file overlaid with
// the environment.
func WithConfigFile(path string) Option {
	return func(a *Assistant) error {
		cfg, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		a.cfg = cfg
		return nil
	}
}

// WithConfig supplies an already-built configuration.
func WithConfig(cfg *config.Config) Option {
	return func(a *Assistant) error {
		a.cfg = cfg
		return nil
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assistant) error {
		a.logger = logger
		return nil
	}
}

// WithStore overrides the draft store built from config. Tests use
// this to inject the in-memory store.
func WithStore(store storage.DraftStore) Option {
	return func(a *Assistant) error {
		a.store = store
		return nil
	}
}

// WithNLP overrides the language-understanding collaborator.
func WithNLP(collaborator nlp.Collaborator) Option {
	return func(a *Assistant) error {
		a.nlp = collaborator
		return nil
	}
}

// WithDelivery overrides the delivery collaborator.
func WithDelivery(collaborator delivery.Collaborator) Option {
	return func(a *Assistant) error {
		a.delivery = collaborator
		return nil
	}
}
