// Package runtime provides the Assistant struct and lifecycle
// management: config, storage, collaborators and the HTTP server are
// wired here and torn down together.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/attache-ai/attache/internal/config"
	"github.com/attache-ai/attache/internal/delivery"
	"github.com/attache-ai/attache/internal/delivery/composio"
	"github.com/attache-ai/attache/internal/nlp"
	nlpopenai "github.com/attache-ai/attache/internal/nlp/openai"
	"github.com/attache-ai/attache/internal/router"
	"github.com/attache-ai/attache/internal/server"
	"github.com/attache-ai/attache/internal/storage"
	"github.com/attache-ai/attache/internal/storage/memory"
	"github.com/attache-ai/attache/internal/storage/sqldb"
)

// Assistant is the composed application. Collaborators not supplied
// via options are built from config when Start runs.
type Assistant struct {
	cfg      *config.Config
	store    storage.DraftStore
	nlp      nlp.Collaborator
	delivery delivery.Collaborator
	logger   *slog.Logger

	router *router.Router
	server *http.Server
}

// New creates an Assistant with the given options.
func New(opts ...Option) (*Assistant, error) {
	a := &Assistant{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}
	if a.cfg == nil {
		return nil, fmt.Errorf("configuration required (use WithConfig or WithConfigFile)")
	}
	return a, nil
}

// Start builds any missing collaborators from config and starts the
// HTTP server.
func (a *Assistant) Start(ctx context.Context) error {
	if a.store == nil {
		store, err := buildStore(a.cfg)
		if err != nil {
			return fmt.Errorf("init storage: %w", err)
		}
		a.store = store
	}

	if a.nlp == nil {
		collaborator, err := buildNLP(a.cfg)
		if err != nil {
			return fmt.Errorf("init nlp collaborator: %w", err)
		}
		a.nlp = collaborator
	}

	if a.delivery == nil {
		a.delivery = composio.NewClient(
			a.cfg.Composio.APIKey,
			a.cfg.Composio.UserID,
			composioOptions(a.cfg)...,
		)
	}

	a.router = router.New(a.store, a.nlp, a.delivery, a.logger)

	handler := server.New(a.router, a.logger).Handler()
	a.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	a.logger.Info("assistant started",
		slog.Int("port", a.cfg.Server.Port),
		slog.String("storage", a.cfg.Storage.Type))
	return nil
}

// Shutdown stops the HTTP server and closes storage.
func (a *Assistant) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down assistant")

	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			a.logger.Error("failed to shutdown server", slog.String("error", err.Error()))
			return err
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Error("failed to close storage", slog.String("error", err.Error()))
		}
	}

	a.logger.Info("assistant shutdown complete")
	return nil
}

// Router exposes the turn router for embedding callers.
func (a *Assistant) Router() *router.Router {
	return a.router
}

func buildStore(cfg *config.Config) (storage.DraftStore, error) {
	switch cfg.Storage.Type {
	case "memory":
		return memory.New(), nil
	case "sqlite", "":
		return sqldb.New(cfg.Storage.SQLite.Path)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Storage.Type)
	}
}

func buildNLP(cfg *config.Config) (nlp.Collaborator, error) {
	var clientOpts []nlpopenai.ClientOption
	if cfg.OpenAI.BaseURL != "" {
		clientOpts = append(clientOpts, nlpopenai.WithBaseURL(cfg.OpenAI.BaseURL))
	}
	if cfg.OpenAI.Model != "" {
		clientOpts = append(clientOpts, nlpopenai.WithModel(cfg.OpenAI.Model))
	}
	client := nlpopenai.NewClient(cfg.OpenAI.APIKey, clientOpts...)
	return nlpopenai.NewCollaborator(client,
		nlpopenai.WithHistoryBudget(cfg.OpenAI.MaxContextTokens))
}

func composioOptions(cfg *config.Config) []composio.ClientOption {
	var opts []composio.ClientOption
	if cfg.Composio.BaseURL != "" {
		opts = append(opts, composio.WithBaseURL(cfg.Composio.BaseURL))
	}
	return opts
}
