// Package router orchestrates one conversation turn: isolation guard,
// freshness refresh, intent classification, draft mutation, and the
// completeness-gated handoff to the delivery collaborator.
package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/attache-ai/attache/internal/delivery"
	"github.com/attache-ai/attache/internal/domain"
	"github.com/attache-ai/attache/internal/draftrules"
	"github.com/attache-ai/attache/internal/intent"
	"github.com/attache-ai/attache/internal/nlp"
	"github.com/attache-ai/attache/internal/storage"
)

// ResponseKind tags the structured result handed back to the
// conversation layer.
type ResponseKind string

const (
	// ResponseNone: no draft action this turn.
	ResponseNone ResponseKind = "none"
	// ResponseTooling: the anchor is a non-draft entity; the turn
	// belongs to the general tool layer.
	ResponseTooling      ResponseKind = "tooling"
	ResponseDraftCreated ResponseKind = "draft_created"
	ResponseDraftUpdated ResponseKind = "draft_updated"
	// ResponseDraftIncomplete: the user signalled completion but the
	// draft is still missing fields; keep collecting.
	ResponseDraftIncomplete ResponseKind = "draft_incomplete"
	ResponseDraftSent       ResponseKind = "draft_sent"
	ResponseDeliveryFailed  ResponseKind = "delivery_failed"
	// ResponseDraftNotActive: the anchored draft is already finished.
	ResponseDraftNotActive ResponseKind = "draft_not_active"
)

// TurnRequest is what the conversation layer supplies per user turn.
type TurnRequest struct {
	Query     string
	ThreadID  string
	MessageID string
	History   []nlp.Message
	Anchor    *domain.AnchoredItem
}

// TurnResult is the structured outcome of a turn. Draft is always a
// serialized snapshot re-read from the store, never live store state.
type TurnResult struct {
	Kind         ResponseKind
	Draft        *domain.Draft
	Completeness *draftrules.CompletenessReport
	// Notice carries a short operator-facing explanation for degraded
	// turns (dropped anchor, no usable NLP signal, delivery detail).
	Notice string
}

// Router composes the drafting core. All collaborators are injected;
// there is no package-level state.
type Router struct {
	store      storage.DraftStore
	classifier *intent.Classifier
	extractor  *intent.Extractor
	delivery   delivery.Collaborator
	logger     *slog.Logger
	now        func() time.Time
	newID      func() string
}

// Option configures a Router.
type Option func(*Router)

// WithClock overrides the router's clock.
func WithClock(now func() time.Time) Option {
	return func(r *Router) { r.now = now }
}

// WithIDGenerator overrides draft id generation.
func WithIDGenerator(newID func() string) Option {
	return func(r *Router) { r.newID = newID }
}

// New creates a Router over the given store, NLP collaborator and
// delivery collaborator.
func New(store storage.DraftStore, collaborator nlp.Collaborator, deliverer delivery.Collaborator, logger *slog.Logger, opts ...Option) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Router{
		store:      store,
		classifier: intent.NewClassifier(collaborator, logger),
		extractor:  intent.NewExtractor(collaborator, logger),
		delivery:   deliverer,
		logger:     logger,
		now:        time.Now,
		newID:      func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// HandleTurn processes one user turn to completion. A returned error
// is always a store-level failure the caller may retry next turn;
// contract violations (contamination, not-active, incompleteness)
// come back as structured results instead.
func (r *Router) HandleTurn(ctx context.Context, req TurnRequest) (TurnResult, error) {
	anchor := req.Anchor
	var notice string

	// Isolation guard runs before any classification work or store
	// lookup: a contaminated reference must never select which row
	// gets refreshed. On contamination the anchor is dropped entirely
	// and the turn recovers as if it had none.
	if anchor != nil && anchor.Type == domain.AnchorTypeDraft {
		if ref, ok := anchor.DraftRef(); ok {
			if err := draftrules.ValidateThread(ref, req.ThreadID); err != nil {
				r.logger.Warn("anchored draft contaminated, dropping anchor",
					slog.String("draft_id", ref.DraftID),
					slog.String("anchor_thread", ref.ThreadID),
					slog.String("turn_thread", req.ThreadID))
				anchor = nil
				notice = "anchored draft belongs to another conversation and was ignored"
			}
		}
	}

	decision, err := r.classifier.Classify(ctx, req.Query, req.History, anchor)
	if err != nil {
		// The collaborator is a fallible black box; a transport
		// failure is no signal, not a fault.
		r.logger.Warn("intent classification failed, treating turn as no draft intent",
			slog.String("error", err.Error()))
		return TurnResult{Kind: ResponseNone, Notice: "intent classification unavailable"}, nil
	}

	switch decision.Kind {
	case intent.KindTooling:
		return TurnResult{Kind: ResponseTooling, Notice: notice}, nil
	case intent.KindCreate:
		return r.handleCreate(ctx, req, decision.Create, notice)
	case intent.KindUpdate:
		return r.handleUpdate(ctx, req, decision.Ref, notice)
	default:
		return TurnResult{Kind: ResponseNone, Notice: notice}, nil
	}
}

// ActiveDrafts lists the thread's active drafts, newest first, so the
// conversation layer can re-anchor the latest work-in-progress.
func (r *Router) ActiveDrafts(ctx context.Context, threadID string) ([]*domain.Draft, error) {
	drafts, err := r.store.GetActiveByThread(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("list active drafts: %w", err)
	}
	return drafts, nil
}

func (r *Router) handleCreate(ctx context.Context, req TurnRequest, create *intent.CreateIntent, notice string) (TurnResult, error) {
	now := r.now().Unix()
	draft := &domain.Draft{
		ID:                   r.newID(),
		ThreadID:             req.ThreadID,
		MessageID:            req.MessageID,
		DraftType:            create.DraftType,
		Status:               domain.DraftStatusActive,
		OriginatingThreadRef: create.OriginatingThreadRef,
		ReplyToMessageRef:    create.ReplyToMessageRef,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	create.Fields.Apply(draft)

	if err := r.store.Upsert(ctx, draft); err != nil {
		return TurnResult{}, fmt.Errorf("persist new draft: %w", err)
	}

	report := draftrules.Completeness(draft)
	r.logger.Info("draft created",
		slog.String("draft_id", draft.ID),
		slog.String("thread_id", draft.ThreadID),
		slog.String("draft_type", string(draft.DraftType)),
		slog.Bool("is_complete", report.IsComplete))

	return TurnResult{
		Kind:         ResponseDraftCreated,
		Draft:        draft.Clone(),
		Completeness: &report,
		Notice:       notice,
	}, nil
}

func (r *Router) handleUpdate(ctx context.Context, req TurnRequest, ref domain.DraftRef, notice string) (TurnResult, error) {
	// Freshness refresh: the anchor's embedded snapshot may be stale,
	// so the authoritative draft is always re-read by id. The embedded
	// data was used only to locate it.
	fresh, err := r.store.Get(ctx, ref.DraftID)
	if err != nil {
		if errors.Is(err, domain.ErrDraftNotFound) {
			r.logger.Warn("anchored draft no longer exists, dropping anchor",
				slog.String("draft_id", ref.DraftID))
			return r.reclassifyWithoutAnchor(ctx, req, "anchored draft no longer exists")
		}
		return TurnResult{}, fmt.Errorf("refresh draft: %w", err)
	}

	// Re-check isolation against the persisted thread id: the anchor's
	// claimed thread is client-supplied and may lie.
	if fresh.ThreadID != req.ThreadID {
		r.logger.Warn("persisted draft belongs to another thread, dropping anchor",
			slog.String("draft_id", fresh.ID),
			slog.String("draft_thread", fresh.ThreadID),
			slog.String("turn_thread", req.ThreadID))
		return r.reclassifyWithoutAnchor(ctx, req, "anchored draft belongs to another conversation and was ignored")
	}

	if fresh.Status == domain.DraftStatusClosed {
		return TurnResult{
			Kind:   ResponseDraftNotActive,
			Draft:  fresh,
			Notice: "this draft is already finished",
		}, nil
	}

	category, err := r.classifier.ClassifyUpdate(ctx, req.Query, fresh)
	if err != nil {
		r.logger.Warn("update classification failed, applying no changes",
			slog.String("draft_id", fresh.ID),
			slog.String("error", err.Error()))
		return TurnResult{Kind: ResponseNone, Draft: fresh, Notice: "update classification unavailable"}, nil
	}

	switch category {
	case intent.CategoryNone:
		return TurnResult{Kind: ResponseNone, Draft: fresh, Notice: notice}, nil
	case intent.CategoryCompletion:
		return r.handleCompletion(ctx, fresh, notice)
	}

	patch, err := r.extractor.ExtractUpdates(ctx, req.Query, fresh, category)
	if err != nil {
		r.logger.Warn("field extraction failed, applying no changes",
			slog.String("draft_id", fresh.ID),
			slog.String("error", err.Error()))
		return TurnResult{Kind: ResponseNone, Draft: fresh, Notice: "field extraction unavailable"}, nil
	}
	if patch.IsEmpty() {
		report := draftrules.Completeness(fresh)
		return TurnResult{Kind: ResponseNone, Draft: fresh, Completeness: &report, Notice: notice}, nil
	}

	updated, err := r.store.ApplyPatch(ctx, fresh.ID, patch)
	if err != nil {
		var nae *domain.NotActiveError
		if errors.As(err, &nae) {
			return TurnResult{
				Kind:   ResponseDraftNotActive,
				Notice: nae.Error(),
			}, nil
		}
		return TurnResult{}, fmt.Errorf("apply draft update: %w", err)
	}

	report := draftrules.Completeness(updated)
	r.logger.Info("draft updated",
		slog.String("draft_id", updated.ID),
		slog.String("category", string(category)),
		slog.String("status", string(updated.Status)),
		slog.Bool("is_complete", report.IsComplete))

	return TurnResult{
		Kind:         ResponseDraftUpdated,
		Draft:        updated,
		Completeness: &report,
		Notice:       notice,
	}, nil
}

// handleCompletion runs the completeness gate and, when it passes,
// hands the draft to the delivery collaborator. The outcome is always
// unambiguous: success closes the draft, failure moves it to
// composio_error with all field data preserved. Delivery is never
// retried here; a duplicate send is worse than a failed one.
func (r *Router) handleCompletion(ctx context.Context, draft *domain.Draft, notice string) (TurnResult, error) {
	report := draftrules.Completeness(draft)
	if !report.IsComplete {
		return TurnResult{
			Kind:         ResponseDraftIncomplete,
			Draft:        draft,
			Completeness: &report,
			Notice:       notice,
		}, nil
	}

	result, deliveryErr := r.deliver(ctx, draft)
	if deliveryErr == nil && result.Successful {
		closed, err := r.store.SetStatus(ctx, draft.ID, domain.DraftStatusClosed)
		if err != nil {
			return TurnResult{}, fmt.Errorf("close delivered draft: %w", err)
		}
		r.logger.Info("draft delivered",
			slog.String("draft_id", draft.ID),
			slog.String("draft_type", string(draft.DraftType)))
		return TurnResult{Kind: ResponseDraftSent, Draft: closed, Notice: notice}, nil
	}

	detail := result.Detail
	if deliveryErr != nil {
		detail = deliveryErr.Error()
	}
	failure := &domain.DeliveryFailure{DraftID: draft.ID, Detail: detail}
	r.logger.Error("delivery failed",
		slog.String("draft_id", draft.ID),
		slog.String("detail", detail))

	failed, err := r.store.SetStatus(ctx, draft.ID, domain.DraftStatusComposioError)
	if err != nil {
		return TurnResult{}, fmt.Errorf("record delivery failure: %w", err)
	}
	return TurnResult{
		Kind:   ResponseDeliveryFailed,
		Draft:  failed,
		Notice: failure.Error(),
	}, nil
}

func (r *Router) deliver(ctx context.Context, draft *domain.Draft) (delivery.Result, error) {
	switch draft.DraftType {
	case domain.DraftTypeEmail:
		params, err := draftrules.ToEmailParams(draft)
		if err != nil {
			return delivery.Result{}, err
		}
		return r.delivery.SendEmail(ctx, params)
	case domain.DraftTypeCalendarEvent:
		params, err := draftrules.ToEventParams(draft)
		if err != nil {
			return delivery.Result{}, err
		}
		return r.delivery.CreateEvent(ctx, params)
	default:
		return delivery.Result{}, fmt.Errorf("unknown draft type %q", draft.DraftType)
	}
}

// reclassifyWithoutAnchor reruns the turn as if it had no anchor, used
// when the anchor was contaminated or points at a missing draft.
func (r *Router) reclassifyWithoutAnchor(ctx context.Context, req TurnRequest, notice string) (TurnResult, error) {
	req.Anchor = nil
	result, err := r.HandleTurn(ctx, req)
	if err != nil {
		return result, err
	}
	if result.Notice == "" {
		result.Notice = notice
	}
	return result, nil
}
