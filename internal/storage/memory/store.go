package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/attache-ai/attache/internal/domain"
	"github.com/attache-ai/attache/internal/storage"
)

// Store is an in-memory implementation of DraftStore, used in tests
// and single-process development runs.
type Store struct {
	mu     sync.RWMutex
	drafts map[string]*domain.Draft
	now    func() time.Time
}

var _ storage.DraftStore = (*Store)(nil)

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		drafts: make(map[string]*domain.Draft),
		now:    time.Now,
	}
}

// WithClock overrides the store's clock. Tests use this to pin
// updated_at values.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Get(ctx context.Context, draftID string) (*domain.Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.drafts[draftID]
	if !ok {
		return nil, domain.ErrDraftNotFound
	}
	return d.Clone(), nil
}

func (s *Store) GetActiveByThread(ctx context.Context, threadID string) ([]*domain.Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Draft
	for _, d := range s.drafts {
		if d.ThreadID == threadID && d.Status == domain.DraftStatusActive {
			out = append(out, d.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt != out[j].UpdatedAt {
			return out[i].UpdatedAt > out[j].UpdatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) Upsert(ctx context.Context, draft *domain.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.drafts[draft.ID] = draft.Clone()
	return nil
}

func (s *Store) ApplyPatch(ctx context.Context, draftID string, patch domain.FieldPatch) (*domain.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[draftID]
	if !ok {
		return nil, domain.ErrDraftNotFound
	}
	if d.Status == domain.DraftStatusClosed {
		return nil, &domain.NotActiveError{DraftID: draftID, Status: d.Status}
	}
	if patch.IsEmpty() {
		return d.Clone(), nil
	}

	updated := d.Clone()
	patch.Apply(updated)
	if updated.Status == domain.DraftStatusComposioError {
		updated.Status = domain.DraftStatusActive
	}
	updated.Touch(s.now())

	s.drafts[draftID] = updated
	return updated.Clone(), nil
}

func (s *Store) SetStatus(ctx context.Context, draftID string, status domain.DraftStatus) (*domain.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[draftID]
	if !ok {
		return nil, domain.ErrDraftNotFound
	}
	if d.Status == domain.DraftStatusClosed {
		return nil, &domain.NotActiveError{DraftID: draftID, Status: d.Status}
	}

	updated := d.Clone()
	updated.Status = status
	updated.Touch(s.now())

	s.drafts[draftID] = updated
	return updated.Clone(), nil
}

func (s *Store) Close() error {
	return nil
}
