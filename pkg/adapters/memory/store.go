// Package memory keeps submissions in process memory.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/pagedform/pkg/domain"
)

// Store implements ports.SubmissionStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Submission
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Submission),
	}
}

// Save persists the submission in memory.
func (s *Store) Save(ctx context.Context, sub *domain.Submission) error {
	// Copy to ensure isolation, similar to serialization
	copied := sub.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data[sub.ID]; exists {
		return domain.ErrSubmissionExists
	}
	s.data[sub.ID] = copied
	return nil
}

// Load retrieves a submission from memory.
func (s *Store) Load(ctx context.Context, id string) (*domain.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.data[id]
	if !ok {
		return nil, domain.ErrSubmissionNotFound
	}
	// Copy on read so callers can't mutate the stored record
	return sub.Clone(), nil
}

// Delete removes a submission.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns the submission IDs of form, oldest first.
func (s *Store) List(ctx context.Context, form string) ([]string, error) {
	s.mu.RLock()
	subs := make([]*domain.Submission, 0, len(s.data))
	for _, sub := range s.data {
		if form == "" || sub.Form == form {
			subs = append(subs, sub)
		}
	}
	s.mu.RUnlock()

	sort.Slice(subs, func(i, j int) bool {
		if subs[i].CreatedAt.Equal(subs[j].CreatedAt) {
			return subs[i].ID < subs[j].ID
		}
		return subs[i].CreatedAt.Before(subs[j].CreatedAt)
	})
	ids := make([]string, 0, len(subs))
	for _, sub := range subs {
		ids = append(ids, sub.ID)
	}
	return ids, nil
}
