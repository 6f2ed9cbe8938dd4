package ports_test

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/aretw0/pagedform/pkg/domain"
	"github.com/aretw0/pagedform/pkg/ports"
)

// MockStore is a minimal SubmissionStore used to check the contract suite itself.
type MockStore struct {
	mu   sync.Mutex
	data map[string]*domain.Submission
}

func NewMockStore() *MockStore {
	return &MockStore{data: make(map[string]*domain.Submission)}
}

func (m *MockStore) Save(_ context.Context, sub *domain.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[sub.ID]; ok {
		return domain.ErrSubmissionExists
	}
	m.data[sub.ID] = sub.Clone()
	return nil
}

func (m *MockStore) Load(_ context.Context, id string) (*domain.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.data[id]
	if !ok {
		return nil, domain.ErrSubmissionNotFound
	}
	return sub.Clone(), nil
}

func (m *MockStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

func (m *MockStore) List(_ context.Context, form string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var subs []*domain.Submission
	for _, sub := range m.data {
		if form == "" || sub.Form == form {
			subs = append(subs, sub)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].CreatedAt.Before(subs[j].CreatedAt) })
	ids := make([]string, 0, len(subs))
	for _, sub := range subs {
		ids = append(ids, sub.ID)
	}
	return ids, nil
}

func TestSubmissionStore_Contract(t *testing.T) {
	ports.RunSubmissionStoreContract(t, NewMockStore())
}
