package results

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Hammad-111/HamSync-sub000/internal/aggregate"
	"github.com/Hammad-111/HamSync-sub000/internal/merit"
)

type memoryStore struct {
	mu   sync.RWMutex
	byID map[string]Saved
	now  func() time.Time
}

// NewInMemoryStore is used when no database is configured and in tests.
func NewInMemoryStore() Store {
	return &memoryStore{byID: map[string]Saved{}, now: time.Now}
}

func (m *memoryStore) Save(_ context.Context, userID string, req aggregate.Request, res merit.Result) (Saved, error) {
	sv := newSaved(uuid.NewString(), userID, req, res, m.now())
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[sv.ID] = sv
	return sv, nil
}

func (m *memoryStore) Get(_ context.Context, id string) (Saved, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sv, ok := m.byID[id]
	if !ok {
		return Saved{}, ErrNotFound
	}
	return sv, nil
}

func (m *memoryStore) List(_ context.Context, opts ListOpts) ([]Saved, error) {
	opts = opts.normalized()
	m.mu.RLock()
	out := []Saved{}
	for _, sv := range m.byID {
		if opts.UserID != "" && sv.UserID != opts.UserID {
			continue
		}
		if opts.Institution != "" && sv.Institution != strings.ToLower(opts.Institution) {
			continue
		}
		out = append(out, sv)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if opts.Offset >= len(out) {
		return []Saved{}, nil
	}
	out = out[opts.Offset:]
	if len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (m *memoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return ErrNotFound
	}
	delete(m.byID, id)
	return nil
}
