// memory.go — In-memory campaign store for dev mode, when no MySQL DSN is
// configured.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/asejik/dp-generator/pkg/layout"
)

// Memory is a mutex-guarded in-process store.
type Memory struct {
	mu        sync.Mutex
	campaigns map[string]layout.Campaign
	now       func() time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		campaigns: make(map[string]layout.Campaign),
		now:       time.Now,
	}
}

func (m *Memory) Get(_ context.Context, id string) (layout.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok {
		return layout.Campaign{}, ErrNotFound
	}
	return clone(c), nil
}

func (m *Memory) Create(_ context.Context, c layout.Campaign) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = uuid.NewString()
	c.CreatedAt = m.now()
	m.campaigns[c.ID] = clone(c)
	return c.ID, nil
}

func (m *Memory) Update(_ context.Context, id string, c layout.Campaign) error {
	if err := c.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.campaigns[id]
	if !ok {
		return ErrNotFound
	}
	c.ID = id
	c.CreatedAt = prev.CreatedAt
	m.campaigns[id] = clone(c)
	return nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.campaigns[id]; !ok {
		return ErrNotFound
	}
	delete(m.campaigns, id)
	return nil
}

func (m *Memory) List(_ context.Context, limit int) ([]layout.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]layout.Campaign, 0, len(m.campaigns))
	for _, c := range m.campaigns {
		out = append(out, clone(c))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// clone deep-copies the optional text slot so callers never share pointers
// with the store.
func clone(c layout.Campaign) layout.Campaign {
	if c.Text != nil {
		t := *c.Text
		c.Text = &t
	}
	return c
}
