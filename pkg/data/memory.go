package data

import (
	"context"
	"sort"
	"sync"

	gocache "github.com/patrickmn/go-cache"

	"github.com/agentstation/webhost/pkg/errors"
)

type memoryItem[E any] struct {
	seq    uint64
	entity E
}

// Memory is an in-process Repository backed by go-cache with no expiry.
type Memory[E any] struct {
	resource string
	store    *gocache.Cache

	// mu serializes writes so existence checks and mutations are atomic.
	mu  sync.Mutex
	seq uint64
}

// NewMemory returns an empty in-memory repository. resource names the
// entity in not-found errors.
func NewMemory[E any](resource string) *Memory[E] {
	return &Memory[E]{
		resource: resource,
		store:    gocache.New(gocache.NoExpiration, 0),
	}
}

// Get implements Repository.
func (m *Memory[E]) Get(ctx context.Context, id string) (E, error) {
	var zero E
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	v, ok := m.store.Get(id)
	if !ok {
		return zero, errors.NewNotFoundError(m.resource, id)
	}
	return v.(memoryItem[E]).entity, nil
}

// List implements Repository. Entities are returned in insertion order.
func (m *Memory[E]) List(ctx context.Context) ([]E, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items := m.store.Items()
	stored := make([]memoryItem[E], 0, len(items))
	for _, item := range items {
		stored = append(stored, item.Object.(memoryItem[E]))
	}
	sort.Slice(stored, func(i, j int) bool { return stored[i].seq < stored[j].seq })

	out := make([]E, len(stored))
	for i, item := range stored {
		out[i] = item.entity
	}
	return out, nil
}

// Add implements Repository.
func (m *Memory[E]) Add(ctx context.Context, entity E) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	id := newID()
	m.store.Set(id, memoryItem[E]{seq: m.seq, entity: entity}, gocache.NoExpiration)
	return id, nil
}

// Update implements Repository.
func (m *Memory[E]) Update(ctx context.Context, id string, entity E) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.store.Get(id)
	if !ok {
		return errors.NewNotFoundError(m.resource, id)
	}
	item := v.(memoryItem[E])
	item.entity = entity
	m.store.Set(id, item, gocache.NoExpiration)
	return nil
}

// Delete implements Repository.
func (m *Memory[E]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.store.Get(id); !ok {
		return errors.NewNotFoundError(m.resource, id)
	}
	m.store.Delete(id)
	return nil
}

// Len returns the number of stored entities.
func (m *Memory[E]) Len() int {
	return m.store.ItemCount()
}
