package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/prajwalbharadwajbm/crmbeacon/internal/events"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/store"
	"github.com/stretchr/testify/mock"
)

// memoryCollection is a Collection backed by a store.MemoryStore, so that
// version conflicts behave exactly as in production.
type memoryCollection[T any] struct {
	store *store.MemoryStore
	name  string
}

func newMemoryCollection[T any](name string, items ...T) *memoryCollection[T] {
	c := &memoryCollection[T]{store: store.NewMemoryStore(), name: name}
	if len(items) > 0 {
		if err := c.PutAll(context.Background(), items, store.AnyVersion); err != nil {
			panic(err)
		}
	}
	return c
}

func (c *memoryCollection[T]) GetAll(ctx context.Context) ([]T, int64, error) {
	snap, err := c.store.Load(ctx, c.name)
	if err != nil {
		return nil, 0, err
	}
	var items []T
	if !snap.IsEmpty() {
		if err := json.Unmarshal(snap.Data, &items); err != nil {
			return nil, 0, err
		}
	}
	return items, snap.Version, nil
}

func (c *memoryCollection[T]) PutAll(ctx context.Context, items []T, version int64) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	_, err = c.store.Save(ctx, c.name, data, version)
	return err
}

// items reads the collection, failing loudly on error
func (c *memoryCollection[T]) items() []T {
	items, _, err := c.GetAll(context.Background())
	if err != nil {
		panic(err)
	}
	return items
}

// MockCollection is a mock implementation of Collection
type MockCollection[T any] struct {
	mock.Mock
}

func (m *MockCollection[T]) GetAll(ctx context.Context) ([]T, int64, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]T)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *MockCollection[T]) PutAll(ctx context.Context, items []T, version int64) error {
	args := m.Called(ctx, items, version)
	return args.Error(0)
}

// failingPublisher records events and always fails
type failingPublisher struct {
	mu    sync.Mutex
	count int
}

func (p *failingPublisher) Publish(context.Context, events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count++
	return errors.New("broker unavailable")
}
