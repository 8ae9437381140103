package repository

import (
	"context"
	"errors"

	"github.com/prajwalbharadwajbm/crmbeacon/internal/metrics"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/models"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/service"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/store"
)

// NamedCollection is a collection that knows its store key
type NamedCollection[T any] interface {
	service.Collection[T]
	Name() string
}

var _ service.Collection[models.Campaign] = (*InstrumentedRepository[models.Campaign])(nil)

// InstrumentedRepository wraps a repository with metrics collection
type InstrumentedRepository[T any] struct {
	next       service.Collection[T]
	collection string
	metrics    *metrics.Metrics
}

// NewInstrumentedRepository creates a new instrumented repository labelled
// with the collection name of repo
func NewInstrumentedRepository[T any](repo NamedCollection[T], m *metrics.Metrics) *InstrumentedRepository[T] {
	return &InstrumentedRepository[T]{
		next:       repo,
		collection: repo.Name(),
		metrics:    m,
	}
}

// GetAll implements service.Collection with metrics
func (r *InstrumentedRepository[T]) GetAll(ctx context.Context) (items []T, version int64, err error) {
	defer func() {
		r.metrics.RecordStoreOperation("load", r.collection)
		if err != nil {
			r.metrics.RecordStoreError("load", errorType(err))
		}
	}()

	return r.next.GetAll(ctx)
}

// PutAll implements service.Collection with metrics
func (r *InstrumentedRepository[T]) PutAll(ctx context.Context, items []T, version int64) (err error) {
	defer func() {
		r.metrics.RecordStoreOperation("save", r.collection)
		if err != nil {
			r.metrics.RecordStoreError("save", errorType(err))
		}
	}()

	return r.next.PutAll(ctx, items, version)
}

func errorType(err error) string {
	switch {
	case errors.Is(err, store.ErrVersionConflict):
		return "version_conflict"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "context"
	default:
		return "query_error"
	}
}
