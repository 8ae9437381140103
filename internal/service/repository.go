package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/models"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/store"
)

// Collection is whole-collection data access: read everything with its
// version token, write everything back if nobody else wrote in between.
type Collection[T any] interface {
	GetAll(ctx context.Context) ([]T, int64, error)
	PutAll(ctx context.Context, items []T, version int64) error
}

// CampaignRepository interface for campaign data access
type CampaignRepository = Collection[models.Campaign]

// CustomerRepository interface for customer data access
type CustomerRepository = Collection[models.Customer]

// SegmentRepository interface for segment data access
type SegmentRepository = Collection[models.Segment]

// newID returns a time-ordered opaque identifier
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// loadAll reads a collection and never returns a nil slice
func loadAll[T any](ctx context.Context, repo Collection[T], resource string) ([]T, int64, error) {
	items, version, err := repo.GetAll(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve %s: %w", resource, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, version, nil
}

// saveAll writes a collection back and turns a lost update into a
// ConflictError.
func saveAll[T any](ctx context.Context, repo Collection[T], resource string, items []T, version int64) error {
	err := repo.PutAll(ctx, items, version)
	if errors.Is(err, store.ErrVersionConflict) {
		return &ConflictError{
			Resource: resource,
			Message:  "modified by another request, reload and try again",
		}
	}
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", resource, err)
	}
	return nil
}

// indexOf returns the position of the first item whose id matches, or -1
func indexOf[T any](items []T, id string, idOf func(*T) string) int {
	for i := range items {
		if idOf(&items[i]) == id {
			return i
		}
	}
	return -1
}
