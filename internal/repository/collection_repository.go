package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/prajwalbharadwajbm/crmbeacon/internal/models"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/service"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/store"
)

// CollectionRepository implements service.Collection by storing the whole
// slice as one JSON array under a single store key.
type CollectionRepository[T any] struct {
	store      store.Store
	collection string
}

var (
	_ service.CampaignRepository = (*CollectionRepository[models.Campaign])(nil)
	_ service.CustomerRepository = (*CollectionRepository[models.Customer])(nil)
	_ service.SegmentRepository  = (*CollectionRepository[models.Segment])(nil)
)

// NewCollectionRepository creates a repository for the named collection
func NewCollectionRepository[T any](s store.Store, collection string) *CollectionRepository[T] {
	return &CollectionRepository[T]{
		store:      s,
		collection: collection,
	}
}

// NewCampaignRepository creates the campaigns repository
func NewCampaignRepository(s store.Store) *CollectionRepository[models.Campaign] {
	return NewCollectionRepository[models.Campaign](s, store.CollectionCampaigns)
}

// NewCustomerRepository creates the customers repository
func NewCustomerRepository(s store.Store) *CollectionRepository[models.Customer] {
	return NewCollectionRepository[models.Customer](s, store.CollectionCustomers)
}

// NewSegmentRepository creates the segments repository
func NewSegmentRepository(s store.Store) *CollectionRepository[models.Segment] {
	return NewCollectionRepository[models.Segment](s, store.CollectionSegments)
}

// Name returns the store key of the collection
func (r *CollectionRepository[T]) Name() string {
	return r.collection
}

// GetAll decodes the stored array. A collection that was never written is
// returned as an empty slice with version 0.
func (r *CollectionRepository[T]) GetAll(ctx context.Context) ([]T, int64, error) {
	snap, err := r.store.Load(ctx, r.collection)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load %s: %w", r.collection, err)
	}

	items := []T{}
	if snap.IsEmpty() {
		return items, snap.Version, nil
	}

	if err := json.Unmarshal(snap.Data, &items); err != nil {
		return nil, 0, fmt.Errorf("failed to decode %s: %w", r.collection, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, snap.Version, nil
}

// PutAll replaces the whole collection. version must be the one returned by
// the GetAll this write is based on, or store.AnyVersion.
func (r *CollectionRepository[T]) PutAll(ctx context.Context, items []T, version int64) error {
	if items == nil {
		items = []T{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", r.collection, err)
	}

	if _, err := r.store.Save(ctx, r.collection, data, version); err != nil {
		return fmt.Errorf("failed to save %s: %w", r.collection, err)
	}
	return nil
}
