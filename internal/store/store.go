package store

import (
	"context"
	"errors"
)

// Collection names. Each one holds a whole JSON array.
const (
	CollectionCampaigns = "campaigns"
	CollectionCustomers = "customers"
	CollectionSegments  = "segments"
)

// AnyVersion disables the version check on Save (last writer wins).
const AnyVersion int64 = -1

var (
	// ErrVersionConflict is returned by Save when the stored version no longer
	// matches the version the caller read.
	ErrVersionConflict = errors.New("collection was modified concurrently")
)

// Snapshot is the raw content of one collection plus its version token.
// A collection that was never written has nil Data and Version 0.
type Snapshot struct {
	Data    []byte `json:"data"`
	Version int64  `json:"version"`
}

// IsEmpty reports whether the collection has never been written
func (s Snapshot) IsEmpty() bool {
	return len(s.Data) == 0
}

// Store persists whole collections under a key.
type Store interface {
	// Load returns the current snapshot of a collection.
	Load(ctx context.Context, collection string) (Snapshot, error)
	// Save replaces the collection if its version still equals
	// expectedVersion (or expectedVersion is AnyVersion) and returns the new
	// version.
	Save(ctx context.Context, collection string, data []byte, expectedVersion int64) (int64, error)
}

// Pinger is implemented by stores backed by a remote service
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping checks s if it supports it and succeeds otherwise
func Ping(ctx context.Context, s Store) error {
	if p, ok := s.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// versionMatches reports whether a write expecting expected may replace a
// collection at current.
func versionMatches(expected, current int64) bool {
	return expected == AnyVersion || expected == current
}
