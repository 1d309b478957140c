// Package store persists campaigns. The compositing core treats it as an
// opaque document store keyed by id; callers are assumed to be already
// authorized (the HTTP layer performs the capability check).
package store

import (
	"context"
	"errors"

	"github.com/asejik/dp-generator/pkg/layout"
)

// ErrNotFound means no campaign exists under the requested id.
var ErrNotFound = errors.New("store: campaign not found")

// Store is the persistence collaborator.
type Store interface {
	// Get returns the campaign by id, or ErrNotFound.
	Get(ctx context.Context, id string) (layout.Campaign, error)
	// Create persists a new campaign and returns its assigned id.
	Create(ctx context.Context, c layout.Campaign) (string, error)
	// Update replaces the stored campaign under id.
	Update(ctx context.Context, id string, c layout.Campaign) error
	// Delete removes the campaign under id.
	Delete(ctx context.Context, id string) error
	// List returns up to limit campaigns, newest first. limit <= 0 means
	// no limit.
	List(ctx context.Context, limit int) ([]layout.Campaign, error)
}
