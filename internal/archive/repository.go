package archive

import (
	"context"
	"time"
)

// Repository defines the interface for record persistence.
type Repository interface {
	// Append stores a new record.
	Append(ctx context.Context, rec *Record) error

	// List returns the records of a location, newest first.
	List(ctx context.Context, locationID int64, opts ListOptions) ([]*Record, error)

	// Latest returns the newest record of a location.
	// Returns ErrNotFound if the location has none.
	Latest(ctx context.Context, locationID int64) (*Record, error)

	// Prune deletes records recorded before cutoff and returns how many were removed.
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
}
