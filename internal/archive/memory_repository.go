package archive

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemoryRepository is an in-memory implementation of Repository.
// History is lost on restart; use PostgresRepository to keep it.
type InMemoryRepository struct {
	mu      sync.RWMutex
	records map[int64][]*Record
}

// NewInMemoryRepository creates a new in-memory archive repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		records: make(map[int64][]*Record),
	}
}

// Append stores a new record.
func (r *InMemoryRepository) Append(_ context.Context, rec *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *rec
	r.records[rec.LocationID] = append(r.records[rec.LocationID], &cpy)
	return nil
}

// List returns the records of a location, newest first.
func (r *InMemoryRepository) List(_ context.Context, locationID int64, opts ListOptions) ([]*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.records[locationID]
	out := make([]*Record, 0, len(stored))
	for _, rec := range stored {
		cpy := *rec
		out = append(out, &cpy)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RecordedAt.After(out[j].RecordedAt)
	})

	if limit := opts.limit(); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Latest returns the newest record of a location.
func (r *InMemoryRepository) Latest(ctx context.Context, locationID int64) (*Record, error) {
	records, err := r.List(ctx, locationID, ListOptions{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return records[0], nil
}

// Prune deletes records recorded before cutoff.
func (r *InMemoryRepository) Prune(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for id, stored := range r.records {
		kept := stored[:0]
		for _, rec := range stored {
			if rec.RecordedAt.Before(cutoff) {
				removed++
				continue
			}
			kept = append(kept, rec)
		}
		if len(kept) == 0 {
			delete(r.records, id)
			continue
		}
		r.records[id] = kept
	}
	return removed, nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
