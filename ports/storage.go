package ports

import (
	"context"

	"lokali/domain"
)

// Storage is the uniform persistence contract. All backends behave identically
// from the caller's perspective: same semantics, same error taxonomy.
type Storage interface {
	// Load returns the full snapshot, never a partial one.
	Load(ctx context.Context) ([]*domain.Record, error)

	// Save replaces the entire collection (full overwrite, not a merge).
	Save(ctx context.Context, records []*domain.Record) error

	// Create assigns a fresh id and timestamps, persists the record and
	// returns the stored copy. The caller never supplies the id.
	Create(ctx context.Context, r *domain.Record) (*domain.Record, error)

	// Update shallow-merges the patch into the record with the given id,
	// refreshes UpdatedAt and returns the updated record.
	// Returns domain.ErrNotFound when the id is absent.
	Update(ctx context.Context, id string, p domain.Patch) (*domain.Record, error)

	// Delete removes the record if present; deleting an absent id is a no-op.
	Delete(ctx context.Context, id string) error
}
