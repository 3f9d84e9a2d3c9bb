package vectorstore

import (
	"context"

	"github.com/anupamsr/skydoc/internal/domain"
)

// Point is a (vector, chunk) pair to be stored. An empty ID is assigned by
// the store at insertion time and never reused.
type Point struct {
	ID      string
	Vector  []float32
	Payload domain.DocumentChunk
}

// Store persists vectors and answers top-k nearest-neighbor queries by cosine
// similarity. Implementations must support concurrent Upsert and Search.
type Store interface {
	// EnsureCollection is idempotent: it creates the collection if absent and
	// is a no-op if it already exists with a compatible configuration.
	// An existing collection with a different dimension surfaces
	// domain.ErrConfigConflict.
	EnsureCollection(ctx context.Context) error

	// Upsert stores all points or fails without a silent partial insert.
	// It returns the assigned point ids.
	Upsert(ctx context.Context, points []Point) ([]string, error)

	// Search returns at most topK results ordered by descending score. An
	// empty collection yields an empty result, not an error; topK <= 0 is a
	// caller error.
	Search(ctx context.Context, vector []float32, topK int) ([]domain.RetrievedResult, error)

	// Info reports the collection state, degrading rather than failing when
	// the collection is unreachable.
	Info(ctx context.Context) (domain.CollectionInfo, error)
}
