package embedding

import "context"

// Embedder converts text into fixed-length vectors for similarity comparison.
// Implementations must return vectors of exactly Dimension() values; a failed
// call aborts the caller's operation, no partial batch is ever returned.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}
