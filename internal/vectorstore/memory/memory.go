package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/anupamsr/skydoc/internal/domain"
	"github.com/anupamsr/skydoc/internal/vectorstore"
)

type record struct {
	id      string
	vector  []float32
	payload domain.DocumentChunk
}

// Store is an in-process vectorstore.Store with cosine ranking. It backs
// tests and store-less development runs.
type Store struct {
	name      string
	dimension int
	records   map[string]record
	mtx       sync.RWMutex
}

// NewStore creates an empty in-memory store.
func NewStore(name string, dimension int) *Store {
	return &Store{
		name:      name,
		dimension: dimension,
		records:   map[string]record{},
	}
}

func (s *Store) EnsureCollection(ctx context.Context) error {
	return nil
}

func (s *Store) Upsert(ctx context.Context, points []vectorstore.Point) ([]string, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	// Validate the whole batch before touching the map so a bad point never
	// results in a partial insert.
	for i, p := range points {
		if s.dimension > 0 && len(p.Vector) != s.dimension {
			return nil, fmt.Errorf("%w: point %d has dimension %d, collection expects %d",
				domain.ErrStorage, i, len(p.Vector), s.dimension)
		}
	}

	ids := make([]string, len(points))
	for i, p := range points {
		id := p.ID
		if id == "" {
			id = uuid.New().String()
		}
		ids[i] = id

		vector := make([]float32, len(p.Vector))
		copy(vector, p.Vector)

		s.records[id] = record{id: id, vector: vector, payload: p.Payload}
	}

	return ids, nil
}

func (s *Store) Search(ctx context.Context, vector []float32, topK int) ([]domain.RetrievedResult, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: top_k must be positive, got %d", domain.ErrInvalidArgument, topK)
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	results := make([]domain.RetrievedResult, 0, len(s.records))
	for _, rec := range s.records {
		results = append(results, domain.RetrievedResult{
			Content:  rec.payload.Content,
			Metadata: rec.payload.Metadata,
			Source:   rec.payload.Source,
			Score:    CosineSimilarity(vector, rec.vector),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topK {
		results = results[:topK]
	}

	return results, nil
}

func (s *Store) Info(ctx context.Context) (domain.CollectionInfo, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return domain.CollectionInfo{
		Name:       s.name,
		PointCount: int64(len(s.records)),
		Status:     "active",
	}, nil
}

// CosineSimilarity returns the cosine of the angle between a and b, or 0 when
// either vector is zero or the lengths differ.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
