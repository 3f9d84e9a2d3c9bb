package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/anupamsr/skydoc/internal/domain"
	"github.com/anupamsr/skydoc/internal/vectorstore"
)

// Store is a minimal REST client to Qdrant implementing vectorstore.Store.
type Store struct {
	url        string
	apiKey     string
	collection string
	dimension  int
	distance   string
	client     *http.Client
}

// Config contains connection details for a Qdrant collection.
type Config struct {
	URL        string
	APIKey     string
	Collection string
	Dimension  int
	Distance   string
	Timeout    time.Duration
}

// NewStore creates a Store. It does not touch the network; call
// EnsureCollection before the first Upsert or Search.
func NewStore(cfg Config) *Store {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	distance := cfg.Distance
	if distance == "" {
		distance = "Cosine"
	}
	return &Store{
		url:        strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		dimension:  cfg.Dimension,
		distance:   distance,
		client:     &http.Client{Timeout: timeout},
	}
}

func (s *Store) EnsureCollection(ctx context.Context) error {
	existing, err := s.getCollection(ctx)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.size != 0 && existing.size != s.dimension {
			return fmt.Errorf("%w: collection %q has dimension %d, configured %d",
				domain.ErrConfigConflict, s.collection, existing.size, s.dimension)
		}
		return nil
	}
	return s.createCollection(ctx)
}

func (s *Store) Upsert(ctx context.Context, points []vectorstore.Point) ([]string, error) {
	if len(points) == 0 {
		return nil, nil
	}

	ids := make([]string, len(points))
	body := make([]map[string]any, len(points))
	for i, p := range points {
		id := p.ID
		if id == "" {
			id = uuid.New().String()
		}
		ids[i] = id
		body[i] = map[string]any{
			"id":     id,
			"vector": p.Vector,
			"payload": map[string]any{
				"content":  p.Payload.Content,
				"metadata": p.Payload.Metadata,
				"source":   p.Payload.Source,
			},
		}
	}

	req := map[string]any{"points": body}
	path := fmt.Sprintf("/collections/%s/points?wait=true", url.PathEscape(s.collection))

	var rsp envelope[json.RawMessage]
	if err := s.do(ctx, http.MethodPut, path, req, &rsp); err != nil {
		return nil, fmt.Errorf("%w: upsert: %v", domain.ErrStorage, err)
	}
	if rsp.Status.Error != "" {
		return nil, fmt.Errorf("%w: upsert: %s", domain.ErrStorage, rsp.Status.Error)
	}

	return ids, nil
}

func (s *Store) Search(ctx context.Context, vector []float32, topK int) ([]domain.RetrievedResult, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: top_k must be positive, got %d", domain.ErrInvalidArgument, topK)
	}

	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	path := fmt.Sprintf("/collections/%s/points/search", url.PathEscape(s.collection))

	var rsp envelope[[]pointResult]
	if err := s.do(ctx, http.MethodPost, path, req, &rsp); err != nil {
		return nil, fmt.Errorf("%w: search: %v", domain.ErrStorage, err)
	}

	results := make([]domain.RetrievedResult, 0, len(rsp.Result))
	for _, point := range rsp.Result {
		results = append(results, point.toRetrieved())
	}

	return results, nil
}

func (s *Store) Info(ctx context.Context) (domain.CollectionInfo, error) {
	info := domain.CollectionInfo{Name: s.collection}

	existing, err := s.getCollection(ctx)
	if err == nil && existing != nil {
		info.PointCount = existing.points
		info.Status = existing.status
		return info, nil
	}

	// Lazily try to (re)create the collection once before reporting degraded.
	if err := s.EnsureCollection(ctx); err != nil {
		info.Status = "degraded"
		return info, nil
	}

	info.Status = "active"
	return info, nil
}

type collectionState struct {
	size   int
	points int64
	status string
}

// getCollection returns nil without error when the collection does not exist.
func (s *Store) getCollection(ctx context.Context) (*collectionState, error) {
	path := fmt.Sprintf("/collections/%s", url.PathEscape(s.collection))

	var rsp envelope[collectionDetail]
	err := s.do(ctx, http.MethodGet, path, nil, &rsp)
	if err != nil {
		if strings.Contains(err.Error(), "404") {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get collection: %v", domain.ErrStorage, err)
	}

	status := strings.ToLower(rsp.Result.Status)
	if status == "" {
		status = "active"
	}

	return &collectionState{
		size:   rsp.Result.Config.Params.Vectors.Size,
		points: rsp.Result.PointsCount,
		status: status,
	}, nil
}

func (s *Store) createCollection(ctx context.Context) error {
	req := map[string]any{
		"vectors": map[string]any{
			"size":     s.dimension,
			"distance": s.distance,
		},
	}

	path := fmt.Sprintf("/collections/%s", url.PathEscape(s.collection))

	var rsp envelope[json.RawMessage]
	if err := s.do(ctx, http.MethodPut, path, req, &rsp); err != nil {
		// Another instance may have created the collection concurrently;
		// "already exists" is success, not failure.
		if strings.Contains(strings.ToLower(err.Error()), "already exists") {
			return nil
		}
		return fmt.Errorf("%w: create collection: %v", domain.ErrStorage, err)
	}

	return nil
}

func (s *Store) do(ctx context.Context, method, path string, req, rsp any) error {
	u := s.url + path

	var buf io.Reader
	if req != nil {
		data, err := json.Marshal(req)
		if err != nil {
			return err
		}
		buf = bytes.NewReader(data)
	}

	request, err := http.NewRequestWithContext(ctx, method, u, buf)
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		request.Header.Set("api-key", s.apiKey)
	}

	response, err := s.client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("qdrant http %d: %s", response.StatusCode, string(payload))
	}

	if rsp != nil && len(payload) > 0 {
		if err := json.Unmarshal(payload, rsp); err != nil {
			return err
		}
	}

	return nil
}
