package google

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/anupamsr/skydoc/internal/domain"
	"github.com/anupamsr/skydoc/internal/embedding"
)

// Config configures the Gemini embeddings client.
type Config struct {
	APIKey    string
	Model     string
	Dimension int
}

type googleEmbedder struct {
	client    *genai.Client
	model     string
	dimension int
}

// NewEmbedder creates an Embedder backed by the Gemini embeddings API.
func NewEmbedder(ctx context.Context, cfg Config) (embedding.Embedder, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("%w: creating gemini client: %v", domain.ErrUpstream, err)
	}

	model := cfg.Model
	if model == "" {
		model = "text-embedding-004"
	}
	dimension := cfg.Dimension
	if dimension <= 0 {
		dimension = 768
	}

	return &googleEmbedder{
		client:    client,
		model:     model,
		dimension: dimension,
	}, nil
}

func (e *googleEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	model := e.client.EmbeddingModel(e.model)

	rsp, err := model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("%w: embedding text: %v", domain.ErrUpstream, err)
	}
	if rsp == nil || rsp.Embedding == nil || len(rsp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("%w: empty embedding response", domain.ErrUpstream)
	}

	return rsp.Embedding.Values, nil
}

func (e *googleEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	model := e.client.EmbeddingModel(e.model)

	batch := model.NewBatch()
	for _, text := range texts {
		batch.AddContent(genai.Text(text))
	}

	rsp, err := model.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding batch: %v", domain.ErrUpstream, err)
	}
	if rsp == nil {
		return nil, fmt.Errorf("%w: empty embedding batch response", domain.ErrUpstream)
	}
	if len(rsp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: embedding batch returned %d vectors for %d texts",
			domain.ErrUpstream, len(rsp.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(rsp.Embeddings))
	for i, emb := range rsp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, fmt.Errorf("%w: empty embedding at index %d", domain.ErrUpstream, i)
		}
		vectors[i] = emb.Values
	}

	return vectors, nil
}

func (e *googleEmbedder) Dimension() int {
	return e.dimension
}

// Close releases the underlying API client.
func (e *googleEmbedder) Close() error {
	return e.client.Close()
}
