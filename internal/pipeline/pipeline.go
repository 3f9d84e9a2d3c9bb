package pipeline

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/anupamsr/skydoc/internal/chunker"
	"github.com/anupamsr/skydoc/internal/classifier"
	"github.com/anupamsr/skydoc/internal/domain"
	"github.com/anupamsr/skydoc/internal/embedding"
	"github.com/anupamsr/skydoc/internal/evaluator"
	"github.com/anupamsr/skydoc/internal/generator"
	"github.com/anupamsr/skydoc/internal/vectorstore"
)

// WeatherFetcher is the weather capability the pipeline needs. The concrete
// client talks to OpenWeatherMap; tests substitute a stub.
type WeatherFetcher interface {
	ByCity(ctx context.Context, city string) (*domain.WeatherSnapshot, error)
	AQIInfo(ctx context.Context, city string) (*domain.WeatherSnapshot, error)
	IndianCities() []string
}

// Config carries the pipeline knobs that are not dependencies.
type Config struct {
	TopK             int
	DefaultLocalCity string
	DefaultCity      string
}

// Pipeline orchestrates one query end to end: classify, fetch context,
// generate, evaluate. Stage failures degrade the result instead of failing
// the run; ProcessQuery always returns a usable PipelineResult.
type Pipeline struct {
	classifier *classifier.Classifier
	chunker    *chunker.Chunker
	embedder   embedding.Embedder
	store      vectorstore.Store
	weather    WeatherFetcher
	generator  *generator.Generator
	evaluator  *evaluator.Evaluator
	logger     *zap.Logger
	cfg        Config
}

func New(
	cls *classifier.Classifier,
	chk *chunker.Chunker,
	emb embedding.Embedder,
	store vectorstore.Store,
	weather WeatherFetcher,
	gen *generator.Generator,
	eval *evaluator.Evaluator,
	logger *zap.Logger,
	cfg Config,
) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 3
	}
	if cfg.DefaultLocalCity == "" {
		cfg.DefaultLocalCity = "Delhi"
	}
	if cfg.DefaultCity == "" {
		cfg.DefaultCity = "London"
	}
	return &Pipeline{
		classifier: cls,
		chunker:    chk,
		embedder:   emb,
		store:      store,
		weather:    weather,
		generator:  gen,
		evaluator:  eval,
		logger:     logger,
		cfg:        cfg,
	}
}

// ProcessQuery runs the full pipeline for one query. It never returns an
// error: upstream failures are folded into the response text and recorded as
// degraded stages.
func (p *Pipeline) ProcessQuery(ctx context.Context, query string) *domain.PipelineResult {
	cls := p.classifier.Classify(query)

	result := &domain.PipelineResult{
		Query:     query,
		QueryType: cls.Type,
	}

	p.logger.Info("query classified",
		zap.String("query_type", string(cls.Type)),
		zap.String("city", cls.City),
		zap.Bool("aqi", cls.AQI))

	switch cls.Type {
	case domain.QueryTypeWeather:
		p.runWeatherBranch(ctx, cls, query, result)
	default:
		p.runDocumentBranch(ctx, query, result)
	}

	response, degraded := p.generator.Generate(ctx, cls.Type, result.WeatherData, result.RetrievedDocs, query)
	result.Response = response
	if degraded != "" {
		result.Degraded = append(result.Degraded, domain.StageFailure{Stage: "generate", Reason: degraded})
	}

	ev := p.evaluator.Evaluate(query, response, cls.Type)
	result.Evaluation = &ev

	return result
}

func (p *Pipeline) runWeatherBranch(ctx context.Context, cls domain.Classification, query string, result *domain.PipelineResult) {
	city := cls.City
	if city == "" {
		city = p.defaultCity(query)
	}

	var (
		snapshot *domain.WeatherSnapshot
		err      error
	)
	if cls.AQI {
		snapshot, err = p.weather.AQIInfo(ctx, city)
	} else {
		snapshot, err = p.weather.ByCity(ctx, city)
	}
	if err != nil {
		p.logger.Warn("weather fetch failed", zap.String("city", city), zap.Error(err))
		result.Degraded = append(result.Degraded, domain.StageFailure{Stage: "weather_fetch", Reason: err.Error()})
		result.WeatherData = &domain.WeatherSnapshot{City: city, Error: err.Error()}
		return
	}
	result.WeatherData = snapshot
}

// defaultCity picks a fallback when the query names no city: a local city
// when the query mentions any Indian city token, a global one otherwise.
func (p *Pipeline) defaultCity(query string) string {
	q := strings.ToLower(query)
	for _, city := range p.weather.IndianCities() {
		if strings.Contains(q, city) {
			return p.cfg.DefaultLocalCity
		}
	}
	return p.cfg.DefaultCity
}

func (p *Pipeline) runDocumentBranch(ctx context.Context, query string, result *domain.PipelineResult) {
	vector, err := p.embedder.Embed(ctx, query)
	if err != nil {
		p.logger.Warn("query embedding failed", zap.Error(err))
		result.Degraded = append(result.Degraded, domain.StageFailure{Stage: "embed_query", Reason: err.Error()})
		return
	}

	docs, err := p.store.Search(ctx, vector, p.cfg.TopK)
	if err != nil {
		p.logger.Warn("vector search failed", zap.Error(err))
		result.Degraded = append(result.Degraded, domain.StageFailure{Stage: "vector_search", Reason: err.Error()})
		return
	}

	result.RetrievedDocs = docs
}

// Ingest chunks the text, embeds every chunk and stores the points. Unlike
// query processing, ingestion is transactional in spirit: any stage failure
// aborts the whole operation so no partial document lands in the index.
func (p *Pipeline) Ingest(ctx context.Context, text, source string) (*domain.IngestResult, error) {
	chunks := p.chunker.Chunk(text)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: no chunks produced from %q", domain.ErrIngestion, source)
	}

	vectors, err := p.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding chunks: %v", domain.ErrIngestion, err)
	}

	points := make([]vectorstore.Point, len(chunks))
	for i, chunk := range chunks {
		points[i] = vectorstore.Point{
			Vector: vectors[i],
			Payload: domain.DocumentChunk{
				Content: chunk,
				Source:  source,
				Metadata: domain.ChunkMetadata{
					ChunkID:   i,
					Source:    source,
					ChunkSize: len(chunk),
				},
			},
		}
	}

	ids, err := p.store.Upsert(ctx, points)
	if err != nil {
		return nil, fmt.Errorf("%w: storing points: %v", domain.ErrIngestion, err)
	}

	p.logger.Info("document ingested",
		zap.String("source", source),
		zap.Int("chunks", len(chunks)))

	return &domain.IngestResult{
		ChunksProcessed: len(chunks),
		IDsStored:       ids,
		Source:          source,
	}, nil
}
