package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/anupamsr/skydoc/internal/chunker"
	"github.com/anupamsr/skydoc/internal/classifier"
	"github.com/anupamsr/skydoc/internal/domain"
	"github.com/anupamsr/skydoc/internal/evaluator"
	"github.com/anupamsr/skydoc/internal/generator"
	"github.com/anupamsr/skydoc/internal/vectorstore/memory"
	"github.com/anupamsr/skydoc/internal/weather"
)

// letterEmbedder maps text to a 26-dimensional letter-frequency vector.
// Deterministic and cheap, and similar texts land close together.
type letterEmbedder struct {
	err error
}

func (e *letterEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	vector := make([]float32, 26)
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' {
			vector[r-'a']++
		}
	}
	return vector, nil
}

func (e *letterEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		vectors[i] = v
	}
	return vectors, nil
}

func (e *letterEmbedder) Dimension() int { return 26 }

type stubWeather struct {
	snapshot *domain.WeatherSnapshot
	err      error
}

func (s *stubWeather) ByCity(_ context.Context, city string) (*domain.WeatherSnapshot, error) {
	if s.err != nil {
		return nil, s.err
	}
	snap := *s.snapshot
	snap.City = city
	return &snap, nil
}

func (s *stubWeather) AQIInfo(ctx context.Context, city string) (*domain.WeatherSnapshot, error) {
	return s.ByCity(ctx, city)
}

func (s *stubWeather) IndianCities() []string {
	return []string{"delhi", "mumbai", "bangalore", "chennai", "kolkata"}
}

type stubCompleter struct {
	response string
	err      error
}

func (s *stubCompleter) Complete(_ context.Context, _ string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func newTestPipeline(t *testing.T, wf WeatherFetcher, store *memory.Store, completer *stubCompleter) *Pipeline {
	t.Helper()

	chk, err := chunker.New(1000, 200)
	if err != nil {
		t.Fatalf("chunker.New: %v", err)
	}

	return New(
		classifier.New(classifier.DefaultRules()),
		chk,
		&letterEmbedder{},
		store,
		wf,
		generator.New(completer, nil),
		evaluator.New(nil),
		nil,
		Config{TopK: 3, DefaultLocalCity: "Delhi", DefaultCity: "London"},
	)
}

// A weather query whose upstream fetch fails still produces a graceful
// response and a full evaluation.
func TestProcessQuery_WeatherFetchFails(t *testing.T) {
	wf := &stubWeather{err: errors.New("connection refused")}
	p := newTestPipeline(t, wf, memory.NewStore("test", 26), &stubCompleter{response: "unused"})

	result := p.ProcessQuery(context.Background(), "What's the weather in London?")

	if result.QueryType != domain.QueryTypeWeather {
		t.Fatalf("query_type = %q, want weather", result.QueryType)
	}
	if !strings.Contains(result.Response, "couldn't get weather information") {
		t.Fatalf("expected graceful weather failure response, got %q", result.Response)
	}
	if result.Evaluation == nil {
		t.Fatal("expected an evaluation")
	}
	for name, score := range map[string]int{
		"accuracy":     result.Evaluation.Accuracy,
		"relevance":    result.Evaluation.Relevance,
		"completeness": result.Evaluation.Completeness,
		"clarity":      result.Evaluation.Clarity,
	} {
		if score < 1 || score > 5 {
			t.Fatalf("%s = %d, want 1..5", name, score)
		}
	}
	if len(result.Degraded) == 0 {
		t.Fatal("expected a degraded stage record")
	}
	if result.Degraded[0].Stage != "weather_fetch" {
		t.Fatalf("degraded stage = %q, want weather_fetch", result.Degraded[0].Stage)
	}
}

func TestProcessQuery_WeatherSuccess(t *testing.T) {
	wf := &stubWeather{snapshot: &domain.WeatherSnapshot{
		Country: "GB", Temperature: 14.2, Humidity: 70, Description: "light rain",
	}}
	p := newTestPipeline(t, wf, memory.NewStore("test", 26),
		&stubCompleter{response: "It is 14°C and drizzly in London, carry an umbrella."})

	result := p.ProcessQuery(context.Background(), "What's the weather in London?")

	if result.WeatherData == nil || result.WeatherData.City != "London" {
		t.Fatalf("expected London snapshot, got %+v", result.WeatherData)
	}
	if len(result.Degraded) != 0 {
		t.Fatalf("expected no degraded stages, got %+v", result.Degraded)
	}
	if result.Response == "" {
		t.Fatal("expected a response")
	}
}

// A query naming no city falls back to the configured defaults: local when
// the query mentions an Indian city, global otherwise.
func TestProcessQuery_DefaultCity(t *testing.T) {
	wf := &stubWeather{snapshot: &domain.WeatherSnapshot{Temperature: 20, Description: "clear sky"}}
	p := newTestPipeline(t, wf, memory.NewStore("test", 26), &stubCompleter{response: "ok"})

	result := p.ProcessQuery(context.Background(), "is it hot today")
	if result.WeatherData.City != "London" {
		t.Fatalf("city = %q, want default London", result.WeatherData.City)
	}
}

// Ingesting a 3000-character document with chunk size 1000 / overlap 200
// produces at least three chunks, all stored and retrievable.
func TestIngestThenQuery(t *testing.T) {
	store := memory.NewStore("test", 26)
	p := newTestPipeline(t, &stubWeather{}, store,
		&stubCompleter{response: "The document explains attention mechanisms."})

	sentence := "Attention mechanisms let the model weigh distant tokens directly. "
	text := strings.Repeat(sentence, 3000/len(sentence)+1)

	result, err := p.Ingest(context.Background(), text, "attention.txt")
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if result.ChunksProcessed < 3 {
		t.Fatalf("chunks = %d, want >= 3", result.ChunksProcessed)
	}
	if len(result.IDsStored) != result.ChunksProcessed {
		t.Fatalf("ids = %d, chunks = %d", len(result.IDsStored), result.ChunksProcessed)
	}

	info, err := store.Info(context.Background())
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if info.PointCount != int64(result.ChunksProcessed) {
		t.Fatalf("point count = %d, want %d", info.PointCount, result.ChunksProcessed)
	}

	q := p.ProcessQuery(context.Background(), "Explain attention mechanisms in the model")
	if q.QueryType != domain.QueryTypeDocument {
		t.Fatalf("query_type = %q, want document", q.QueryType)
	}
	if len(q.RetrievedDocs) == 0 {
		t.Fatal("expected retrieved documents")
	}
	if q.RetrievedDocs[0].Source != "attention.txt" {
		t.Fatalf("source = %q, want attention.txt", q.RetrievedDocs[0].Source)
	}
	if len(q.Degraded) != 0 {
		t.Fatalf("expected no degraded stages, got %+v", q.Degraded)
	}
}

// A document query against an empty index yields the honest knowledge-gap
// response rather than a hallucinated answer.
func TestProcessQuery_EmptyIndex(t *testing.T) {
	p := newTestPipeline(t, &stubWeather{}, memory.NewStore("test", 26),
		&stubCompleter{response: "should not matter"})

	result := p.ProcessQuery(context.Background(), "What does the report conclude?")

	if result.QueryType != domain.QueryTypeDocument {
		t.Fatalf("query_type = %q, want document", result.QueryType)
	}
	if !strings.Contains(result.Response, "don't have enough information in my knowledge base") {
		t.Fatalf("expected knowledge-gap response, got %q", result.Response)
	}
	if result.Evaluation == nil {
		t.Fatal("expected an evaluation")
	}
}

func TestProcessQuery_EmbedFailureDegrades(t *testing.T) {
	store := memory.NewStore("test", 26)
	chk, _ := chunker.New(1000, 200)
	p := New(
		classifier.New(classifier.DefaultRules()),
		chk,
		&letterEmbedder{err: errors.New("quota exceeded")},
		store,
		&stubWeather{},
		generator.New(&stubCompleter{response: "unused"}, nil),
		evaluator.New(nil),
		nil,
		Config{},
	)

	result := p.ProcessQuery(context.Background(), "summarize the report")

	if len(result.Degraded) == 0 || result.Degraded[0].Stage != "embed_query" {
		t.Fatalf("expected embed_query degradation, got %+v", result.Degraded)
	}
	if !strings.Contains(result.Response, "don't have enough information") {
		t.Fatalf("expected knowledge-gap response, got %q", result.Response)
	}
}

func TestIngest_EmptyText(t *testing.T) {
	p := newTestPipeline(t, &stubWeather{}, memory.NewStore("test", 26), &stubCompleter{})

	_, err := p.Ingest(context.Background(), "   \n\t  ", "empty.txt")
	if !errors.Is(err, domain.ErrIngestion) {
		t.Fatalf("err = %v, want ErrIngestion", err)
	}
}

// The production weather client satisfies the pipeline's fetcher interface.
var _ WeatherFetcher = (*weather.Client)(nil)
