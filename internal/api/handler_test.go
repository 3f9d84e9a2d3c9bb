package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/anupamsr/skydoc/internal/chunker"
	"github.com/anupamsr/skydoc/internal/classifier"
	"github.com/anupamsr/skydoc/internal/domain"
	"github.com/anupamsr/skydoc/internal/evaluator"
	"github.com/anupamsr/skydoc/internal/generator"
	"github.com/anupamsr/skydoc/internal/pipeline"
	"github.com/anupamsr/skydoc/internal/repository"
	"github.com/anupamsr/skydoc/internal/service"
	"github.com/anupamsr/skydoc/internal/vectorstore/memory"
)

type testEmbedder struct{}

func (testEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vector := make([]float32, 8)
	for i, r := range text {
		vector[i%8] += float32(r % 31)
	}
	return vector, nil
}

func (e testEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, t := range texts {
		vectors[i], _ = e.Embed(ctx, t)
	}
	return vectors, nil
}

func (testEmbedder) Dimension() int { return 8 }

type testCompleter struct{}

func (testCompleter) Complete(context.Context, string) (string, error) {
	return "a generated answer", nil
}

type testWeather struct{}

func (testWeather) ByCity(_ context.Context, city string) (*domain.WeatherSnapshot, error) {
	return &domain.WeatherSnapshot{City: city, Country: "GB", Temperature: 15, Description: "clear sky"}, nil
}

func (testWeather) AQIInfo(_ context.Context, city string) (*domain.WeatherSnapshot, error) {
	return nil, errors.New("not an indian city")
}

func (testWeather) IndianCities() []string { return []string{"delhi", "mumbai"} }

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := repository.NewDB(filepath.Join(t.TempDir(), "skydoc.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	chk, err := chunker.New(200, 40)
	if err != nil {
		t.Fatalf("chunker.New: %v", err)
	}

	store := memory.NewStore("test", 8)
	p := pipeline.New(
		classifier.New(classifier.DefaultRules()),
		chk,
		testEmbedder{},
		store,
		testWeather{},
		generator.New(testCompleter{}, nil),
		evaluator.New(nil),
		nil,
		pipeline.Config{},
	)
	ingest := service.NewIngestService(repository.NewDocumentRepository(db), p, nil)

	return SetupRouter(p, ingest, store, RouterConfig{})
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestQueryEndpoint(t *testing.T) {
	router := newTestRouter(t)

	body, _ := json.Marshal(domain.QueryRequest{Query: "What's the weather in London?"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/query", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var result domain.PipelineResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if result.QueryType != domain.QueryTypeWeather {
		t.Fatalf("query_type = %q, want weather", result.QueryType)
	}
	if result.Evaluation == nil {
		t.Fatal("expected an evaluation in the response")
	}
}

func TestQueryEndpointRejectsEmptyBody(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestUploadAndListDocuments(t *testing.T) {
	router := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "notes.txt")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	part.Write([]byte(strings.Repeat("Vector search retrieves the closest chunks. ", 12)))
	mw.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var listing struct {
		Documents []domain.Document `json:"documents"`
		Total     int               `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listing); err != nil {
		t.Fatalf("decoding listing: %v", err)
	}
	if listing.Total != 1 {
		t.Fatalf("total = %d, want 1", listing.Total)
	}
	if listing.Documents[0].Status != domain.DocumentStatusReady {
		t.Fatalf("status = %q, want ready", listing.Documents[0].Status)
	}
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	router := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("file", "photo.png")
	part.Write([]byte{0x89, 0x50, 0x4e, 0x47})
	mw.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestCollectionEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/collection", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var info domain.CollectionInfo
	if err := json.Unmarshal(w.Body.Bytes(), &info); err != nil {
		t.Fatalf("decoding info: %v", err)
	}
	if info.Name != "test" {
		t.Fatalf("name = %q, want test", info.Name)
	}
}
