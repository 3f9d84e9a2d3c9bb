package main

import (
	"context"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/anupamsr/skydoc/internal/api"
	"github.com/anupamsr/skydoc/internal/chunker"
	"github.com/anupamsr/skydoc/internal/classifier"
	"github.com/anupamsr/skydoc/internal/config"
	"github.com/anupamsr/skydoc/internal/embedding/google"
	"github.com/anupamsr/skydoc/internal/evaluator"
	"github.com/anupamsr/skydoc/internal/generator"
	"github.com/anupamsr/skydoc/internal/llm/openai"
	"github.com/anupamsr/skydoc/internal/pipeline"
	"github.com/anupamsr/skydoc/internal/repository"
	"github.com/anupamsr/skydoc/internal/service"
	"github.com/anupamsr/skydoc/internal/vectorstore/qdrant"
	"github.com/anupamsr/skydoc/internal/weather"
)

var (
	configPath = flag.String("config", "", "Path to config file")
)

func main() {
	flag.Parse()

	// Local development credentials, ignored when absent
	godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// Initialize document registry database
	db, err := repository.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	docRepo := repository.NewDocumentRepository(db)

	// Weather client
	weatherClient := weather.New(weather.Config{
		APIKey:  cfg.Weather.APIKey,
		BaseURL: cfg.Weather.BaseURL,
		Timeout: time.Duration(cfg.Weather.TimeoutSecs) * time.Second,
	})

	// Embedding provider
	embedder, err := google.NewEmbedder(ctx, google.Config{
		APIKey:    cfg.Embedding.APIKey,
		Model:     cfg.Embedding.Model,
		Dimension: cfg.Embedding.Dimension,
	})
	if err != nil {
		logger.Fatal("Failed to initialize embedder", zap.Error(err))
	}
	defer closeIfCloser(embedder)

	// Completion provider
	completer := openai.NewCompleter(openai.Config{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
		Timeout: time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
	})

	// Vector store
	store := qdrant.NewStore(qdrant.Config{
		URL:        cfg.Qdrant.URL,
		APIKey:     cfg.Qdrant.APIKey,
		Collection: cfg.Qdrant.Collection,
		Dimension:  cfg.Embedding.Dimension,
		Distance:   cfg.Qdrant.Distance,
		Timeout:    time.Duration(cfg.Qdrant.TimeoutSecs) * time.Second,
	})
	if err := store.EnsureCollection(ctx); err != nil {
		// The store retries lazily; queries degrade until Qdrant is reachable.
		logger.Warn("Failed to ensure vector collection", zap.Error(err))
	}

	// Chunker
	chk, err := chunker.New(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	if err != nil {
		logger.Fatal("Invalid chunking configuration", zap.Error(err))
	}

	// Pipeline
	p := pipeline.New(
		classifier.New(classifier.DefaultRules()),
		chk,
		embedder,
		store,
		weatherClient,
		generator.New(completer, logger),
		evaluator.New(logger),
		logger,
		pipeline.Config{
			TopK:             cfg.RAG.TopK,
			DefaultLocalCity: cfg.Weather.DefaultLocalCity,
			DefaultCity:      cfg.Weather.DefaultCity,
		},
	)

	ingestService := service.NewIngestService(docRepo, p, logger)

	// Setup router
	router := api.SetupRouter(p, ingestService, store, api.RouterConfig{
		AllowOrigins: []string{"*"},
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting SkyDoc server", zap.String("address", cfg.Address()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func closeIfCloser(v any) {
	if c, ok := v.(io.Closer); ok {
		c.Close()
	}
}
