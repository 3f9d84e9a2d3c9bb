package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anupamsr/skydoc/internal/domain"
	"github.com/anupamsr/skydoc/internal/service"
)

// QueryProcessor runs a query through the routing and evaluation pipeline.
type QueryProcessor interface {
	ProcessQuery(ctx context.Context, query string) *domain.PipelineResult
}

// CollectionInspector reports the backing vector collection.
type CollectionInspector interface {
	Info(ctx context.Context) (domain.CollectionInfo, error)
}

// Handler handles API requests
type Handler struct {
	pipeline      QueryProcessor
	ingestService *service.IngestService
	store         CollectionInspector
}

// NewHandler creates a new API handler
func NewHandler(pipeline QueryProcessor, ingestService *service.IngestService, store CollectionInspector) *Handler {
	return &Handler{
		pipeline:      pipeline,
		ingestService: ingestService,
		store:         store,
	}
}

// RegisterRoutes registers API routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/query", h.ProcessQuery)

	documents := r.Group("/documents")
	{
		documents.POST("", h.UploadDocument)
		documents.GET("", h.ListDocuments)
		documents.GET("/:id", h.GetDocument)
	}

	r.GET("/collection", h.GetCollection)
}

func (h *Handler) ProcessQuery(c *gin.Context) {
	var req domain.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.pipeline.ProcessQuery(c.Request.Context(), req.Query)

	c.JSON(http.StatusOK, result)
}

func (h *Handler) UploadDocument(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, result, err := h.ingestService.UploadDocument(c.Request.Context(), data, file.Filename)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrInvalidArgument) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"document": doc, "result": result})
}

func (h *Handler) ListDocuments(c *gin.Context) {
	docs, err := h.ingestService.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": docs, "total": len(docs)})
}

func (h *Handler) GetDocument(c *gin.Context) {
	id := c.Param("id")
	doc, err := h.ingestService.Get(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if doc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (h *Handler) GetCollection(c *gin.Context) {
	info, err := h.store.Info(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, info)
}
