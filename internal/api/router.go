package api

import (
	"github.com/gin-gonic/gin"

	"github.com/anupamsr/skydoc/internal/api/middleware"
	"github.com/anupamsr/skydoc/internal/service"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	AllowOrigins []string
}

// SetupRouter sets up the Gin router
func SetupRouter(
	pipeline QueryProcessor,
	ingestService *service.IngestService,
	store CollectionInspector,
	cfg RouterConfig,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// CORS middleware
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowOrigins = []string{"*"}
	}
	r.Use(middleware.CORS(cfg.AllowOrigins))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	handler := NewHandler(pipeline, ingestService, store)
	apiGroup := r.Group("/api")
	handler.RegisterRoutes(apiGroup)

	return r
}
