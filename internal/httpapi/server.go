package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dshills/docdex/internal/config"
	"github.com/dshills/docdex/internal/indexer"
	"github.com/dshills/docdex/internal/searcher"
	"github.com/dshills/docdex/internal/storage"
)

// Version is reported by the root endpoint and MCP handshake.
const Version = "1.0.0"

// Server wires the pipeline components behind a gin router.
type Server struct {
	engine   *gin.Engine
	indexer  *indexer.Indexer
	searcher *searcher.Searcher
	storage  *storage.Storage
	settings *config.Settings
	logger   *zap.Logger
}

// NewServer builds the router. Gin runs in release mode; request logging
// goes through the service logger rather than gin's default writer.
func NewServer(ix *indexer.Indexer, se *searcher.Searcher, st *storage.Storage, settings *config.Settings, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		indexer:  ix,
		searcher: se,
		storage:  st,
		settings: settings,
		logger:   logger,
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(s.requestLogger())

	engine.GET("/", s.handleRoot)
	engine.GET("/health", s.handleHealth)
	engine.GET("/docs", s.handleListDocs)
	engine.POST("/ingest", s.handleIngest)
	engine.POST("/query", s.handleQuery)

	s.engine = engine
	return s
}

// Handler exposes the router for http.Server and tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// requestLogger logs one line per request through zap.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)))
	}
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "docdex",
		"version": Version,
		"endpoints": gin.H{
			"health": "GET /health",
			"docs":   "GET /docs",
			"ingest": "POST /ingest",
			"query":  "POST /query",
		},
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
