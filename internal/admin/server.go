package admin

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Index is the part of the folder index the admin surface controls.
type Index interface {
	Invalidate()
	Snapshot() (count int, populated bool)
}

// Server exposes health and cache control over HTTP.
type Server struct {
	index  Index
	token  string
	logger *zerolog.Logger
}

// NewServer creates an admin server. token guards the mutating routes.
func NewServer(index Index, token string, logger *zerolog.Logger) *Server {
	return &Server{
		index:  index,
		token:  token,
		logger: logger,
	}
}

// ginMode picks gin's debug output to follow the logger level.
func ginMode(logger *zerolog.Logger) string {
	if logger.GetLevel() <= zerolog.DebugLevel {
		return gin.DebugMode
	}
	return gin.ReleaseMode
}

// Router builds the gin engine with all admin routes.
func (s *Server) Router() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/healthz", s.handleHealth)

	v1 := engine.Group("/api/v1", s.requireToken)
	{
		v1.GET("/index", s.handleIndexStatus)
		v1.POST("/index/invalidate", s.handleInvalidate)
	}

	return engine
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleIndexStatus(c *gin.Context) {
	count, populated := s.index.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"populated": populated,
		"images":    count,
	})
}

func (s *Server) handleInvalidate(c *gin.Context) {
	s.index.Invalidate()
	s.logger.Info().Str("remote", c.ClientIP()).Msg("index invalidated via admin api")
	c.Status(http.StatusNoContent)
}

func (s *Server) requireToken(c *gin.Context) {
	got, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok || s.token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(s.token)) != 1 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Next()
}
