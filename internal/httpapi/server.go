// Package httpapi exposes the service over HTTP: the auth endpoints, the
// guarded member and issue-helper routes, and the cookie/header transport
// for the token pair.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devlabhq/devlab/internal/auth"
	"github.com/devlabhq/devlab/internal/config"
	"github.com/devlabhq/devlab/internal/issue"
)

// Server wraps the HTTP server
type Server struct {
	cfg    *config.Config
	auth   *auth.Service
	github *issue.Client
	engine *gin.Engine
}

// NewServer builds the gin engine with middleware and routes configured.
func NewServer(cfg *config.Config, authService *auth.Service, github *issue.Client) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()

	s := &Server{
		cfg:    cfg,
		auth:   authService,
		github: github,
		engine: engine,
	}

	// Order matters: recovery first so no failure surfaces as a raw panic,
	// then CORS before any handler can reply.
	engine.Use(gin.Recovery())
	engine.Use(s.corsMiddleware())

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.engine.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "devlab",
		})
	})

	authGroup := s.engine.Group("/api/auth")
	{
		authGroup.POST("/join", s.join)
		authGroup.POST("/login", s.login)
		authGroup.POST("/refresh", s.refresh)
		authGroup.GET("/validate/username", s.validateUsername)
		authGroup.GET("/validate/nickname", s.validateNickname)

		// Logout needs a verified identity; the refresh cookie alone is
		// not trusted for it.
		authGroup.POST("/logout", s.requireAuth(), s.logout)
	}

	api := s.engine.Group("/api")
	api.Use(s.requireAuth())
	{
		api.GET("/member", s.memberInfo)
		api.POST("/issue", s.processIssue)
	}
}

// Handler exposes the engine for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the HTTP server on the configured address.
func (s *Server) Run() error {
	return s.engine.Run(s.cfg.ServerAddress)
}
