// Package server is the local web front. It renders the navigation shell,
// guards every page against the session, completes OAuth logins and proxies
// /api calls to the backend through the authorizing client.
package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httputil"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/matheus05dev/mindforge-front-sub001/internal/account"
	"github.com/matheus05dev/mindforge-front-sub001/internal/client"
	"github.com/matheus05dev/mindforge-front-sub001/internal/config"
	"github.com/matheus05dev/mindforge-front-sub001/internal/notify"
	"github.com/matheus05dev/mindforge-front-sub001/internal/session"
	"github.com/matheus05dev/mindforge-front-sub001/internal/storage"
)

const requestIDHeader = "X-Request-ID"

// Server represents the HTTP server
type Server struct {
	router    *gin.Engine
	config    *config.Config
	logger    zerolog.Logger
	store     *session.Store
	storage   storage.Storage
	api       *client.Client
	accounts  *account.Service
	flash     *notify.Flash
	proxy     *httputil.ReverseProxy
	scheduler *cron.Cron
	version   string
}

// New creates a new server instance around an existing session store.
// The store is hydrated from backend when Start runs (or Hydrate is called).
func New(cfg *config.Config, zlog zerolog.Logger, store *session.Store, backend storage.Storage, version string) (*Server, error) {
	api := client.New(cfg.API.BaseURL, store,
		client.WithTimeout(cfg.API.RequestTimeout),
		client.WithLogger(zlog),
	)
	store.UseFetcher(api)

	flash := notify.NewFlash()

	server := &Server{
		config:   cfg,
		logger:   zlog,
		store:    store,
		storage:  backend,
		api:      api,
		accounts: account.NewService(api, store, flash, zlog),
		flash:    flash,
		version:  version,
	}

	proxy, err := server.newAPIProxy()
	if err != nil {
		return nil, err
	}
	server.proxy = proxy

	if err := server.setupProfileRefresher(); err != nil {
		return nil, err
	}

	// Setup router
	if err := server.setupRouter(); err != nil {
		return nil, err
	}

	return server, nil
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() error {
	s.router = gin.New()

	// Add middleware
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())

	// CORS middleware
	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     s.config.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", requestIDHeader},
		ExposeHeaders:    []string{"Content-Length", requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	tmpl, err := parseTemplates()
	if err != nil {
		return err
	}
	s.router.SetHTMLTemplate(tmpl)

	// Non-page endpoints (not guarded)
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/auth/github", s.githubLogin)
	s.router.GET("/auth/callback", s.oauthCallback)
	s.router.POST("/logout", s.logout)
	s.router.Any("/api/*path", s.proxyAPI)

	// Pages, each navigation goes through the route guard
	guard := RouteGuard(s.store, s.logger)

	pages := s.router.Group("/")
	pages.Use(guard)
	{
		pages.GET("/", s.homePage)

		pages.GET("/login", s.loginPage)
		pages.POST("/login", s.login)
		pages.GET("/register", s.registerPage)
		pages.POST("/register", s.register)

		for _, v := range views {
			pages.GET(v.Path, s.viewPage(v))
		}
	}

	// Unknown paths are protected too
	s.router.NoRoute(guard, s.notFound)

	return nil
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = ulid.Make().String()
		}
		c.Set("request_id", requestID)
		c.Header(requestIDHeader, requestID)

		c.Next()

		s.logger.Info().
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "online",
		"timestamp":     time.Now().UTC(),
		"service":       "mindforge-web",
		"version":       s.version,
		"hydrated":      s.store.HasHydrated(),
		"authenticated": s.store.IsAuthenticated(),
	})
}

// Handler returns the HTTP handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hydrate restores the persisted session and starts persisting mutations
func (s *Server) Hydrate() {
	if _, err := session.Rehydrate(s.store, s.storage, s.logger); err != nil {
		s.logger.Error().Err(err).Msg("Failed to restore persisted session, starting logged out")
		return
	}
	s.logger.Info().Bool("authenticated", s.store.IsAuthenticated()).Msg("Session hydrated")
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := s.config.Server.ListenAddress

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Pages render the loading indicator until this completes
	go s.Hydrate()

	if s.scheduler != nil {
		s.scheduler.Start()
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info().Str("address", addr).Str("api", s.api.BaseURL()).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	// Wait for shutdown signal
	select {
	case <-sigChan:
		s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")
	case err := <-errChan:
		return fmt.Errorf("HTTP server error: %w", err)
	}

	if s.scheduler != nil {
		<-s.scheduler.Stop().Done()
		s.logger.Info().Msg("Profile refresher stopped")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	s.logger.Info().Msg("Server shutdown complete")
	return nil
}
