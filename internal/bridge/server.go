// Package bridge exposes the overlay session over HTTP so the embedding game
// client can push messages in and the CLI can read and drive the overlay.
package bridge

import (
	"context"
	"errors"
	"net"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tessro/tokyobox/internal/backend"
	"github.com/tessro/tokyobox/internal/logger"
	"github.com/tessro/tokyobox/internal/overlay"
)

// DefaultListen is the loopback address the bridge binds to.
const DefaultListen = "127.0.0.1:7878"

const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	Listen  string
	Metrics bool
	Debug   bool
	Logger  logger.LoggerInterface

	// AllowedOrigins are the browser origins allowed to call the bridge.
	// Empty allows only DefaultOrigin; "*" allows any origin. Requests
	// without an Origin header, like the CLI's, are always served.
	AllowedOrigins []string
}

// DefaultOrigin is the game client's UI origin for the default resource.
const DefaultOrigin = "https://cfx-nui-tokyo_box"

// Server is the HTTP bridge in front of a session.
type Server struct {
	opts     Options
	session  *overlay.Session
	router   *gin.Engine
	registry *prometheus.Registry
	log      logger.LoggerInterface
}

// New creates a bridge for session.
func New(session *overlay.Session, opts Options) (*Server, error) {
	if opts.Listen == "" {
		opts.Listen = DefaultListen
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}
	if !opts.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		opts:     opts,
		session:  session,
		router:   gin.New(),
		registry: prometheus.NewRegistry(),
		log:      opts.Logger,
	}

	if err := s.registry.Register(messagesTotal); err != nil {
		return nil, err
	}
	if err := backend.RegisterMetrics(s.registry); err != nil {
		return nil, err
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupMiddleware() {
	corsConfig := cors.DefaultConfig()
	origins := s.opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{DefaultOrigin}
	}
	if slices.Contains(origins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}

	s.router.Use(gin.Recovery())
	s.router.Use(requestLogger(s.log))
	s.router.Use(cors.New(corsConfig))
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "tokyobox"})
	})

	s.router.POST("/message", s.handleMessage)
	s.router.GET("/state", s.handleState)

	queue := s.router.Group("/queue")
	{
		queue.GET("", s.handleQueue)
		queue.DELETE("", s.handleClearQueue)
		queue.POST("/tracks", s.handleAddTrack)
		queue.DELETE("/tracks/:id", s.handleRemoveTrack)
		queue.POST("/current/:id", s.handleSetCurrent)
		queue.POST("/next", s.handleQueueNext)
		queue.POST("/previous", s.handleQueuePrevious)
		queue.POST("/shuffle", s.handleQueueShuffle)
		queue.PUT("/repeat", s.handleSetRepeat)
	}

	actions := s.router.Group("/actions")
	{
		actions.POST("/next", s.handleNext)
		actions.POST("/previous", s.handlePrevious)
		actions.POST("/shuffle", s.handleToggleShuffle)
		actions.POST("/repeat", s.handleCycleRepeat)
		actions.POST("/toggle", s.handleTogglePlayback)
		actions.POST("/stop", s.handleStop)
		actions.POST("/volume", s.handleVolume)
		actions.POST("/search", s.handleSearch)
		actions.POST("/play", s.handlePlay)
		actions.POST("/play/:id", s.handlePlayTrack)
	}

	library := s.router.Group("/library")
	{
		library.GET("/playlists", s.handlePlaylists)
		library.POST("/playlists", s.handleCreatePlaylist)
		library.DELETE("/playlists/:id", s.handleDeletePlaylist)
		library.POST("/playlists/:id/tracks", s.handleAddToPlaylist)
		library.DELETE("/playlists/:id/tracks/:trackId", s.handleRemoveFromPlaylist)
		library.GET("/favorites", s.handleFavorites)
		library.POST("/favorites", s.handleAddFavorite)
		library.DELETE("/favorites/:id", s.handleRemoveFavorite)
	}

	s.router.GET("/settings", s.handleSettings)
	s.router.PUT("/settings/:key", s.handleUpdateSetting)
	s.router.DELETE("/notifications/:id", s.handleDismiss)

	if s.opts.Metrics {
		s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	}
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.opts.Listen
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Listen)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Printf("bridge: listening on %s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.log.Printf("bridge: shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

// requestLogger logs each request at debug level.
func requestLogger(log logger.LoggerInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if q := c.Request.URL.RawQuery; q != "" {
			path = path + "?" + q
		}

		c.Next()

		log.Debugf("bridge: %3d | %13v | %-7s %s",
			c.Writer.Status(),
			time.Since(start),
			c.Request.Method,
			path,
		)
		for _, e := range c.Errors {
			log.PrintError("bridge", e.Err)
		}
	}
}
