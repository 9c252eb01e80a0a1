// Package server exposes the capabilities over HTTP, websockets and MCP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"ihint/internal/config"
	"ihint/internal/llm"
	"ihint/internal/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const (
	EndPointHealth     = "/healthz"
	EndPointAsk        = "/ask"
	EndPointAskStream  = "/ask_stream"
	EndPointFBFS       = "/fbfs"
	EndPointFBFSStream = "/fbfs_stream"

	shutdownTimeout = 10 * time.Second
)

type ChatService interface {
	Ask(ctx context.Context, question string) (string, error)
	AskStream(ctx context.Context, question string, handler llm.StreamHandler) (string, error)
}

type FBFSService interface {
	Generate(ctx context.Context, fishBigger, fishSmaller string) (string, error)
	GenerateStream(ctx context.Context, fishBigger, fishSmaller string, handler llm.StreamHandler) (string, error)
}

type Server struct {
	cfg    config.ServerConfig
	chat   ChatService
	fbfs   FBFSService
	engine *gin.Engine
	log    *logger.Logger
}

// New builds the router. mcpHandler is mounted at cfg.MCPPath when both
// are set.
func New(cfg config.ServerConfig, chat ChatService, fbfs FBFSService, mcpHandler http.Handler, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Discard()
	}

	s := &Server{
		cfg:  cfg,
		chat: chat,
		fbfs: fbfs,
		log:  log,
	}

	router := gin.New()
	router.Use(gin.Recovery(), s.requestContext())

	router.GET(EndPointHealth, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "ihint"})
	})

	router.GET(EndPointAsk, s.handleAsk)
	router.POST(EndPointAsk, s.handleAsk)
	router.GET(EndPointFBFS, s.handleFBFS)
	router.POST(EndPointFBFS, s.handleFBFS)

	router.GET(EndPointAskStream, s.handleAskStream)
	router.GET(EndPointFBFSStream, s.handleFBFSStream)

	if mcpHandler != nil && cfg.MCPPath != "" {
		router.Any(cfg.MCPPath, gin.WrapH(mcpHandler))
	}

	s.engine = router
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
