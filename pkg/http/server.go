package http

import (
	"context"

	http_router "github.com/uozuAho/vicroads-graph-search/pkg/http/router"
	"github.com/uozuAho/vicroads-graph-search/pkg/http/router/controllers"
	http_server "github.com/uozuAho/vicroads-graph-search/pkg/http/server"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	Log *zap.Logger
}

func NewServer(log *zap.Logger) *Server {
	return &Server{Log: log}
}

// Use serves graphService until ctx is done. it blocks.
func (s *Server) Use(
	ctx context.Context,
	config http_server.Config,
	useRateLimit bool,
	graphService controllers.GraphService,
) error {
	api := http_router.NewAPI(s.Log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return api.Run(gctx, config, useRateLimit, graphService)
	})
	return g.Wait()
}
