package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/uozuAho/vicroads-graph-search/pkg/http"
	http_server "github.com/uozuAho/vicroads-graph-search/pkg/http/server"
	"github.com/uozuAho/vicroads-graph-search/pkg/http/usecases"
	"github.com/uozuAho/vicroads-graph-search/pkg/logger"
	"github.com/uozuAho/vicroads-graph-search/pkg/recordio"
	"github.com/uozuAho/vicroads-graph-search/pkg/roadgraph"
	"github.com/uozuAho/vicroads-graph-search/pkg/util"
	"go.uber.org/zap"
)

type Options struct {
	Input          string  `short:"i" long:"in" description:"Input file (.kml, .kml.bz2, .osm, .osm.bz2, .osm.pbf, .json)" required:"true"`
	MaxDistSquared float64 `short:"d" long:"max-dist-squared" description:"Join threshold in squared degrees, overrides join.max_dist_squared"`
	Limit          int     `short:"n" long:"limit" description:"Read at most this many placemarks, 0 for all" default:"0"`
	Port           int     `short:"p" long:"port" description:"Listen port, overrides server.port"`
	RateLimit      bool    `long:"rate-limit" description:"Enable the request rate limiter"`
	Config         string  `short:"c" long:"config" description:"Config file path"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if err := util.ReadConfig(opts.Config); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	graphService, err := load(ctx, opts, log)
	if err != nil {
		log.Error("load graph", zap.String("input", opts.Input), zap.Error(err))
		os.Exit(1)
	}

	config := http_server.ConfigFromViper()
	if opts.Port > 0 {
		config.Port = opts.Port
	}

	api := http.NewServer(log)
	if err := api.Use(ctx, config, opts.RateLimit, graphService); err != nil {
		log.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
	log.Info("road graph server stopped")
}

// load reads every placemark once, keeping them for /api/roads, and converts them.
func load(ctx context.Context, opts Options, log *zap.Logger) (*usecases.GraphService, error) {
	src, err := recordio.Open(ctx, opts.Input, log)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	placemarks := slices.Collect(src.Placemarks(opts.Limit))
	if err := src.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", opts.Input, err)
	}

	cfg := roadgraph.ConfigFromViper()
	if opts.MaxDistSquared > 0 {
		cfg.MaxDistSquared = opts.MaxDistSquared
	}
	graph := roadgraph.NewConverter(cfg, log).Convert(slices.Values(placemarks))
	return usecases.NewGraphServiceFromGraph(log, graph, placemarks), nil
}
