package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
	da "github.com/uozuAho/vicroads-graph-search/pkg/datastructure"
	"github.com/uozuAho/vicroads-graph-search/pkg/graphio"
	"github.com/uozuAho/vicroads-graph-search/pkg/logger"
	"github.com/uozuAho/vicroads-graph-search/pkg/recordio"
	"github.com/uozuAho/vicroads-graph-search/pkg/render"
	"github.com/uozuAho/vicroads-graph-search/pkg/roadgraph"
	"github.com/uozuAho/vicroads-graph-search/pkg/util"
	"go.uber.org/zap"
)

type Options struct {
	Input          string  `short:"i" long:"in" description:"Input file (.kml, .kml.bz2, .osm, .osm.bz2, .osm.pbf, .json)" required:"true"`
	Output         string  `short:"o" long:"out" description:"Output file, format from extension (.json, .js, .yaml, .geojson, .graph, .png, .webp)" required:"true"`
	MaxDistSquared float64 `short:"d" long:"max-dist-squared" description:"Join threshold in squared degrees, overrides join.max_dist_squared"`
	Limit          int     `short:"n" long:"limit" description:"Read at most this many placemarks, 0 for all" default:"0"`
	Crop           string  `long:"crop" description:"Keep only points inside minLat,minLon,maxLat,maxLon"`
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

	if err := run(ctx, opts, log); err != nil {
		log.Error("kml2graph failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, opts Options, log *zap.Logger) error {
	cfg := roadgraph.ConfigFromViper()
	if opts.MaxDistSquared > 0 {
		cfg.MaxDistSquared = opts.MaxDistSquared
	}

	var bb *da.BoundingBox
	if opts.Crop != "" {
		var err error
		if bb, err = da.ParseBoundingBox(opts.Crop); err != nil {
			return err
		}
	}

	// fail on an unknown output extension before the conversion runs
	if _, err := graphio.FormatFromPath(opts.Output); err != nil {
		return err
	}

	src, err := recordio.Open(ctx, opts.Input, log)
	if err != nil {
		return err
	}
	defer src.Close()

	res := roadgraph.NewConverter(cfg, log).ConvertWithResult(recordio.Crop(src.Placemarks(opts.Limit), bb))
	if err := src.Err(); err != nil {
		return fmt.Errorf("read %s: %w", opts.Input, err)
	}

	if err := graphio.WriteFile(opts.Output, res.Graph, render.OptionsFromViper()); err != nil {
		return err
	}

	st := roadgraph.ComputeStats(res.Graph)
	log.Info("graph written",
		zap.String("output", opts.Output),
		zap.Int("nodes", st.Nodes),
		zap.Int("undirected_edges", st.UndirectedEdges),
		zap.Int("sequential_edges", res.SequentialEdges),
		zap.Int("joined_nodes", res.JoinedNodes),
		zap.Int("isolated_nodes", st.IsolatedNodes),
		zap.Int("max_degree", st.MaxDegree),
		zap.Int("components", st.Components),
		zap.Int("largest_component", st.LargestComponent))
	return nil
}
