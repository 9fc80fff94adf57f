package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/uozuAho/vicroads-graph-search/pkg/batch"
	"github.com/uozuAho/vicroads-graph-search/pkg/logger"
	"github.com/uozuAho/vicroads-graph-search/pkg/render"
	"github.com/uozuAho/vicroads-graph-search/pkg/util"
	"go.uber.org/zap"
)

type Options struct {
	Workers int    `short:"w" long:"workers" description:"Jobs converted at the same time, 0 for one per CPU" default:"0"`
	Config  string `short:"c" long:"config" description:"Config file path"`
	Args    struct {
		Manifest string `positional-arg-name:"manifest" description:"HCL manifest of conversion jobs"`
	} `positional-args:"yes" required:"yes"`
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

	manifest, err := batch.LoadManifest(opts.Args.Manifest)
	if err != nil {
		log.Error("load manifest", zap.String("path", opts.Args.Manifest), zap.Error(err))
		os.Exit(1)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("running manifest", zap.Int("jobs", len(manifest.Jobs)), zap.Int("workers", workers))
	results, err := batch.NewRunner(log, workers, render.OptionsFromViper()).Run(ctx, manifest)
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		log.Info("job summary",
			zap.String("job", res.Job),
			zap.Int("nodes", res.Stats.Nodes),
			zap.Int("components", res.Stats.Components),
			zap.Duration("elapsed", res.Elapsed))
	}
	if err != nil {
		log.Error("batch failed", zap.Error(err))
		os.Exit(1)
	}
}
