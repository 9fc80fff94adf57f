package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/uozuAho/vicroads-graph-search/pkg/logger"
	"github.com/uozuAho/vicroads-graph-search/pkg/recordio"
	"github.com/uozuAho/vicroads-graph-search/pkg/util"
	"go.uber.org/zap"
)

type Options struct {
	Input    string `short:"i" long:"in" description:"Input file (.kml, .kml.bz2, .osm, .osm.bz2, .osm.pbf, .json)" required:"true"`
	Output   string `short:"o" long:"out" description:"Output file, format from extension (.json, .csv, .js)" required:"true"`
	Limit    int    `short:"n" long:"limit" description:"Read at most this many placemarks, 0 for all" default:"0"`
	Polyline bool   `long:"polyline" description:"Add an encoded polyline to every json record"`
	Config   string `short:"c" long:"config" description:"Config file path"`
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
		log.Error("kml2json failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, opts Options, log *zap.Logger) error {
	src, err := recordio.Open(ctx, opts.Input, log)
	if err != nil {
		return err
	}
	defer src.Close()

	count, err := recordio.WriteFile(opts.Output, src.Placemarks(opts.Limit), recordio.JSONOptions{Polyline: opts.Polyline})
	if err != nil {
		return err
	}
	if err := src.Err(); err != nil {
		return fmt.Errorf("read %s: %w", opts.Input, err)
	}

	log.Info("placemarks written", zap.String("output", opts.Output), zap.Int("count", count))
	return nil
}
