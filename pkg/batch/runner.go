package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uozuAho/vicroads-graph-search/pkg/concurrent"
	"github.com/uozuAho/vicroads-graph-search/pkg/graphio"
	"github.com/uozuAho/vicroads-graph-search/pkg/recordio"
	"github.com/uozuAho/vicroads-graph-search/pkg/render"
	"github.com/uozuAho/vicroads-graph-search/pkg/roadgraph"
	"go.uber.org/zap"
)

type JobResult struct {
	Job     string
	Stats   roadgraph.Stats
	Elapsed time.Duration
	Err     error
}

type Runner struct {
	log        *zap.Logger
	workers    int
	renderOpts render.Options
}

func NewRunner(log *zap.Logger, workers int, renderOpts render.Options) *Runner {
	return &Runner{log: log, workers: workers, renderOpts: renderOpts}
}

// Run converts every job of m, workers at a time, each with its own
// Converter. results follow manifest order. the returned error joins every
// failed job.
func (r *Runner) Run(ctx context.Context, m *Manifest) ([]JobResult, error) {
	results := concurrent.Map(ctx, r.workers, m.Jobs, r.RunJob)

	var errs []error
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return results, errors.Join(errs...)
}

func (r *Runner) RunJob(ctx context.Context, job Job) JobResult {
	start := time.Now()
	log := r.log.With(zap.String("job", job.Name))
	res := JobResult{Job: job.Name}

	if err := ctx.Err(); err != nil {
		res.Err = fmt.Errorf("job %q: %w", job.Name, err)
		return res
	}

	src, err := recordio.Open(ctx, job.Input, log)
	if err != nil {
		res.Err = fmt.Errorf("job %q: open %s: %w", job.Name, job.Input, err)
		return res
	}
	defer src.Close()

	records := recordio.Crop(src.Placemarks(job.Limit), job.Crop)
	conv := roadgraph.NewConverter(roadgraph.Config{MaxDistSquared: job.MaxDistSquared}, log)
	converted := conv.ConvertWithResult(records)
	if err := src.Err(); err != nil {
		res.Err = fmt.Errorf("job %q: read %s: %w", job.Name, job.Input, err)
		return res
	}

	if err := graphio.WriteFile(job.Output, converted.Graph, r.renderOpts); err != nil {
		res.Err = fmt.Errorf("job %q: %w", job.Name, err)
		return res
	}

	res.Stats = roadgraph.ComputeStats(converted.Graph)
	res.Elapsed = time.Since(start)
	log.Info("job done",
		zap.String("output", job.Output),
		zap.Int("nodes", res.Stats.Nodes),
		zap.Int("components", res.Stats.Components),
		zap.Duration("elapsed", res.Elapsed))
	return res
}
