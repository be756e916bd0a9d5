// Package pipeline drives a decross.Filter over a frame stream.
//
// Frames are read sequentially, processed by up to Workers concurrent jobs
// and written in source order. The first and last frame of the stream pass
// through unmodified, matching decross.Filter.Frame on a clip of known
// length.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/teranos/decross/decross"
	"github.com/teranos/decross/errors"
	"github.com/teranos/decross/logger"
	"github.com/teranos/decross/video"
)

// DefaultProgressInterval is the minimum gap between progress events
const DefaultProgressInterval = 500 * time.Millisecond

// Options configures a Runner
type Options struct {
	// Workers bounds the number of frames processed concurrently; 0 picks a
	// count from the host with AutoWorkers
	Workers int
	// Emitter receives progress; nil discards it
	Emitter ProgressEmitter
	// ProgressInterval throttles progress events; 0 uses
	// DefaultProgressInterval and a negative value disables throttling
	ProgressInterval time.Duration
	// Logger defaults to the "pipeline" component logger
	Logger *zap.SugaredLogger
}

// Runner filters frame streams
type Runner struct {
	filter  *decross.Filter
	workers int
	emitter ProgressEmitter
	logger  *zap.SugaredLogger
}

// NewRunner creates a runner for filter
func NewRunner(filter *decross.Filter, opts Options) *Runner {
	workers := opts.Workers
	if workers <= 0 {
		info := filter.Info()
		workers = AutoWorkers(video.ExpectedFrameSize(info.Width, info.Height, info.Format))
	}

	emitter := opts.Emitter
	if emitter == nil {
		emitter = NopEmitter{}
	}
	interval := opts.ProgressInterval
	if interval == 0 {
		interval = DefaultProgressInterval
	}

	log := opts.Logger
	if log == nil {
		log = logger.ComponentLogger("pipeline")
	}

	return &Runner{
		filter:  filter,
		workers: workers,
		emitter: Throttle(emitter, interval),
		logger:  log,
	}
}

// Workers returns the concurrency limit
func (r *Runner) Workers() int { return r.workers }

// outcome is the result of one frame job
type outcome struct {
	frame *video.Frame
	stats decross.Stats
	err   error
}

// Run filters every frame of src into sink. It stops at the first read,
// process or write error, or when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, src FrameSource, sink FrameSink) (*Summary, error) {
	info := src.Info()
	want := r.filter.Info()
	if info.Format != want.Format || info.Width != want.Width || info.Height != want.Height {
		return nil, errors.NewGeometryMismatchError("source is %s %dx%d, filter expects %s %dx%d",
			info.Format, info.Width, info.Height, want.Format, want.Width, want.Height)
	}

	log := r.logger.With(logger.FieldsFromContext(ctx)...)
	log.Infow("Starting filter run",
		logger.FieldFormat, info.Format.String(),
		logger.FieldWidth, info.Width,
		logger.FieldHeight, info.Height,
		logger.FieldWorkers, r.workers)
	r.emitter.EmitStage("filter", fmt.Sprintf("%s %dx%d, %d workers", info.Format, info.Width, info.Height, r.workers))

	start := time.Now()
	summary := &Summary{Workers: r.workers}

	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(r.workers))
	pending := make(chan chan outcome, 2*r.workers)

	g.Go(func() error {
		defer close(pending)
		return r.schedule(gctx, g, sem, src, pending)
	})
	g.Go(func() error {
		return r.drain(gctx, sink, pending, summary, start)
	})

	err := g.Wait()
	summary.Duration = time.Since(start)
	if err != nil {
		r.emitter.EmitError("filter", err)
		log.Errorw("Filter run failed",
			logger.FieldFrames, summary.Frames,
			logger.FieldError, err)
		return nil, err
	}

	log.Infow("Filter run complete",
		logger.FieldFrames, summary.Frames,
		logger.FieldColumnsFlagged, summary.Stats.ColumnsFlagged,
		logger.FieldGroupsCorrected, summary.Stats.GroupsCorrected,
		logger.FieldSubstitutions, summary.Stats.Substitutions,
		logger.FieldDurationMS, summary.Duration.Milliseconds())
	r.emitter.EmitComplete(summary.Fields())
	return summary, nil
}

// schedule reads frames and queues one job per frame. Each job's result
// channel is queued before the job starts so that drain sees source order.
func (r *Runner) schedule(ctx context.Context, g *errgroup.Group, sem *semaphore.Weighted, src FrameSource, pending chan<- chan outcome) error {
	cur, err := src.ReadFrame()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "failed to read frame 0")
	}

	var prev *video.Frame
	for n := 0; ; n++ {
		next, err := src.ReadFrame()
		last := errors.Is(err, io.EOF)
		if err != nil && !last {
			return errors.Wrapf(err, "failed to read frame %d", n+1)
		}

		done := make(chan outcome, 1)
		select {
		case pending <- done:
		case <-ctx.Done():
			return ctx.Err()
		}

		if n == 0 || last {
			done <- outcome{frame: cur, stats: decross.Stats{Frames: 1, Passthrough: 1}}
		} else {
			if err := sem.Acquire(ctx, 1); err != nil {
				return err
			}
			idx, p, c, nx := n, prev, cur, next
			g.Go(func() error {
				defer sem.Release(1)
				res, err := r.filter.ProcessFrame(p, c, nx)
				if err != nil {
					err = errors.Wrapf(err, "failed to process frame %d", idx)
					done <- outcome{err: err}
					return err
				}
				res.Frame.Index = idx
				done <- outcome{frame: res.Frame, stats: res.Stats}
				return nil
			})
		}

		if last {
			return nil
		}
		prev, cur = cur, next
	}
}

// drain writes job results in queue order
func (r *Runner) drain(ctx context.Context, sink FrameSink, pending <-chan chan outcome, summary *Summary, start time.Time) error {
	for done := range pending {
		var o outcome
		select {
		case o = <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
		if o.err != nil {
			return o.err
		}

		if err := sink.WriteFrame(o.frame); err != nil {
			return errors.Wrapf(err, "failed to write frame %d", summary.Frames)
		}
		summary.Frames++
		summary.Stats.Add(o.stats)

		meta := map[string]interface{}{}
		if elapsed := time.Since(start).Seconds(); elapsed > 0 {
			meta["fps"] = float64(summary.Frames) / elapsed
		}
		r.emitter.EmitProgress(summary.Frames, meta)
	}
	return nil
}
