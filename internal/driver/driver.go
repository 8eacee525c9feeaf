// Package driver runs the enumeration, either on a single engine or
// sharded across workers. Workers share only the read-only placement table;
// each owns its aggregator (and transcript collector), merged on the driver
// goroutine after all workers return.
package driver

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zhiyue/BlockCanvas/internal/cover"
	"github.com/zhiyue/BlockCanvas/internal/layout"
	"github.com/zhiyue/BlockCanvas/internal/report"
)

// ErrIncomplete is returned when the build was cut short (cancellation or
// deadline) and the caller did not opt into partial results. The partial
// Result still accompanies the error.
var ErrIncomplete = errors.New("driver: build incomplete")

// Options configures one build run.
type Options struct {
	// Cap is the per-layout tiling cap (layout.DefaultCap when zero).
	Cap int
	// Workers is the shard count; values below two run sequentially.
	Workers int
	// Limit stops the enumeration after this many solutions (0 = all).
	// A limited run counts as complete.
	Limit uint64
	// RandomSeed, when non-zero, shuffles each engine's column scan order.
	// Only the diversity analysis uses this; the canonical build keeps the
	// deterministic order.
	RandomSeed int64
	// Collect also gathers the black-piece transcript.
	Collect bool
	// AcceptPartial returns partial results instead of ErrIncomplete when
	// the context is cancelled. The canonical index build must not set it;
	// the diversity analysis may.
	AcceptPartial bool
	// OnProgress, when set, is called every ProgressInterval solutions.
	OnProgress       func(Progress)
	ProgressInterval uint64
}

// Progress is a point-in-time view of a running build.
type Progress struct {
	Solutions uint64
	Elapsed   time.Duration
}

// Result is the outcome of a build run.
type Result struct {
	Agg       *layout.Aggregator
	Collector *report.Collector // nil unless Options.Collect
	Stats     cover.Stats
	Partial   bool
	Started   time.Time
	Finished  time.Time
}

type run struct {
	opts     Options
	table    *cover.Table
	started  time.Time
	total    atomic.Uint64
	limitHit atomic.Bool
	cancel   context.CancelFunc
	mu       sync.Mutex
}

// Build enumerates tilings over t and aggregates black-cell layouts.
// Cancellation through ctx yields a partial result: an error only when
// AcceptPartial is unset.
func Build(ctx context.Context, t *cover.Table, opts Options) (*Result, error) {
	if opts.Cap < 1 {
		opts.Cap = layout.DefaultCap
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	r := &run{opts: opts, table: t, started: time.Now(), cancel: cancel}

	if opts.Workers > 1 {
		return r.parallel(ctx)
	}
	return r.sequential(ctx)
}

func (r *run) sequential(ctx context.Context) (*Result, error) {
	agg := layout.NewAggregator(r.opts.Cap)
	var col *report.Collector
	if r.opts.Collect {
		col = report.NewCollector(r.table)
	}
	engine := r.newEngine(0)
	err := engine.Search(ctx, r.visitor(agg, col))
	if agg.Err() != nil {
		return nil, agg.Err()
	}
	return r.finish(agg, col, engine.Stats, err)
}

func (r *run) parallel(ctx context.Context) (*Result, error) {
	shards := r.shards()
	results := make([]*Result, len(shards))

	eg, gctx := errgroup.WithContext(ctx)
	for i, shard := range shards {
		eg.Go(func() error {
			agg := layout.NewAggregator(r.opts.Cap)
			var col *report.Collector
			if r.opts.Collect {
				col = report.NewCollector(r.table)
			}
			engine := r.newEngine(i)
			visit := r.visitor(agg, col)
			for _, seed := range shard {
				if err := engine.SearchSeeded(gctx, []int32{seed}, visit); err != nil {
					if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
						break
					}
					return err
				}
				if agg.Err() != nil {
					return agg.Err()
				}
			}
			results[i] = &Result{Agg: agg, Collector: col, Stats: engine.Stats}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	merged := layout.NewAggregator(r.opts.Cap)
	var col *report.Collector
	if r.opts.Collect {
		col = report.NewCollector(r.table)
	}
	var stats cover.Stats
	for _, res := range results {
		merged.Merge(res.Agg)
		if col != nil {
			col.Merge(res.Collector)
		}
		stats.Nodes += res.Stats.Nodes
		stats.Backtracks += res.Stats.Backtracks
		stats.Solutions += res.Stats.Solutions
	}
	if merged.Err() != nil {
		return nil, merged.Err()
	}
	return r.finish(merged, col, stats, ctx.Err())
}

func (r *run) newEngine(worker int) *cover.Engine {
	engine := cover.NewEngine(r.table)
	if r.opts.RandomSeed != 0 {
		engine.Randomize(rand.New(rand.NewSource(r.opts.RandomSeed + int64(worker))))
	}
	return engine
}

// shards picks the column with the fewest placements and partitions its
// candidates into contiguous groups, one per worker. Fixing the first
// column's placement makes the shards disjoint and exhaustive.
func (r *run) shards() [][]int32 {
	best, bestLen := 0, len(r.table.Candidates(0))
	for c := 1; c < cover.Columns; c++ {
		if n := len(r.table.Candidates(c)); n < bestLen {
			best, bestLen = c, n
		}
	}
	candidates := r.table.Candidates(best)
	w := r.opts.Workers
	if w > len(candidates) {
		w = len(candidates)
	}
	shards := make([][]int32, 0, w)
	for i := 0; i < w; i++ {
		lo := i * len(candidates) / w
		hi := (i + 1) * len(candidates) / w
		shards = append(shards, candidates[lo:hi])
	}
	return shards
}

func (r *run) visitor(agg *layout.Aggregator, col *report.Collector) cover.Visitor {
	aggVisit := agg.Visitor(r.table)
	return func(chosen []int32) bool {
		if !aggVisit(chosen) {
			return false
		}
		if col != nil {
			if err := col.Visit(chosen); err != nil {
				return false
			}
		}
		n := r.total.Add(1)
		if r.opts.OnProgress != nil && r.opts.ProgressInterval > 0 && n%r.opts.ProgressInterval == 0 {
			r.mu.Lock()
			r.opts.OnProgress(Progress{Solutions: n, Elapsed: time.Since(r.started)})
			r.mu.Unlock()
		}
		if r.opts.Limit > 0 && n >= r.opts.Limit {
			r.limitHit.Store(true)
			r.cancel()
			return false
		}
		return true
	}
}

func (r *run) finish(agg *layout.Aggregator, col *report.Collector, stats cover.Stats, searchErr error) (*Result, error) {
	res := &Result{
		Agg:       agg,
		Collector: col,
		Stats:     stats,
		Started:   r.started,
		Finished:  time.Now(),
	}
	cancelled := searchErr != nil &&
		(errors.Is(searchErr, context.Canceled) || errors.Is(searchErr, context.DeadlineExceeded))
	if cancelled && !r.limitHit.Load() {
		res.Partial = true
		if !r.opts.AcceptPartial {
			return res, ErrIncomplete
		}
		return res, nil
	}
	if searchErr != nil && !cancelled {
		return nil, searchErr
	}
	return res, nil
}
