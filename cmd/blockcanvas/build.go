package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/zhiyue/BlockCanvas/internal/board"
	"github.com/zhiyue/BlockCanvas/internal/config"
	"github.com/zhiyue/BlockCanvas/internal/cover"
	"github.com/zhiyue/BlockCanvas/internal/driver"
	"github.com/zhiyue/BlockCanvas/internal/history"
	"github.com/zhiyue/BlockCanvas/internal/index"
	"github.com/zhiyue/BlockCanvas/internal/report"
)

var buildCmd = &cobra.Command{
	Use:   "build <out-file> [cap]",
	Short: "Enumerate all tilings and write the unique-layout index",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runBuild,
}

var (
	flagWorkers int
	flagReport  string
	flagLimit   uint64
	flagTimeout time.Duration
	flagSeed    int64
	flagPartial bool
)

func init() {
	buildCmd.Flags().IntVar(&flagWorkers, "workers", 0, "search shards (overrides config; 1 = sequential)")
	buildCmd.Flags().StringVar(&flagReport, "report", "", "also write the black-piece combination transcript to this file")
	buildCmd.Flags().Uint64Var(&flagLimit, "limit", 0, "stop after this many solutions (0 = enumerate all)")
	buildCmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "abort the build after this duration")
	buildCmd.Flags().Int64Var(&flagSeed, "seed", 0, "shuffle the column order for diversity runs (0 = deterministic)")
	buildCmd.Flags().BoolVar(&flagPartial, "accept-partial", false, "keep results of an aborted build; the index is then not canonical")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath())
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = config.Defaults()
	}
	if err := setupLogging(cfg.LogLevel, cfg.LogFile); err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}

	outFile := args[0]
	capM := cfg.Cap
	if len(args) == 2 {
		capM, err = strconv.Atoi(args[1])
		if err != nil || capM < 1 {
			return fmt.Errorf("invalid cap %q", args[1])
		}
	}
	workers := cfg.Workers
	if flagWorkers > 0 {
		workers = flagWorkers
	}

	pieces, err := board.Catalogue()
	if err != nil {
		return err
	}
	table := cover.NewTable(pieces)
	slog.Info("placement table built",
		"placements", len(table.Placements), "columns", cover.Columns,
		"cap", capM, "workers", workers)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if flagTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flagTimeout)
		defer cancel()
	}

	// Inline progress is only worth printing on a live terminal; the slog
	// record always goes to the configured sink.
	tty := term.IsTerminal(int(os.Stderr.Fd()))
	onProgress := func(p driver.Progress) {
		rate := float64(p.Solutions) / p.Elapsed.Seconds()
		slog.Info("progress", "solutions", p.Solutions,
			"elapsed", p.Elapsed.Round(time.Second), "rate", fmt.Sprintf("%.1f/s", rate))
		if tty {
			fmt.Fprintf(os.Stderr, "\r%d solutions (%.1f/s)", p.Solutions, rate)
		}
	}

	interval := uint64(cfg.ProgressInterval)
	if interval == 0 {
		interval = 100
	}
	res, err := driver.Build(ctx, table, driver.Options{
		Cap:              capM,
		Workers:          workers,
		Limit:            flagLimit,
		RandomSeed:       flagSeed,
		Collect:          flagReport != "",
		AcceptPartial:    flagPartial,
		OnProgress:       onProgress,
		ProgressInterval: interval,
	})
	if tty {
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	if res.Partial {
		slog.Warn("build interrupted; writing partial results", "solutions", res.Stats.Solutions)
	}

	unique := res.Agg.Unique()
	elapsed := res.Finished.Sub(res.Started)
	slog.Info("enumeration finished",
		"solutions", res.Stats.Solutions, "nodes", res.Stats.Nodes,
		"backtracks", res.Stats.Backtracks, "unique_layouts", len(unique),
		"dead_layouts", res.Agg.DeadLen(), "skipped", res.Agg.Skipped(),
		"elapsed", elapsed.Round(time.Millisecond))

	if err := index.Save(outFile, unique); err != nil {
		return err
	}
	fmt.Printf("wrote %d unique layouts to %s\n", len(unique), outFile)

	if flagReport != "" {
		rep := res.Collector.Build(res.Started, res.Finished)
		if err := report.Write(flagReport, rep); err != nil {
			return err
		}
		fmt.Printf("wrote %d combinations to %s\n", rep.Metadata.UniqueBlackCombinations, flagReport)
	}

	recordRun(cfg, history.Run{
		Timestamp:      res.Started,
		OutFile:        outFile,
		Cap:            capM,
		Workers:        workers,
		Solutions:      res.Stats.Solutions,
		UniqueLayouts:  len(unique),
		Nodes:          res.Stats.Nodes,
		ElapsedSeconds: elapsed.Seconds(),
	})
	return nil
}

// recordRun appends the run to the history database. Failures are logged,
// not fatal: the index on disk is the deliverable.
func recordRun(cfg *config.Config, run history.Run) {
	dbPath := cfg.HistoryDB
	if dbPath == "" {
		dir, err := dataDir()
		if err != nil {
			slog.Warn("could not resolve history db path", "err", err)
			return
		}
		dbPath = dir + "/history.db"
	}
	hist, err := history.New(dbPath)
	if err != nil {
		slog.Warn("could not open history db", "err", err)
		return
	}
	defer hist.Close()
	if err := hist.Record(run); err != nil {
		slog.Warn("could not record build run", "err", err)
	}
}
