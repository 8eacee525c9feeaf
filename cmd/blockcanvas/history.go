package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/zhiyue/BlockCanvas/internal/config"
	"github.com/zhiyue/BlockCanvas/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history [n]",
	Short: "Show recent build runs",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	n := 10
	if len(args) == 1 {
		var err error
		n, err = strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid count %q", args[0])
		}
	}

	cfg, err := config.Load(configPath())
	if err != nil {
		cfg = config.Defaults()
	}
	dbPath := cfg.HistoryDB
	if dbPath == "" {
		dir, err := dataDir()
		if err != nil {
			return err
		}
		dbPath = dir + "/history.db"
	}

	hist, err := history.New(dbPath)
	if err != nil {
		return err
	}
	defer hist.Close()

	runs, err := hist.Recent(n)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No build runs recorded.")
		return nil
	}
	for _, r := range runs {
		fmt.Printf("  %s  %-20s cap=%-4d workers=%-2d %d solutions, %d unique, %.1fs\n",
			r.Timestamp.Local().Format(time.DateTime), r.OutFile,
			r.Cap, r.Workers, r.Solutions, r.UniqueLayouts, r.ElapsedSeconds)
	}
	return nil
}
