package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zhiyue/BlockCanvas/internal/difficulty"
	"github.com/zhiyue/BlockCanvas/internal/report"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <in-file>",
	Short: "Score every layout in a combination transcript",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	rep, err := report.Read(args[0])
	if err != nil {
		return err
	}
	if len(rep.Combinations) == 0 {
		return fmt.Errorf("%s holds no black-piece combinations", args[0])
	}

	fmt.Printf("Analyzing %d black-piece combinations...\n", len(rep.Combinations))

	buckets := make(map[difficulty.Bucket]int)
	var sum, maxScore float64
	minScore := -1.0

	for _, combo := range rep.Combinations {
		key, err := report.KeyOf(combo)
		if err != nil {
			return err
		}
		rec := difficulty.Score(key)
		buckets[rec.Bucket]++
		sum += rec.Total
		if rec.Total > maxScore {
			maxScore = rec.Total
		}
		if minScore < 0 || rec.Total < minScore {
			minScore = rec.Total
		}

		fmt.Printf("\nCombination #%d  (%s)\n", combo.CombinationID, key)
		fmt.Printf("  score: %.2f (%s)\n", rec.Total, rec.Bucket)
		fmt.Printf("  spread:            %6.2f  (distance %.0f)\n", rec.Spread.Score, rec.Spread.Value)
		fmt.Printf("  fragmentation:     %6.2f  (%.0f regions)\n", rec.Fragmentation.Score, rec.Fragmentation.Value)
		fmt.Printf("  edge proximity:    %6.2f  (mean distance %.2f)\n", rec.EdgeProximity.Score, rec.EdgeProximity.Value)
		fmt.Printf("  connectivity:      %6.2f  (adjacency ratio %.2f)\n", rec.Connectivity.Score, rec.Connectivity.Value)
		fmt.Printf("  symmetry:          %6.2f\n", rec.Symmetry.Score)
		fmt.Printf("  corner occupation: %6.2f  (%.0f corners)\n", rec.CornerOccupation.Score, rec.CornerOccupation.Value)
	}

	total := len(rep.Combinations)
	fmt.Printf("\nOverall: %d combinations, average %.2f, min %.2f, max %.2f\n",
		total, sum/float64(total), minScore, maxScore)
	for _, b := range []difficulty.Bucket{difficulty.Beginner, difficulty.Advanced, difficulty.Master, difficulty.Grandmaster} {
		count := buckets[b]
		pct := float64(count) / float64(total) * 100
		fmt.Printf("  %-12s %5d (%5.1f%%)\n", b, count, pct)
	}
	return nil
}
