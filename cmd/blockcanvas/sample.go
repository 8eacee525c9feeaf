package main

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/zhiyue/BlockCanvas/internal/board"
	"github.com/zhiyue/BlockCanvas/internal/difficulty"
	"github.com/zhiyue/BlockCanvas/internal/index"
)

var sampleCmd = &cobra.Command{
	Use:   "sample <in-file> [n]",
	Short: "Draw random unique-solution layouts from an index",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runSample,
}

func runSample(cmd *cobra.Command, args []string) error {
	n := 1
	if len(args) == 2 {
		var err error
		n, err = strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid sample count %q", args[1])
		}
	}

	store, err := index.Load(args[0])
	if err != nil {
		return err
	}
	if store.Len() == 0 {
		return fmt.Errorf("index %s holds no layouts", args[0])
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := 0; i < n; i++ {
		key := store.Sample(rng)
		rec := difficulty.Score(key)
		fmt.Printf("Black-block layout (cell indices): %s\n", key)
		fmt.Printf("Difficulty: %.2f (%s)\n", rec.Total, rec.Bucket)
		fmt.Println(board.Render(key.Cells()))
	}
	return nil
}
