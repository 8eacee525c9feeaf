package cover

import (
	"context"
	"fmt"
	"math"
	"math/rand"
)

// Visitor receives each full tiling as a read-only view of the chosen
// placement indices. It must not retain the slice. Returning false stops
// the search cleanly, unwinding all frames.
type Visitor func(chosen []int32) bool

// Stats counts search work, in the manner of the solver it replaces.
type Stats struct {
	Nodes      uint64
	Backtracks uint64
	Solutions  uint64
}

// Engine enumerates exact covers of the 75-column universe over a placement
// table. The search state is two machine words plus the chosen stack; an
// Engine is single-threaded and must not be shared, but the underlying
// table may be.
type Engine struct {
	table    *Table
	colOrder []int

	// Stats accumulates over calls to Search and SearchSeeded.
	Stats Stats
}

// NewEngine returns an engine over t with the deterministic ascending
// column scan order.
func NewEngine(t *Table) *Engine {
	order := make([]int, Columns)
	for i := range order {
		order[i] = i
	}
	return &Engine{table: t, colOrder: order}
}

// Randomize shuffles the column scan order. Only the diversity analysis
// uses this; the canonical build keeps the deterministic order.
func (e *Engine) Randomize(r *rand.Rand) {
	r.Shuffle(len(e.colOrder), func(i, j int) {
		e.colOrder[i], e.colOrder[j] = e.colOrder[j], e.colOrder[i]
	})
}

// Search enumerates every exact cover, invoking v once per solution.
// Enumeration order is fixed for a given table and column order. The
// context is checked at the top of each recursion; on cancellation the
// context error is returned and the result so far stands as partial.
// Zero solutions is a legal terminal state.
func (e *Engine) Search(ctx context.Context, v Visitor) error {
	chosen := make([]int32, 0, PieceColumns)
	_, err := e.search(ctx, Mask{}, chosen, v)
	return err
}

// SearchSeeded pre-applies the given placements and then searches the
// remaining universe. It is the sharding primitive for parallel builds:
// fixing one placement of the heuristically-first column per call
// partitions the full enumeration.
func (e *Engine) SearchSeeded(ctx context.Context, seeds []int32, v Visitor) error {
	var covered Mask
	chosen := make([]int32, 0, PieceColumns)
	for _, ridx := range seeds {
		p := e.table.Placements[ridx]
		if !covered.Disjoint(p.Mask) {
			return fmt.Errorf("cover: seed placements overlap at placement %d", ridx)
		}
		covered = covered.Or(p.Mask)
		chosen = append(chosen, ridx)
	}
	_, err := e.search(ctx, covered, chosen, v)
	return err
}

// search returns false as soon as the visitor asks to stop.
func (e *Engine) search(ctx context.Context, covered Mask, chosen []int32, v Visitor) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	e.Stats.Nodes++

	if covered.Full() {
		e.Stats.Solutions++
		return v(chosen), nil
	}

	col, ok := e.chooseColumn(covered)
	if !ok {
		// some uncovered column has no compatible placement
		e.Stats.Backtracks++
		return true, nil
	}

	for _, ridx := range e.table.byColumn[col] {
		p := &e.table.Placements[ridx]
		if !covered.Disjoint(p.Mask) {
			continue
		}
		cont, err := e.search(ctx, covered.Or(p.Mask), append(chosen, ridx), v)
		if err != nil || !cont {
			return cont, err
		}
	}
	e.Stats.Backtracks++
	return true, nil
}

// chooseColumn picks the uncovered column with the fewest currently
// compatible placements, ties broken by scan order (ascending column index
// unless randomized). A column with zero candidates prunes the branch.
func (e *Engine) chooseColumn(covered Mask) (int, bool) {
	best := -1
	bestCount := math.MaxInt
	for _, c := range e.colOrder {
		if covered.Has(c) {
			continue
		}
		n := 0
		for _, ridx := range e.table.byColumn[c] {
			if covered.Disjoint(e.table.Placements[ridx].Mask) {
				n++
			}
		}
		if n == 0 {
			return 0, false
		}
		if n < bestCount {
			best, bestCount = c, n
		}
	}
	return best, best >= 0
}
