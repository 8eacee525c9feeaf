// Package difficulty grades a black-cell layout by geometric features of
// the six cells. Scoring is a pure function of the key.
package difficulty

import (
	"math"

	"github.com/zhiyue/BlockCanvas/internal/board"
	"github.com/zhiyue/BlockCanvas/internal/layout"
)

// Bucket is the difficulty grade of a layout.
type Bucket string

const (
	Beginner    Bucket = "beginner"
	Advanced    Bucket = "advanced"
	Master      Bucket = "master"
	Grandmaster Bucket = "grandmaster"
)

// Factor is one scoring component: its contribution to the total and the
// raw geometric value it was derived from.
type Factor struct {
	Score float64
	Value float64
}

// Record is the full grade for one layout.
type Record struct {
	Total  float64
	Bucket Bucket

	Spread           Factor
	Fragmentation    Factor
	EdgeProximity    Factor
	Connectivity     Factor
	Symmetry         Factor
	CornerOccupation Factor
}

var neighbours = [4][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}

// Score grades the layout. Every factor except the symmetry bonus is
// clamped to non-negative before summation; the total is clamped at zero
// and rounded to two decimals.
func Score(k layout.Key) Record {
	type cell struct{ row, col int }
	cells := make([]cell, 0, layout.BlackCells)
	occupied := make(map[cell]bool, layout.BlackCells)
	for _, c := range k {
		col, row := board.CellCoord(int(c))
		cells = append(cells, cell{row, col})
		occupied[cell{row, col}] = true
	}

	var rec Record

	// 1. Spread: bounding-box extent, 10 points per cell distance, capped.
	minRow, maxRow := cells[0].row, cells[0].row
	minCol, maxCol := cells[0].col, cells[0].col
	for _, c := range cells[1:] {
		minRow, maxRow = min(minRow, c.row), max(maxRow, c.row)
		minCol, maxCol = min(minCol, c.col), max(maxCol, c.col)
	}
	spread := (maxCol - minCol) + (maxRow - minRow)
	rec.Spread = Factor{Score: math.Min(float64(spread)*10, 100), Value: float64(spread)}

	// 2. Fragmentation: 4-connected regions beyond the first, 30 points each.
	visited := make(map[cell]bool, len(cells))
	regions := 0
	for _, c := range cells {
		if visited[c] {
			continue
		}
		regions++
		queue := []cell{c}
		visited[c] = true
		for qi := 0; qi < len(queue); qi++ {
			cur := queue[qi]
			for _, d := range neighbours {
				n := cell{cur.row + d[0], cur.col + d[1]}
				if occupied[n] && !visited[n] {
					visited[n] = true
					queue = append(queue, n)
				}
			}
		}
	}
	rec.Fragmentation = Factor{Score: float64(regions-1) * 30, Value: float64(regions)}

	// 3. Edge proximity: closer mean distance to the rim scores higher.
	sumDist := 0
	for _, c := range cells {
		d := min(min(c.row, c.col), min(board.Size-1-c.row, board.Size-1-c.col))
		sumDist += d
	}
	meanDist := float64(sumDist) / float64(len(cells))
	rec.EdgeProximity = Factor{Score: math.Max(0, (3-meanDist)*20), Value: meanDist}

	// 4. Connectivity: ordered 4-neighbour pairs within the layout. The
	// divisor stays at 2·|C| for compatibility with the original scoring.
	adjacent := 0
	for _, c := range cells {
		for _, d := range neighbours {
			if occupied[cell{c.row + d[0], c.col + d[1]}] {
				adjacent++
			}
		}
	}
	ratio := float64(adjacent) / float64(2*len(cells))
	rec.Connectivity = Factor{Score: math.Max(0, (1-ratio)*40), Value: ratio}

	// 5. Symmetry bonus: mirror layouts admit mental shortcuts.
	horizontal, vertical := true, true
	for _, c := range cells {
		if !occupied[cell{c.row, board.Size - 1 - c.col}] {
			horizontal = false
		}
		if !occupied[cell{board.Size - 1 - c.row, c.col}] {
			vertical = false
		}
	}
	if horizontal || vertical {
		rec.Symmetry = Factor{Score: -20, Value: 1}
	}

	// 6. Corner occupation.
	corners := 0
	for _, c := range [4]cell{{0, 0}, {0, board.Size - 1}, {board.Size - 1, 0}, {board.Size - 1, board.Size - 1}} {
		if occupied[c] {
			corners++
		}
	}
	rec.CornerOccupation = Factor{Score: float64(corners) * 15, Value: float64(corners)}

	total := rec.Spread.Score + rec.Fragmentation.Score + rec.EdgeProximity.Score +
		rec.Connectivity.Score + rec.Symmetry.Score + rec.CornerOccupation.Score
	rec.Total = math.Round(math.Max(0, total)*100) / 100
	rec.Bucket = bucketFor(rec.Total)
	return rec
}

func bucketFor(total float64) Bucket {
	switch {
	case total < 50:
		return Beginner
	case total < 100:
		return Advanced
	case total < 150:
		return Master
	default:
		return Grandmaster
	}
}
