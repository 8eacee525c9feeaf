// Package report writes and reads the layout transcript: a JSON file
// listing every distinct black-piece combination discovered during a build,
// with per-piece detail. Combinations are de-duplicated by the union of
// black cells, never by piece assignment.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/zhiyue/BlockCanvas/internal/board"
	"github.com/zhiyue/BlockCanvas/internal/cover"
	"github.com/zhiyue/BlockCanvas/internal/layout"
)

// Timestamp layout used throughout the transcript.
const timeLayout = "2006-01-02 15:04:05"

type CellRef struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type Position struct {
	TopLeft     CellRef `json:"top_left"`
	BottomRight CellRef `json:"bottom_right"`
}

type SizeSpec struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// PieceDetail describes one black piece within a combination.
type PieceDetail struct {
	Name     string    `json:"name"`
	Color    string    `json:"color"`
	Position Position  `json:"position"`
	Size     SizeSpec  `json:"size"`
	Cells    []CellRef `json:"cells"`
}

// Combination is one distinct black-cell layout with the piece assignment
// of the first solution that produced it.
type Combination struct {
	CombinationID int                    `json:"combination_id"`
	SolutionID    uint64                 `json:"solution_id"`
	Timestamp     string                 `json:"timestamp"`
	BlackPieces   map[string]PieceDetail `json:"black_pieces"`
}

type Metadata struct {
	TotalSolutions          uint64  `json:"total_solutions"`
	UniqueBlackCombinations int     `json:"unique_black_combinations"`
	StartTime               string  `json:"start_time"`
	EndTime                 string  `json:"end_time"`
	ElapsedTimeSeconds      float64 `json:"elapsed_time_seconds"`
	BoardSize               int     `json:"board_size"`
}

// Report is the top-level transcript document.
type Report struct {
	Metadata         Metadata              `json:"metadata"`
	PieceDefinitions map[string]SizedPiece `json:"piece_definitions"`
	Combinations     []Combination         `json:"black_piece_combinations"`
}

type SizedPiece struct {
	Name string   `json:"name"`
	Size SizeSpec `json:"size"`
}

// Collector accumulates combinations during a search. It is single-threaded
// like the engine; parallel workers each own one and merge afterwards.
type Collector struct {
	table     *cover.Table
	seen      map[layout.Key]int // key → index into combos
	combos    []Combination
	solutions uint64
	now       func() time.Time
}

// NewCollector returns a collector over t.
func NewCollector(t *cover.Table) *Collector {
	return &Collector{
		table: t,
		seen:  make(map[layout.Key]int),
		now:   time.Now,
	}
}

// Visit records one solution. The first solution realising a black-cell
// union registers a combination; later solutions with the same union are
// duplicates at the transcript level.
func (c *Collector) Visit(chosen []int32) error {
	c.solutions++
	pieces := make(map[string]PieceDetail, 3)
	cells := make([]uint8, 0, layout.BlackCells)
	for _, ridx := range chosen {
		p := c.table.Placements[ridx]
		piece := c.table.Pieces[p.Piece]
		if piece.Class != board.Black {
			continue
		}
		cells = append(cells, p.Cells...)
		pieces[string(piece.Code)] = detail(piece, p.Cells)
	}
	key, err := layout.KeyFromCells(cells)
	if err != nil {
		return err
	}
	if _, dup := c.seen[key]; dup {
		return nil
	}
	c.seen[key] = len(c.combos)
	c.combos = append(c.combos, Combination{
		CombinationID: len(c.combos) + 1,
		SolutionID:    c.solutions,
		Timestamp:     c.now().Format(timeLayout),
		BlackPieces:   pieces,
	})
	return nil
}

// Merge folds o's combinations into c, keeping the first-seen assignment
// per black-cell union and renumbering combination ids.
func (c *Collector) Merge(o *Collector) {
	c.solutions += o.solutions
	for _, combo := range o.combos {
		key := comboKey(combo)
		if _, dup := c.seen[key]; dup {
			continue
		}
		combo.CombinationID = len(c.combos) + 1
		c.seen[key] = len(c.combos)
		c.combos = append(c.combos, combo)
	}
}

func comboKey(combo Combination) layout.Key {
	cells := make([]uint8, 0, layout.BlackCells)
	for _, d := range combo.BlackPieces {
		for _, ref := range d.Cells {
			cells = append(cells, uint8(board.CellIndex(ref.Col, ref.Row)))
		}
	}
	k, _ := layout.KeyFromCells(cells)
	return k
}

// Len returns the number of distinct combinations collected so far.
func (c *Collector) Len() int { return len(c.combos) }

// Build assembles the transcript document.
func (c *Collector) Build(start, end time.Time) *Report {
	defs := make(map[string]SizedPiece, 3)
	for _, piece := range c.table.Pieces {
		if piece.Class != board.Black {
			continue
		}
		shape := board.Normalise(piece.Cells)
		defs[string(piece.Code)] = SizedPiece{
			Name: piece.Name,
			Size: SizeSpec{Width: shape.Width(), Height: shape.Height()},
		}
	}
	return &Report{
		Metadata: Metadata{
			TotalSolutions:          c.solutions,
			UniqueBlackCombinations: len(c.combos),
			StartTime:               start.Format(timeLayout),
			EndTime:                 end.Format(timeLayout),
			ElapsedTimeSeconds:      end.Sub(start).Seconds(),
			BoardSize:               board.Size,
		},
		PieceDefinitions: defs,
		Combinations:     append([]Combination(nil), c.combos...),
	}
}

func detail(piece board.Piece, cells []uint8) PieceDetail {
	refs := make([]CellRef, len(cells))
	minRow, minCol := board.Size, board.Size
	maxRow, maxCol := 0, 0
	for i, idx := range cells {
		col, row := board.CellCoord(int(idx))
		refs[i] = CellRef{Row: row, Col: col}
		minRow, maxRow = min(minRow, row), max(maxRow, row)
		minCol, maxCol = min(minCol, col), max(maxCol, col)
	}
	return PieceDetail{
		Name:  piece.Name,
		Color: string(piece.Code),
		Position: Position{
			TopLeft:     CellRef{Row: minRow, Col: minCol},
			BottomRight: CellRef{Row: maxRow, Col: maxCol},
		},
		Size:  SizeSpec{Width: maxCol - minCol + 1, Height: maxRow - minRow + 1},
		Cells: refs,
	}
}

// Write stores the transcript as indented JSON.
func Write(path string, r *Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("report: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	return nil
}

// Read loads a transcript file.
func Read(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("report: read %s: %w", path, err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("report: parse %s: %w", path, err)
	}
	return &r, nil
}

// KeyOf recovers the black-cell key of one combination.
func KeyOf(combo Combination) (layout.Key, error) {
	cells := make([]uint8, 0, layout.BlackCells)
	for _, d := range combo.BlackPieces {
		for _, ref := range d.Cells {
			if ref.Row < 0 || ref.Row >= board.Size || ref.Col < 0 || ref.Col >= board.Size {
				return layout.Key{}, fmt.Errorf("report: combination %d: cell (%d,%d) out of range",
					combo.CombinationID, ref.Row, ref.Col)
			}
			cells = append(cells, uint8(board.CellIndex(ref.Col, ref.Row)))
		}
	}
	return layout.KeyFromCells(cells)
}
