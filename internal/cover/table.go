package cover

import (
	"github.com/zhiyue/BlockCanvas/internal/board"
)

// Placement is one legal positioning of one piece: the cells it covers plus
// the piece's consumption column, pre-computed as a Mask. Placements are
// immutable once the table is built.
type Placement struct {
	Piece int     // index into Table.Pieces
	Mask  Mask    // cell bits | piece consumption bit
	Cells []uint8 // covered cell indices, ascending
}

// Table holds the full placement list and the per-column inverted index.
// It is read-only after construction and may be shared across engines.
type Table struct {
	Pieces     []board.Piece
	Placements []Placement
	byColumn   [Columns][]int32
}

// NewTable enumerates every legal placement of every orientation of every
// piece: each orientation is scanned over all translations whose bounding
// box stays inside the board. No symmetry-breaking is applied.
func NewTable(pieces []board.Piece) *Table {
	t := &Table{Pieces: pieces}
	for pi, piece := range pieces {
		pieceBit := uint16(1) << uint(pi)
		for _, shape := range board.Orientations(piece.Cells) {
			w, h := shape.Width(), shape.Height()
			for dx := 0; dx <= board.Size-w; dx++ {
				for dy := 0; dy <= board.Size-h; dy++ {
					cells := make([]uint8, len(shape))
					var cellMask uint64
					for i, c := range shape {
						idx := board.CellIndex(c.X+dx, c.Y+dy)
						cells[i] = uint8(idx)
						cellMask |= 1 << uint(idx)
					}
					sortCells(cells)
					t.Placements = append(t.Placements, Placement{
						Piece: pi,
						Mask:  Mask{Cells: cellMask, Pieces: pieceBit},
						Cells: cells,
					})
				}
			}
		}
	}
	t.indexColumns()
	return t
}

// Filter returns a new table containing only the placements keep accepts,
// over the same piece list and column universe. Used to restrict the search,
// e.g. to re-verify that a stored layout admits exactly one tiling.
func (t *Table) Filter(keep func(Placement) bool) *Table {
	out := &Table{Pieces: t.Pieces}
	for _, p := range t.Placements {
		if keep(p) {
			out.Placements = append(out.Placements, p)
		}
	}
	out.indexColumns()
	return out
}

// Candidates returns the placements covering column col, in ascending
// placement order.
func (t *Table) Candidates(col int) []int32 {
	return t.byColumn[col]
}

func (t *Table) indexColumns() {
	for i := range t.byColumn {
		t.byColumn[i] = nil
	}
	for ridx, p := range t.Placements {
		for _, c := range p.Cells {
			t.byColumn[c] = append(t.byColumn[c], int32(ridx))
		}
		t.byColumn[CellColumns+p.Piece] = append(t.byColumn[CellColumns+p.Piece], int32(ridx))
	}
}

func sortCells(cells []uint8) {
	// insertion sort; placements have at most 12 cells
	for i := 1; i < len(cells); i++ {
		for j := i; j > 0 && cells[j] < cells[j-1]; j-- {
			cells[j], cells[j-1] = cells[j-1], cells[j]
		}
	}
}
