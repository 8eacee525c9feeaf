// Package board defines the fixed 8×8 board, the eleven-piece Mondrian
// Blocks catalogue, and the geometry used to place pieces on it. Cells are
// identified by an index 0..63 with index = row·8 + col.
package board

import (
	"errors"
	"fmt"
)

const (
	// Size is the board edge length in cells.
	Size = 8
	// Cells is the total number of board cells.
	Cells = Size * Size
)

// ErrCatalogueMismatch indicates the piece areas do not sum to the board area.
var ErrCatalogueMismatch = errors.New("board: piece areas do not cover the board")

// Class distinguishes the coloured pieces from the black starter pieces.
type Class int

const (
	Coloured Class = iota
	Black
)

// Coord is a cell position in piece-local or board coordinates.
// X runs along columns, Y along rows.
type Coord struct {
	X, Y int
}

// Piece is one entry of the fixed catalogue: a named axis-aligned rectangle
// with a one-character colour code and a prototype cell set normalised to
// the origin.
type Piece struct {
	Name  string
	Code  byte
	Class Class
	Cells []Coord
}

// Area returns the number of cells the piece covers.
func (p Piece) Area() int { return len(p.Cells) }

func rect(name string, code byte, class Class, w, h int) Piece {
	cells := make([]Coord, 0, w*h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			cells = append(cells, Coord{x, y})
		}
	}
	return Piece{Name: name, Code: code, Class: class, Cells: cells}
}

// Catalogue returns the eleven pieces in their fixed order. It fails with
// ErrCatalogueMismatch if the total area does not equal the board area.
func Catalogue() ([]Piece, error) {
	pieces := []Piece{
		rect("R_3x4", 'R', Coloured, 3, 4),
		rect("B_3x3", 'B', Coloured, 3, 3),
		rect("B_2x2", 'b', Coloured, 2, 2),
		rect("W_1x5", 'W', Coloured, 1, 5),
		rect("W_1x4", 'w', Coloured, 1, 4),
		rect("Y_2x5", 'Y', Coloured, 2, 5),
		rect("Y_2x4", 'y', Coloured, 2, 4),
		rect("Y_2x3", 'h', Coloured, 2, 3),
		rect("K_1x3", 'K', Black, 1, 3),
		rect("K_1x2", 'k', Black, 1, 2),
		rect("K_1x1", 'x', Black, 1, 1),
	}
	total := 0
	for _, p := range pieces {
		total += p.Area()
	}
	if total != Cells {
		return nil, fmt.Errorf("%w: %d cells for a %d-cell board", ErrCatalogueMismatch, total, Cells)
	}
	return pieces, nil
}

// CellIndex maps board coordinates to the flat cell index.
func CellIndex(x, y int) int { return y*Size + x }

// CellCoord maps a flat cell index back to board coordinates.
func CellCoord(idx int) (x, y int) { return idx % Size, idx / Size }
