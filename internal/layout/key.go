// Package layout folds tilings down to their black-cell keys and counts
// tilings per key under a configurable cap.
package layout

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/zhiyue/BlockCanvas/internal/board"
)

// BlackCells is the number of cells the three black pieces cover together.
const BlackCells = 6

// ErrInvariantViolation indicates a solution whose black pieces do not
// cover exactly six cells. This means the placement table is corrupted and
// must never be skipped over silently.
var ErrInvariantViolation = errors.New("layout: black cell count invariant violated")

// Key identifies a black-piece layout: the six cell indices the three black
// pieces occupy, sorted ascending. The pieces are interchangeable at the
// key level; only the union of their cells matters.
type Key [BlackCells]uint8

// KeyFromCells canonicalises the union of black cells into a Key. It fails
// with ErrInvariantViolation when the cardinality is not six.
func KeyFromCells(cells []uint8) (Key, error) {
	if len(cells) != BlackCells {
		return Key{}, fmt.Errorf("%w: expected %d cells, got %d", ErrInvariantViolation, BlackCells, len(cells))
	}
	var k Key
	copy(k[:], cells)
	sort.Slice(k[:], func(i, j int) bool { return k[i] < k[j] })
	return k, nil
}

// String renders the key in its canonical on-disk form: the six decimal
// cell indices joined by semicolons.
func (k Key) String() string {
	parts := make([]string, BlackCells)
	for i, c := range k {
		parts[i] = strconv.Itoa(int(c))
	}
	return strings.Join(parts, ";")
}

// Cells returns the key's cell indices.
func (k Key) Cells() []uint8 {
	return append([]uint8(nil), k[:]...)
}

// ParseKey parses the canonical form back into a Key, requiring six cell
// indices in 0..63 in strictly ascending order.
func ParseKey(s string) (Key, error) {
	parts := strings.Split(s, ";")
	if len(parts) != BlackCells {
		return Key{}, fmt.Errorf("layout: key %q: expected %d cells, got %d", s, BlackCells, len(parts))
	}
	var k Key
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Key{}, fmt.Errorf("layout: key %q: %w", s, err)
		}
		if n < 0 || n >= board.Cells {
			return Key{}, fmt.Errorf("layout: key %q: cell %d out of range", s, n)
		}
		if i > 0 && uint8(n) <= k[i-1] {
			return Key{}, fmt.Errorf("layout: key %q: cells not strictly ascending", s)
		}
		k[i] = uint8(n)
	}
	return k, nil
}

// Less orders keys lexicographically, for deterministic listings.
func (k Key) Less(o Key) bool {
	for i := range k {
		if k[i] != o[i] {
			return k[i] < o[i]
		}
	}
	return false
}
