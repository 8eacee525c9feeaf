package board

import (
	"fmt"
	"strings"
)

// Render draws the board with the given cells marked. Marked cells print as
// ■, the rest as ·, with row and column headers.
func Render(cells []uint8) string {
	marked := make(map[int]bool, len(cells))
	for _, c := range cells {
		marked[int(c)] = true
	}

	var b strings.Builder
	b.WriteString("  ")
	for x := 0; x < Size; x++ {
		fmt.Fprintf(&b, " %d", x)
	}
	b.WriteByte('\n')
	for y := 0; y < Size; y++ {
		fmt.Fprintf(&b, "%d ", y)
		for x := 0; x < Size; x++ {
			if marked[CellIndex(x, y)] {
				b.WriteString(" ■")
			} else {
				b.WriteString(" ·")
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
