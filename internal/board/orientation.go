package board

import "sort"

// Shape is one orientation of a piece: a normalised, sorted cell set with
// the top-left of the bounding box at the origin.
type Shape []Coord

// Width returns the bounding-box width of the shape.
func (s Shape) Width() int {
	w := 0
	for _, c := range s {
		if c.X+1 > w {
			w = c.X + 1
		}
	}
	return w
}

// Height returns the bounding-box height of the shape.
func (s Shape) Height() int {
	h := 0
	for _, c := range s {
		if c.Y+1 > h {
			h = c.Y + 1
		}
	}
	return h
}

func rotate90(cells []Coord) []Coord {
	out := make([]Coord, len(cells))
	for i, c := range cells {
		out[i] = Coord{c.Y, -c.X}
	}
	return out
}

func flipX(cells []Coord) []Coord {
	out := make([]Coord, len(cells))
	for i, c := range cells {
		out[i] = Coord{-c.X, c.Y}
	}
	return out
}

func flipY(cells []Coord) []Coord {
	out := make([]Coord, len(cells))
	for i, c := range cells {
		out[i] = Coord{c.X, -c.Y}
	}
	return out
}

// Normalise translates cells so that min x = min y = 0 and sorts them.
// It is idempotent on already-normalised input.
func Normalise(cells []Coord) Shape {
	minX, minY := cells[0].X, cells[0].Y
	for _, c := range cells[1:] {
		if c.X < minX {
			minX = c.X
		}
		if c.Y < minY {
			minY = c.Y
		}
	}
	out := make(Shape, len(cells))
	for i, c := range cells {
		out[i] = Coord{c.X - minX, c.Y - minY}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		return out[i].Y < out[j].Y
	})
	return out
}

func shapeKey(s Shape) string {
	b := make([]byte, 0, len(s)*2)
	for _, c := range s {
		b = append(b, byte(c.X), byte(c.Y))
	}
	return string(b)
}

// Orientations generates every distinct orientation of a cell set under the
// dihedral group of the square: four quarter-turns composed with optional
// horizontal and vertical reflections, normalised and deduplicated. The
// result order is deterministic.
func Orientations(cells []Coord) []Shape {
	seen := make(map[string]Shape)
	shape := append([]Coord(nil), cells...)
	for r := 0; r < 4; r++ {
		shape = rotate90(shape)
		for _, fx := range []bool{false, true} {
			for _, fy := range []bool{false, true} {
				tmp := shape
				if fx {
					tmp = flipX(tmp)
				}
				if fy {
					tmp = flipY(tmp)
				}
				norm := Normalise(tmp)
				seen[shapeKey(norm)] = norm
			}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Shape, len(keys))
	for i, k := range keys {
		out[i] = seen[k]
	}
	return out
}
