package layout

import (
	"sort"

	"github.com/zhiyue/BlockCanvas/internal/board"
	"github.com/zhiyue/BlockCanvas/internal/cover"
)

// DefaultCap is the per-layout tiling cap for statistics runs. For pure
// uniqueness detection a cap of 2 suffices: a key seen twice can never be
// emitted.
const DefaultCap = 100

// Aggregator counts tilings per black-cell key up to a cap. Once a key's
// count would exceed the cap the key moves to a dead set and further
// sightings only bump a skipped tally. An Aggregator is scoped to one
// build run and is not safe for concurrent use; parallel workers each own
// one and merge afterwards.
type Aggregator struct {
	cap     int
	counts  map[Key]int
	dead    map[Key]struct{}
	skipped uint64
	err     error
}

// NewAggregator returns an aggregator with the given cap; cap values below
// one fall back to DefaultCap.
func NewAggregator(cap int) *Aggregator {
	if cap < 1 {
		cap = DefaultCap
	}
	return &Aggregator{
		cap:    cap,
		counts: make(map[Key]int),
		dead:   make(map[Key]struct{}),
	}
}

// Visitor adapts the aggregator to the engine's visitor contract: each
// solution's black placements are folded into a key and counted. On an
// invariant violation the search is stopped and the error is retained for
// Err.
func (a *Aggregator) Visitor(t *cover.Table) cover.Visitor {
	return func(chosen []int32) bool {
		cells := make([]uint8, 0, BlackCells)
		for _, ridx := range chosen {
			p := t.Placements[ridx]
			if t.Pieces[p.Piece].Class == board.Black {
				cells = append(cells, p.Cells...)
			}
		}
		k, err := KeyFromCells(cells)
		if err != nil {
			a.err = err
			return false
		}
		a.Add(k)
		return true
	}
}

// Add records one tiling for k, applying the cap.
func (a *Aggregator) Add(k Key) {
	if _, dead := a.dead[k]; dead {
		a.skipped++
		return
	}
	if a.counts[k] >= a.cap {
		delete(a.counts, k)
		a.dead[k] = struct{}{}
		a.skipped++
		return
	}
	a.counts[k]++
}

// Merge folds o into a: counts are summed, dead sets unioned, and the cap
// re-applied to the merged totals. A key under the cap in every worker can
// still die here; it is then never emitted as unique.
func (a *Aggregator) Merge(o *Aggregator) {
	for k := range o.dead {
		if n, ok := a.counts[k]; ok {
			a.skipped += uint64(n)
			delete(a.counts, k)
		}
		a.dead[k] = struct{}{}
	}
	for k, n := range o.counts {
		if _, dead := a.dead[k]; dead {
			a.skipped += uint64(n)
			continue
		}
		sum := a.counts[k] + n
		if sum > a.cap {
			a.skipped += uint64(sum)
			delete(a.counts, k)
			a.dead[k] = struct{}{}
			continue
		}
		a.counts[k] = sum
	}
	a.skipped += o.skipped
	if a.err == nil {
		a.err = o.err
	}
}

// Err returns the invariant violation that stopped the search, if any.
func (a *Aggregator) Err() error { return a.err }

// Count returns the retained tiling count for k (0 if unseen or dead).
func (a *Aggregator) Count(k Key) int { return a.counts[k] }

// Dead reports whether k has exceeded the cap.
func (a *Aggregator) Dead(k Key) bool {
	_, ok := a.dead[k]
	return ok
}

// Len returns the number of live keys.
func (a *Aggregator) Len() int { return len(a.counts) }

// DeadLen returns the number of keys that exceeded the cap.
func (a *Aggregator) DeadLen() int { return len(a.dead) }

// Skipped returns the number of tilings discarded after their key died.
func (a *Aggregator) Skipped() uint64 { return a.skipped }

// Unique returns the keys realised by exactly one tiling, sorted.
func (a *Aggregator) Unique() []Key {
	keys := make([]Key, 0, len(a.counts))
	for k, n := range a.counts {
		if n == 1 {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}
