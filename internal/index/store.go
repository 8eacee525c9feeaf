// Package index persists the unique-layout set: black-cell keys realised by
// exactly one tiling, stored as a zlib-compressed JSON mapping. The blob is
// opaque outside the tool but stable; any loader that can inflate and parse
// JSON recovers the key set.
package index

import (
	"bytes"
	"compress/zlib"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"

	"github.com/zhiyue/BlockCanvas/internal/layout"
)

// ErrMalformedIndex indicates an index file whose keys are not six cell
// indices in 0..63 in strictly ascending order.
var ErrMalformedIndex = errors.New("index: malformed index file")

// Save writes the unique-layout keys to path. The inflated body is a single
// JSON object mapping the canonical key form to the integer 1; no other
// keys appear.
func Save(path string, keys []layout.Key) error {
	m := make(map[string]int, len(keys))
	for _, k := range keys {
		m[k.String()] = 1
	}
	body, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("index: encode: %w", err)
	}

	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(body); err != nil {
		return fmt.Errorf("index: compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("index: compress: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("index: write %s: %w", path, err)
	}
	return nil
}

// Store is a loaded unique-layout index.
type Store struct {
	keys []layout.Key
}

// Load reads, inflates, and validates an index file. Key-shape problems are
// fatal and reported as ErrMalformedIndex; I/O and inflate failures keep
// their own error identity for the caller.
func Load(path string) (*Store, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("index: read %s: %w", path, err)
	}
	zr, err := zlib.NewReader(bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("index: inflate %s: %w", path, err)
	}
	defer zr.Close()
	body, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("index: inflate %s: %w", path, err)
	}

	var m map[string]int
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedIndex, err)
	}
	keys := make([]layout.Key, 0, len(m))
	for s := range m {
		k, err := layout.ParseKey(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedIndex, err)
		}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return &Store{keys: keys}, nil
}

// Len returns the number of stored layouts.
func (s *Store) Len() int { return len(s.keys) }

// Keys returns the stored layouts, sorted.
func (s *Store) Keys() []layout.Key {
	return append([]layout.Key(nil), s.keys...)
}

// Sample draws one layout uniformly at random.
func (s *Store) Sample(r *rand.Rand) layout.Key {
	return s.keys[r.Intn(len(s.keys))]
}
