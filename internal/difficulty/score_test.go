package difficulty

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhiyue/BlockCanvas/internal/layout"
)

func TestScoreGrandmaster(t *testing.T) {
	// All four corners occupied, maximal spread, four fragments.
	rec := Score(layout.Key{0, 1, 2, 7, 56, 63})

	assert.InDelta(t, 100, rec.Spread.Score, 1e-9) // 14 distance, capped
	assert.InDelta(t, 90, rec.Fragmentation.Score, 1e-9)
	assert.InDelta(t, 4, rec.Fragmentation.Value, 1e-9)
	assert.InDelta(t, 60, rec.EdgeProximity.Score, 1e-9) // all cells on the rim
	assert.InDelta(t, (1-4.0/12.0)*40, rec.Connectivity.Score, 1e-9)
	assert.Zero(t, rec.Symmetry.Score)
	assert.InDelta(t, 60, rec.CornerOccupation.Score, 1e-9) // four corners

	assert.InDelta(t, 336.67, rec.Total, 1e-9)
	assert.Equal(t, Grandmaster, rec.Bucket)
}

func TestScoreBeginner(t *testing.T) {
	// A centred 2×3 cluster: low spread, single component, mirror symmetric.
	rec := Score(layout.Key{27, 28, 29, 35, 36, 37})

	assert.InDelta(t, 30, rec.Spread.Score, 1e-9)
	assert.Zero(t, rec.Fragmentation.Score)
	assert.InDelta(t, 1, rec.Fragmentation.Value, 1e-9)
	assert.InDelta(t, (3-16.0/6.0)*20, rec.EdgeProximity.Score, 1e-6)
	// adjacency ratio 14/12 exceeds one; the factor clamps at zero
	assert.Zero(t, rec.Connectivity.Score)
	assert.InDelta(t, -20, rec.Symmetry.Score, 1e-9)
	assert.Zero(t, rec.CornerOccupation.Score)

	assert.InDelta(t, 16.67, rec.Total, 1e-9)
	assert.Equal(t, Beginner, rec.Bucket)
}

func TestScoreSymmetryBonus(t *testing.T) {
	// Invariant under col → 7−col: exactly −20 before the total clamp.
	rec := Score(layout.Key{0, 7, 24, 31, 56, 63})
	assert.InDelta(t, -20, rec.Symmetry.Score, 1e-9)
	assert.InDelta(t, 1, rec.Symmetry.Value, 1e-9)

	asym := Score(layout.Key{0, 1, 2, 7, 56, 63})
	assert.Zero(t, asym.Symmetry.Score)
}

func TestScorePure(t *testing.T) {
	k := layout.Key{4, 12, 20, 33, 41, 50}
	first := Score(k)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, Score(k))
	}
}

func TestScoreTotalNeverNegative(t *testing.T) {
	// A symmetric centred pair of columns drives the raw sum low; the total
	// still clamps at zero.
	keys := []layout.Key{
		{27, 28, 35, 36, 43, 44},
		{18, 19, 26, 27, 34, 35},
		{27, 28, 29, 35, 36, 37},
	}
	for _, k := range keys {
		rec := Score(k)
		assert.GreaterOrEqual(t, rec.Total, 0.0, "key %s", k)
	}
}

func TestBucketBoundaries(t *testing.T) {
	cases := []struct {
		total float64
		want  Bucket
	}{
		{0, Beginner},
		{49.99, Beginner},
		{50, Advanced},
		{99.99, Advanced},
		{100, Master},
		{149.99, Master},
		{150, Grandmaster},
	}
	for _, c := range cases {
		got := bucketFor(c.total)
		assert.Equal(t, c.want, got, "total %.2f", c.total)
	}
}
