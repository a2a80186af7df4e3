// FilePath: internal/counter/counter_test.go
package counter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Vertical boundary oriented from (0,10) down to (0,0). Points with x<0 sit
// on side -1, points with x>0 on side +1, so a -1 to +1 flip (moving left to
// right in x) is a LeftToRight crossing.
func newVerticalCounter(entry Direction) *Counter {
	c := New(entry)
	c.SetBoundary(Point{X: 0, Y: 10}, Point{X: 0, Y: 0})
	return c
}

func TestNoBoundaryIsNoOp(t *testing.T) {
	c := New(LeftToRight)
	c.Observe(1, Point{X: -1, Y: 5})
	c.Observe(1, Point{X: 1, Y: 5})
	require.Equal(t, 0, c.Count())
	require.False(t, c.HasBoundary())
}

func TestEntryCrossingIncrements(t *testing.T) {
	c := newVerticalCounter(LeftToRight)
	c.Observe(1, Point{X: -1, Y: 5})
	c.Observe(1, Point{X: 1, Y: 5})
	require.Equal(t, 1, c.Count())
}

func TestExitCrossingDecrements(t *testing.T) {
	c := newVerticalCounter(LeftToRight)

	// Two tracks in, one out.
	c.Observe(1, Point{X: -1, Y: 2})
	c.Observe(1, Point{X: 1, Y: 2})
	c.Observe(2, Point{X: -1, Y: 8})
	c.Observe(2, Point{X: 1, Y: 8})
	require.Equal(t, 2, c.Count())

	c.Observe(1, Point{X: -1, Y: 2})
	require.Equal(t, 1, c.Count())
}

func TestRoundTripNetsZero(t *testing.T) {
	c := newVerticalCounter(LeftToRight)
	c.Observe(1, Point{X: -1, Y: 5})
	c.Observe(1, Point{X: 1, Y: 5})
	c.Observe(1, Point{X: -1, Y: 5})
	require.Equal(t, 0, c.Count())
}

func TestCountFlooredAtZero(t *testing.T) {
	c := newVerticalCounter(LeftToRight)

	// An exit with nobody inside stays at zero.
	c.Observe(1, Point{X: 1, Y: 5})
	c.Observe(1, Point{X: -1, Y: 5})
	require.Equal(t, 0, c.Count())

	// And does not owe a negative balance afterwards.
	c.Observe(1, Point{X: 1, Y: 5})
	require.Equal(t, 1, c.Count())
}

func TestSameSideMovementDoesNotCount(t *testing.T) {
	c := newVerticalCounter(LeftToRight)
	c.Observe(1, Point{X: -1, Y: 1})
	c.Observe(1, Point{X: -2, Y: 5})
	c.Observe(1, Point{X: -3, Y: 9})
	require.Equal(t, 0, c.Count())
}

func TestPointOnLineIsIgnored(t *testing.T) {
	c := newVerticalCounter(LeftToRight)

	// A track stepping exactly onto the line keeps its last recorded side,
	// so -1, 0, +1 still counts as a single crossing.
	c.Observe(1, Point{X: -1, Y: 5})
	c.Observe(1, Point{X: 0, Y: 5})
	require.Equal(t, 0, c.Count())
	c.Observe(1, Point{X: 1, Y: 5})
	require.Equal(t, 1, c.Count())
}

func TestFirstObservationOnLineNeverCounts(t *testing.T) {
	c := newVerticalCounter(LeftToRight)
	c.Observe(1, Point{X: 0, Y: 5})
	c.Observe(1, Point{X: 1, Y: 5})
	require.Equal(t, 0, c.Count(), "no prior side means no crossing")
}

func TestEntryDirectionFlip(t *testing.T) {
	c := newVerticalCounter(RightToLeft)
	c.Observe(1, Point{X: -1, Y: 5})
	c.Observe(1, Point{X: 1, Y: 5})
	require.Equal(t, 0, c.Count(), "left-to-right is an exit here")

	c.Observe(1, Point{X: -1, Y: 5})
	require.Equal(t, 1, c.Count())
}

func TestClearBoundaryResetsEverything(t *testing.T) {
	c := newVerticalCounter(LeftToRight)
	c.Observe(1, Point{X: -1, Y: 5})
	c.Observe(1, Point{X: 1, Y: 5})
	require.Equal(t, 1, c.Count())

	c.ClearBoundary()
	require.False(t, c.HasBoundary())
	require.Equal(t, 0, c.Count())

	// Track side state is gone too: after a new boundary the old side must
	// not produce a phantom crossing.
	c.SetBoundary(Point{X: 0, Y: 10}, Point{X: 0, Y: 0})
	c.Observe(1, Point{X: 1, Y: 5})
	require.Equal(t, 0, c.Count())
}

func TestResetKeepsBoundaryAndSides(t *testing.T) {
	c := newVerticalCounter(LeftToRight)
	c.Observe(1, Point{X: -1, Y: 5})
	c.Observe(1, Point{X: 1, Y: 5})
	c.Reset()
	require.Equal(t, 0, c.Count())
	require.True(t, c.HasBoundary())

	// Side state survives a reset: crossing back is still a recognized exit.
	c.Observe(1, Point{X: -1, Y: 5})
	require.Equal(t, 0, c.Count())
	c.Observe(1, Point{X: 1, Y: 5})
	require.Equal(t, 1, c.Count())
}

func TestForgetDropsVanishedTracks(t *testing.T) {
	c := newVerticalCounter(LeftToRight)
	c.Observe(1, Point{X: -1, Y: 5})
	c.Observe(2, Point{X: -1, Y: 5})

	c.Forget(map[int]bool{2: true})

	// Track 1 was dropped, so its reappearance on the far side is a fresh
	// first observation, not a crossing.
	c.Observe(1, Point{X: 1, Y: 5})
	require.Equal(t, 0, c.Count())

	// Track 2 kept its side.
	c.Observe(2, Point{X: 1, Y: 5})
	require.Equal(t, 1, c.Count())
}
