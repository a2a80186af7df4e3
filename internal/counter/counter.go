// FilePath: internal/counter/counter.go
//
// Boundary-crossing counter. Converts the per-frame (trackID, position)
// stream from an upstream object tracker into a running signed occupancy
// count, driven by a user-drawn boundary line in image space. The frame loop
// is the single sequential consumer; boundary edits arrive from the control
// path, so one mutex guards boundary, track table and count together.
package counter

import "sync"

// Point is a position in image space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Direction of a boundary crossing, relative to the oriented line A→B.
type Direction int

const (
	LeftToRight Direction = iota
	RightToLeft
)

func (d Direction) String() string {
	if d == LeftToRight {
		return "left_to_right"
	}
	return "right_to_left"
}

// Boundary is an oriented line between two image-space points.
type Boundary struct {
	A Point
	B Point
}

// Counter is the per-unit crossing state machine.
type Counter struct {
	mu       sync.Mutex
	boundary *Boundary
	entry    Direction
	sides    map[int]int // trackID -> last non-zero side (-1 or +1)
	count    int
}

// New creates a Counter whose entry direction maps to +1 on the count; the
// opposite crossing maps to -1, floored at zero.
func New(entry Direction) *Counter {
	return &Counter{
		entry: entry,
		sides: make(map[int]int),
	}
}

// SetEntryDirection changes which crossing direction counts as an entry.
// Track side state is unaffected.
func (c *Counter) SetEntryDirection(entry Direction) {
	c.mu.Lock()
	c.entry = entry
	c.mu.Unlock()
}

// SetBoundary installs or replaces the boundary line.
func (c *Counter) SetBoundary(a, b Point) {
	c.mu.Lock()
	c.boundary = &Boundary{A: a, B: b}
	c.mu.Unlock()
}

// ClearBoundary removes the boundary, discards all track side state and
// resets the running count to zero.
func (c *Counter) ClearBoundary() {
	c.mu.Lock()
	c.boundary = nil
	c.sides = make(map[int]int)
	c.count = 0
	c.mu.Unlock()
}

// HasBoundary reports whether a boundary is currently set.
func (c *Counter) HasBoundary() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.boundary != nil
}

// Observe feeds one (trackID, position) observation. Without a boundary it is
// a no-op. A position exactly on the line (side 0) neither crosses nor
// updates the track's recorded side. A sign flip between two non-zero sides
// is a crossing: the entry direction increments the count, the other
// decrements it, floored at zero.
func (c *Counter) Observe(trackID int, p Point) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.boundary == nil {
		return
	}

	side := sideOf(c.boundary.A, c.boundary.B, p)
	if side == 0 {
		return
	}

	prev, seen := c.sides[trackID]
	if seen && prev != side {
		direction := RightToLeft
		if prev == -1 && side == +1 {
			direction = LeftToRight
		}
		if direction == c.entry {
			c.count++
		} else if c.count > 0 {
			c.count--
		}
	}
	c.sides[trackID] = side
}

// Forget drops side state for every track not present in active. Called once
// per frame with the tracker's current ID set so vanished subjects do not
// keep stale sides.
func (c *Counter) Forget(active map[int]bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id := range c.sides {
		if !active[id] {
			delete(c.sides, id)
		}
	}
}

// Count returns the running occupancy count. This is the exact value the
// edge unit reports upstream on its next transmission cycle.
func (c *Counter) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Reset zeroes the running count without touching boundary or track state.
// Used when the hub acknowledges a reset request.
func (c *Counter) Reset() {
	c.mu.Lock()
	c.count = 0
	c.mu.Unlock()
}

// sideOf returns the sign of the 2D cross product of AB and A→P: +1 when P
// lies left of the oriented line, -1 when right, 0 when exactly on it.
func sideOf(a, b, p Point) int {
	ab := Point{X: b.X - a.X, Y: b.Y - a.Y}
	ap := Point{X: p.X - a.X, Y: p.Y - a.Y}
	cross := ab.X*ap.Y - ab.Y*ap.X
	switch {
	case cross > 0:
		return +1
	case cross < 0:
		return -1
	default:
		return 0
	}
}
