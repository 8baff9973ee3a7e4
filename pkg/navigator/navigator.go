// Package navigator tracks the position of a reader within an ordered,
// fixed-size list of content units and which units they have completed.
package navigator

import (
	"math"
	"sort"
)

// Navigator holds the current index and the set of completed indices for
// one guide. The zero value is an empty navigator on which every operation
// is a no-op.
type Navigator struct {
	n         int
	current   int
	completed map[int]bool
}

// New creates a navigator over n units, positioned at the first unit with
// nothing completed.
func New(n int) *Navigator {
	if n < 0 {
		n = 0
	}
	return &Navigator{
		n:         n,
		completed: make(map[int]bool),
	}
}

// Len returns the number of units.
func (nv *Navigator) Len() int {
	return nv.n
}

// Current returns the current index (0 for an empty navigator).
func (nv *Navigator) Current() int {
	return nv.current
}

func (nv *Navigator) inRange(index int) bool {
	return index >= 0 && index < nv.n
}

// GoTo moves to index. Out-of-range indices are ignored.
// Reports whether the position changed.
func (nv *Navigator) GoTo(index int) bool {
	if !nv.inRange(index) || index == nv.current {
		return false
	}
	nv.current = index
	return true
}

// Next completes the unit being left, then advances by one. At the last
// unit the position stays put.
func (nv *Navigator) Next() bool {
	if nv.n == 0 {
		return false
	}
	nv.MarkCompleted(nv.current)
	return nv.GoTo(min(nv.current+1, nv.n-1))
}

// Previous moves back by one, stopping at the first unit. It never
// records completion.
func (nv *Navigator) Previous() bool {
	if nv.n == 0 {
		return false
	}
	return nv.GoTo(max(nv.current-1, 0))
}

// MarkCompleted records index as completed. Repeated calls and
// out-of-range indices have no effect.
func (nv *Navigator) MarkCompleted(index int) {
	if !nv.inRange(index) {
		return
	}
	if nv.completed == nil {
		nv.completed = make(map[int]bool)
	}
	nv.completed[index] = true
}

// IsCompleted reports whether index has been completed.
func (nv *Navigator) IsCompleted(index int) bool {
	return nv.completed[index]
}

// IsCurrent reports whether index is the current unit.
func (nv *Navigator) IsCurrent(index int) bool {
	return nv.inRange(index) && index == nv.current
}

// Completed returns the completed indices in ascending order.
func (nv *Navigator) Completed() []int {
	out := make([]int, 0, len(nv.completed))
	for i := range nv.completed {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// CompletedCount returns how many units have been completed.
func (nv *Navigator) CompletedCount() int {
	return len(nv.completed)
}

// AtStart reports whether the current unit is the first one.
func (nv *Navigator) AtStart() bool {
	return nv.current == 0
}

// AtEnd reports whether the current unit is the last one. An empty
// navigator is considered at its end.
func (nv *Navigator) AtEnd() bool {
	return nv.current >= nv.n-1
}

// Percent returns the reading progress as shown in the header: the
// 1-based position over the total, rounded to a whole percentage.
func (nv *Navigator) Percent() int {
	if nv.n == 0 {
		return 0
	}
	return int(math.Round(float64(nv.current+1) / float64(nv.n) * 100))
}

// Resize returns a navigator over n units that keeps this navigator's
// position and completions where they still fit. Used when content is
// reloaded with a different number of units.
func (nv *Navigator) Resize(n int) *Navigator {
	out := New(n)
	for i := range nv.completed {
		out.MarkCompleted(i)
	}
	if out.n > 0 {
		out.current = min(nv.current, out.n-1)
	}
	return out
}
