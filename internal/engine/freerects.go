package engine

import (
	"fmt"

	"github.com/piwi3910/cutplan/internal/model"
)

// FreeRectangleSet tracks the free space of one sheet as a list of
// rectangles. It starts as the whole sheet and is split by guillotine cuts
// as rectangles are placed.
type FreeRectangleSet struct {
	free []model.FreeRect
}

// NewFreeRectangleSet creates the free space of an empty width x height sheet.
func NewFreeRectangleSet(width, height int) *FreeRectangleSet {
	return &FreeRectangleSet{
		free: []model.FreeRect{{X: 0, Y: 0, Width: width, Height: height}},
	}
}

// Len returns the number of free rectangles.
func (s *FreeRectangleSet) Len() int {
	return len(s.free)
}

// Rects returns a copy of the current free rectangles.
func (s *FreeRectangleSet) Rects() []model.FreeRect {
	out := make([]model.FreeRect, len(s.free))
	copy(out, s.free)
	return out
}

// FindCandidates returns every free rectangle able to hold a w x h rectangle.
func (s *FreeRectangleSet) FindCandidates(w, h int) []model.FreeRect {
	var out []model.FreeRect
	for _, f := range s.free {
		if f.CanHold(w, h) {
			out = append(out, f)
		}
	}
	return out
}

// Place puts a w x h rectangle at the top-left corner of chosen, replaces
// chosen with at most two leftover rectangles and prunes redundant ones.
// The cut runs along the shorter leftover axis first, which keeps the larger
// leftover rectangle whole.
func (s *FreeRectangleSet) Place(chosen model.FreeRect, w, h int) error {
	idx := -1
	for i, f := range s.free {
		if f == chosen {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("free rectangle %+v not in set", chosen)
	}
	if !chosen.CanHold(w, h) {
		return fmt.Errorf("%dx%d does not fit free rectangle %+v", w, h, chosen)
	}

	s.free = append(s.free[:idx], s.free[idx+1:]...)

	leftoverW := chosen.Width - w
	leftoverH := chosen.Height - h

	right := model.FreeRect{X: chosen.X + w, Y: chosen.Y, Width: leftoverW}
	bottom := model.FreeRect{X: chosen.X, Y: chosen.Y + h, Height: leftoverH}
	if leftoverW < leftoverH {
		// Horizontal cut: the bottom strip spans the full width.
		bottom.Width = chosen.Width
		right.Height = h
	} else {
		// Vertical cut: the right strip spans the full height.
		bottom.Width = w
		right.Height = chosen.Height
	}

	if bottom.Width > 0 && bottom.Height > 0 {
		s.free = append(s.free, bottom)
	}
	if right.Width > 0 && right.Height > 0 {
		s.free = append(s.free, right)
	}

	s.pruneRedundant()
	return nil
}

// pruneRedundant drops any free rectangle wholly inside another one. Of two
// identical rectangles the earlier is kept.
func (s *FreeRectangleSet) pruneRedundant() {
	if len(s.free) <= 1 {
		return
	}
	kept := make([]model.FreeRect, 0, len(s.free))
	for i, a := range s.free {
		redundant := false
		for j, b := range s.free {
			if i == j || !b.Contains(a) {
				continue
			}
			if a != b || j < i {
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, a)
		}
	}
	s.free = kept
}
