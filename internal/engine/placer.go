package engine

import "github.com/piwi3910/cutplan/internal/model"

// Candidate is a scored placement of one rectangle inside one free rectangle.
type Candidate struct {
	Free    model.FreeRect
	Width   int // placed width, after rotation
	Height  int // placed height, after rotation
	Rotated bool
}

// X returns the placement's left edge.
func (c Candidate) X() int { return c.Free.X }

// Y returns the placement's top edge.
func (c Candidate) Y() int { return c.Free.Y }

// leftoverArea is the best-fit score: free area not covered by the rectangle.
func (c Candidate) leftoverArea() int {
	return c.Free.Area() - c.Width*c.Height
}

// shortSide is the smaller of the two leftover side lengths.
func (c Candidate) shortSide() int {
	return min(c.Free.Width-c.Width, c.Free.Height-c.Height)
}

// better reports whether a beats b. Ties resolve by leftover area, then the
// shorter leftover side, then lowest y, then lowest x, then upright first.
func better(a, b Candidate) bool {
	if la, lb := a.leftoverArea(), b.leftoverArea(); la != lb {
		return la < lb
	}
	if sa, sb := a.shortSide(), b.shortSide(); sa != sb {
		return sa < sb
	}
	if a.Free.Y != b.Free.Y {
		return a.Free.Y < b.Free.Y
	}
	if a.Free.X != b.Free.X {
		return a.Free.X < b.Free.X
	}
	return !a.Rotated && b.Rotated
}

// TryPlace finds the best-fit position for r in the free set. It has no side
// effects; the caller commits the candidate with FreeRectangleSet.Place.
func TryPlace(r model.PaddedRectangle, set *FreeRectangleSet, allowRotation bool) (Candidate, bool) {
	var best Candidate
	found := false

	consider := func(w, h int, rotated bool) {
		for _, f := range set.FindCandidates(w, h) {
			c := Candidate{Free: f, Width: w, Height: h, Rotated: rotated}
			if !found || better(c, best) {
				best = c
				found = true
			}
		}
	}

	consider(r.Width, r.Height, false)
	// A square turned 90° is the same placement.
	if allowRotation && r.Width != r.Height {
		consider(r.Height, r.Width, true)
	}
	return best, found
}
