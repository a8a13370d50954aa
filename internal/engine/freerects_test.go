package engine

import (
	"testing"

	"github.com/piwi3910/cutplan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFreeRectangleSet(t *testing.T) {
	s := NewFreeRectangleSet(1220, 2440)

	require.Equal(t, 1, s.Len())
	assert.Equal(t, model.FreeRect{X: 0, Y: 0, Width: 1220, Height: 2440}, s.Rects()[0])
}

func TestPlace_VerticalCutWhenWidthLeftoverIsLarger(t *testing.T) {
	s := NewFreeRectangleSet(1000, 600)

	require.NoError(t, s.Place(s.Rects()[0], 300, 200))

	// leftoverW 700 >= leftoverH 400: the right strip takes the full height.
	assert.ElementsMatch(t, []model.FreeRect{
		{X: 300, Y: 0, Width: 700, Height: 600},
		{X: 0, Y: 200, Width: 300, Height: 400},
	}, s.Rects())
}

func TestPlace_HorizontalCutWhenWidthLeftoverIsSmaller(t *testing.T) {
	s := NewFreeRectangleSet(1000, 1000)

	require.NoError(t, s.Place(s.Rects()[0], 800, 100))

	// leftoverW 200 < leftoverH 900: the bottom strip takes the full width.
	assert.ElementsMatch(t, []model.FreeRect{
		{X: 0, Y: 100, Width: 1000, Height: 900},
		{X: 800, Y: 0, Width: 200, Height: 100},
	}, s.Rects())
}

func TestPlace_EqualLeftoversCutVertically(t *testing.T) {
	s := NewFreeRectangleSet(1000, 1000)

	require.NoError(t, s.Place(s.Rects()[0], 500, 500))

	assert.ElementsMatch(t, []model.FreeRect{
		{X: 500, Y: 0, Width: 500, Height: 1000},
		{X: 0, Y: 500, Width: 500, Height: 500},
	}, s.Rects())
}

func TestPlace_ExactFitLeavesNothing(t *testing.T) {
	s := NewFreeRectangleSet(1000, 1000)

	require.NoError(t, s.Place(s.Rects()[0], 1000, 1000))
	assert.Equal(t, 0, s.Len())
}

func TestPlace_FullWidthStripLeavesOneRect(t *testing.T) {
	s := NewFreeRectangleSet(1000, 1000)

	require.NoError(t, s.Place(s.Rects()[0], 1000, 300))
	assert.Equal(t, []model.FreeRect{{X: 0, Y: 300, Width: 1000, Height: 700}}, s.Rects())
}

func TestPlace_Errors(t *testing.T) {
	s := NewFreeRectangleSet(1000, 1000)

	err := s.Place(model.FreeRect{X: 1, Y: 1, Width: 10, Height: 10}, 5, 5)
	assert.Error(t, err, "rectangle not in set")

	err = s.Place(s.Rects()[0], 1001, 10)
	assert.Error(t, err, "rectangle too wide")

	assert.Equal(t, 1, s.Len(), "failed placements must not change the set")
}

func TestRects_ReturnsCopy(t *testing.T) {
	s := NewFreeRectangleSet(100, 100)
	rects := s.Rects()
	rects[0].Width = 1

	assert.Equal(t, 100, s.Rects()[0].Width)
}

func TestFindCandidates(t *testing.T) {
	s := &FreeRectangleSet{free: []model.FreeRect{
		{X: 0, Y: 0, Width: 500, Height: 500},
		{X: 600, Y: 0, Width: 300, Height: 300},
		{X: 0, Y: 600, Width: 100, Height: 900},
	}}

	got := s.FindCandidates(300, 300)
	assert.Equal(t, []model.FreeRect{
		{X: 0, Y: 0, Width: 500, Height: 500},
		{X: 600, Y: 0, Width: 300, Height: 300},
	}, got)

	assert.Empty(t, s.FindCandidates(600, 600))
}

func TestPruneRedundant(t *testing.T) {
	s := &FreeRectangleSet{free: []model.FreeRect{
		{X: 0, Y: 0, Width: 100, Height: 100},
		{X: 10, Y: 10, Width: 20, Height: 20},
		{X: 0, Y: 0, Width: 100, Height: 100},
		{X: 200, Y: 0, Width: 50, Height: 50},
	}}

	s.pruneRedundant()

	assert.Equal(t, []model.FreeRect{
		{X: 0, Y: 0, Width: 100, Height: 100},
		{X: 200, Y: 0, Width: 50, Height: 50},
	}, s.Rects())
}

func TestPlace_FreeSpaceNeverOverlapsPlacements(t *testing.T) {
	s := NewFreeRectangleSet(1000, 1000)
	sizes := [][2]int{{400, 300}, {300, 300}, {200, 500}, {100, 100}, {250, 150}}

	var placed []model.FreeRect
	for _, sz := range sizes {
		cands := s.FindCandidates(sz[0], sz[1])
		require.NotEmpty(t, cands)
		chosen := cands[0]
		require.NoError(t, s.Place(chosen, sz[0], sz[1]))
		placed = append(placed, model.FreeRect{X: chosen.X, Y: chosen.Y, Width: sz[0], Height: sz[1]})
	}

	for _, f := range s.Rects() {
		assert.True(t, f.Width > 0 && f.Height > 0, "degenerate free rect %+v", f)
		assert.True(t, f.X >= 0 && f.Y >= 0 && f.X+f.Width <= 1000 && f.Y+f.Height <= 1000, "free rect %+v outside sheet", f)
		for _, p := range placed {
			assert.False(t, f.Overlaps(p), "free rect %+v overlaps placement %+v", f, p)
		}
	}
}
