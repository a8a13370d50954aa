package gcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/cutplan/internal/model"
)

func TestGap(t *testing.T) {
	a := box{0, 0, 10, 10}
	assert.InDelta(t, 0, gap(a, box{5, 5, 20, 20}), 1e-9)
	assert.InDelta(t, 5, gap(a, box{15, 0, 20, 10}), 1e-9)
	assert.InDelta(t, 5, gap(a, box{13, 14, 20, 20}), 1e-9)
}

func TestCheckSheet(t *testing.T) {
	s := DefaultSettings()
	s.ClampClearance = 10
	s.ClampZones = []ClampZone{
		{Label: "far", X: 0, Y: 0, Width: 50, Height: 50},
		{Label: "near", X: 210, Y: 400, Width: 20, Height: 20},
		{Label: "over", X: 100, Y: 495, Width: 20, Height: 20},
		{Label: "inside", X: 50, Y: 420, Width: 10, Height: 10},
	}

	got, err := CheckSheet(testSheet(), s)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "near", got[0].Zone)
	assert.Equal(t, "Door", got[0].Piece)
	assert.Equal(t, 1, got[0].Sheet)
	assert.InDelta(t, 6, got[0].Distance, 1e-9)

	assert.Equal(t, "over", got[1].Zone)
	assert.InDelta(t, 0, got[1].Distance, 1e-9)
}

func TestCheckSheet_NoZones(t *testing.T) {
	sheet := testSheet()
	sheet.Kerf = 0
	got, err := CheckSheet(sheet, DefaultSettings())
	assert.NoError(t, err, "nothing to check without clamps")
	assert.Empty(t, got)

	s := DefaultSettings()
	s.ClampZones = []ClampZone{{Label: "c", Width: 10, Height: 10}}
	_, err = CheckSheet(sheet, s)
	assert.ErrorIs(t, err, ErrNoKerf)
}

func TestCheckPlan_EmptyPlan(t *testing.T) {
	got, err := CheckPlan(model.Plan{}, DefaultSettings())
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestFormatCollisionWarnings(t *testing.T) {
	assert.Empty(t, FormatCollisionWarnings(nil))

	out := FormatCollisionWarnings([]Collision{
		{Group: "18mm", Sheet: 1, Piece: "Door", Zone: "front clamp", Distance: 0},
		{Group: "18mm", Sheet: 2, Piece: "Side", Distance: 3.3},
	})
	assert.Contains(t, out, "2 clamp collision warning(s)")
	assert.Contains(t, out, "18mm sheet 1: Door cuts into front clamp")
	assert.Contains(t, out, "18mm sheet 2: Side passes 3.3mm from clamp")
}
