package engine

import (
	"context"
	"testing"

	"github.com/piwi3910/cutplan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDefaultScenarios(t *testing.T) {
	scenarios := BuildDefaultScenarios(model.DefaultSettings())

	require.Len(t, scenarios, 3)
	assert.Equal(t, "Current Settings", scenarios[0].Name)
	assert.Equal(t, "Rotation Disabled", scenarios[1].Name)
	assert.False(t, scenarios[1].Settings.AllowRotation)
	assert.Equal(t, 1, scenarios[2].Settings.Kerf)
}

func TestBuildDefaultScenarios_ThinKerfAndNoRotation(t *testing.T) {
	base := model.DefaultSettings()
	base.Kerf = 1
	base.AllowRotation = false

	scenarios := BuildDefaultScenarios(base)

	require.Len(t, scenarios, 2, "no half-kerf scenario for a 1mm blade")
	assert.Equal(t, "Rotation Enabled", scenarios[1].Name)
	assert.True(t, scenarios[1].Settings.AllowRotation)
}

func TestCompareScenarios(t *testing.T) {
	groups := []model.GroupInput{{
		Thickness: 12,
		Sheet:     model.StockSheet{Width: 500, Height: 1000},
		Pieces:    []model.Piece{model.NewPiece("Rail", 800, 400, 1)},
	}}
	base := model.DefaultSettings()
	base.Kerf = 0

	results := CompareScenarios(context.Background(), BuildDefaultScenarios(base), groups)

	require.Len(t, results, 2)

	current := results[0]
	require.NoError(t, current.Err)
	assert.Equal(t, 1, current.SheetsUsed)
	assert.Equal(t, 1, current.PiecesPlaced)
	assert.Equal(t, 0, current.FailedGroups)
	assert.InDelta(t, 36.0, current.WastePercent, 0.0001)

	noRotation := results[1]
	assert.ErrorIs(t, noRotation.Err, model.ErrUnplaceable)
	assert.Equal(t, 1, noRotation.FailedGroups)
	assert.Equal(t, 0, noRotation.SheetsUsed)
}
