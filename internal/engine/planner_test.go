package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/piwi3910/cutplan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGroups() []model.GroupInput {
	sheet := model.StockSheet{Name: "8x4", Width: 1220, Height: 2440}
	return []model.GroupInput{
		{
			Thickness: 18,
			Sheet:     sheet,
			Pieces: []model.Piece{
				model.NewPiece("Side", 720, 560, 4),
				model.NewPiece("Shelf", 764, 540, 6),
			},
		},
		{
			Thickness: 6,
			Sheet:     sheet,
			Pieces:    []model.Piece{model.NewPiece("Back", 780, 720, 2)},
		},
	}
}

func TestPlan_PacksEveryGroupInInputOrder(t *testing.T) {
	plan, err := New(model.DefaultSettings()).Plan(context.Background(), testGroups())

	require.NoError(t, err)
	assert.NotEmpty(t, plan.ID)
	require.Len(t, plan.Groups, 2)

	assert.Equal(t, "18mm", plan.Groups[0].Group)
	assert.Equal(t, "6mm", plan.Groups[1].Group)
	for _, g := range plan.Groups {
		require.True(t, g.OK(), g.Error)
		assert.Equal(t, g.Group, g.Result.Group)
		assert.Equal(t, 3, g.Result.Kerf)
		assert.Len(t, g.Result.Placements, len(g.Specs))
		assert.NotEmpty(t, g.Color)
	}
	assert.Equal(t, 12, plan.TotalPieces())
	assert.Equal(t, "#6699ff", plan.Groups[0].Color)
}

func TestPlan_SpecIDsAreDeterministic(t *testing.T) {
	plan, err := New(model.DefaultSettings()).Plan(context.Background(), testGroups())
	require.NoError(t, err)

	assert.Equal(t, "18mm-1", plan.Groups[0].Specs[0].ID)
	assert.Equal(t, "18mm-10", plan.Groups[0].Specs[9].ID)
	assert.Equal(t, "6mm-2", plan.Groups[1].Specs[1].ID)

	for _, p := range plan.Groups[0].Result.Placements {
		_, ok := plan.Groups[0].Spec(p.SpecID)
		assert.True(t, ok, "placement %s has no spec", p.SpecID)
	}
}

func TestPlan_WorkerCountDoesNotChangeResult(t *testing.T) {
	serial := model.DefaultSettings()
	serial.Workers = 1
	parallel := model.DefaultSettings()
	parallel.Workers = 8

	a, err := New(serial).Plan(context.Background(), testGroups())
	require.NoError(t, err)
	b, err := New(parallel).Plan(context.Background(), testGroups())
	require.NoError(t, err)

	require.Len(t, b.Groups, len(a.Groups))
	for i := range a.Groups {
		assert.Equal(t, a.Groups[i].Result, b.Groups[i].Result)
		assert.Equal(t, a.Groups[i].Summary, b.Groups[i].Summary)
	}
}

func TestPlan_FailedGroupDoesNotStopOthers(t *testing.T) {
	groups := testGroups()
	groups[1].Pieces = append(groups[1].Pieces, model.NewPiece("Huge", 3000, 3000, 1))

	plan, err := New(model.DefaultSettings()).Plan(context.Background(), groups)

	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrUnplaceable))
	assert.Contains(t, err.Error(), "group 6mm")

	require.Len(t, plan.Groups, 2)
	assert.True(t, plan.Groups[0].OK())
	assert.False(t, plan.Groups[1].OK())
	assert.NotEmpty(t, plan.Groups[1].Error)
	assert.Len(t, plan.Succeeded(), 1)
}

func TestPlan_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *model.CutSettings, g []model.GroupInput) []model.GroupInput
		want   error
	}{
		{
			name: "negative kerf",
			mutate: func(s *model.CutSettings, g []model.GroupInput) []model.GroupInput {
				s.Kerf = -1
				return g
			},
			want: model.ErrInvalidDimension,
		},
		{
			name: "zero width piece",
			mutate: func(_ *model.CutSettings, g []model.GroupInput) []model.GroupInput {
				g[0].Pieces[0].Width = 0
				return g
			},
			want: model.ErrInvalidDimension,
		},
		{
			name: "duplicate thickness",
			mutate: func(_ *model.CutSettings, g []model.GroupInput) []model.GroupInput {
				g[1].Thickness = 18
				return g
			},
			want: model.ErrDuplicateGroup,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			settings := model.DefaultSettings()
			groups := tc.mutate(&settings, testGroups())

			plan, err := New(settings).Plan(context.Background(), groups)

			assert.ErrorIs(t, err, tc.want)
			assert.Empty(t, plan.Groups, "no group is packed when input is invalid")
		})
	}
}

func TestPlanJob_CarriesName(t *testing.T) {
	job := model.NewJob()
	job.Name = "Kitchen"
	job.Groups = testGroups()

	plan, err := PlanJob(context.Background(), job)

	require.NoError(t, err)
	assert.Equal(t, "Kitchen", plan.Name)
	assert.Equal(t, job.Settings, plan.Settings)
}

func TestPlan_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(model.DefaultSettings()).Plan(ctx, testGroups())

	assert.ErrorIs(t, err, context.Canceled)
}
