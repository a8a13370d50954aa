package engine

import (
	"context"
	"fmt"

	"github.com/piwi3910/cutplan/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.CutSettings
}

// ComparisonResult holds the plan and headline figures for one scenario.
type ComparisonResult struct {
	Scenario     ComparisonScenario
	Plan         model.Plan
	Err          error
	SheetsUsed   int
	PiecesPlaced int
	// WastePercent is total waste area over total sheet area across groups.
	WastePercent float64
	FailedGroups int
}

// CompareScenarios plans the same groups under each scenario, in scenario
// order, for side-by-side what-if comparison.
func CompareScenarios(ctx context.Context, scenarios []ComparisonScenario, groups []model.GroupInput) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		plan, err := New(scenario.Settings).Plan(ctx, groups)

		var wasteArea, sheetArea int
		failed := 0
		for _, g := range plan.Groups {
			if !g.OK() {
				failed++
				continue
			}
			wasteArea += g.Summary.TotalWasteArea()
			sheetArea += g.Result.SheetArea() * g.Result.SheetCount
		}

		wastePercent := 0.0
		if sheetArea > 0 {
			wastePercent = 100 * float64(wasteArea) / float64(sheetArea)
		}

		results = append(results, ComparisonResult{
			Scenario:     scenario,
			Plan:         plan,
			Err:          err,
			SheetsUsed:   plan.TotalSheets(),
			PiecesPlaced: plan.TotalPieces(),
			WastePercent: wastePercent,
			FailedGroups: failed,
		})
	}

	return results
}

// BuildDefaultScenarios generates what-if alternatives around the current
// settings: rotation toggled, and a blade of half the kerf.
func BuildDefaultScenarios(baseSettings model.CutSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: baseSettings,
		},
	}

	toggled := baseSettings
	toggled.AllowRotation = !baseSettings.AllowRotation
	name := "Rotation Disabled"
	if toggled.AllowRotation {
		name = "Rotation Enabled"
	}
	scenarios = append(scenarios, ComparisonScenario{Name: name, Settings: toggled})

	if baseSettings.Kerf > 1 {
		thin := baseSettings
		thin.Kerf = baseSettings.Kerf / 2
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Kerf %dmm (half)", thin.Kerf),
			Settings: thin,
		})
	}

	return scenarios
}
