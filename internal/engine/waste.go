package engine

import "github.com/piwi3910/cutplan/internal/model"

// Summarize derives used area, waste area and waste percentage per sheet and
// for the whole group. Used area is kerf-inclusive.
//
// AvgWastePct is the arithmetic mean of the per-sheet percentages over sheets
// that hold at least one placement. AreaWeightedWastePct divides total waste by
// total sheet area; the two differ only when sheets have unequal waste.
func Summarize(result model.PackingResult, sheetWidth, sheetHeight int) model.WasteSummary {
	summary := model.WasteSummary{
		Group:       result.Group,
		TotalPieces: len(result.Placements),
	}

	sheetArea := sheetWidth * sheetHeight
	if sheetArea <= 0 || result.SheetCount == 0 {
		return summary
	}

	used := make([]int, result.SheetCount)
	pieces := make([]int, result.SheetCount)
	padded := make([]model.PaddedRectangle, 0, len(result.Placements))
	for _, p := range result.Placements {
		used[p.SheetIndex] += p.Area()
		pieces[p.SheetIndex]++
		padded = append(padded, model.PaddedRectangle{SpecID: p.SpecID, Width: p.PlacedWidth, Height: p.PlacedHeight})
	}

	var pctSum float64
	var totalWaste int
	for i := range used {
		if pieces[i] == 0 {
			continue
		}
		waste := sheetArea - used[i]
		pct := 100 * float64(waste) / float64(sheetArea)
		summary.PerSheet = append(summary.PerSheet, model.SheetWaste{
			SheetIndex: i,
			Pieces:     pieces[i],
			UsedArea:   used[i],
			WasteArea:  waste,
			WastePct:   pct,
		})
		pctSum += pct
		totalWaste += waste
	}

	n := len(summary.PerSheet)
	summary.TotalSheets = n
	if n > 0 {
		summary.AvgWastePct = pctSum / float64(n)
		summary.AreaWeightedWastePct = 100 * float64(totalWaste) / float64(sheetArea*n)
	}
	summary.MinSheets = model.MinSheetsByArea(padded, sheetWidth, sheetHeight)
	return summary
}
