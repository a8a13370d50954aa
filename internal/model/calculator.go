package model

// SheetEstimate is an area-only estimate of how many sheets a cut list needs.
type SheetEstimate struct {
	TotalPieceArea    int     `json:"total_piece_area"`    // kerf-inclusive, mm²
	SheetArea         int     `json:"sheet_area"`          // mm²
	SheetsNeededExact float64 `json:"sheets_needed_exact"` // fractional sheets
	SheetsNeededMin   int     `json:"sheets_needed_min"`   // ceiling of exact
}

// EstimateSheets computes the area lower bound for a cut list. No packing can
// use fewer sheets than SheetsNeededMin.
func EstimateSheets(pieces []Piece, sheetWidth, sheetHeight, kerf int) SheetEstimate {
	total := 0
	for _, p := range pieces {
		total += (p.Width + kerf) * (p.Height + kerf) * p.Quantity
	}

	sheetArea := sheetWidth * sheetHeight
	if sheetArea <= 0 {
		return SheetEstimate{TotalPieceArea: total}
	}

	return SheetEstimate{
		TotalPieceArea:    total,
		SheetArea:         sheetArea,
		SheetsNeededExact: float64(total) / float64(sheetArea),
		SheetsNeededMin:   (total + sheetArea - 1) / sheetArea,
	}
}

// MinSheetsByArea returns ceil(total padded area / sheet area).
func MinSheetsByArea(rects []PaddedRectangle, sheetWidth, sheetHeight int) int {
	sheetArea := sheetWidth * sheetHeight
	if sheetArea <= 0 {
		return 0
	}
	total := 0
	for _, r := range rects {
		total += r.Area()
	}
	return (total + sheetArea - 1) / sheetArea
}
