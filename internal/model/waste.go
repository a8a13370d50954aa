package model

// SheetWaste holds the area accounting for one sheet.
type SheetWaste struct {
	SheetIndex int     `json:"sheet_index"`
	Pieces     int     `json:"pieces"`
	UsedArea   int     `json:"used_area"`  // kerf-inclusive, mm²
	WasteArea  int     `json:"waste_area"` // mm²
	WastePct   float64 `json:"waste_pct"`
}

// WasteSummary aggregates waste for one thickness group.
type WasteSummary struct {
	Group       string       `json:"group"`
	PerSheet    []SheetWaste `json:"per_sheet"`
	TotalSheets int          `json:"total_sheets"`
	TotalPieces int          `json:"total_pieces"`
	// AvgWastePct is the arithmetic mean of per-sheet waste percentages.
	AvgWastePct float64 `json:"avg_waste_pct"`
	// AreaWeightedWastePct is total waste area over total sheet area.
	AreaWeightedWastePct float64 `json:"area_weighted_waste_pct"`
	// MinSheets is the area lower bound for the same pieces.
	MinSheets int `json:"min_sheets"`
}

// TotalWasteArea sums waste over every sheet.
func (s WasteSummary) TotalWasteArea() int {
	total := 0
	for _, sh := range s.PerSheet {
		total += sh.WasteArea
	}
	return total
}
