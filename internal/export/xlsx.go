package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/cutplan/internal/model"
)

// Workbook sheet names.
const (
	xlsxSummarySheet    = "Summary"
	xlsxPlacementsSheet = "Placements"
	xlsxRemnantsSheet   = "Offcuts"
)

// WriteXLSX writes the plan as a workbook with a per-thickness summary, one
// row per placed piece and the reusable offcuts.
func WriteXLSX(w io.Writer, plan model.Plan) error {
	f, err := buildWorkbook(plan)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// ExportXLSX writes the plan workbook to path.
func ExportXLSX(path string, plan model.Plan) error {
	f, err := buildWorkbook(plan)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

func buildWorkbook(plan model.Plan) (*excelize.File, error) {
	if len(plan.Groups) == 0 {
		return nil, ErrNothingToExport
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), xlsxSummarySheet); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range []string{xlsxPlacementsSheet, xlsxRemnantsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	w := &sheetWriter{f: f, header: header}
	w.table(xlsxSummarySheet,
		[]interface{}{"Thickness (mm)", "Total Sheets", "Total Pieces", "Approx Waste %", "Min Sheets", "Offcuts", "Error"},
		summaryRows(plan))
	w.table(xlsxPlacementsSheet,
		[]interface{}{"Thickness (mm)", "Sheet", "Piece", "Label", "X", "Y", "Width", "Height", "Rotated"},
		placementRows(plan))
	w.table(xlsxRemnantsSheet,
		[]interface{}{"Thickness (mm)", "Sheet", "X", "Y", "Width", "Height", "Area (mm²)"},
		remnantRows(plan))

	if w.err != nil {
		f.Close()
		return nil, fmt.Errorf("build workbook: %w", w.err)
	}
	return f, nil
}

// sheetWriter writes tables and keeps the first error.
type sheetWriter struct {
	f      *excelize.File
	header int
	err    error
}

func (w *sheetWriter) table(sheet string, header []interface{}, rows [][]interface{}) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetSheetRow(sheet, "A1", &header)
	if w.err != nil {
		return
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		w.err = err
		return
	}
	if w.err = w.f.SetCellStyle(sheet, "A1", last, w.header); w.err != nil {
		return
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			w.err = err
			return
		}
		if w.err = w.f.SetSheetRow(sheet, cell, &row); w.err != nil {
			return
		}
	}
}

func summaryRows(plan model.Plan) [][]interface{} {
	var rows [][]interface{}
	for _, r := range SummaryRows(plan) {
		if r.FailureReason != "" {
			rows = append(rows, []interface{}{r.Thickness, nil, nil, nil, nil, nil, r.FailureReason})
			continue
		}
		rows = append(rows, []interface{}{
			r.Thickness, r.TotalSheets, r.TotalPieces, fmt.Sprintf("%.2f", r.WastePct), r.MinSheets, r.RemnantCount, "",
		})
	}
	return rows
}

func placementRows(plan model.Plan) [][]interface{} {
	var rows [][]interface{}
	for _, s := range Sheets(plan) {
		for _, p := range s.Placements {
			rows = append(rows, []interface{}{
				s.Thickness, s.Number, p.SpecID, p.Label, p.X, p.Y, p.NominalWidth, p.NominalHeight, p.Rotated,
			})
		}
	}
	return rows
}

func remnantRows(plan model.Plan) [][]interface{} {
	var rows [][]interface{}
	for _, g := range plan.Succeeded() {
		for _, r := range g.Result.Remnants {
			rows = append(rows, []interface{}{g.Thickness, r.SheetIndex + 1, r.X, r.Y, r.Width, r.Height, r.Area()})
		}
	}
	return rows
}
