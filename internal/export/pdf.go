package export

import (
	"fmt"
	"io"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/cutplan/internal/model"
)

// Page layout constants (A4 portrait in mm); sheets are drawn upright.
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 10.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// WritePDF renders the cutting plan: a thickness legend, one page per
// sheet and a summary table.
func WritePDF(w io.Writer, plan model.Plan) error {
	pdf, err := buildPDF(plan)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

// ExportPDF writes the cutting plan PDF to path.
func ExportPDF(path string, plan model.Plan) error {
	pdf, err := buildPDF(plan)
	if err != nil {
		return err
	}
	return pdf.OutputFileAndClose(path)
}

func buildPDF(plan model.Plan) (*fpdf.Fpdf, error) {
	sheets := Sheets(plan)
	if len(sheets) == 0 {
		return nil, ErrNothingToExport
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.SetTitle(plan.Name, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	renderLegendPage(pdf, tr, plan)

	for _, sheet := range sheets {
		pdf.AddPage()
		renderSheetPage(pdf, tr, sheet)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, tr, plan)

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return pdf, nil
}

// renderLegendPage draws one colour swatch per thickness group.
func renderLegendPage(pdf *fpdf.Fpdf, tr func(string) string, plan model.Plan) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, "Panel Thickness Legend", "", 0, "L", false, 0, "")

	y := drawAreaTop
	pdf.SetFont("Helvetica", "", 12)
	for _, g := range plan.Groups {
		col := parseHex(g.Color)
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.Rect(marginLeft, y, 10, 10, "FD")

		pdf.SetXY(marginLeft+15, y)
		label := fmt.Sprintf("%d mm Panel", g.Thickness)
		if g.Sheet.Name != "" {
			label += fmt.Sprintf(" on %s", g.Sheet.Name)
		}
		pdf.CellFormat(150, 10, tr(label), "", 0, "L", false, 0, "")
		y += 15
	}
}

// renderSheetPage draws a single sheet on the current PDF page.
func renderSheetPage(pdf *fpdf.Fpdf, tr func(string) string, sheet SheetView) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, tr(sheet.Title()), "", 0, "C", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - 10

	scale := math.Min(drawWidth/float64(sheet.Width), drawHeight/float64(sheet.Height))
	canvasW := float64(sheet.Width) * scale
	canvasH := float64(sheet.Height) * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Sheet background
	pdf.SetFillColor(245, 245, 245)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	col := parseHex(sheet.Color)
	for _, p := range sheet.Placements {
		pw := float64(p.Width) * scale
		ph := float64(p.Height) * scale
		px := offsetX + float64(p.X)*scale
		py := offsetY + float64(p.Y)*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(0, 0, 0)
		pdf.SetLineWidth(0.4)
		pdf.Rect(px, py, pw, ph, "FD")

		if pw > 12 && ph > 5 {
			caption := tr(p.Caption())
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			cw := pdf.GetStringWidth(caption) + 1
			if cw < pw-1 {
				// White box behind the caption keeps it readable on dark fills.
				pdf.SetFillColor(255, 255, 255)
				pdf.SetXY(px+(pw-cw)/2, py+ph/2-2)
				pdf.CellFormat(cw, 4, caption, "", 0, "C", true, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, sheet, offsetX, offsetY, canvasW, canvasH)
}

// drawDimensionAnnotations adds width and height labels outside the sheet rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, sheet SheetView, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%d mm", sheet.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%d mm", sheet.Height)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// renderSummaryPage draws the per-thickness summary table and run settings.
func renderSummaryPage(pdf *fpdf.Fpdf, tr func(string) string, plan model.Plan) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Cutting Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18
	colWidths := []float64{30, 30, 30, 35, 30, 25}
	headers := []string{"Thickness", "Total Sheets", "Total Pieces", "Approx Waste %", "Min Sheets", "Offcuts"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	var failures []SummaryRow
	for i, row := range SummaryRows(plan) {
		if row.FailureReason != "" {
			failures = append(failures, row)
			continue
		}
		cells := []string{
			fmt.Sprintf("%d mm", row.Thickness),
			fmt.Sprintf("%d", row.TotalSheets),
			fmt.Sprintf("%d", row.TotalPieces),
			fmt.Sprintf("%.2f", row.WastePct),
			fmt.Sprintf("%d", row.MinSheets),
			fmt.Sprintf("%d", row.RemnantCount),
		}
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		xPos = marginLeft
		for j, cell := range cells {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	if len(failures) > 0 {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(180, 7, "WARNING: Groups not packed", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, row := range failures {
			pdf.SetXY(marginLeft+5, y)
			pdf.MultiCell(170, 5, tr(fmt.Sprintf("- %d mm: %s", row.Thickness, row.FailureReason)), "", "L", false)
			y = pdf.GetY()
		}
	}

	y += 8
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Cut Settings", "", 0, "L", false, 0, "")
	y += 9

	rotation := "allowed"
	if !plan.Settings.AllowRotation {
		rotation = "not allowed"
	}
	settingsItems := []struct {
		label string
		value string
	}{
		{"Kerf Width", fmt.Sprintf("%d mm", plan.Settings.Kerf)},
		{"Rotation", rotation},
		{"Sheet Limit", fmt.Sprintf("%d per thickness", plan.Settings.SheetLimit())},
	}

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range settingsItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(50, 5, item.label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(50, 5, item.value, "", 0, "L", false, 0, "")
		y += 5
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by cutplan - panel cutting planner", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
