// Package export renders a cutting plan as documents: a PDF plan with a
// legend and one page per sheet, QR part labels, PNG sheet images, an XLSX
// workbook and a DXF drawing.
package export

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/piwi3910/cutplan/internal/model"
)

// ErrNothingToExport is returned when a plan has no packed sheets.
var ErrNothingToExport = errors.New("no sheets to export")

// rgb is a colour in 0-255 channels.
type rgb struct {
	R, G, B int
}

// parseHex reads "#rrggbb" or "rrggbb". Invalid input falls back to grey.
func parseHex(s string) rgb {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return rgb{R: 200, G: 200, B: 200}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return rgb{R: 200, G: 200, B: 200}
	}
	return rgb{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}
}

// SheetView is one packed sheet ready to draw.
type SheetView struct {
	Group      string
	Thickness  int
	Number     int // 1-based
	Width      int
	Height     int
	Kerf       int
	Color      string
	Placements []PieceView
	Waste      model.SheetWaste
}

// PieceView is a placed panel in drawing terms: the cut rectangle at its
// sheet position and the size the customer asked for.
type PieceView struct {
	SpecID        string
	Label         string
	X, Y          int
	Width, Height int // cut size in placed orientation
	NominalWidth  int
	NominalHeight int
	Rotated       bool
}

// Caption is the display size, e.g. "560×815".
func (p PieceView) Caption() string {
	return fmt.Sprintf("%d×%d", p.NominalWidth, p.NominalHeight)
}

// Title is the sheet heading used on every rendering.
func (s SheetView) Title() string {
	return fmt.Sprintf("%dmm Panel — Sheet %d | Waste: %d mm² (%.2f%%)",
		s.Thickness, s.Number, s.Waste.WasteArea, s.Waste.WastePct)
}

// Sheets flattens the successful groups of a plan into drawable sheets, in
// group order then sheet order.
func Sheets(plan model.Plan) []SheetView {
	var out []SheetView
	for _, g := range plan.Succeeded() {
		waste := make(map[int]model.SheetWaste, len(g.Summary.PerSheet))
		for _, sw := range g.Summary.PerSheet {
			waste[sw.SheetIndex] = sw
		}

		for idx, placements := range g.Result.Sheets() {
			view := SheetView{
				Group:     g.Group,
				Thickness: g.Thickness,
				Number:    idx + 1,
				Width:     g.Result.SheetWidth,
				Height:    g.Result.SheetHeight,
				Kerf:      g.Result.Kerf,
				Color:     g.Color,
				Waste:     waste[idx],
			}
			for _, p := range placements {
				w, h := p.CutSize(g.Result.Kerf)
				nw, nh := p.NominalSize(g.Result.Kerf)
				spec, _ := g.Spec(p.SpecID)
				view.Placements = append(view.Placements, PieceView{
					SpecID:        p.SpecID,
					Label:         spec.Label,
					X:             p.X,
					Y:             p.Y,
					Width:         w,
					Height:        h,
					NominalWidth:  nw,
					NominalHeight: nh,
					Rotated:       p.Rotated,
				})
			}
			out = append(out, view)
		}
	}
	return out
}

// SummaryRow is one line of the per-thickness summary table.
type SummaryRow struct {
	Thickness     int
	TotalSheets   int
	TotalPieces   int
	WastePct      float64
	MinSheets     int
	RemnantCount  int
	FailureReason string
}

// SummaryRows builds the summary table, one row per group in plan order.
// Failed groups carry their error and no figures.
func SummaryRows(plan model.Plan) []SummaryRow {
	rows := make([]SummaryRow, 0, len(plan.Groups))
	for _, g := range plan.Groups {
		row := SummaryRow{Thickness: g.Thickness}
		if !g.OK() {
			row.FailureReason = g.Error
			rows = append(rows, row)
			continue
		}
		row.TotalSheets = g.Summary.TotalSheets
		row.TotalPieces = g.Summary.TotalPieces
		row.WastePct = g.Summary.AvgWastePct
		row.MinSheets = g.Summary.MinSheets
		row.RemnantCount = len(g.Result.Remnants)
		rows = append(rows, row)
	}
	return rows
}
