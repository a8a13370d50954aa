package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/cutplan/internal/model"
)

// DXF layer names.
const (
	dxfLayerSheets = "SHEETS"
	dxfLayerPieces = "PIECES"
	dxfLayerLabels = "LABELS"
)

// dxfSheetGap is the spacing between sheets laid out along X, in mm.
const dxfSheetGap = 200.0

// ExportDXF writes every sheet of the plan side by side in one drawing, in
// millimetres with Y pointing up. Sheet outlines, cut rectangles and their
// captions go on separate layers so a CAM tool can pick what it needs.
func ExportDXF(path string, plan model.Plan) error {
	sheets := Sheets(plan)
	if len(sheets) == 0 {
		return ErrNothingToExport
	}

	d := dxf.NewDrawing()
	for _, l := range []struct {
		name string
		col  color.ColorNumber
	}{
		{dxfLayerSheets, color.White},
		{dxfLayerPieces, color.Cyan},
		{dxfLayerLabels, color.Yellow},
	} {
		if _, err := d.AddLayer(l.name, l.col, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("add layer %s: %w", l.name, err)
		}
	}

	offsetX := 0.0
	for _, sheet := range sheets {
		if err := drawDXFSheet(d, sheet, offsetX); err != nil {
			return fmt.Errorf("draw %s sheet %d: %w", sheet.Group, sheet.Number, err)
		}
		offsetX += float64(sheet.Width) + dxfSheetGap
	}

	return d.SaveAs(path)
}

func drawDXFSheet(d *drawing.Drawing, sheet SheetView, offsetX float64) error {
	sh := float64(sheet.Height)

	if err := d.ChangeLayer(dxfLayerSheets); err != nil {
		return err
	}
	if err := dxfRect(d, offsetX, 0, float64(sheet.Width), sh); err != nil {
		return err
	}
	if _, err := d.Text(fmt.Sprintf("%s sheet %d", sheet.Group, sheet.Number), offsetX, sh+40, 0, 30); err != nil {
		return err
	}

	for _, p := range sheet.Placements {
		// Plan coordinates grow downward from the top edge.
		x := offsetX + float64(p.X)
		y := sh - float64(p.Y) - float64(p.Height)

		if err := d.ChangeLayer(dxfLayerPieces); err != nil {
			return err
		}
		if err := dxfRect(d, x, y, float64(p.Width), float64(p.Height)); err != nil {
			return err
		}

		if err := d.ChangeLayer(dxfLayerLabels); err != nil {
			return err
		}
		h := textHeight(p)
		if _, err := d.Text(p.Caption(), x+h/2, y+float64(p.Height)/2, 0, h); err != nil {
			return err
		}
	}
	return nil
}

// dxfRect draws a rectangle as one closed LWPOLYLINE.
func dxfRect(d *drawing.Drawing, x, y, w, h float64) error {
	_, err := d.LwPolyline(true,
		[]float64{x, y},
		[]float64{x + w, y},
		[]float64{x + w, y + h},
		[]float64{x, y + h},
	)
	return err
}

// textHeight scales captions to the piece, between 5 and 25mm.
func textHeight(p PieceView) float64 {
	h := float64(min(p.Width, p.Height)) / 8
	return max(5, min(25, h))
}
