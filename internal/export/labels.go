package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/cutplan/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// LabelInfo holds the data encoded into each piece label's QR code.
type LabelInfo struct {
	SpecID    string `json:"id"`
	Label     string `json:"label,omitempty"`
	Group     string `json:"group"`
	Width     int    `json:"width_mm"`
	Height    int    `json:"height_mm"`
	Sheet     int    `json:"sheet"`
	X         int    `json:"x_mm"`
	Y         int    `json:"y_mm"`
	Rotated   bool   `json:"rotated"`
	Thickness int    `json:"thickness_mm"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
const (
	labelMarginTop  = 12.7
	labelMarginLeft = 4.8
	labelWidth      = 66.7
	labelHeight     = 25.4
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0
	labelPadding    = 2.0
)

// CollectLabelInfos lists one label per placed piece, sheet by sheet.
func CollectLabelInfos(plan model.Plan) []LabelInfo {
	var labels []LabelInfo
	for _, sheet := range Sheets(plan) {
		for _, p := range sheet.Placements {
			labels = append(labels, LabelInfo{
				SpecID:    p.SpecID,
				Label:     p.Label,
				Group:     sheet.Group,
				Width:     p.NominalWidth,
				Height:    p.NominalHeight,
				Sheet:     sheet.Number,
				X:         p.X,
				Y:         p.Y,
				Rotated:   p.Rotated,
				Thickness: sheet.Thickness,
			})
		}
	}
	return labels
}

// WriteLabels renders a PDF of QR-coded labels, one per placed piece, on
// Avery 5160 sheets (3 columns x 10 rows on US Letter).
func WriteLabels(w io.Writer, plan model.Plan) error {
	pdf, err := buildLabels(plan)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

// ExportLabels writes the label PDF to path.
func ExportLabels(path string, plan model.Plan) error {
	pdf, err := buildLabels(plan)
	if err != nil {
		return err
	}
	return pdf.OutputFileAndClose(path)
}

func buildLabels(plan model.Plan) (*fpdf.Fpdf, error) {
	labels := CollectLabelInfos(plan)
	if len(labels) == 0 {
		return nil, ErrNothingToExport
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		x := labelMarginLeft + float64(posOnPage%labelCols)*labelWidth
		y := labelMarginTop + float64(posOnPage/labelCols)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return nil, fmt.Errorf("render label %s: %w", label.SpecID, err)
		}
	}
	return pdf, nil
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("marshal label info: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("generate QR code: %w", err)
	}

	// Spec IDs are unique within a plan, so they name the image.
	imgName := "qr_" + info.SpecID
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(imgName, opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions(imgName, x+labelWidth-qrSize-labelPadding, y+(labelHeight-qrSize)/2, qrSize, qrSize, false, opts, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	title := info.SpecID
	if info.Label != "" {
		title = info.Label
	}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	if pdf.GetStringWidth(title) > textW {
		for len(title) > 0 && pdf.GetStringWidth(title+"...") > textW {
			title = title[:len(title)-1]
		}
		title += "..."
	}
	pdf.CellFormat(textW, 4.5, title, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 3.5, fmt.Sprintf("%d x %d mm, %d mm", info.Width, info.Height, info.Thickness), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pdf.CellFormat(textW, 3, fmt.Sprintf("%s sheet %d @ (%d, %d)", info.Group, info.Sheet, info.X, info.Y), "", 1, "L", false, 0, "")

	if info.Rotated {
		pdf.SetXY(textX, y+labelPadding+12.5)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.SetTextColor(150, 100, 0)
		pdf.CellFormat(textW, 3, "Rotated 90\xb0", "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return pdf.Error()
}
