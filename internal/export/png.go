package export

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/piwi3910/cutplan/internal/model"
)

// DefaultPNGScale is pixels per millimetre; a 2440mm sheet is about 980px tall.
const DefaultPNGScale = 0.4

const pngTitleBand = 36.0

var (
	fontOnce   sync.Once
	fontSource *text.FontSource
	fontErr    error
)

func captionFont() (*text.FontSource, error) {
	fontOnce.Do(func() {
		fontSource, fontErr = text.NewFontSource(goregular.TTF)
	})
	return fontSource, fontErr
}

// WriteSheetPNG draws one sheet as a PNG image at scale pixels per mm.
func WriteSheetPNG(w io.Writer, sheet SheetView, scale float64) error {
	if scale <= 0 {
		scale = DefaultPNGScale
	}
	src, err := captionFont()
	if err != nil {
		return fmt.Errorf("load caption font: %w", err)
	}

	width := int(math.Ceil(float64(sheet.Width) * scale))
	height := int(math.Ceil(float64(sheet.Height)*scale + pngTitleBand))

	dc := gg.NewContext(width, height)
	defer dc.Close()
	dc.ClearWithColor(gg.White)

	dc.SetFont(src.Face(13))
	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored(sheet.Title(), float64(width)/2, pngTitleBand/2, 0.5, 0.5)

	// Sheet background
	dc.SetHexColor("#f5f5f5")
	dc.DrawRectangle(0, pngTitleBand, float64(sheet.Width)*scale, float64(sheet.Height)*scale)
	if err := dc.Fill(); err != nil {
		return err
	}

	dc.SetFont(src.Face(10))
	for _, p := range sheet.Placements {
		x := float64(p.X) * scale
		y := pngTitleBand + float64(p.Y)*scale
		pw := float64(p.Width) * scale
		ph := float64(p.Height) * scale

		dc.SetHexColor(sheet.Color)
		dc.DrawRectangle(x, y, pw, ph)
		if err := dc.FillPreserve(); err != nil {
			return err
		}
		dc.SetRGB(0, 0, 0)
		dc.SetLineWidth(1.5)
		if err := dc.Stroke(); err != nil {
			return err
		}

		caption := p.Caption()
		cw, chgt := dc.MeasureString(caption)
		if cw+4 < pw && chgt+2 < ph {
			dc.SetRGB(1, 1, 1)
			dc.DrawRectangle(x+(pw-cw)/2-2, y+(ph-chgt)/2, cw+4, chgt)
			if err := dc.Fill(); err != nil {
				return err
			}
			dc.SetRGB(0, 0, 0)
			dc.DrawStringAnchored(caption, x+pw/2, y+ph/2, 0.5, 0.5)
		}
	}

	return dc.EncodePNG(w)
}

// SheetPNGName is the file name used for a sheet image, e.g. "18mm_sheet_2.png".
func SheetPNGName(sheet SheetView) string {
	return fmt.Sprintf("%s_sheet_%d.png", sheet.Group, sheet.Number)
}

// ExportPNGs writes one PNG per sheet into dir and returns the paths written.
func ExportPNGs(dir string, plan model.Plan, scale float64) ([]string, error) {
	sheets := Sheets(plan)
	if len(sheets) == 0 {
		return nil, ErrNothingToExport
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(sheets))
	for _, sheet := range sheets {
		path := filepath.Join(dir, strings.ReplaceAll(SheetPNGName(sheet), " ", "_"))
		if err := writePNGFile(path, sheet, scale); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writePNGFile(path string, sheet SheetView, scale float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteSheetPNG(f, sheet, scale); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
