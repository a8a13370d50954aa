// Package gcode turns packed sheets into CNC router toolpaths. Each panel
// is cut as a rectangular profile with the tool running in the kerf gap,
// so the finished part keeps its nominal size.
package gcode

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/cutplan/internal/export"
	"github.com/piwi3910/cutplan/internal/model"
)

var (
	// ErrNoKerf is returned for a plan packed without kerf: there is no
	// gap between panels for the tool to run in.
	ErrNoKerf = errors.New("plan has zero kerf, no room for a cutter")
	// ErrToolTooWide is returned when the cutter is wider than the kerf.
	ErrToolTooWide = errors.New("tool diameter exceeds kerf")
	// ErrInvalidSettings wraps out-of-range machine settings.
	ErrInvalidSettings = errors.New("invalid machine settings")
)

// Settings holds the machine parameters used for every sheet.
type Settings struct {
	Profile      string  `json:"profile"`
	ToolDiameter float64 `json:"tool_diameter"` // 0 uses the plan kerf
	FeedRate     float64 `json:"feed_rate"`     // mm/min
	PlungeRate   float64 `json:"plunge_rate"`   // mm/min
	SpindleSpeed int     `json:"spindle_speed"` // RPM
	SafeZ        float64 `json:"safe_z"`
	PassDepth    float64 `json:"pass_depth"`  // 0 cuts full depth in one pass
	CutThrough   float64 `json:"cut_through"` // extra depth into the spoilboard

	TabsPerSide int     `json:"tabs_per_side"`
	TabWidth    float64 `json:"tab_width"`
	TabHeight   float64 `json:"tab_height"`

	ClampZones     []ClampZone `json:"clamp_zones,omitempty"`
	ClampClearance float64     `json:"clamp_clearance"`
}

// DefaultSettings returns conservative settings for a 3 mm flat end mill
// in sheet goods.
func DefaultSettings() Settings {
	return Settings{
		Profile:        "Grbl",
		FeedRate:       1500,
		PlungeRate:     500,
		SpindleSpeed:   18000,
		SafeZ:          5,
		PassDepth:      6,
		CutThrough:     0.5,
		TabWidth:       8,
		TabHeight:      2,
		ClampClearance: 5,
	}
}

// Validate checks the settings that do not depend on the plan.
func (s Settings) Validate() error {
	switch {
	case s.FeedRate <= 0:
		return fmt.Errorf("%w: feed rate must be positive", ErrInvalidSettings)
	case s.PlungeRate <= 0:
		return fmt.Errorf("%w: plunge rate must be positive", ErrInvalidSettings)
	case s.SafeZ <= 0:
		return fmt.Errorf("%w: safe Z must be above the stock", ErrInvalidSettings)
	case s.PassDepth < 0, s.CutThrough < 0, s.ToolDiameter < 0:
		return fmt.Errorf("%w: negative depth or diameter", ErrInvalidSettings)
	case s.TabsPerSide < 0:
		return fmt.Errorf("%w: negative tab count", ErrInvalidSettings)
	case s.TabsPerSide > 0 && (s.TabWidth <= 0 || s.TabHeight <= 0):
		return fmt.Errorf("%w: tabs need a width and height", ErrInvalidSettings)
	}
	return nil
}

// toolDiameter resolves the cutter size for a sheet packed with kerf.
func (s Settings) toolDiameter(kerf int) (float64, error) {
	if kerf <= 0 {
		return 0, ErrNoKerf
	}
	d := s.ToolDiameter
	if d == 0 {
		d = float64(kerf)
	}
	if d > float64(kerf)+1e-9 {
		return 0, fmt.Errorf("%w: %.2fmm tool, %dmm kerf", ErrToolTooWide, d, kerf)
	}
	return d, nil
}

// Generator writes GCode for packed sheets.
type Generator struct {
	settings Settings
	profile  Profile
}

// New creates a generator for the given settings.
func New(settings Settings) *Generator {
	return &Generator{settings: settings, profile: GetProfile(settings.Profile)}
}

// Profile returns the controller dialect in use.
func (g *Generator) Profile() Profile {
	return g.profile
}

// Sheet generates the program for one sheet. Coordinates are machine
// coordinates: origin at the front-left corner of the sheet, Y away from
// the operator, Z zero at the top of the stock.
func (g *Generator) Sheet(sheet export.SheetView) (string, error) {
	if err := g.settings.Validate(); err != nil {
		return "", err
	}
	tool, err := g.settings.toolDiameter(sheet.Kerf)
	if err != nil {
		return "", err
	}

	w := &writer{profile: g.profile}
	g.writeHeader(w, sheet, tool)
	for _, p := range cutOrder(sheet) {
		g.writePiece(w, sheet, p, tool)
	}
	g.writeFooter(w)
	return w.String(), nil
}

func (g *Generator) writeHeader(w *writer, sheet export.SheetView, tool float64) {
	w.comment(fmt.Sprintf("cutplan %s sheet %d", sheet.Group, sheet.Number))
	w.comment(fmt.Sprintf("Stock %dx%dx%dmm, %d pieces", sheet.Width, sheet.Height, sheet.Thickness, len(sheet.Placements)))
	w.comment(fmt.Sprintf("Tool %smm, kerf %dmm, profile %s", w.num(tool), sheet.Kerf, g.profile.Name))
	for _, line := range g.profile.StartCode {
		w.line(line)
	}
	if g.settings.SpindleSpeed > 0 && g.profile.SpindleStart != "" {
		w.line(fmt.Sprintf(g.profile.SpindleStart, g.settings.SpindleSpeed))
	}
	w.rapidZ(g.settings.SafeZ)
}

func (g *Generator) writeFooter(w *writer) {
	if g.settings.SpindleSpeed > 0 && g.profile.SpindleStop != "" {
		w.line(g.profile.SpindleStop)
	}
	for _, line := range g.profile.EndCode {
		w.line(strings.ReplaceAll(line, "[SafeZ]", w.num(g.settings.SafeZ)))
	}
}

// writePiece cuts one panel clockwise, starting at its front-left corner,
// in as many passes as the pass depth needs.
func (g *Generator) writePiece(w *writer, sheet export.SheetView, p export.PieceView, tool float64) {
	r := tool / 2
	left := float64(p.X) - r
	right := float64(p.X+p.Width) + r
	front := float64(sheet.Height-p.Y-p.Height) - r
	back := float64(sheet.Height-p.Y) + r

	corners := [][2]float64{{left, front}, {left, back}, {right, back}, {right, front}, {left, front}}

	label := p.Label
	if label == "" {
		label = p.SpecID
	}
	w.comment(fmt.Sprintf("%s %s", label, p.Caption()))

	depth := float64(sheet.Thickness) + g.settings.CutThrough
	tabTop := -float64(sheet.Thickness) + g.settings.TabHeight

	w.rapidXY(left, front)
	for _, z := range passDepths(depth, g.settings.PassDepth) {
		w.feedZ(z, g.settings.PlungeRate)
		tabs := g.settings.TabsPerSide > 0 && z < tabTop
		for i := 1; i < len(corners); i++ {
			from, to := corners[i-1], corners[i]
			if tabs {
				g.edgeWithTabs(w, from, to, z, tabTop)
			} else {
				w.feedXY(to[0], to[1], g.settings.FeedRate)
			}
		}
	}
	w.rapidZ(g.settings.SafeZ)
}

// edgeWithTabs cuts from one corner to the next, lifting to tabTop over
// evenly spaced tabs. Edges too short for the tabs are cut plain.
func (g *Generator) edgeWithTabs(w *writer, from, to [2]float64, z, tabTop float64) {
	dx, dy := to[0]-from[0], to[1]-from[1]
	length := math.Hypot(dx, dy)
	n := g.settings.TabsPerSide
	half := g.settings.TabWidth / 2
	if length == 0 || float64(n)*g.settings.TabWidth >= length/2 {
		w.feedXY(to[0], to[1], g.settings.FeedRate)
		return
	}
	at := func(d float64) (float64, float64) {
		return from[0] + dx*d/length, from[1] + dy*d/length
	}
	for i := 1; i <= n; i++ {
		centre := length * float64(i) / float64(n+1)
		x, y := at(centre - half)
		w.feedXY(x, y, g.settings.FeedRate)
		w.feedZ(tabTop, g.settings.PlungeRate)
		x, y = at(centre + half)
		w.feedXY(x, y, g.settings.FeedRate)
		w.feedZ(z, g.settings.PlungeRate)
	}
	w.feedXY(to[0], to[1], g.settings.FeedRate)
}

// passDepths returns the Z level of each pass, ending exactly at -depth.
func passDepths(depth, step float64) []float64 {
	if step <= 0 || step >= depth {
		return []float64{-depth}
	}
	n := int(math.Ceil(depth/step - 1e-9))
	out := make([]float64, 0, n)
	for i := 1; i < n; i++ {
		out = append(out, -step*float64(i))
	}
	return append(out, -depth)
}

// cutOrder visits pieces nearest-first from the machine origin to keep
// rapid moves short.
func cutOrder(sheet export.SheetView) []export.PieceView {
	left := append([]export.PieceView(nil), sheet.Placements...)
	out := make([]export.PieceView, 0, len(left))
	cx, cy := 0.0, 0.0
	for len(left) > 0 {
		best, bestDist := 0, math.Inf(1)
		for i, p := range left {
			x := float64(p.X)
			y := float64(sheet.Height - p.Y - p.Height)
			if d := math.Hypot(x-cx, y-cy); d < bestDist {
				best, bestDist = i, d
			}
		}
		p := left[best]
		out = append(out, p)
		cx, cy = float64(p.X), float64(sheet.Height-p.Y-p.Height)
		left = append(left[:best], left[best+1:]...)
	}
	return out
}

// SheetFileName is the program file name for a sheet, e.g. "18mm_sheet_2.nc".
func SheetFileName(sheet export.SheetView) string {
	return fmt.Sprintf("%s_sheet_%d.nc", sheet.Group, sheet.Number)
}

// ExportGCode writes one program per sheet of the plan into dir and
// returns the paths written.
func ExportGCode(dir string, plan model.Plan, settings Settings) ([]string, error) {
	sheets := export.Sheets(plan)
	if len(sheets) == 0 {
		return nil, export.ErrNothingToExport
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	gen := New(settings)
	paths := make([]string, 0, len(sheets))
	for _, sheet := range sheets {
		code, err := gen.Sheet(sheet)
		if err != nil {
			return paths, fmt.Errorf("%s sheet %d: %w", sheet.Group, sheet.Number, err)
		}
		path := filepath.Join(dir, SheetFileName(sheet))
		if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// writer accumulates program lines and suppresses repeated feed words.
type writer struct {
	profile Profile
	sb      strings.Builder
	feed    float64
}

func (w *writer) String() string {
	return w.sb.String()
}

func (w *writer) line(s string) {
	w.sb.WriteString(s)
	w.sb.WriteByte('\n')
}

func (w *writer) comment(s string) {
	w.line(w.profile.CommentPrefix + " " + s + w.profile.CommentSuffix)
}

func (w *writer) num(v float64) string {
	if v == 0 {
		v = 0 // no "-0.000"
	}
	return fmt.Sprintf("%.*f", w.profile.DecimalPlaces, v)
}

func (w *writer) rapidXY(x, y float64) {
	w.line(fmt.Sprintf("%s X%s Y%s", w.profile.RapidMove, w.num(x), w.num(y)))
}

func (w *writer) rapidZ(z float64) {
	w.line(fmt.Sprintf("%s Z%s", w.profile.RapidMove, w.num(z)))
}

func (w *writer) feedXY(x, y, feed float64) {
	w.line(fmt.Sprintf("%s X%s Y%s%s", w.profile.FeedMove, w.num(x), w.num(y), w.feedWord(feed)))
}

func (w *writer) feedZ(z, feed float64) {
	w.line(fmt.Sprintf("%s Z%s%s", w.profile.FeedMove, w.num(z), w.feedWord(feed)))
}

func (w *writer) feedWord(feed float64) string {
	if feed == w.feed {
		return ""
	}
	w.feed = feed
	return fmt.Sprintf(" F%.0f", feed)
}
