package gcode

import (
	"fmt"
	"math"
	"strings"

	"github.com/piwi3910/cutplan/internal/export"
	"github.com/piwi3910/cutplan/internal/model"
)

// ClampZone is a rectangle on the machine bed occupied by a clamp or hold
// down, in machine coordinates relative to the sheet's front-left corner.
type ClampZone struct {
	Label  string  `json:"label"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Collision is a piece whose toolpath passes too close to a clamp.
type Collision struct {
	Group    string
	Sheet    int // 1-based
	Piece    string
	Zone     string
	Distance float64 // closest approach of the cutter edge, 0 when it overlaps
}

type box struct {
	minX, minY, maxX, maxY float64
}

func (z ClampZone) box() box {
	return box{z.X, z.Y, z.X + z.Width, z.Y + z.Height}
}

// gap is the distance between two boxes, 0 when they touch or overlap.
func gap(a, b box) float64 {
	dx := math.Max(0, math.Max(a.minX-b.maxX, b.minX-a.maxX))
	dy := math.Max(0, math.Max(a.minY-b.maxY, b.minY-a.maxY))
	return math.Hypot(dx, dy)
}

// toolEdges returns the four sides of the cutter-centre path around a
// piece, each as a degenerate box.
func toolEdges(sheet export.SheetView, p export.PieceView, r float64) []box {
	left := float64(p.X) - r
	right := float64(p.X+p.Width) + r
	front := float64(sheet.Height-p.Y-p.Height) - r
	back := float64(sheet.Height-p.Y) + r
	return []box{
		{left, front, left, back},
		{left, back, right, back},
		{right, front, right, back},
		{left, front, right, front},
	}
}

// CheckSheet lists the pieces on a sheet whose cutter comes within the
// clamp clearance of any clamp zone. Each piece and zone pair is reported
// once at its closest approach.
func CheckSheet(sheet export.SheetView, settings Settings) ([]Collision, error) {
	if len(settings.ClampZones) == 0 {
		return nil, nil
	}
	tool, err := settings.toolDiameter(sheet.Kerf)
	if err != nil {
		return nil, err
	}
	r := tool / 2

	var out []Collision
	for _, p := range sheet.Placements {
		edges := toolEdges(sheet, p, r)
		for _, z := range settings.ClampZones {
			closest := math.Inf(1)
			for _, e := range edges {
				closest = math.Min(closest, gap(e, z.box()))
			}
			// closest is measured from the cutter centre
			clearance := math.Max(0, closest-r)
			if clearance >= settings.ClampClearance && closest > r {
				continue
			}
			label := p.Label
			if label == "" {
				label = p.SpecID
			}
			out = append(out, Collision{
				Group:    sheet.Group,
				Sheet:    sheet.Number,
				Piece:    label,
				Zone:     z.Label,
				Distance: clearance,
			})
		}
	}
	return out, nil
}

// CheckPlan runs CheckSheet over every packed sheet of a plan.
func CheckPlan(plan model.Plan, settings Settings) ([]Collision, error) {
	var out []Collision
	for _, sheet := range export.Sheets(plan) {
		c, err := CheckSheet(sheet, settings)
		if err != nil {
			return out, fmt.Errorf("%s sheet %d: %w", sheet.Group, sheet.Number, err)
		}
		out = append(out, c...)
	}
	return out, nil
}

// FormatCollisionWarnings renders collisions as one warning per line.
func FormatCollisionWarnings(collisions []Collision) string {
	if len(collisions) == 0 {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d clamp collision warning(s):\n", len(collisions))
	for _, c := range collisions {
		zone := c.Zone
		if zone == "" {
			zone = "clamp"
		}
		if c.Distance == 0 {
			fmt.Fprintf(&sb, "  %s sheet %d: %s cuts into %s\n", c.Group, c.Sheet, c.Piece, zone)
			continue
		}
		fmt.Fprintf(&sb, "  %s sheet %d: %s passes %.1fmm from %s\n", c.Group, c.Sheet, c.Piece, c.Distance, zone)
	}
	return sb.String()
}
