package importer

import (
	"fmt"
	"math"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/cutplan/internal/model"
)

// point is a drawing coordinate in millimetres.
type point struct{ x, y float64 }

// segment is one LINE entity, chained with others into closed outlines.
type segment struct{ start, end point }

// bounds is an axis-aligned bounding box.
type bounds struct{ minX, minY, maxX, maxY float64 }

func newBounds(pts []point) bounds {
	b := bounds{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
	for _, p := range pts {
		b.minX = math.Min(b.minX, p.x)
		b.minY = math.Min(b.minY, p.y)
		b.maxX = math.Max(b.maxX, p.x)
		b.maxY = math.Max(b.maxY, p.y)
	}
	return b
}

func (b bounds) size() (int, int) {
	return int(math.Round(b.maxX - b.minX)), int(math.Round(b.maxY - b.minY))
}

// ImportDXF reads panel outlines from a DXF drawing. Each closed
// LWPOLYLINE, CIRCLE or chain of LINEs becomes one piece the size of its
// bounding box; identical sizes are merged into one line with a quantity.
// Shapes that are not axis-aligned rectangles are imported as their
// bounding box with a warning.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var outlines [][]point
	var segments []segment
	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			if len(e.Vertices) < 3 {
				result.Warnings = append(result.Warnings, "Skipped LWPOLYLINE with fewer than 3 vertices")
				continue
			}
			pts := make([]point, len(e.Vertices))
			for i, v := range e.Vertices {
				pts[i] = point{v[0], v[1]}
			}
			outlines = append(outlines, pts)

		case *entity.Circle:
			cx, cy, r := e.Center[0], e.Center[1], e.Radius
			outlines = append(outlines, []point{{cx - r, cy - r}, {cx + r, cy - r}, {cx + r, cy + r}, {cx - r, cy + r}})
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Circle of radius %.1fmm imported as its bounding square", r))

		case *entity.Line:
			segments = append(segments, segment{
				start: point{e.Start[0], e.Start[1]},
				end:   point{e.End[0], e.End[1]},
			})
		}
	}
	outlines = append(outlines, chainSegments(segments, 0.01)...)

	if len(outlines) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	merged := make(map[[2]int]int)
	for n, outline := range outlines {
		w, h := newBounds(outline).size()
		if w <= 0 || h <= 0 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped degenerate shape (%d x %d mm)", w, h))
			continue
		}
		if !isRectangle(outline) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Shape %d is not a rectangle, using its %dx%d bounding box", n+1, w, h))
		}

		key := [2]int{w, h}
		if i, ok := merged[key]; ok {
			result.Pieces[i].Quantity++
			continue
		}
		merged[key] = len(result.Pieces)
		result.Pieces = append(result.Pieces, ImportedPiece{
			Piece: model.NewPiece(fmt.Sprintf("DXF %dx%d", w, h), w, h, 1),
		})
	}

	return result
}

// isRectangle reports whether the outline has four vertices, each on a
// different corner of its bounding box.
func isRectangle(o []point) bool {
	if len(o) != 4 {
		return false
	}
	b := newBounds(o)
	const tol = 0.01
	near := func(a, b float64) bool { return math.Abs(a-b) <= tol }
	corners := make(map[[2]bool]bool, 4)
	for _, p := range o {
		if !(near(p.x, b.minX) || near(p.x, b.maxX)) || !(near(p.y, b.minY) || near(p.y, b.maxY)) {
			return false
		}
		corners[[2]bool{near(p.x, b.maxX), near(p.y, b.maxY)}] = true
	}
	return len(corners) == 4
}

// chainSegments connects loose segments end to end and returns the chains
// that close on themselves.
func chainSegments(segs []segment, tolerance float64) [][]point {
	used := make([]bool, len(segs))
	var outlines [][]point

	for start := range segs {
		if used[start] {
			continue
		}
		used[start] = true
		chain := []point{segs[start].start, segs[start].end}

		for extended := true; extended; {
			extended = false
			tail := chain[len(chain)-1]
			for i, seg := range segs {
				if used[i] {
					continue
				}
				switch {
				case pointsClose(tail, seg.start, tolerance):
					chain = append(chain, seg.end)
				case pointsClose(tail, seg.end, tolerance):
					chain = append(chain, seg.start)
				default:
					continue
				}
				used[i] = true
				extended = true
				break
			}
		}

		if len(chain) >= 4 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			outlines = append(outlines, chain[:len(chain)-1])
		}
	}
	return outlines
}

func pointsClose(a, b point, tolerance float64) bool {
	return math.Hypot(a.x-b.x, a.y-b.y) <= tolerance
}
