package model

import "sort"

// Remnant is a usable rectangular offcut left on a sheet after cutting.
type Remnant struct {
	SheetIndex int `json:"sheet_index"`
	X          int `json:"x"`      // mm from left
	Y          int `json:"y"`      // mm from top
	Width      int `json:"width"`  // mm
	Height     int `json:"height"` // mm
}

// Area returns the remnant area in mm².
func (r Remnant) Area() int {
	return r.Width * r.Height
}

// MinRemnantDimension is the minimum width or height (in mm) for leftover
// space to count as a reusable offcut. Anything smaller is waste.
const MinRemnantDimension = 50

// MinRemnantArea is the minimum area (in mm²) for a usable offcut.
const MinRemnantArea = 10000 // 100mm x 100mm equivalent

// IsUsable reports whether the region is large enough to keep.
func IsUsable(f FreeRect) bool {
	return f.Width >= MinRemnantDimension && f.Height >= MinRemnantDimension && f.Area() >= MinRemnantArea
}

// DetectRemnants turns a sheet's leftover free space into usable offcuts,
// largest first. Ties keep top-left ordering so output is stable.
func DetectRemnants(free []FreeRect, sheetIndex int) []Remnant {
	var out []Remnant
	for _, f := range free {
		if !IsUsable(f) {
			continue
		}
		out = append(out, Remnant{
			SheetIndex: sheetIndex,
			X:          f.X,
			Y:          f.Y,
			Width:      f.Width,
			Height:     f.Height,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Area() != out[j].Area() {
			return out[i].Area() > out[j].Area()
		}
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// TotalRemnantArea returns the total area of all remnants in mm².
func TotalRemnantArea(remnants []Remnant) int {
	total := 0
	for _, r := range remnants {
		total += r.Area()
	}
	return total
}
