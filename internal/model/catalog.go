package model

import "strings"

// StockPreset is a named, commonly stocked sheet size.
type StockPreset struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Sheet converts the preset into the stock sheet a group packs onto.
func (p StockPreset) Sheet() StockSheet {
	return StockSheet{Name: p.Name, Width: p.Width, Height: p.Height}
}

// StandardSheets lists the plywood sizes offered by default.
var StandardSheets = []StockPreset{
	{ID: "8x4", Name: "8x4 ft (2440×1220)", Width: 1220, Height: 2440},
	{ID: "6x3", Name: "6x3 ft (1830×915)", Width: 915, Height: 1830},
	{ID: "7x3", Name: "7x3 ft (2135×915)", Width: 915, Height: 2135},
	{ID: "4x4", Name: "4x4 ft (1220×1220)", Width: 1220, Height: 1220},
}

// DefaultSheet is the preset used when a group names none.
func DefaultSheet() StockPreset {
	return StandardSheets[0]
}

// FindSheet looks a preset up by ID or full name, case-insensitively.
func FindSheet(key string) (StockPreset, bool) {
	key = strings.TrimSpace(key)
	for _, p := range StandardSheets {
		if strings.EqualFold(p.ID, key) || strings.EqualFold(p.Name, key) {
			return p, true
		}
	}
	return StockPreset{}, false
}

// StandardThicknesses are the panel thicknesses the plan form offers.
var StandardThicknesses = []int{6, 12, 18}

// thicknessColors mirrors the legend colours of the printed plan.
var thicknessColors = map[int]string{
	6:  "#ff6666",
	12: "#66cc66",
	18: "#6699ff",
}

// fallbackColors is used for thicknesses without a fixed colour.
var fallbackColors = []string{
	"#4caf50", // green
	"#2196f3", // blue
	"#ff9800", // orange
	"#9c27b0", // purple
	"#00bcd4", // cyan
	"#f44336", // red
	"#ffeb3b", // yellow
	"#795548", // brown
}

// ThicknessColor returns the display colour for a thickness.
func ThicknessColor(thickness int) string {
	if c, ok := thicknessColors[thickness]; ok {
		return c
	}
	if thickness < 0 {
		thickness = -thickness
	}
	return fallbackColors[thickness%len(fallbackColors)]
}

// DisplayColor returns the group's explicit colour or its thickness default.
func (g GroupInput) DisplayColor() string {
	if g.Color != "" {
		return g.Color
	}
	return ThicknessColor(g.Thickness)
}
