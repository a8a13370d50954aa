package model

import "fmt"

// RectangleSpec is one physical panel to be cut. Quantities are expanded into
// repeated specs sharing Group and nominal size but each with its own ID.
type RectangleSpec struct {
	ID     string `json:"id"`
	Label  string `json:"label,omitempty"`
	Width  int    `json:"width"`  // mm
	Height int    `json:"height"` // mm
	Group  string `json:"group"`  // thickness key, e.g. "18mm"
}

// Area returns the nominal (un-padded) area.
func (r RectangleSpec) Area() int {
	return r.Width * r.Height
}

// Pad inflates the spec by the kerf allowance on both axes.
func (r RectangleSpec) Pad(kerf int, index int) PaddedRectangle {
	return PaddedRectangle{
		SpecID: r.ID,
		Index:  index,
		Width:  r.Width + kerf,
		Height: r.Height + kerf,
	}
}

// PaddedRectangle is a spec inflated by kerf, valid for a single packing run.
// Index is the position in the caller's input and breaks ordering ties.
type PaddedRectangle struct {
	SpecID string
	Index  int
	Width  int
	Height int
}

// Area returns the padded area.
func (p PaddedRectangle) Area() int {
	return p.Width * p.Height
}

// Fits reports whether the rectangle fits a w x h region, trying the swapped
// orientation only when rotation is allowed.
func (p PaddedRectangle) Fits(w, h int, allowRotation bool) bool {
	if p.Width <= w && p.Height <= h {
		return true
	}
	return allowRotation && p.Height <= w && p.Width <= h
}

// FreeRect is an axis-aligned free region on one sheet.
type FreeRect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Area returns the region area.
func (f FreeRect) Area() int {
	return f.Width * f.Height
}

// CanHold reports whether a w x h rectangle fits inside the region.
func (f FreeRect) CanHold(w, h int) bool {
	return f.Width >= w && f.Height >= h
}

// Contains reports whether other lies entirely within f.
func (f FreeRect) Contains(other FreeRect) bool {
	return other.X >= f.X && other.Y >= f.Y &&
		other.X+other.Width <= f.X+f.Width &&
		other.Y+other.Height <= f.Y+f.Height
}

// Overlaps reports whether the two regions share interior area (touching
// edges do not count).
func (f FreeRect) Overlaps(other FreeRect) bool {
	return f.X < other.X+other.Width && other.X < f.X+f.Width &&
		f.Y < other.Y+other.Height && other.Y < f.Y+f.Height
}

// Placement records where one padded rectangle landed.
type Placement struct {
	SpecID       string `json:"spec_id"`
	SheetIndex   int    `json:"sheet_index"`
	X            int    `json:"x"`             // mm from left edge
	Y            int    `json:"y"`             // mm from top edge
	PlacedWidth  int    `json:"placed_width"`  // padded, after rotation
	PlacedHeight int    `json:"placed_height"` // padded, after rotation
	Rotated      bool   `json:"rotated"`       // turned 90°
}

// Rect returns the occupied (kerf-inclusive) region.
func (p Placement) Rect() FreeRect {
	return FreeRect{X: p.X, Y: p.Y, Width: p.PlacedWidth, Height: p.PlacedHeight}
}

// Area returns the kerf-inclusive area.
func (p Placement) Area() int {
	return p.PlacedWidth * p.PlacedHeight
}

// CutSize returns the drawn size of the panel in its placed orientation,
// with the kerf allowance removed.
func (p Placement) CutSize(kerf int) (w, h int) {
	return p.PlacedWidth - kerf, p.PlacedHeight - kerf
}

// NominalSize returns the customer-visible panel size as it was entered.
func (p Placement) NominalSize(kerf int) (w, h int) {
	w, h = p.CutSize(kerf)
	if p.Rotated {
		return h, w
	}
	return w, h
}

// PackingResult is the outcome of packing one thickness group.
type PackingResult struct {
	Group       string      `json:"group"`
	SheetWidth  int         `json:"sheet_width"`
	SheetHeight int         `json:"sheet_height"`
	Kerf        int         `json:"kerf"`
	Placements  []Placement `json:"placements"`
	SheetCount  int         `json:"sheet_count"`
	Remnants    []Remnant   `json:"remnants,omitempty"`
}

// SheetArea returns the area of one stock sheet.
func (r PackingResult) SheetArea() int {
	return r.SheetWidth * r.SheetHeight
}

// Sheet returns the placements on the given sheet, in insertion order.
func (r PackingResult) Sheet(index int) []Placement {
	var out []Placement
	for _, p := range r.Placements {
		if p.SheetIndex == index {
			out = append(out, p)
		}
	}
	return out
}

// Sheets groups placements by sheet index.
func (r PackingResult) Sheets() [][]Placement {
	sheets := make([][]Placement, r.SheetCount)
	for _, p := range r.Placements {
		sheets[p.SheetIndex] = append(sheets[p.SheetIndex], p)
	}
	return sheets
}

// Piece is one line of the cut list: a size and how many to cut.
type Piece struct {
	Label    string `json:"label,omitempty"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Quantity int    `json:"quantity"`
}

// NewPiece creates a piece with the given dimensions.
func NewPiece(label string, w, h, qty int) Piece {
	return Piece{Label: label, Width: w, Height: h, Quantity: qty}
}

// StockSheet is the stock panel size used for one thickness group.
type StockSheet struct {
	Name   string `json:"name,omitempty"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// GroupInput holds the pieces to cut from one material thickness.
type GroupInput struct {
	Thickness int        `json:"thickness"` // mm
	Sheet     StockSheet `json:"sheet"`
	Color     string     `json:"color,omitempty"` // hex, e.g. "#6699ff"
	Pieces    []Piece    `json:"pieces"`
}

// Key returns the group key used to tag rectangle specs.
func (g GroupInput) Key() string {
	return fmt.Sprintf("%dmm", g.Thickness)
}

// PieceCount returns the number of physical panels after quantity expansion.
func (g GroupInput) PieceCount() int {
	n := 0
	for _, p := range g.Pieces {
		n += p.Quantity
	}
	return n
}

// Expand turns the cut list into one RectangleSpec per physical panel.
// IDs are "<group>-<n>" with n counting from 1 in input order.
func (g GroupInput) Expand() []RectangleSpec {
	key := g.Key()
	specs := make([]RectangleSpec, 0, g.PieceCount())
	for _, p := range g.Pieces {
		for i := 0; i < p.Quantity; i++ {
			specs = append(specs, RectangleSpec{
				ID:     fmt.Sprintf("%s-%d", key, len(specs)+1),
				Label:  p.Label,
				Width:  p.Width,
				Height: p.Height,
				Group:  key,
			})
		}
	}
	return specs
}

// DefaultMaxSheets bounds the sheets opened for one group.
const DefaultMaxSheets = 100

// DefaultMaxAttempts is the floor of the placement attempt ceiling when
// CutSettings.MaxAttempts is unset.
const DefaultMaxAttempts = 1_000_000

// MaxKerf is the largest blade thickness accepted from user input.
const MaxKerf = 10

// CutSettings holds the run configuration shared by every group.
type CutSettings struct {
	Kerf          int  `json:"kerf"`           // blade width in mm
	AllowRotation bool `json:"allow_rotation"` // permit 90° turns
	MaxSheets     int  `json:"max_sheets"`     // per group; <= 0 uses DefaultMaxSheets
	MaxAttempts   int  `json:"max_attempts"`   // per group; <= 0 scales with the job, see AttemptLimit
	Workers       int  `json:"workers"`        // concurrent groups; <= 0 means GOMAXPROCS
}

func DefaultSettings() CutSettings {
	return CutSettings{
		Kerf:          3,
		AllowRotation: true,
		MaxSheets:     DefaultMaxSheets,
	}
}

// SheetLimit returns the effective sheet ceiling.
func (s CutSettings) SheetLimit() int {
	if s.MaxSheets <= 0 {
		return DefaultMaxSheets
	}
	return s.MaxSheets
}

// AttemptLimit returns the effective placement attempt ceiling for a group
// of n rectangles. An explicit MaxAttempts wins. Otherwise the ceiling is
// large enough for every rectangle to try every sheet the sheet limit
// allows plus a fresh one, and never below DefaultMaxAttempts, so only the
// sheet limit can stop a job that fits.
func (s CutSettings) AttemptLimit(n int) int {
	if s.MaxAttempts > 0 {
		return s.MaxAttempts
	}
	return max(DefaultMaxAttempts, n*(s.SheetLimit()+1))
}

// Job ties a cut list together for save/load and for one planning run.
type Job struct {
	Name     string       `json:"name"`
	Settings CutSettings  `json:"settings"`
	Groups   []GroupInput `json:"groups"`
}

func NewJob() Job {
	return Job{
		Name:     "Untitled",
		Settings: DefaultSettings(),
		Groups:   []GroupInput{},
	}
}

// TotalPieces returns the number of physical panels across all groups.
func (j Job) TotalPieces() int {
	n := 0
	for _, g := range j.Groups {
		n += g.PieceCount()
	}
	return n
}
