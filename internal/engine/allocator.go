package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/piwi3910/cutplan/internal/model"
)

// SheetAllocator packs rectangles onto as few fixed-size sheets as it can,
// opening a new sheet only when no open sheet admits the next rectangle.
type SheetAllocator struct {
	SheetWidth    int
	SheetHeight   int
	AllowRotation bool
	MaxSheets     int
	MaxAttempts   int // <= 0 scales with the number of rectangles
}

// NewSheetAllocator creates an allocator for one stock sheet size.
func NewSheetAllocator(sheetWidth, sheetHeight int, settings model.CutSettings) *SheetAllocator {
	return &SheetAllocator{
		SheetWidth:    sheetWidth,
		SheetHeight:   sheetHeight,
		AllowRotation: settings.AllowRotation,
		MaxSheets:     settings.SheetLimit(),
		MaxAttempts:   settings.MaxAttempts,
	}
}

// packOrder sorts rectangles by padded area, largest first, keeping input
// order for equal areas.
func packOrder(rects []model.PaddedRectangle) []model.PaddedRectangle {
	order := make([]model.PaddedRectangle, len(rects))
	copy(order, rects)
	sort.SliceStable(order, func(i, j int) bool {
		ai, aj := order[i].Area(), order[j].Area()
		if ai != aj {
			return ai > aj
		}
		return order[i].Index < order[j].Index
	})
	return order
}

// Pack places every rectangle or returns an error naming why it could not.
// The output depends only on the input; identical input yields identical
// placements.
func (a *SheetAllocator) Pack(ctx context.Context, rects []model.PaddedRectangle) (model.PackingResult, error) {
	result := model.PackingResult{
		SheetWidth:  a.SheetWidth,
		SheetHeight: a.SheetHeight,
		Placements:  make([]model.Placement, 0, len(rects)),
	}

	if a.SheetWidth <= 0 {
		return result, &model.DimensionError{Field: "sheet.width", Value: a.SheetWidth}
	}
	if a.SheetHeight <= 0 {
		return result, &model.DimensionError{Field: "sheet.height", Value: a.SheetHeight}
	}

	// Reject impossible rectangles before opening a single sheet.
	for _, r := range rects {
		if r.Width <= 0 || r.Height <= 0 {
			return result, &model.DimensionError{Field: r.SpecID, Value: min(r.Width, r.Height)}
		}
		if !r.Fits(a.SheetWidth, a.SheetHeight, a.AllowRotation) {
			return result, a.unplaceable(r)
		}
	}

	maxSheets := a.MaxSheets
	if maxSheets <= 0 {
		maxSheets = model.DefaultMaxSheets
	}
	maxAttempts := model.CutSettings{MaxSheets: maxSheets, MaxAttempts: a.MaxAttempts}.AttemptLimit(len(rects))

	order := packOrder(rects)
	var sheets []*FreeRectangleSet
	attempts := 0

	for i, r := range order {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("packing cancelled with %d rectangles unplaced: %w", len(order)-i, err)
		}

		placed := false
		for idx, sheet := range sheets {
			if attempts >= maxAttempts {
				return result, &model.AttemptLimitError{Limit: maxAttempts, Unplaced: len(order) - i}
			}
			attempts++

			c, ok := TryPlace(r, sheet, a.AllowRotation)
			if !ok {
				continue
			}
			if err := a.commit(&result, sheet, idx, r, c); err != nil {
				return result, err
			}
			placed = true
			break
		}
		if placed {
			continue
		}

		if len(sheets) >= maxSheets {
			return result, &model.SheetLimitError{Limit: maxSheets, Unplaced: len(order) - i}
		}
		if attempts >= maxAttempts {
			return result, &model.AttemptLimitError{Limit: maxAttempts, Unplaced: len(order) - i}
		}
		attempts++

		sheet := NewFreeRectangleSet(a.SheetWidth, a.SheetHeight)
		c, ok := TryPlace(r, sheet, a.AllowRotation)
		if !ok {
			return result, a.unplaceable(r)
		}
		sheets = append(sheets, sheet)
		if err := a.commit(&result, sheet, len(sheets)-1, r, c); err != nil {
			return result, err
		}
	}

	result.SheetCount = len(sheets)
	for idx, sheet := range sheets {
		result.Remnants = append(result.Remnants, model.DetectRemnants(sheet.Rects(), idx)...)
	}
	return result, nil
}

// commit records the placement and splits the sheet's free space.
func (a *SheetAllocator) commit(result *model.PackingResult, sheet *FreeRectangleSet, sheetIndex int, r model.PaddedRectangle, c Candidate) error {
	if err := sheet.Place(c.Free, c.Width, c.Height); err != nil {
		return fmt.Errorf("placing %s: %w", r.SpecID, err)
	}
	result.Placements = append(result.Placements, model.Placement{
		SpecID:       r.SpecID,
		SheetIndex:   sheetIndex,
		X:            c.X(),
		Y:            c.Y(),
		PlacedWidth:  c.Width,
		PlacedHeight: c.Height,
		Rotated:      c.Rotated,
	})
	return nil
}

func (a *SheetAllocator) unplaceable(r model.PaddedRectangle) error {
	return &model.UnplaceableError{
		SpecID:      r.SpecID,
		Width:       r.Width,
		Height:      r.Height,
		SheetWidth:  a.SheetWidth,
		SheetHeight: a.SheetHeight,
	}
}
