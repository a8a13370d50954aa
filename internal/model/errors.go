package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimension marks input rejected before packing starts.
	ErrInvalidDimension = errors.New("invalid dimension")
	// ErrUnplaceable marks a rectangle that exceeds the sheet in every allowed orientation.
	ErrUnplaceable = errors.New("unplaceable rectangle")
	// ErrSheetLimit marks a run that hit the sheet ceiling with pieces left over.
	ErrSheetLimit = errors.New("sheet limit exceeded")
	// ErrAttemptLimit marks a run that hit the placement attempt ceiling.
	ErrAttemptLimit = errors.New("placement attempt limit exceeded")
	// ErrDuplicateGroup marks two groups with the same thickness in one job.
	ErrDuplicateGroup = errors.New("duplicate thickness group")
)

// DimensionError reports a zero or negative size, quantity or kerf.
type DimensionError struct {
	Group string // empty for job-level fields
	Field string // e.g. "kerf", "sheet.width", "pieces[2].height"
	Value int
}

func (e *DimensionError) Error() string {
	if e.Group == "" {
		return fmt.Sprintf("invalid dimension: %s = %d", e.Field, e.Value)
	}
	return fmt.Sprintf("invalid dimension: %s %s = %d", e.Group, e.Field, e.Value)
}

func (e *DimensionError) Is(target error) bool { return target == ErrInvalidDimension }

// UnplaceableError names the panel that can never fit the stock sheet.
type UnplaceableError struct {
	SpecID      string
	Width       int // padded
	Height      int // padded
	SheetWidth  int
	SheetHeight int
}

func (e *UnplaceableError) Error() string {
	return fmt.Sprintf("unplaceable rectangle %s: %dx%d does not fit sheet %dx%d",
		e.SpecID, e.Width, e.Height, e.SheetWidth, e.SheetHeight)
}

func (e *UnplaceableError) Is(target error) bool { return target == ErrUnplaceable }

// SheetLimitError reports how many panels were left when the ceiling was hit.
type SheetLimitError struct {
	Limit    int
	Unplaced int
}

func (e *SheetLimitError) Error() string {
	return fmt.Sprintf("sheet limit exceeded: %d sheets used, %d rectangles unplaced", e.Limit, e.Unplaced)
}

func (e *SheetLimitError) Is(target error) bool { return target == ErrSheetLimit }

// AttemptLimitError reports how many panels were left when the attempt budget ran out.
type AttemptLimitError struct {
	Limit    int
	Unplaced int
}

func (e *AttemptLimitError) Error() string {
	return fmt.Sprintf("placement attempt limit exceeded: %d attempts, %d rectangles unplaced", e.Limit, e.Unplaced)
}

func (e *AttemptLimitError) Is(target error) bool { return target == ErrAttemptLimit }

// Validate checks the job for values the packer must never see.
func (j Job) Validate() error {
	if j.Settings.Kerf < 0 {
		return &DimensionError{Field: "kerf", Value: j.Settings.Kerf}
	}
	seen := make(map[int]bool, len(j.Groups))
	for _, g := range j.Groups {
		if err := g.Validate(); err != nil {
			return err
		}
		if seen[g.Thickness] {
			return fmt.Errorf("%w: %s", ErrDuplicateGroup, g.Key())
		}
		seen[g.Thickness] = true
	}
	return nil
}

// Validate checks one group's sheet and pieces.
func (g GroupInput) Validate() error {
	key := g.Key()
	if g.Thickness <= 0 {
		return &DimensionError{Group: key, Field: "thickness", Value: g.Thickness}
	}
	if g.Sheet.Width <= 0 {
		return &DimensionError{Group: key, Field: "sheet.width", Value: g.Sheet.Width}
	}
	if g.Sheet.Height <= 0 {
		return &DimensionError{Group: key, Field: "sheet.height", Value: g.Sheet.Height}
	}
	for i, p := range g.Pieces {
		switch {
		case p.Width <= 0:
			return &DimensionError{Group: key, Field: fmt.Sprintf("pieces[%d].width", i), Value: p.Width}
		case p.Height <= 0:
			return &DimensionError{Group: key, Field: fmt.Sprintf("pieces[%d].height", i), Value: p.Height}
		case p.Quantity <= 0:
			return &DimensionError{Group: key, Field: fmt.Sprintf("pieces[%d].quantity", i), Value: p.Quantity}
		}
	}
	return nil
}
