package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/cutplan/internal/model"
)

// PlanFormatVersion is written into every saved plan.
const PlanFormatVersion = "1.0.0"

// ErrInvalidPlanFile marks a plan file that parses but cannot be rendered.
var ErrInvalidPlanFile = errors.New("invalid plan file")

// PlanFile is the on-disk form of a finished plan.
type PlanFile struct {
	Version   string     `json:"version"`
	CreatedAt string     `json:"created_at"`
	Plan      model.Plan `json:"plan"`
}

// SavePlan writes a plan with a version stamp so it can be reopened for
// export without packing again.
func SavePlan(path string, plan model.Plan) error {
	file := PlanFile{
		Version:   PlanFormatVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Plan:      plan,
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create plan directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write plan file: %w", err)
	}
	return nil
}

// LoadPlan reads a plan saved by SavePlan.
func LoadPlan(path string) (PlanFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PlanFile{}, fmt.Errorf("failed to read plan file: %w", err)
	}
	var file PlanFile
	if err := json.Unmarshal(data, &file); err != nil {
		return PlanFile{}, fmt.Errorf("failed to parse plan file: %w", err)
	}
	if file.Version == "" {
		return PlanFile{}, fmt.Errorf("%w: missing version field", ErrInvalidPlanFile)
	}
	if err := checkPlan(&file.Plan); err != nil {
		return PlanFile{}, err
	}
	return file, nil
}

// checkPlan rejects files whose placements point past their sheet count,
// and restores the error of failed groups so they stay failed.
func checkPlan(plan *model.Plan) error {
	for i := range plan.Groups {
		g := &plan.Groups[i]
		if g.Error != "" {
			g.Err = errors.New(g.Error)
			continue
		}
		if g.Result == nil {
			continue
		}
		if g.Summary == nil {
			return fmt.Errorf("%w: group %s has placements but no summary", ErrInvalidPlanFile, g.Group)
		}
		if g.Result.SheetCount < 0 {
			return fmt.Errorf("%w: group %s has sheet count %d", ErrInvalidPlanFile, g.Group, g.Result.SheetCount)
		}
		for _, p := range g.Result.Placements {
			if p.SheetIndex < 0 || p.SheetIndex >= g.Result.SheetCount {
				return fmt.Errorf("%w: group %s piece %s on sheet %d of %d",
					ErrInvalidPlanFile, g.Group, p.SpecID, p.SheetIndex, g.Result.SheetCount)
			}
		}
	}
	return nil
}
