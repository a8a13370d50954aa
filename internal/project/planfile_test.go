package project

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/cutplan/internal/engine"
	"github.com/piwi3910/cutplan/internal/model"
)

func TestSaveAndLoadPlan(t *testing.T) {
	groups := []model.GroupInput{
		{Thickness: 18, Sheet: model.DefaultSheet().Sheet(), Pieces: []model.Piece{model.NewPiece("Side", 720, 560, 3)}},
		{Thickness: 6, Sheet: model.DefaultSheet().Sheet(), Pieces: []model.Piece{model.NewPiece("Huge", 5000, 5000, 1)}},
	}
	plan, _ := engine.New(model.DefaultSettings()).Plan(context.Background(), groups)

	path := filepath.Join(t.TempDir(), "out", "plan.json")
	if err := SavePlan(path, plan); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}

	file, err := LoadPlan(path)
	if err != nil {
		t.Fatalf("LoadPlan failed: %v", err)
	}
	if file.Version != PlanFormatVersion || file.CreatedAt == "" {
		t.Errorf("unexpected header: %+v", file)
	}

	loaded := file.Plan
	if loaded.ID != plan.ID {
		t.Errorf("expected id %s, got %s", plan.ID, loaded.ID)
	}
	if !loaded.Groups[0].OK() {
		t.Error("expected the 18mm group to survive the round trip")
	}
	if loaded.Groups[1].OK() || loaded.Groups[1].Error == "" || loaded.Groups[1].Err == nil {
		t.Error("expected the 6mm failure to be restored")
	}
	if loaded.TotalPieces() != 3 {
		t.Errorf("expected 3 pieces, got %d", loaded.TotalPieces())
	}
}

func TestLoadPlanErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadPlan(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	noVersion := filepath.Join(dir, "noversion.json")
	if err := os.WriteFile(noVersion, []byte(`{"plan": {}}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPlan(noVersion); err == nil {
		t.Error("expected error for missing version")
	}
}

func TestLoadPlan_SheetIndexOutOfRange(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"index past count": `{"version": "1.0.0", "plan": {"groups": [{"group": "18mm", "summary": {},
			"result": {"sheet_count": 1, "placements": [{"spec_id": "18mm-1", "sheet_index": 1}]}}]}}`,
		"negative index": `{"version": "1.0.0", "plan": {"groups": [{"group": "18mm", "summary": {},
			"result": {"sheet_count": 1, "placements": [{"spec_id": "18mm-1", "sheet_index": -1}]}}]}}`,
		"no summary": `{"version": "1.0.0", "plan": {"groups": [{"group": "18mm",
			"result": {"sheet_count": 1, "placements": [{"spec_id": "18mm-1", "sheet_index": 0}]}}]}}`,
	}
	for name, body := range tests {
		path := filepath.Join(dir, "plan.json")
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadPlan(path); !errors.Is(err, ErrInvalidPlanFile) {
			t.Errorf("%s: expected ErrInvalidPlanFile, got %v", name, err)
		}
	}
}
