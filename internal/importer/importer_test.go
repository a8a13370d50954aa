package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/cutplan/internal/model"
	"github.com/xuri/excelize/v2"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter(t *testing.T) {
	tests := []struct {
		name string
		data string
		want rune
	}{
		{"comma", "Label,Width,Height,Qty\nShelf,600,300,2\nDoor,400,800,1\n", ','},
		{"semicolon", "Label;Width;Height;Qty\nShelf;600;300;2\nDoor;400;800;1\n", ';'},
		{"tab", "Label\tWidth\tHeight\tQty\nShelf\t600\t300\t2\n", '\t'},
		{"pipe", "Label|Width|Height|Qty\nShelf|600|300|2\n", '|'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectCSVDelimiter([]byte(tt.data)); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Label", "Width", "Height", "Quantity", "Thickness"})

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	want := ColumnMapping{Label: 0, Width: 1, Height: 2, Quantity: 3, Thickness: 4}
	if mapping != want {
		t.Errorf("expected %+v, got %+v", want, mapping)
	}
}

func TestDetectColumns_AliasesAndOrder(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"THK", "Qty", "H", "W", "Name"})

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	want := ColumnMapping{Label: 4, Width: 3, Height: 2, Quantity: 1, Thickness: 0}
	if mapping != want {
		t.Errorf("expected %+v, got %+v", want, mapping)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Shelf", "600", "300", "2"})

	if isHeader {
		t.Error("expected no header")
	}
	if mapping.Label != 0 || mapping.Width != 1 || mapping.Height != 2 || mapping.Quantity != 3 || mapping.Thickness != 4 {
		t.Errorf("expected positional mapping, got %+v", mapping)
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func TestImportCSVFromReader_WithHeaders(t *testing.T) {
	data := "Label,Width,Height,Quantity,Thickness\nShelf,600,300,2,18\nBack,400,800,1,6mm\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Pieces) != 2 {
		t.Fatalf("expected 2 pieces, got %d", len(result.Pieces))
	}

	p := result.Pieces[0]
	if p.Label != "Shelf" || p.Width != 600 || p.Height != 300 || p.Quantity != 2 || p.Thickness != 18 {
		t.Errorf("unexpected first piece: %+v", p)
	}
	if result.Pieces[1].Thickness != 6 {
		t.Errorf("expected thickness 6 from '6mm', got %d", result.Pieces[1].Thickness)
	}
}

func TestImportCSVFromReader_WithoutHeaders(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Shelf,600,300,2\nDoor,400,800,1,12\n"), ',')

	if len(result.Pieces) != 2 {
		t.Fatalf("expected 2 pieces, got %d (errors: %v)", len(result.Pieces), result.Errors)
	}
	if result.Pieces[0].Thickness != 0 {
		t.Errorf("expected no thickness, got %d", result.Pieces[0].Thickness)
	}
	if result.Pieces[1].Thickness != 12 {
		t.Errorf("expected thickness 12, got %d", result.Pieces[1].Thickness)
	}
}

func TestImportCSVFromReader_UnrecognisedHeaderSkipped(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Teil,Breite,Hoehe,Anzahl\nShelf,600,300,2\n"), ',')

	if len(result.Pieces) != 1 {
		t.Fatalf("expected 1 piece, got %d (errors: %v)", len(result.Pieces), result.Errors)
	}
}

func TestImportCSVFromReader_RowErrors(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{"invalid width", "Shelf,abc,300,2"},
		{"missing height", "Shelf,600,,2"},
		{"invalid quantity", "Shelf,600,300,abc"},
		{"negative width", "Shelf,-600,300,2"},
		{"zero quantity", "Shelf,600,300,0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ImportCSVFromReader(strings.NewReader("Label,Width,Height,Quantity\n"+tt.row+"\n"), ',')
			if len(result.Errors) != 1 {
				t.Errorf("expected 1 error, got %v", result.Errors)
			}
			if len(result.Pieces) != 0 {
				t.Errorf("expected 0 pieces, got %d", len(result.Pieces))
			}
		})
	}
}

func TestImportCSVFromReader_MixedValidAndInvalid(t *testing.T) {
	data := "Label,Width,Height,Quantity\nGood,600,300,2\nBad,abc,300,2\n\n\nAlsoGood,400,200,1\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Pieces) != 2 {
		t.Errorf("expected 2 valid pieces, got %d", len(result.Pieces))
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected 1 error, got %d", len(result.Errors))
	}
	if !strings.HasPrefix(result.Errors[0], "Line 3:") {
		t.Errorf("expected error on line 3, got %q", result.Errors[0])
	}
}

func TestImportCSVFromReader_EmptyLabel(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Label,Width,Height,Quantity\n,600,300,2\n"), ',')

	if len(result.Pieces) != 1 {
		t.Fatalf("expected 1 piece, got %d", len(result.Pieces))
	}
	if result.Pieces[0].Label != "Piece 1" {
		t.Errorf("expected auto-generated label 'Piece 1', got '%s'", result.Pieces[0].Label)
	}
}

func TestImportCSVFromReader_DecimalValuesRounded(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Label,Width,Height,Quantity\nShelf,600.4,299.5,1\n"), ',')

	if len(result.Pieces) != 1 {
		t.Fatalf("expected 1 piece, got %d (errors: %v)", len(result.Pieces), result.Errors)
	}
	if result.Pieces[0].Width != 600 || result.Pieces[0].Height != 300 {
		t.Errorf("expected 600x300, got %dx%d", result.Pieces[0].Width, result.Pieces[0].Height)
	}
	rounded := 0
	for _, w := range result.Warnings {
		if strings.Contains(w, "rounded") {
			rounded++
		}
	}
	if rounded != 1 {
		t.Errorf("expected one rounding warning, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_BadThicknessWarns(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Label,Width,Height,Quantity,Thickness\nShelf,600,300,1,thick\n"), ',')

	if len(result.Pieces) != 1 {
		t.Fatalf("expected 1 piece, got %d", len(result.Pieces))
	}
	if result.Pieces[0].Thickness != 0 {
		t.Errorf("expected default thickness, got %d", result.Pieces[0].Thickness)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "Unknown thickness") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected thickness warning, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_MissingRequiredColumnInHeader(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Label,Width,Thickness\nShelf,600,18\n"), ',')

	found := false
	for _, e := range result.Errors {
		if strings.Contains(e, "Required columns not found") && strings.Contains(e, "Height, Quantity") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected 'Required columns not found' error, got: %v", result.Errors)
	}
}

func TestImportCSVFromReader_EmptyFile(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader(""), ',')

	if len(result.Errors) == 0 {
		t.Error("expected error for empty file")
	}
}

// ─── CSV File Import Tests ──────────────────────────────────

func TestImportCSV_SemicolonFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pieces.csv")
	content := "Label;Width;Height;Quantity\nShelf;600;300;2\nDoor;400;800;1\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	result := ImportCSV(path)

	if len(result.Pieces) != 2 {
		t.Errorf("expected 2 pieces, got %d (errors: %v)", len(result.Pieces), result.Errors)
	}
	hasSemicolonWarning := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "semicolon") {
			hasSemicolonWarning = true
		}
	}
	if !hasSemicolonWarning {
		t.Error("expected warning about semicolon delimiter detection")
	}
}

func TestImportCSV_FileErrors(t *testing.T) {
	if result := ImportCSV("/nonexistent/path/file.csv"); len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}

	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, []byte("  \n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	if result := ImportCSV(path); len(result.Errors) == 0 {
		t.Error("expected error for empty file")
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pieces.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Name", "Qty", "Width", "Height", "Thickness"},
		{"Side", 2, 720, 560, 18},
		{"Back", 1, 780, 720, 6},
	})

	result := ImportExcel(path)

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Pieces) != 2 {
		t.Fatalf("expected 2 pieces, got %d", len(result.Pieces))
	}
	if p := result.Pieces[0]; p.Label != "Side" || p.Width != 720 || p.Quantity != 2 || p.Thickness != 18 {
		t.Errorf("unexpected first piece: %+v", p)
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	if result := ImportExcel("/nonexistent/pieces.xlsx"); len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

// ─── Grouping Tests ────────────────────────────────────────

func TestImportResult_Groups(t *testing.T) {
	result := ImportResult{Pieces: []ImportedPiece{
		{Piece: model.NewPiece("Side", 720, 560, 2), Thickness: 18},
		{Piece: model.NewPiece("Back", 780, 720, 1), Thickness: 6},
		{Piece: model.NewPiece("Shelf", 764, 540, 3)},
	}}
	sheet := model.DefaultSheet().Sheet()

	groups := result.Groups(18, sheet)

	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Thickness != 18 || len(groups[0].Pieces) != 2 {
		t.Errorf("expected 18mm group with side and shelf, got %+v", groups[0])
	}
	if groups[1].Thickness != 6 || groups[1].Pieces[0].Label != "Back" {
		t.Errorf("expected 6mm group with back, got %+v", groups[1])
	}
	if groups[0].Sheet != sheet {
		t.Errorf("expected sheet %+v, got %+v", sheet, groups[0].Sheet)
	}
}
