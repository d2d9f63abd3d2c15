package sheet

import (
	"testing"

	"mobilia/internal"
	"mobilia/internal/config"
)

func testConfig() config.Config {
	return config.Config{
		HeaderScanRows:    15,
		HeaderScoreMin:    0.2,
		KnownFormatMarker: "POE",
		PositionTolerance: 1,
	}
}

func TestDetectHeaderRow(t *testing.T) {
	rows := [][]string{
		{"Tabela de móveis 2024"},
		{"Código", "Nome", "Preço"},
		{"AB-1", "Sofá Home", "R$ 100,00"},
	}

	det := NewDetector(testConfig()).Detect(rows)
	if det.HeaderRow != 1 {
		t.Fatalf("HeaderRow = %d, want 1", det.HeaderRow)
	}
	if det.IsKnownFormat {
		t.Error("IsKnownFormat should be false for a keyword header")
	}
	if det.Confidence <= 0.2 {
		t.Errorf("Confidence = %v, want > 0.2", det.Confidence)
	}

	want := internal.FieldMapping{
		"A": internal.FieldCode,
		"B": internal.FieldName,
		"C": internal.FieldPrice,
	}
	for col, field := range want {
		if det.Columns[col] != field {
			t.Errorf("column %s mapped to %s, want %s", col, det.Columns[col], field)
		}
	}
}

func TestDetectAccentedHeaders(t *testing.T) {
	rows := [][]string{
		{"DESCRIÇÃO", "REFERÊNCIA", "VALOR UNITÁRIO"},
		{"Mesa de Jantar", "MJ-201", "R$ 1.500,00"},
	}

	det := NewDetector(testConfig()).Detect(rows)
	if det.HeaderRow != 0 {
		t.Fatalf("HeaderRow = %d, want 0", det.HeaderRow)
	}
	if det.Columns["A"] != internal.FieldName {
		t.Errorf("column A = %s, want name", det.Columns["A"])
	}
	if det.Columns["B"] != internal.FieldCode {
		t.Errorf("column B = %s, want code", det.Columns["B"])
	}
	if det.Columns["C"] != internal.FieldPrice {
		t.Errorf("column C = %s, want price", det.Columns["C"])
	}
}

func TestDetectKnownFormatMarker(t *testing.T) {
	rows := [][]string{
		{"", "POE Móveis Corporativos"},
		{"Nome"},
		{"Sofá Home", "", "", "", "", "", "Sleep 3 lugares", "", "R$ 2.930,00"},
	}

	det := NewDetector(testConfig()).Detect(rows)
	if !det.IsKnownFormat {
		t.Fatal("marker in column B should trigger the known format")
	}
	if det.HeaderRow != -1 {
		t.Errorf("HeaderRow = %d, want -1", det.HeaderRow)
	}
	if det.Confidence != 1 {
		t.Errorf("Confidence = %v, want 1", det.Confidence)
	}
	if det.Columns["A"] != internal.FieldName ||
		det.Columns["G"] != internal.FieldTechnicalDesc ||
		det.Columns["I"] != internal.FieldPrice {
		t.Errorf("unexpected fixed mapping: %v", det.Columns)
	}
}

func TestDetectFallsBackToProfiles(t *testing.T) {
	// No header keywords anywhere; content typing has to carry the mapping.
	rows := [][]string{
		{"Sofá Home", "R$ 100,00"},
		{"Mesa de Jantar", "R$ 200,00"},
		{"Cadeira Alta", "R$ 300,00"},
	}

	det := NewDetector(testConfig()).Detect(rows)
	if det.HeaderRow != -1 {
		t.Fatalf("HeaderRow = %d, want -1", det.HeaderRow)
	}
	if det.Columns["A"] != internal.FieldName {
		t.Errorf("column A = %s, want name", det.Columns["A"])
	}
	if det.Columns["B"] != internal.FieldPrice {
		t.Errorf("column B = %s, want price", det.Columns["B"])
	}
}

func TestDetectEmptySheet(t *testing.T) {
	det := NewDetector(testConfig()).Detect([][]string{})
	if det.HeaderRow != -1 {
		t.Errorf("HeaderRow = %d, want -1", det.HeaderRow)
	}
	if len(det.Columns) != 0 {
		t.Errorf("expected empty mapping, got %v", det.Columns)
	}
}
