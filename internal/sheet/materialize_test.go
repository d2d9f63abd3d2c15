package sheet

import (
	"reflect"
	"testing"

	"mobilia/internal"
)

func TestMaterializeProducts(t *testing.T) {
	rows := [][]string{
		{"Código", "Nome", "Preço", "Cor", "Qtd"},
		{"AB-1", "Sofá Home", "R$ 2.930,00", "marrom, bege", "2"},
		{"", "", "", "", ""},
		{"AB-2", "<b>Mesa</b> de Jantar [6 lugares]", "R$ 1.500,00", "", ""},
		{"", "Rodapé da tabela", "", "", ""},
	}
	det := internal.FormatDetection{
		HeaderRow: 0,
		Columns: internal.FieldMapping{
			"A": internal.FieldCode,
			"B": internal.FieldName,
			"C": internal.FieldPrice,
			"D": internal.FieldColor,
			"E": internal.FieldStock,
		},
	}

	products, skipped := MaterializeProducts(rows, det)
	if len(products) != 2 {
		t.Fatalf("got %d products, want 2", len(products))
	}
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}

	first := products[0]
	if first.Name != "Sofá Home" || first.Code != "AB-1" {
		t.Errorf("first = %q/%q", first.Name, first.Code)
	}
	if first.PriceCents != 293000 {
		t.Errorf("first.PriceCents = %d, want 293000", first.PriceCents)
	}
	if !reflect.DeepEqual(first.Colors, []string{"marrom", "bege"}) {
		t.Errorf("first.Colors = %v", first.Colors)
	}
	if first.Quantity != 2 {
		t.Errorf("first.Quantity = %d, want 2", first.Quantity)
	}
	if first.SourceRow != 2 {
		t.Errorf("first.SourceRow = %d, want 2", first.SourceRow)
	}

	second := products[1]
	if second.Name != "Mesa de Jantar" {
		t.Errorf("second.Name = %q, markup should be stripped", second.Name)
	}
	if second.Quantity != 1 {
		t.Errorf("second.Quantity = %d, want default 1", second.Quantity)
	}
	if second.SourceRow != 4 {
		t.Errorf("second.SourceRow = %d, want 4", second.SourceRow)
	}
}

func TestMaterializeKnownFormat(t *testing.T) {
	rows := [][]string{
		{"", "POE Móveis Corporativos"},
		{"Nome"},
		{"Sofá Home", "", "", "", "", "", "Sleep 3 lugares", "", "R$ 2.930,00"},
	}

	det := NewDetector(testConfig()).Detect(rows)
	products, skipped := MaterializeProducts(rows, det)
	if len(products) != 1 {
		t.Fatalf("got %d products, want 1", len(products))
	}
	if skipped != 2 {
		t.Errorf("skipped = %d, want 2", skipped)
	}

	p := products[0]
	if p.Name != "Sofá Home" {
		t.Errorf("Name = %q", p.Name)
	}
	if p.Description != "Sleep 3 lugares" {
		t.Errorf("Description = %q", p.Description)
	}
	if p.PriceCents != 293000 {
		t.Errorf("PriceCents = %d, want 293000", p.PriceCents)
	}
	if p.SourceRow != 3 {
		t.Errorf("SourceRow = %d, want 3", p.SourceRow)
	}
}

func TestMaterializeNoMapping(t *testing.T) {
	rows := [][]string{{"a", "b"}, {"c", "d"}}
	det := internal.FormatDetection{HeaderRow: -1, Columns: internal.FieldMapping{}}

	products, skipped := MaterializeProducts(rows, det)
	if len(products) != 0 {
		t.Errorf("got %d products, want 0", len(products))
	}
	if skipped != 2 {
		t.Errorf("skipped = %d, want 2", skipped)
	}
}
