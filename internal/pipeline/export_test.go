package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"mobilia/internal"
)

func TestExportProductsToXLSX(t *testing.T) {
	url := "/assets/catalog-1/product-1.png"
	products := []internal.ProductRecord{
		{
			Name:       "Sofá Home",
			Code:       "AB-1",
			PriceCents: 293000,
			Materials:  []string{"madeira", "couro"},
			Quantity:   2,
			SourceRow:  2,
			ImageURL:   &url,
		},
		{
			Name:       "Mesa de Jantar",
			PriceCents: 150050,
			SourceRow:  4,
		},
	}

	outPath := filepath.Join(t.TempDir(), "export", "result.xlsx")
	if err := ExportProductsToXLSX(products, outPath); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header plus 2 products", len(rows))
	}

	if rows[0][0] != "source_row" || rows[0][1] != "name" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][1] != "Sofá Home" || rows[1][4] != "2930.00" {
		t.Errorf("first row = %v", rows[1])
	}
	if rows[1][8] != "madeira, couro" {
		t.Errorf("materials cell = %q", rows[1][8])
	}
	if rows[1][11] != url {
		t.Errorf("image url cell = %q", rows[1][11])
	}
	if rows[2][4] != "1500.50" {
		t.Errorf("second price cell = %q", rows[2][4])
	}
}

func TestExtractPDFTextGarbage(t *testing.T) {
	if _, err := ExtractPDFText([]byte("not a pdf")); err == nil {
		t.Error("expected an error for a non-pdf payload")
	}
}
