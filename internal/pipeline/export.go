package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"mobilia/internal"
)

// ExportProductsToXLSX writes the persisted records of one catalog back
// out as a normalized worksheet, for review of what the ingestion decided.
func ExportProductsToXLSX(products []internal.ProductRecord, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{
		"source_row", "name", "code", "description", "price", "category",
		"manufacturer", "dimensions", "materials", "colors", "quantity", "image_url",
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, p := range products {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, p.SourceRow)
		set(2, p.Name)
		set(3, p.Code)
		set(4, p.Description)
		set(5, formatCents(p.PriceCents))
		set(6, p.Category)
		set(7, p.Manufacturer)
		set(8, p.Dimensions)
		set(9, strings.Join(p.Materials, ", "))
		set(10, strings.Join(p.Colors, ", "))
		set(11, p.Quantity)
		set(12, derefString(p.ImageURL))
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func formatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
