package sheet

import (
	"strings"

	"mobilia/internal"
	"mobilia/internal/normalize"
)

// MaterializeProducts walks the data rows below the detected header and
// builds candidate records. Rows without a name, or with neither code nor
// price, are decorative and get skipped. SourceRow is the 1-based sheet
// row, kept for image-position matching.
func MaterializeProducts(rows [][]string, det internal.FormatDetection) (products []internal.ProductRecord, skipped int) {
	start := det.HeaderRow + 1
	products = make([]internal.ProductRecord, 0, len(rows))

	for i := start; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		record := internal.ProductRecord{SourceRow: i + 1, Quantity: 1}
		priceRaw := ""

		for col, field := range det.Columns {
			value := strings.TrimSpace(cellAt(row, col))
			if value == "" {
				continue
			}
			switch field {
			case internal.FieldName:
				record.Name = normalize.CleanText(value)
			case internal.FieldCode:
				record.Code = value
			case internal.FieldPrice:
				priceRaw = value
				record.PriceCents = normalize.ParsePriceCents(value)
			case internal.FieldCategory:
				record.Category = normalize.CleanText(value)
			case internal.FieldManufacturer:
				record.Manufacturer = normalize.CleanText(value)
			case internal.FieldDimensions:
				record.Dimensions = normalize.CleanText(value)
			case internal.FieldColor:
				record.Colors = normalize.SplitList(value)
			case internal.FieldMaterial:
				record.Materials = normalize.SplitList(value)
			case internal.FieldStock:
				if qty := normalize.ParseQuantity(value); qty > 0 {
					record.Quantity = qty
				}
			case internal.FieldTechnicalDesc:
				record.Description = normalize.CleanText(value)
			}
		}

		if record.Name == "" || (record.Code == "" && priceRaw == "") {
			skipped++
			continue
		}

		products = append(products, record)
	}

	return products, skipped
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
