package sheet

import (
	"bytes"
	"os"

	"github.com/xuri/excelize/v2"

	"mobilia/internal/normalize"
)

// ReadWorkbook loads the first populated sheet of a workbook into a row
// grid. Cell text is whitespace-collapsed but otherwise untouched.
func ReadWorkbook(content []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		if !hasContent(rows) {
			continue
		}
		out := make([][]string, len(rows))
		for i, row := range rows {
			cells := make([]string, len(row))
			for j, c := range row {
				cells[j] = normalize.CollapseSpaces(c)
			}
			out[i] = cells
		}
		return out, nil
	}

	return [][]string{}, nil
}

func ReadWorkbookFile(path string) ([][]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ReadWorkbook(content)
}

func hasContent(rows [][]string) bool {
	for _, row := range rows {
		for _, c := range row {
			if c != "" {
				return true
			}
		}
	}
	return false
}

// columnLetter converts a 0-based column index to its letter name.
func columnLetter(idx int) string {
	name, err := excelize.ColumnNumberToName(idx + 1)
	if err != nil {
		return ""
	}
	return name
}

// columnIndex converts a column letter to its 0-based index, -1 on error.
func columnIndex(letter string) int {
	n, err := excelize.ColumnNameToNumber(letter)
	if err != nil {
		return -1
	}
	return n - 1
}

func cellAt(row []string, letter string) string {
	idx := columnIndex(letter)
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
