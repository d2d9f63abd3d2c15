package sheet

import (
	"regexp"
	"strings"

	"mobilia/internal"
)

var (
	priceValuePattern = regexp.MustCompile(`(?i)^(r\$|us\$|\$|€|£)\s*\d[\d.,\s]*$|^\d[\d.,\s]*\s*(r\$|us\$|\$|€|£)$`)
	numericPattern    = regexp.MustCompile(`^-?\d+([.,]\d+)?$`)
	codePattern       = regexp.MustCompile(`^[A-Za-z0-9]+[-._/][A-Za-z0-9][A-Za-z0-9-._/]*$`)
	letterPattern     = regexp.MustCompile(`[A-Za-zÀ-ÿ]`)
)

// ProfileColumn types one column from its raw cell values. The test order
// is deliberate: price and code patterns are more specific than generic
// numeric/word content and are checked first.
func ProfileColumn(column string, values []string) internal.ColumnProfile {
	profile := internal.ColumnProfile{Column: column, Type: internal.ColumnUnknown}

	for _, raw := range values {
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		profile.NonEmpty++

		switch {
		case priceValuePattern.MatchString(value):
			profile.PriceFormatCount++
		case numericPattern.MatchString(value):
			profile.NumericCount++
		case isMultiWord(value):
			profile.WordCount++
		case isCodeLike(value):
			profile.CodePatternCount++
		}
	}

	if profile.NonEmpty == 0 {
		return profile
	}

	total := float64(profile.NonEmpty)
	pricePct := float64(profile.PriceFormatCount) / total
	codePct := float64(profile.CodePatternCount) / total
	wordPct := float64(profile.WordCount) / total
	numericPct := float64(profile.NumericCount) / total

	switch {
	case pricePct > 0.5:
		profile.Type = internal.ColumnPrice
		profile.Confidence = pricePct
	case codePct > 0.5:
		profile.Type = internal.ColumnCode
		profile.Confidence = codePct
	case wordPct > 0.5:
		profile.Type = internal.ColumnName
		profile.Confidence = wordPct
	case numericPct > 0.7:
		profile.Type = internal.ColumnNumeric
		profile.Confidence = numericPct
	default:
		profile.Type = internal.ColumnString
		profile.Confidence = 1 - numericPct
	}

	return profile
}

// ProfileColumns profiles every column present in the rows at or below
// startRow.
func ProfileColumns(rows [][]string, startRow int) []internal.ColumnProfile {
	if startRow < 0 {
		startRow = 0
	}
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	out := make([]internal.ColumnProfile, 0, width)
	for col := 0; col < width; col++ {
		values := make([]string, 0, len(rows))
		for i := startRow; i < len(rows); i++ {
			if col < len(rows[i]) {
				values = append(values, rows[i][col])
			}
		}
		out = append(out, ProfileColumn(columnLetter(col), values))
	}
	return out
}

func isMultiWord(value string) bool {
	if !letterPattern.MatchString(value) {
		return false
	}
	return len(strings.Fields(value)) >= 2
}

func isCodeLike(value string) bool {
	if !codePattern.MatchString(value) {
		return false
	}
	hasLetter := false
	hasDigit := false
	for _, r := range value {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
			hasLetter = true
		}
		if r >= '0' && r <= '9' {
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}
