package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	currencyPattern = regexp.MustCompile(`(?i)(r\$|us\$|\$|€|£)`)
	thousandsDot    = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})+$`)
	thousandsComma  = regexp.MustCompile(`^\d{1,3}(?:,\d{3})+$`)
)

// ParsePriceCents turns a raw price cell into integer minor currency units.
// Brazilian formatting ("R$ 1.234,56") and international formatting
// ("1,234.56") both resolve to the same magnitude. Unparseable input
// yields 0.
func ParsePriceCents(input string) int64 {
	s := currencyPattern.ReplaceAllString(input, "")
	s = strings.ReplaceAll(s, "\u00A0", " ")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastComma >= 0 && lastComma > lastDot:
		// Brazilian: dots are thousands separators, comma is the decimal.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case lastComma >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case thousandsDot.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return int64(math.Round(value * 100))
}

// ParseQuantity extracts a whole quantity from a cell, 0 when absent.
func ParseQuantity(input string) int {
	compact := strings.TrimSpace(strings.ReplaceAll(input, "\u00A0", " "))
	if compact == "" {
		return 0
	}
	if thousandsComma.MatchString(compact) {
		compact = strings.ReplaceAll(compact, ",", "")
	}
	if strings.Contains(compact, ",") && !strings.Contains(compact, ".") {
		compact = strings.ReplaceAll(compact, ",", ".")
	}
	value, err := strconv.ParseFloat(compact, 64)
	if err != nil || value < 0 {
		return 0
	}
	return int(value)
}
