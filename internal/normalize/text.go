package normalize

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	accentFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// CleanText strips HTML markup, bracketed and parenthesized annotation
// fragments, and collapses whitespace.
func CleanText(input string) string {
	s := stripHTML(input)
	s = stripDelimited(s, '[', ']')
	s = stripDelimited(s, '(', ')')
	return CollapseSpaces(s)
}

func stripHTML(input string) string {
	if !strings.ContainsRune(input, '<') {
		return input
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
	if err != nil {
		return input
	}
	return doc.Text()
}

func stripDelimited(input string, open, closing rune) string {
	out := strings.Builder{}
	depth := 0
	for _, r := range input {
		switch {
		case r == open:
			depth++
		case r == closing && depth > 0:
			depth--
		case depth == 0:
			out.WriteRune(r)
		}
	}
	return out.String()
}

// CollapseSpaces folds runs of whitespace into single spaces and trims.
func CollapseSpaces(input string) string {
	fields := strings.Fields(strings.ReplaceAll(input, "\u00A0", " "))
	return strings.Join(fields, " ")
}

// StripAccents removes diacritics ("preço" -> "preco").
func StripAccents(input string) string {
	out, _, err := transform.String(accentFold, input)
	if err != nil {
		return input
	}
	return out
}

// NormalizeKey lowers and de-accents header text for keyword comparison.
func NormalizeKey(input string) string {
	return strings.ToLower(StripAccents(CollapseSpaces(input)))
}

// NormalizeCode reduces a product code or filename to lowercase
// alphanumerics for substring matching.
func NormalizeCode(input string) string {
	out := strings.Builder{}
	for _, r := range strings.ToLower(input) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			out.WriteRune(r)
		}
	}
	return out.String()
}

// Tokenize yields lowercase words longer than minLen runes, capped at max.
func Tokenize(input string, minLen, max int) []string {
	out := make([]string, 0, max)
	for _, word := range strings.Fields(NormalizeKey(input)) {
		token := strings.Trim(word, ".,;:!?\"'")
		if len([]rune(token)) <= minLen {
			continue
		}
		out = append(out, token)
		if len(out) >= max {
			break
		}
	}
	return out
}

// SplitList breaks a multi-value cell ("madeira, metal / vidro") into an
// ordered list.
func SplitList(input string) []string {
	cleaned := CleanText(input)
	if cleaned == "" {
		return nil
	}
	parts := strings.FieldsFunc(cleaned, func(r rune) bool {
		return r == ',' || r == ';' || r == '/' || r == '|'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
