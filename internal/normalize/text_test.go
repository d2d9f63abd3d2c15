package normalize

import (
	"reflect"
	"testing"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Sofá Home", "Sofá Home"},
		{"html markup", "<b>Sofá</b> Home", "Sofá Home"},
		{"bracketed fragment", "Mesa [novo] Jantar", "Mesa Jantar"},
		{"parenthesized fragment", "Cadeira (promoção) Alta", "Cadeira Alta"},
		{"nested brackets", "Poltrona [a [b] c] Relax", "Poltrona Relax"},
		{"whitespace runs", "  Rack    TV  ", "Rack TV"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.input); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Preço", "preco"},
		{"CÓDIGO ", "codigo"},
		{"Descrição Técnica", "descricao tecnica"},
		{"name", "name"},
	}

	for _, tt := range tests {
		if got := NormalizeKey(tt.input); got != tt.want {
			t.Errorf("NormalizeKey(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"ABC-123", "abc123"},
		{"foto_ABC-123.png", "fotoabc123png"},
		{"---", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeCode(tt.input); got != tt.want {
			t.Errorf("NormalizeCode(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("Sofá Reclinável de Couro Marrom Escuro Premium", 3, 5)
	want := []string{"sofa", "reclinavel", "couro", "marrom", "escuro"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize() = %v, want %v", got, want)
	}

	if got := Tokenize("a de o um", 3, 5); len(got) != 0 {
		t.Errorf("expected no tokens from short words, got %v", got)
	}
}

func TestSplitList(t *testing.T) {
	got := SplitList("madeira, metal / vidro")
	want := []string{"madeira", "metal", "vidro"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitList() = %v, want %v", got, want)
	}

	if got := SplitList("  "); got != nil {
		t.Errorf("expected nil for blank input, got %v", got)
	}
}
