package sheet

import (
	"sort"
	"strings"

	"mobilia/internal"
	"mobilia/internal/config"
	"mobilia/internal/normalize"
)

// fieldKeywords drives header-cell recognition. Comparison happens on
// accent-stripped lowercase text, so keywords are stored that way.
var fieldKeywords = map[internal.FieldKind][]string{
	internal.FieldName:          {"nome", "produto", "descricao", "item", "modelo", "name", "product"},
	internal.FieldCode:          {"codigo", "cod", "ref", "referencia", "sku", "code"},
	internal.FieldPrice:         {"preco", "valor", "r$", "price", "unitario", "custo"},
	internal.FieldCategory:      {"categoria", "linha", "tipo", "category"},
	internal.FieldManufacturer:  {"fabricante", "marca", "fornecedor", "manufacturer", "brand"},
	internal.FieldDimensions:    {"medida", "medidas", "dimensao", "dimensoes", "tamanho", "largura", "altura", "size"},
	internal.FieldColor:         {"cor", "cores", "acabamento", "color"},
	internal.FieldMaterial:      {"material", "materiais", "tecido", "revestimento"},
	internal.FieldStock:         {"estoque", "qtd", "quantidade", "saldo", "stock", "qty"},
	internal.FieldTechnicalDesc: {"descricao tecnica", "detalhes", "especificacao", "obs", "observacao"},
}

// poeMapping is the fixed layout for the previously cataloged POE format;
// no keyword search is needed once the marker is seen.
var poeMapping = internal.FieldMapping{
	"A": internal.FieldName,
	"G": internal.FieldTechnicalDesc,
	"I": internal.FieldPrice,
}

type fieldGuess struct {
	field      internal.FieldKind
	confidence float64
}

type Detector struct {
	cfg config.Config
}

func NewDetector(cfg config.Config) *Detector {
	return &Detector{cfg: cfg}
}

// Detect scans the top rows for a header row and derives the column
// mapping. When no header row scores above the configured minimum, the
// mapping degrades to pure content-type inference.
func (d *Detector) Detect(rows [][]string) internal.FormatDetection {
	limit := d.cfg.HeaderScanRows
	if limit <= 0 || limit > len(rows) {
		limit = len(rows)
	}

	if d.hasKnownFormatMarker(rows, limit) {
		return internal.FormatDetection{
			HeaderRow:     -1,
			Confidence:    1,
			Columns:       clone(poeMapping),
			MatchedFields: mappedFields(poeMapping),
			IsKnownFormat: true,
		}
	}

	bestRow := -1
	bestScore := 0.0
	var bestGuesses map[string]fieldGuess

	for i := 0; i < limit; i++ {
		score, guesses := scoreHeaderRow(rows[i])
		if score > bestScore {
			bestRow = i
			bestScore = score
			bestGuesses = guesses
		}
	}

	det := internal.FormatDetection{HeaderRow: -1}
	if bestRow >= 0 && bestScore > d.cfg.HeaderScoreMin {
		det.HeaderRow = bestRow
		det.Confidence = bestScore
		det.Columns = dedupeGuesses(bestGuesses)
	} else {
		det.Columns = internal.FieldMapping{}
	}

	if len(det.Columns) < 2 {
		d.fillFromProfiles(rows, &det)
	}

	det.MatchedFields = mappedFields(det.Columns)
	return det
}

func (d *Detector) hasKnownFormatMarker(rows [][]string, limit int) bool {
	marker := strings.ToLower(d.cfg.KnownFormatMarker)
	if marker == "" {
		return false
	}
	for i := 0; i < limit; i++ {
		cell := strings.ToLower(cellAt(rows[i], "B"))
		if cell != "" && strings.Contains(cell, marker) {
			return true
		}
	}
	return false
}

// scoreHeaderRow scores one candidate row. The formula rewards both the
// density of keyword matches and the diversity of matched fields, so a row
// repeating one keyword many times does not win over a genuine header.
func scoreHeaderRow(row []string) (float64, map[string]fieldGuess) {
	guesses := map[string]fieldGuess{}
	cellCount := 0
	matchedCells := 0
	confidenceSum := 0.0
	uniqueFields := map[internal.FieldKind]struct{}{}

	for col, raw := range row {
		text := normalize.NormalizeKey(raw)
		if text == "" {
			continue
		}
		cellCount++

		best := fieldGuess{}
		for field, keywords := range fieldKeywords {
			for _, kw := range keywords {
				conf := 0.0
				if text == kw {
					conf = 1
				} else if strings.Contains(text, kw) {
					conf = float64(len(kw)) / float64(len(text))
				}
				if conf > best.confidence {
					best = fieldGuess{field: field, confidence: conf}
				}
			}
		}

		if best.confidence > 0 {
			matchedCells++
			confidenceSum += best.confidence
			uniqueFields[best.field] = struct{}{}
			guesses[columnLetter(col)] = best
		}
	}

	if cellCount == 0 || matchedCells == 0 {
		return 0, nil
	}

	density := confidenceSum / float64(cellCount)
	coverage := float64(matchedCells) / float64(cellCount)
	diversity := 1 + float64(len(uniqueFields))/5
	return density * coverage * diversity, guesses
}

// dedupeGuesses keeps at most one column per field, highest confidence
// first. Iteration order is fixed by column letter to stay deterministic.
func dedupeGuesses(guesses map[string]fieldGuess) internal.FieldMapping {
	bestByField := map[internal.FieldKind]string{}
	for col, guess := range guesses {
		current, ok := bestByField[guess.field]
		if !ok || guess.confidence > guesses[current].confidence ||
			(guess.confidence == guesses[current].confidence && col < current) {
			bestByField[guess.field] = col
		}
	}

	out := internal.FieldMapping{}
	for field, col := range bestByField {
		out[col] = field
	}
	return out
}

// fillFromProfiles locates price/name/code columns from content typing when
// the header search produced too little.
func (d *Detector) fillFromProfiles(rows [][]string, det *internal.FormatDetection) {
	start := det.HeaderRow + 1
	profiles := ProfileColumns(rows, start)

	wanted := map[internal.ColumnType]internal.FieldKind{
		internal.ColumnPrice: internal.FieldPrice,
		internal.ColumnName:  internal.FieldName,
		internal.ColumnCode:  internal.FieldCode,
	}

	taken := map[internal.FieldKind]struct{}{}
	for _, field := range det.Columns {
		taken[field] = struct{}{}
	}

	for colType, field := range wanted {
		if _, ok := taken[field]; ok {
			continue
		}
		bestCol := ""
		bestConf := 0.0
		for _, p := range profiles {
			if p.Type != colType || p.Confidence <= bestConf {
				continue
			}
			if _, used := det.Columns[p.Column]; used {
				continue
			}
			bestCol = p.Column
			bestConf = p.Confidence
		}
		if bestCol != "" {
			det.Columns[bestCol] = field
			taken[field] = struct{}{}
		}
	}
}

func mappedFields(mapping internal.FieldMapping) []internal.FieldKind {
	out := make([]internal.FieldKind, 0, len(mapping))
	seen := map[internal.FieldKind]struct{}{}
	for _, field := range mapping {
		if _, ok := seen[field]; ok {
			continue
		}
		seen[field] = struct{}{}
		out = append(out, field)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func clone(mapping internal.FieldMapping) internal.FieldMapping {
	out := internal.FieldMapping{}
	for k, v := range mapping {
		out[k] = v
	}
	return out
}
