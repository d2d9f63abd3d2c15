package reconcile

import (
	"strings"

	"mobilia/internal"
	"mobilia/internal/config"
	"mobilia/internal/normalize"
)

const (
	codeConfidence      = 0.9
	exactRowConfidence  = 0.85
	nearRowConfidence   = 0.7
	tokenBaseConfidence = 0.3
	tokenMaxConfidence  = 0.6
	fallbackConfidence  = 0.3
	tokenMinLength      = 3
	tokenCap            = 5
)

type Reconciler struct {
	cfg config.Config
}

func NewReconciler(cfg config.Config) *Reconciler {
	return &Reconciler{cfg: cfg}
}

// Reconcile assigns at most one image per product, trying strategies from
// strongest to weakest: code-in-filename, anchor-row proximity, token
// overlap, then a first-unused fallback. Images claimed by any strategy
// stop being fallback candidates. The result is deterministic for a fixed
// input.
func (r *Reconciler) Reconcile(products []internal.ProductRecord, images []internal.ExtractedImage) []internal.ImageMapping {
	if len(products) == 0 || len(images) == 0 {
		return []internal.ImageMapping{}
	}

	used := make([]bool, len(images))
	names := make([]string, len(images))
	keys := make([]string, len(images))
	for i, img := range images {
		names[i] = normalize.NormalizeCode(img.Filename + " " + img.AltText)
		keys[i] = normalize.NormalizeKey(img.Filename + " " + img.AltText)
	}

	out := make([]internal.ImageMapping, 0, len(products))
	for pi, product := range products {
		mapping, ok := r.matchByCode(pi, product, names)
		if !ok {
			mapping, ok = r.matchByPosition(pi, product, images)
		}
		if !ok {
			mapping, ok = r.matchByTokens(pi, product, keys)
		}
		if !ok {
			mapping, ok = matchFallback(pi, used)
		}
		if !ok {
			continue
		}
		used[mapping.ImageIndex] = true
		out = append(out, mapping)
	}

	return out
}

func (r *Reconciler) matchByCode(pi int, product internal.ProductRecord, names []string) (internal.ImageMapping, bool) {
	code := normalize.NormalizeCode(product.Code)
	if code == "" {
		return internal.ImageMapping{}, false
	}
	for i, name := range names {
		if containsCode(name, code) {
			return internal.ImageMapping{
				ProductIndex: pi,
				ImageIndex:   i,
				Confidence:   codeConfidence,
				Strategy:     internal.StrategyCode,
			}, true
		}
	}
	return internal.ImageMapping{}, false
}

// containsCode is a substring check with a digit-boundary guard: a code
// ending in a digit must not be directly followed by another digit, so
// "abc1" does not claim "img_abc-10.png".
func containsCode(haystack, code string) bool {
	for start := 0; start+len(code) <= len(haystack); start++ {
		if haystack[start:start+len(code)] != code {
			continue
		}
		if isDigit(code[len(code)-1]) && start+len(code) < len(haystack) && isDigit(haystack[start+len(code)]) {
			continue
		}
		if isDigit(code[0]) && start > 0 && isDigit(haystack[start-1]) {
			continue
		}
		return true
	}
	return false
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func (r *Reconciler) matchByPosition(pi int, product internal.ProductRecord, images []internal.ExtractedImage) (internal.ImageMapping, bool) {
	if product.SourceRow <= 0 {
		return internal.ImageMapping{}, false
	}
	tolerance := r.cfg.PositionTolerance
	if tolerance < 0 {
		tolerance = 0
	}

	bestIdx := -1
	bestDist := tolerance + 1
	for i, img := range images {
		if img.AnchorRow <= 0 {
			continue
		}
		dist := product.SourceRow - img.AnchorRow
		if dist < 0 {
			dist = -dist
		}
		// strictly-less keeps the first-encountered image on ties
		if dist < bestDist {
			bestDist = dist
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return internal.ImageMapping{}, false
	}

	confidence := nearRowConfidence
	if bestDist == 0 {
		confidence = exactRowConfidence
	}
	return internal.ImageMapping{
		ProductIndex: pi,
		ImageIndex:   bestIdx,
		Confidence:   confidence,
		Strategy:     internal.StrategyPosition,
	}, true
}

func (r *Reconciler) matchByTokens(pi int, product internal.ProductRecord, keys []string) (internal.ImageMapping, bool) {
	tokens := normalize.Tokenize(product.Name+" "+product.Description, tokenMinLength, tokenCap)
	if len(tokens) == 0 {
		return internal.ImageMapping{}, false
	}

	bestIdx := -1
	bestCount := 0
	for i, key := range keys {
		count := 0
		for _, token := range tokens {
			if containsToken(key, token) {
				count++
			}
		}
		if count > bestCount {
			bestCount = count
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return internal.ImageMapping{}, false
	}

	confidence := tokenBaseConfidence + float64(bestCount)/float64(len(tokens))*0.3
	if confidence > tokenMaxConfidence {
		confidence = tokenMaxConfidence
	}
	return internal.ImageMapping{
		ProductIndex: pi,
		ImageIndex:   bestIdx,
		Confidence:   confidence,
		Strategy:     internal.StrategyTokens,
	}, true
}

// matchFallback hands out the first still-unused image so products keep an
// image even under total ambiguity.
func matchFallback(pi int, used []bool) (internal.ImageMapping, bool) {
	for i, taken := range used {
		if taken {
			continue
		}
		return internal.ImageMapping{
			ProductIndex: pi,
			ImageIndex:   i,
			Confidence:   fallbackConfidence,
			Strategy:     internal.StrategyFallback,
		}, true
	}
	return internal.ImageMapping{}, false
}

func containsToken(key, token string) bool {
	return token != "" && strings.Contains(key, token)
}
