// Package images scores, deduplicates, and classifies images discovered
// during extraction. Scoring is a deterministic pure function of observable
// attributes; no network access happens here.
package images

import (
	"regexp"
	"strconv"
	"strings"

	"NewsHarvester/internal/domain"
)

const (
	largeEdge  = 300
	mediumEdge = 200
	smallEdge  = 100

	largeBonus  = 30
	mediumBonus = 20
	smallBonus  = 10

	ratioBonus     = 15
	landscapeBonus = 5

	keywordPenalty  = 40
	provenanceBonus = 15
)

// dimensionExpr matches dimension markers embedded in URLs, e.g. 800x600.
var dimensionExpr = regexp.MustCompile(`(\d{2,4})[xX](\d{2,4})`)

var penaltyKeywords = []string{"thumb", "icon", "logo", "avatar", "sprite", "badge", "placeholder"}

var provenanceKeywords = []string{"getty", "reuters", "apnews", "afp", "production", "wp-content/uploads"}

// Score computes the desirability of a single image. Never negative.
func Score(img domain.RawImage) int {
	w, h := dimensions(img)
	score := 0

	edge := w
	if h > 0 && (h < w || w == 0) {
		edge = h
	}
	switch {
	case edge >= largeEdge:
		score += largeBonus
	case edge >= mediumEdge:
		score += mediumBonus
	case edge >= smallEdge:
		score += smallBonus
	}

	if w > 0 && h > 0 {
		ratio := float64(w) / float64(h)
		switch {
		case ratio >= 1.2 && ratio <= 2.0:
			score += ratioBonus
		case ratio > 1.0:
			score += landscapeBonus
		}
	}

	score += formatBonus(img.URL)

	haystack := strings.ToLower(img.URL + " " + img.Alt)
	for _, kw := range penaltyKeywords {
		if strings.Contains(haystack, kw) {
			score -= keywordPenalty
			break
		}
	}
	for _, kw := range provenanceKeywords {
		if strings.Contains(haystack, kw) {
			score += provenanceBonus
			break
		}
	}

	if score < 0 {
		return 0
	}
	return score
}

// dimensions prefers declared attributes and falls back to URL markers.
func dimensions(img domain.RawImage) (int, int) {
	if img.Width > 0 && img.Height > 0 {
		return img.Width, img.Height
	}

	if match := dimensionExpr.FindStringSubmatch(img.URL); match != nil {
		w, _ := strconv.Atoi(match[1])
		h, _ := strconv.Atoi(match[2])
		if w > 0 && h > 0 {
			return w, h
		}
	}

	return img.Width, img.Height
}

func formatBonus(rawURL string) int {
	u := strings.ToLower(rawURL)
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	switch {
	case strings.HasSuffix(u, ".webp"):
		return 10
	case strings.HasSuffix(u, ".jpg"), strings.HasSuffix(u, ".jpeg"):
		return 8
	case strings.HasSuffix(u, ".png"):
		return 5
	}
	return 0
}
