// Package quality derives the advisory content-richness rating.
package quality

import "NewsHarvester/internal/domain"

const (
	excellentLength = 1000
	goodLength      = 500
	fairLength      = 200
)

// Assess maps (text length, image count, strategy) to a rating. Pure and
// deterministic; the rating never blocks persistence.
func Assess(textLength, imageCount int, strategy domain.Strategy) domain.QualityRating {
	switch {
	case textLength > excellentLength && imageCount >= 1 && strategy == domain.StrategyPrimary:
		return domain.QualityExcellent
	case textLength > goodLength:
		return domain.QualityGood
	case textLength > fairLength:
		return domain.QualityFair
	default:
		return domain.QualityPoor
	}
}
