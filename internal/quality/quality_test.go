package quality

import (
	"testing"

	"NewsHarvester/internal/domain"
)

func TestAssessThresholds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		textLength int
		imageCount int
		strategy   domain.Strategy
		want       domain.QualityRating
	}{
		{"rich primary", 1500, 2, domain.StrategyPrimary, domain.QualityExcellent},
		{"rich but no image", 1500, 0, domain.StrategyPrimary, domain.QualityGood},
		{"rich but fallback strategy", 1500, 2, domain.StrategyRSSContent, domain.QualityGood},
		{"medium", 600, 0, domain.StrategyMetaDescription, domain.QualityGood},
		{"thin", 250, 0, domain.StrategyRSSContent, domain.QualityFair},
		{"title only", 40, 0, domain.StrategyTitleOnly, domain.QualityPoor},
		{"boundary excellent", 1000, 1, domain.StrategyPrimary, domain.QualityGood},
	}

	for _, tc := range cases {
		got := Assess(tc.textLength, tc.imageCount, tc.strategy)
		if got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestAssessDeterministic(t *testing.T) {
	t.Parallel()

	first := Assess(750, 1, domain.StrategyPrimary)
	for i := 0; i < 5; i++ {
		if Assess(750, 1, domain.StrategyPrimary) != first {
			t.Fatalf("assessment is not deterministic")
		}
	}
}
