package images

import (
	"testing"

	"NewsHarvester/internal/domain"
)

func TestScoreNeverNegative(t *testing.T) {
	t.Parallel()

	cases := []domain.RawImage{
		{URL: "https://cdn.example.com/icon-logo-thumb.png", Width: 16, Height: 16},
		{URL: "https://cdn.example.com/avatar.gif"},
		{URL: ""},
		{URL: "https://cdn.example.com/logo.svg", Alt: "site logo"},
	}
	for _, img := range cases {
		if s := Score(img); s < 0 {
			t.Fatalf("score must be non-negative, got %d for %s", s, img.URL)
		}
	}
}

func TestScoreDimensionTiers(t *testing.T) {
	t.Parallel()

	small := Score(domain.RawImage{URL: "https://x/a", Width: 120, Height: 110})
	medium := Score(domain.RawImage{URL: "https://x/b", Width: 250, Height: 220})
	large := Score(domain.RawImage{URL: "https://x/c", Width: 900, Height: 600})

	if !(large > medium && medium > small) {
		t.Fatalf("expected large > medium > small, got %d / %d / %d", large, medium, small)
	}
}

func TestScoreReadsDimensionsFromURL(t *testing.T) {
	t.Parallel()

	fromURL := Score(domain.RawImage{URL: "https://cdn.example.com/photo-800x600.jpg"})
	declared := Score(domain.RawImage{URL: "https://cdn.example.com/photo.jpg", Width: 800, Height: 600})
	if fromURL != declared {
		t.Fatalf("URL-pattern dimensions should score like declared ones: %d != %d", fromURL, declared)
	}
}

func TestScoreFormatPreference(t *testing.T) {
	t.Parallel()

	webp := Score(domain.RawImage{URL: "https://x/pic.webp", Width: 800, Height: 600})
	jpg := Score(domain.RawImage{URL: "https://x/pic.jpg", Width: 800, Height: 600})
	png := Score(domain.RawImage{URL: "https://x/pic.png", Width: 800, Height: 600})

	if !(webp > jpg && jpg > png) {
		t.Fatalf("expected webp > jpg > png, got %d / %d / %d", webp, jpg, png)
	}
}

func TestScoreKeywordPenaltyAndBonus(t *testing.T) {
	t.Parallel()

	plain := Score(domain.RawImage{URL: "https://x/photo.jpg", Width: 800, Height: 600})
	penalized := Score(domain.RawImage{URL: "https://x/photo-thumb.jpg", Width: 800, Height: 600})
	boosted := Score(domain.RawImage{URL: "https://x/wp-content/uploads/photo.jpg", Width: 800, Height: 600})

	if penalized >= plain {
		t.Fatalf("thumbnail keyword should reduce score: %d >= %d", penalized, plain)
	}
	if boosted <= plain {
		t.Fatalf("provenance marker should raise score: %d <= %d", boosted, plain)
	}
}

func TestScoreDeterministic(t *testing.T) {
	t.Parallel()

	img := domain.RawImage{URL: "https://x/photo-800x600.webp", Alt: "getty"}
	first := Score(img)
	for i := 0; i < 5; i++ {
		if Score(img) != first {
			t.Fatalf("score is not deterministic")
		}
	}
}

func TestOptimizeDeduplicatesPreservingOrder(t *testing.T) {
	t.Parallel()

	raw := []domain.RawImage{
		{URL: "https://x/a.jpg"},
		{URL: "https://x/b.jpg"},
		{URL: "https://x/a.jpg", Alt: "duplicate"},
		{URL: ""},
	}

	scored := Optimize(raw)
	if len(scored) != 2 {
		t.Fatalf("expected 2 images after dedupe, got %d", len(scored))
	}
	if scored[0].URL != "https://x/a.jpg" || scored[1].URL != "https://x/b.jpg" {
		t.Fatalf("discovery order not preserved: %v", scored)
	}
	if scored[0].Alt != "" {
		t.Fatalf("first occurrence should win, got alt %q", scored[0].Alt)
	}
}

func TestBestIsStableOnTies(t *testing.T) {
	t.Parallel()

	scored := []domain.ScoredImage{
		{URL: "https://x/first.jpg", Score: 30},
		{URL: "https://x/second.jpg", Score: 30},
		{URL: "https://x/third.jpg", Score: 10},
	}

	best, ok := Best(scored)
	if !ok {
		t.Fatalf("expected a best image")
	}
	if best.URL != "https://x/first.jpg" {
		t.Fatalf("tie must break toward discovery order, got %s", best.URL)
	}

	if _, ok := Best(nil); ok {
		t.Fatalf("empty input must report no best image")
	}
}

func TestClassifyBuckets(t *testing.T) {
	t.Parallel()

	scored := []domain.ScoredImage{
		{URL: "https://x/hero.jpg", Score: 55, Width: 1200, Height: 800},
		{URL: "https://x/tall.jpg", Score: 55, Width: 600, Height: 900},
		{URL: "https://x/mid.jpg", Score: 20},
		{URL: "https://x/low.jpg", Score: 3},
	}

	c := Classify(scored)

	if len(c.Hero) != 1 || c.Hero[0].URL != "https://x/hero.jpg" {
		t.Fatalf("unexpected hero bucket: %v", c.Hero)
	}
	if c.Hero[0].Usage != domain.UsageHero {
		t.Fatalf("hero image missing usage class")
	}
	// High score but portrait ratio lands in thumbnail, not hero.
	if len(c.Thumbnail) != 2 {
		t.Fatalf("unexpected thumbnail bucket size: %d", len(c.Thumbnail))
	}
	if len(c.Gallery) != 1 || c.Gallery[0].Usage != domain.UsageGallery {
		t.Fatalf("unexpected gallery bucket: %v", c.Gallery)
	}
}
