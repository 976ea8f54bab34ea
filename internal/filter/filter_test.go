package filter

import (
	"testing"

	"NewsHarvester/internal/domain"
)

func TestCheckRejectsShortTitle(t *testing.T) {
	t.Parallel()

	ok, reason := Check(domain.FeedItem{Title: "Short", Link: "https://x/1"})
	if ok {
		t.Fatalf("expected rejection for short title")
	}
	if reason != "title too short" {
		t.Fatalf("unexpected reason: %s", reason)
	}
}

func TestCheckAcceptsLongTitleWithoutDescription(t *testing.T) {
	t.Parallel()

	item := domain.FeedItem{
		Title: "A Properly Long Article Title About Science",
		Link:  "https://x/2",
	}
	if ok, reason := Check(item); !ok {
		t.Fatalf("expected acceptance, got rejection: %s", reason)
	}
}

func TestCheckDescriptionAsymmetry(t *testing.T) {
	t.Parallel()

	// A present-but-short description disqualifies; an absent one does not.
	base := domain.FeedItem{
		Title: "A Properly Long Article Title About Science",
		Link:  "https://x/2",
	}

	withShort := base
	withShort.Description = "too short"
	if ok, _ := Check(withShort); ok {
		t.Fatalf("expected rejection for short description")
	}

	withLong := base
	withLong.Description = "This description easily clears the fifty character minimum threshold."
	if ok, reason := Check(withLong); !ok {
		t.Fatalf("expected acceptance, got rejection: %s", reason)
	}

	if ok, reason := Check(base); !ok {
		t.Fatalf("absent description must not disqualify: %s", reason)
	}
}

func TestCheckRejectsNonArticleResources(t *testing.T) {
	t.Parallel()

	cases := []domain.FeedItem{
		{Title: "A Properly Long Article Title About Science", Link: "https://x/report.pdf"},
		{Title: "A Properly Long Article Title About Science", Link: "https://x/report.PDF?dl=1"},
		{Title: "Quarterly earnings deck download.pdf", Link: "https://x/3"},
		{Title: "A Properly Long Article Title About Science", Link: ""},
	}
	for _, item := range cases {
		if Accept(item) {
			t.Fatalf("expected rejection for %q / %q", item.Title, item.Link)
		}
	}
}
