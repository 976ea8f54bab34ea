// Package filter discards low-value feed items before any network fetch of
// the source page, bounding the cost of bad items.
package filter

import (
	"net/url"
	"strings"

	"NewsHarvester/internal/domain"
)

const (
	// MinTitleLength rejects headline fragments and ticker noise.
	MinTitleLength = 20
	// MinDescriptionLength applies only when a description is present.
	// An absent description is not itself disqualifying.
	MinDescriptionLength = 50
)

// Accept reports whether the item is worth extracting.
func Accept(item domain.FeedItem) bool {
	ok, _ := Check(item)
	return ok
}

// Check returns the rejection reason alongside the verdict, for logging.
func Check(item domain.FeedItem) (bool, string) {
	if item.Link == "" {
		return false, "missing link"
	}

	if isNonArticle(item.Link) || isNonArticle(item.Title) {
		return false, "non-article resource"
	}

	if len(strings.TrimSpace(item.Title)) < MinTitleLength {
		return false, "title too short"
	}

	if desc := strings.TrimSpace(item.Description); desc != "" && len(desc) < MinDescriptionLength {
		return false, "description too short"
	}

	return true, ""
}

var nonArticleSuffixes = []string{".pdf", ".zip", ".mp3", ".mp4"}

func isNonArticle(s string) bool {
	candidate := strings.ToLower(strings.TrimSpace(s))
	if u, err := url.Parse(candidate); err == nil && u.Path != "" {
		candidate = strings.ToLower(u.Path)
	}
	for _, suffix := range nonArticleSuffixes {
		if strings.HasSuffix(candidate, suffix) {
			return true
		}
	}
	return false
}
