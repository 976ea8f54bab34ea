// Package feed retrieves RSS/Atom feeds and normalizes entries into the
// fixed FeedItem shape at the boundary, so downstream stages never depend on
// feed-specific extra fields.
package feed

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"NewsHarvester/internal/domain"
	"NewsHarvester/internal/ports"
	"NewsHarvester/internal/retry"
)

// Fetcher pulls and parses feeds over HTTP.
type Fetcher struct {
	parser *gofeed.Parser
	policy retry.Policy
	logger *slog.Logger
}

var _ ports.FeedSource = (*Fetcher)(nil)

// NewFetcher wires an HTTP client and identity header into the parser. A nil
// client gets a 10s-timeout default.
func NewFetcher(client *http.Client, userAgent string, policy retry.Policy, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = userAgent

	return &Fetcher{parser: parser, policy: policy, logger: logger}
}

// Fetch retrieves one feed. Non-2xx responses, malformed XML, and timeouts
// surface as FeedUnavailableError; the caller treats that as zero items and
// continues with other feeds.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) ([]domain.FeedItem, error) {
	var parsed *gofeed.Feed
	err := f.policy.Do(ctx, func() error {
		fd, err := f.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			return err
		}
		parsed = fd
		return nil
	})
	if err != nil {
		return nil, &domain.FeedUnavailableError{FeedURL: feedURL, Err: err}
	}

	items := make([]domain.FeedItem, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		if entry == nil {
			continue
		}
		items = append(items, normalize(entry, parsed.Title))
	}

	if f.logger != nil {
		f.logger.Debug("feed fetched", "url", feedURL, "items", len(items))
	}
	return items, nil
}

func normalize(entry *gofeed.Item, sourceLabel string) domain.FeedItem {
	published := time.Now().UTC()
	if entry.PublishedParsed != nil {
		published = *entry.PublishedParsed
	} else if entry.UpdatedParsed != nil {
		published = *entry.UpdatedParsed
	}

	rawContent := entry.Content
	if strings.TrimSpace(rawContent) == "" {
		rawContent = entry.Description
	}

	return domain.FeedItem{
		Title:        strings.TrimSpace(entry.Title),
		Link:         strings.TrimSpace(entry.Link),
		PublishedAt:  published,
		RawContent:   rawContent,
		Description:  strings.TrimSpace(entry.Description),
		GUID:         pickGUID(entry),
		SourceLabel:  sourceLabel,
		Categories:   entry.Categories,
		EnclosureURL: pickEnclosure(entry),
	}
}

func pickGUID(entry *gofeed.Item) string {
	if entry.GUID != "" {
		return entry.GUID
	}
	if entry.Link != "" {
		return entry.Link
	}
	return entry.Title
}

func pickEnclosure(entry *gofeed.Item) string {
	for _, enc := range entry.Enclosures {
		if enc == nil {
			continue
		}
		if strings.HasPrefix(enc.Type, "image/") && enc.URL != "" {
			return enc.URL
		}
	}
	if entry.Image != nil && entry.Image.URL != "" {
		return entry.Image.URL
	}
	return ""
}
