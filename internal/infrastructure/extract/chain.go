// Package extract resolves feed items to article content. The primary
// extractor pulls the source page and isolates readable text; when it comes
// up short, an ordered chain of degraded strategies takes over, ending with
// the title-only last resort.
package extract

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"NewsHarvester/internal/domain"
	"NewsHarvester/internal/ports"
	"NewsHarvester/internal/retry"
)

const (
	// minPrimaryLength is the success bar for primary extraction.
	minPrimaryLength = 100
	// minRSSContentLength is the success bar for the feed-embedded snippet.
	minRSSContentLength = 50
	// minMetaLength is the success bar for meta descriptions.
	minMetaLength = 30
)

// strategy is one acquisition method. Strategies run in registration order
// until one succeeds; ok == false hands control to the next one.
type strategy interface {
	name() domain.Strategy
	run(ctx context.Context, page *pageCache, item domain.FeedItem) (domain.ExtractedContent, bool)
}

// Chain is the full extraction pipeline behind ports.ContentExtractor.
type Chain struct {
	strategies []strategy
	pages      *PageFetcher
	logger     *slog.Logger
}

var _ ports.ContentExtractor = (*Chain)(nil)

// NewChain builds the default strategy order: primary extraction, RSS
// content, meta description, title-only.
func NewChain(client *http.Client, userAgent string, policy retry.Policy, logger *slog.Logger) *Chain {
	stripper := bluemonday.StrictPolicy()
	return &Chain{
		pages: NewPageFetcher(client, userAgent, policy),
		strategies: []strategy{
			&primaryStrategy{},
			&rssContentStrategy{stripper: stripper},
			&metaDescriptionStrategy{},
			&titleOnlyStrategy{},
		},
		logger: logger,
	}
}

// Extract walks the chain. It never returns an error: total exhaustion is
// reported as Success == false so the caller can record it and move on.
func (c *Chain) Extract(ctx context.Context, item domain.FeedItem) domain.ExtractedContent {
	page := &pageCache{fetch: c.pages.FetchHTML}

	for _, s := range c.strategies {
		content, ok := s.run(ctx, page, item)
		if !ok {
			continue
		}
		content.Strategy = s.name()
		content.Success = true
		if c.logger != nil {
			c.logger.Debug("content extracted",
				"url", item.Link,
				"strategy", content.Strategy,
				"length", len(content.BodyText),
				"images", len(content.Images))
		}
		return content
	}

	if c.logger != nil {
		c.logger.Warn("extraction exhausted", "url", item.Link)
	}
	return domain.ExtractedContent{Success: false}
}

// pageCache memoizes the single page fetch so later strategies reuse the
// prior response instead of hitting the origin again.
type pageCache struct {
	fetch   func(ctx context.Context, pageURL string) (string, error)
	fetched bool
	html    string
	err     error
}

func (p *pageCache) get(ctx context.Context, pageURL string) (string, error) {
	if !p.fetched {
		p.html, p.err = p.fetch(ctx, pageURL)
		p.fetched = true
	}
	return p.html, p.err
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
