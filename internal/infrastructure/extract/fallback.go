package extract

import (
	"context"
	"html"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"NewsHarvester/internal/domain"
)

// rssContentStrategy reuses the feed's own embedded content. No network.
type rssContentStrategy struct {
	stripper *bluemonday.Policy
}

func (r *rssContentStrategy) name() domain.Strategy {
	return domain.StrategyRSSContent
}

func (r *rssContentStrategy) run(_ context.Context, _ *pageCache, item domain.FeedItem) (domain.ExtractedContent, bool) {
	text := collapseWhitespace(html.UnescapeString(r.stripper.Sanitize(item.RawContent)))
	if len(text) <= minRSSContentLength {
		return domain.ExtractedContent{}, false
	}

	return domain.ExtractedContent{
		BodyText: text,
		Images:   embeddedImages(item),
	}, true
}

// embeddedImages pulls <img> tags out of the snippet plus the enclosure.
func embeddedImages(item domain.FeedItem) []domain.RawImage {
	var out []domain.RawImage

	base, _ := url.Parse(item.Link)
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(item.RawContent)); err == nil {
		out = collectImages(doc, base)
	}

	if item.EnclosureURL != "" {
		out = append(out, domain.RawImage{URL: item.EnclosureURL})
	}

	return out
}

// metaDescriptionStrategy reads the page's meta description, reusing the
// cached fetch from the primary attempt when one exists.
type metaDescriptionStrategy struct{}

func (m *metaDescriptionStrategy) name() domain.Strategy {
	return domain.StrategyMetaDescription
}

func (m *metaDescriptionStrategy) run(ctx context.Context, page *pageCache, item domain.FeedItem) (domain.ExtractedContent, bool) {
	rawHTML, err := page.get(ctx, item.Link)
	if err != nil {
		return domain.ExtractedContent{}, false
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return domain.ExtractedContent{}, false
	}

	description := metaContent(doc, `meta[name="description"]`)
	if description == "" {
		description = metaContent(doc, `meta[property="og:description"]`)
	}
	if len(description) <= minMetaLength {
		return domain.ExtractedContent{}, false
	}

	return domain.ExtractedContent{BodyText: description}, true
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return collapseWhitespace(content)
}

// titleOnlyStrategy is the terminal last resort: it succeeds whenever the
// item has a title and therefore never itself fails the chain.
type titleOnlyStrategy struct{}

func (t *titleOnlyStrategy) name() domain.Strategy {
	return domain.StrategyTitleOnly
}

func (t *titleOnlyStrategy) run(_ context.Context, _ *pageCache, item domain.FeedItem) (domain.ExtractedContent, bool) {
	title := collapseWhitespace(item.Title)
	if title == "" {
		return domain.ExtractedContent{}, false
	}
	return domain.ExtractedContent{BodyText: title}, true
}
