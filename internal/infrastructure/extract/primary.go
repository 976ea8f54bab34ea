package extract

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"NewsHarvester/internal/domain"
)

const (
	// readabilityFloor decides when readability output is too thin and the
	// paragraph walk takes over.
	readabilityFloor = 200
	// minParagraphLength filters boilerplate fragments during the walk.
	minParagraphLength = 50
)

// primaryStrategy fetches the source page and isolates its main content.
type primaryStrategy struct{}

func (p *primaryStrategy) name() domain.Strategy {
	return domain.StrategyPrimary
}

func (p *primaryStrategy) run(ctx context.Context, page *pageCache, item domain.FeedItem) (domain.ExtractedContent, bool) {
	rawHTML, err := page.get(ctx, item.Link)
	if err != nil {
		return domain.ExtractedContent{}, false
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return domain.ExtractedContent{}, false
	}
	stripNonContent(doc)

	base, _ := url.Parse(item.Link)

	body := ""
	if article, rErr := readability.FromReader(strings.NewReader(rawHTML), base); rErr == nil {
		body = collapseWhitespace(article.TextContent)
	}
	if len(body) < readabilityFloor {
		body = paragraphText(doc)
	}

	content := domain.ExtractedContent{
		BodyText: body,
		Images:   collectImages(doc, base),
	}
	return content, len(body) > minPrimaryLength
}

func stripNonContent(doc *goquery.Document) {
	doc.Find("script, style, noscript, nav, header, footer, aside, form, iframe").Remove()
	doc.Find(".ad, .ads, .advertisement, .sidebar, .cookie-banner").Remove()
}

// paragraphText concatenates substantial paragraph-level text nodes.
func paragraphText(doc *goquery.Document) string {
	var parts []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		text := collapseWhitespace(s.Text())
		if len(text) > minParagraphLength {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, "\n\n")
}

// collectImages gathers <img> elements with resolvable absolute URLs.
func collectImages(doc *goquery.Document, base *url.URL) []domain.RawImage {
	var out []domain.RawImage
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		if !ok || strings.TrimSpace(src) == "" {
			src, _ = s.Attr("data-src")
		}

		resolved := resolveImageURL(src, base)
		if resolved == "" {
			return
		}

		out = append(out, domain.RawImage{
			URL:    resolved,
			Alt:    strings.TrimSpace(s.AttrOr("alt", "")),
			Width:  intAttr(s, "width"),
			Height: intAttr(s, "height"),
		})
	})
	return out
}

// resolveImageURL resolves //-prefixed and root-relative sources against the
// page origin and rejects data:/base64 payloads.
func resolveImageURL(src string, base *url.URL) string {
	src = strings.TrimSpace(src)
	if src == "" || strings.HasPrefix(src, "data:") {
		return ""
	}

	u, err := url.Parse(src)
	if err != nil {
		return ""
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	if u.Host == "" {
		return ""
	}
	return u.String()
}

func intAttr(s *goquery.Selection, attr string) int {
	v, ok := s.Attr(attr)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
