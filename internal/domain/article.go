package domain

import "time"

// FeedItem is the normalized shape of one feed entry. It is assembled at the
// feed-fetcher boundary; downstream stages treat it as read-only and must not
// depend on feed-specific extra fields.
type FeedItem struct {
	Title        string
	Link         string
	PublishedAt  time.Time
	RawContent   string // feed-embedded HTML or snippet, may be empty
	Description  string
	GUID         string
	SourceLabel  string
	Categories   []string
	EnclosureURL string // feed enclosure image, if any
}

// Strategy identifies which acquisition method produced the content.
type Strategy string

const (
	StrategyPrimary         Strategy = "primary_extraction"
	StrategyRSSContent      Strategy = "rss_content_fallback"
	StrategyMetaDescription Strategy = "meta_description_fallback"
	StrategyTitleOnly       Strategy = "title_only_fallback"
)

// RawImage is an image reference discovered during extraction, before scoring.
type RawImage struct {
	URL    string
	Alt    string
	Width  int
	Height int
}

// ExtractedContent is the result of the extraction stage. Success implies a
// non-empty BodyText; the only Success == false state is total exhaustion of
// the fallback chain.
type ExtractedContent struct {
	BodyText string
	Images   []RawImage
	Strategy Strategy
	Success  bool
}

// UsageClass buckets a scored image by its intended placement.
type UsageClass string

const (
	UsageHero      UsageClass = "hero"
	UsageThumbnail UsageClass = "thumbnail"
	UsageGallery   UsageClass = "gallery"
)

// ScoredImage carries the deterministic desirability score assigned by the
// image optimizer. Scores are never negative.
type ScoredImage struct {
	URL    string
	Alt    string
	Width  int
	Height int
	Score  int
	Usage  UsageClass
}

// QualityRating is advisory metadata describing content richness. It never
// blocks persistence.
type QualityRating string

const (
	QualityExcellent QualityRating = "excellent"
	QualityGood      QualityRating = "good"
	QualityFair      QualityRating = "fair"
	QualityPoor      QualityRating = "poor"
)

// StructuredArticle is the strict response shape demanded from the rewrite
// service. Every field is validated before any value is trusted.
type StructuredArticle struct {
	Title          string   `json:"title"`
	Excerpt        string   `json:"excerpt"`
	Content        string   `json:"content"`
	Slug           string   `json:"slug"`
	SEOTitle       string   `json:"seoTitle"`
	SEODescription string   `json:"seoDescription"`
	Tags           []string `json:"tags"`
	Location       string   `json:"location"`
}

// RewriteRequest is the payload sent to the rewrite service.
type RewriteRequest struct {
	SourceText    string `json:"sourceText"`
	SourceURL     string `json:"sourceUrl"`
	OriginalTitle string `json:"originalTitle"`
	Category      string `json:"category"`
}

// CandidateArticle is the fully assembled, not-yet-persisted unit. SourceURL
// is fixed to the feed item's link at construction and is the sole identity
// key used for deduplication.
type CandidateArticle struct {
	SourceURL  string
	Item       FeedItem
	Content    ExtractedContent
	Images     []ScoredImage
	BestImage  *ScoredImage
	Quality    QualityRating
	Rewritten  *StructuredArticle
	CategoryID string
	AuthorID   string
}

// NewCandidate binds the deduplication key to the item's link.
func NewCandidate(item FeedItem, content ExtractedContent) CandidateArticle {
	return CandidateArticle{
		SourceURL: item.Link,
		Item:      item,
		Content:   content,
	}
}

// EffectiveTitle prefers the rewritten title over the feed item's.
func (c CandidateArticle) EffectiveTitle() string {
	if c.Rewritten != nil && c.Rewritten.Title != "" {
		return c.Rewritten.Title
	}
	return c.Item.Title
}

// EffectiveBody prefers the rewritten HTML content over the raw body text.
func (c CandidateArticle) EffectiveBody() string {
	if c.Rewritten != nil && c.Rewritten.Content != "" {
		return c.Rewritten.Content
	}
	return c.Content.BodyText
}

// ArticleRef is the minimal stored-article projection returned by lookups.
type ArticleRef struct {
	ID        string
	SourceURL string
}

// CategoryRef and AuthorRef are resolved once per run, never per item.
type CategoryRef struct {
	ID   string
	Slug string
	Name string
}

// AuthorRef identifies the author every imported article is attributed to.
type AuthorRef struct {
	ID   string
	Name string
}

// ImportRunResult aggregates per-category outcomes. Immutable once returned.
type ImportRunResult struct {
	Category   string
	Imported   int
	Skipped    int
	Errors     int
	ArticleIDs []string
	StartedAt  time.Time
	FinishedAt time.Time
}

// JobStatus is the per-job slice of the scheduler's state.
type JobStatus struct {
	IsRunning bool
	LastRunAt time.Time
	NextRunAt time.Time
}

// ScheduleState is a point-in-time snapshot of every configured job.
type ScheduleState map[string]JobStatus
