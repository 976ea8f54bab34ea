package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"NewsHarvester/internal/retry"
)

// maxPageBytes caps how much of a source page is read; article markup past
// this point never contains the main content.
const maxPageBytes = 2 << 20

// PageFetcher retrieves source pages with browser-like headers and a bounded
// timeout, retrying transient failures under the shared policy.
type PageFetcher struct {
	client    *http.Client
	userAgent string
	policy    retry.Policy
}

// NewPageFetcher wires an HTTP client; a nil client gets a 12s timeout.
func NewPageFetcher(client *http.Client, userAgent string, policy retry.Policy) *PageFetcher {
	if client == nil {
		client = &http.Client{Timeout: 12 * time.Second}
	}
	return &PageFetcher{client: client, userAgent: userAgent, policy: policy}
}

// FetchHTML returns the page body or an error; callers decide how failure
// degrades (the chain treats it as "primary extraction unavailable").
func (p *PageFetcher) FetchHTML(ctx context.Context, pageURL string) (string, error) {
	var body string
	err := p.policy.Do(ctx, func() error {
		fetched, err := p.fetchOnce(ctx, pageURL)
		if err != nil {
			return err
		}
		body = fetched
		return nil
	})
	return body, err
}

func (p *PageFetcher) fetchOnce(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", retry.Permanent(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return "", fmt.Errorf("page returned %s", resp.Status)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", retry.Permanent(fmt.Errorf("page returned %s", resp.Status))
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("read page: %w", err)
	}

	return string(raw), nil
}
