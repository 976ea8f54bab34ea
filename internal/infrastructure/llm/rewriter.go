// Package llm talks to the generative rewrite service over an
// OpenAI-compatible chat-completions API and enforces its strict JSON
// response contract.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"NewsHarvester/internal/config"
	"NewsHarvester/internal/domain"
	"NewsHarvester/internal/ports"
	"NewsHarvester/internal/retry"
)

const defaultSystemPrompt = "You are a news editor. Rewrite the provided source text into an original " +
	"article. Respond with a single JSON object containing exactly these fields: " +
	"title, excerpt, content (HTML), slug, seoTitle, seoDescription, tags (array of strings), location. " +
	"Respond with JSON only, no surrounding prose."

// RewriteClient implements ports.Rewriter backed by OpenAI-compatible APIs.
type RewriteClient struct {
	endpoint       string
	model          string
	apiKey         string
	systemPrompt   string
	maxSourceChars int
	httpClient     *http.Client
	policy         retry.Policy
	logger         *slog.Logger
}

var _ ports.Rewriter = (*RewriteClient)(nil)

// NewRewriteClient builds a client from configuration.
func NewRewriteClient(cfg config.RewriteConfig, policy retry.Policy, logger *slog.Logger) *RewriteClient {
	maxChars := cfg.MaxSourceChars
	if maxChars <= 0 {
		maxChars = 6000
	}
	return &RewriteClient{
		endpoint:       cfg.Endpoint,
		model:          cfg.Model,
		apiKey:         cfg.APIKey,
		systemPrompt:   cfg.SystemPrompt,
		maxSourceChars: maxChars,
		httpClient:     &http.Client{Timeout: 60 * time.Second},
		policy:         policy,
		logger:         logger,
	}
}

// Rewrite sends a bounded excerpt of the extracted text and demands the
// structured-article JSON back. Any deviation from the contract is a
// RewriteError; the orchestrator falls back to raw content on it.
func (c *RewriteClient) Rewrite(ctx context.Context, req domain.RewriteRequest) (domain.StructuredArticle, error) {
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return domain.StructuredArticle{}, &domain.RewriteError{Reason: "rewrite client misconfigured"}
	}

	req.SourceText = truncate(req.SourceText, c.maxSourceChars)

	userPayload, err := json.Marshal(req)
	if err != nil {
		return domain.StructuredArticle{}, &domain.RewriteError{Reason: "marshal request", Err: err}
	}

	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": safePrompt(c.systemPrompt)},
			{"role": "user", "content": string(userPayload)},
		},
	})
	if err != nil {
		return domain.StructuredArticle{}, &domain.RewriteError{Reason: "marshal payload", Err: err}
	}

	var raw string
	err = c.policy.Do(ctx, func() error {
		content, reqErr := c.post(ctx, body)
		if reqErr != nil {
			return reqErr
		}
		raw = content
		return nil
	})
	if err != nil {
		return domain.StructuredArticle{}, &domain.RewriteError{Reason: "request failed", Err: err}
	}

	article, err := parseStructured(raw)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("rewrite response rejected", "error", err, "url", req.SourceURL)
		}
		return domain.StructuredArticle{}, err
	}
	return article, nil
}

func (c *RewriteClient) post(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", retry.Permanent(fmt.Errorf("new request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send rewrite request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		err := fmt.Errorf("rewrite service error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
		if resp.StatusCode < http.StatusInternalServerError && resp.StatusCode != http.StatusTooManyRequests {
			return "", retry.Permanent(err)
		}
		return "", err
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("decode completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("completion has no choices")
	}

	return completion.Choices[0].Message.Content, nil
}

// parseStructured strips code-fence wrappers, parses the JSON object, and
// validates every required field before trusting it.
func parseStructured(raw string) (domain.StructuredArticle, error) {
	cleaned := stripCodeFence(raw)

	var article domain.StructuredArticle
	if err := json.Unmarshal([]byte(cleaned), &article); err != nil {
		return domain.StructuredArticle{}, &domain.RewriteError{Reason: "response is not the required JSON shape", Err: err}
	}

	missing := make([]string, 0, 4)
	if strings.TrimSpace(article.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(article.Excerpt) == "" {
		missing = append(missing, "excerpt")
	}
	if strings.TrimSpace(article.Content) == "" {
		missing = append(missing, "content")
	}
	if strings.TrimSpace(article.Slug) == "" {
		missing = append(missing, "slug")
	}
	if len(missing) > 0 {
		return domain.StructuredArticle{}, &domain.RewriteError{
			Reason: fmt.Sprintf("response missing fields: %s", strings.Join(missing, ", ")),
		}
	}

	if article.Tags == nil {
		article.Tags = []string{}
	}
	return article, nil
}

func stripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if i := strings.Index(trimmed, "\n"); i >= 0 {
		trimmed = trimmed[i+1:]
	}
	if i := strings.LastIndex(trimmed, "```"); i >= 0 {
		trimmed = trimmed[:i]
	}
	return strings.TrimSpace(trimmed)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

func safePrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return defaultSystemPrompt
	}
	return prompt
}
