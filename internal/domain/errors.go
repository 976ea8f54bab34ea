package domain

import (
	"errors"
	"fmt"
)

// FeedUnavailableError reports a feed that could not be fetched or parsed.
// The caller treats it as "zero items for this feed" and continues.
type FeedUnavailableError struct {
	FeedURL string
	Err     error
}

func (e *FeedUnavailableError) Error() string {
	return fmt.Sprintf("feed unavailable %s: %v", e.FeedURL, e.Err)
}

func (e *FeedUnavailableError) Unwrap() error {
	return e.Err
}

// RewriteError reports a rewrite-service request or response-shape failure.
// The orchestrator recovers by falling back to the raw extracted content.
type RewriteError struct {
	Reason string
	Err    error
}

func (e *RewriteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("rewrite failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("rewrite failed: %s", e.Reason)
}

func (e *RewriteError) Unwrap() error {
	return e.Err
}

// ErrExtractionExhausted marks an item for which every fallback strategy
// failed. Only possible when even the title is unusable.
var ErrExtractionExhausted = errors.New("extraction exhausted: all strategies failed")

// ErrJobRunning guards against overlapping runs of the same job.
var ErrJobRunning = errors.New("job is already running")

// ErrUnknownJob is returned for manual triggers naming an unconfigured job.
var ErrUnknownJob = errors.New("unknown job")
