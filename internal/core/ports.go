package core

import (
	"context"
	"time"
)

// GenerationOptions controls a single model completion call
type GenerationOptions struct {
	Temperature     float32
	MaxOutputTokens int
	JSONMode        bool
}

// LLMClient defines the interface for hosted model completion endpoints
type LLMClient interface {
	// Complete sends the prompt to the model and returns the raw text response
	Complete(ctx context.Context, prompt string, opts GenerationOptions) (string, error)
}

// CacheRepository defines the interface for caching analysis results by content key
type CacheRepository interface {
	// Get retrieves a cached result for a content key
	Get(ctx context.Context, key string) (*AnalysisResult, error)

	// Set stores an analysis result under a content key
	Set(ctx context.Context, key string, result *AnalysisResult, ttl time.Duration) error

	// Delete removes a cache entry
	Delete(ctx context.Context, key string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}

// MailTransport defines the contract the router needs from a mail dispatcher
type MailTransport interface {
	// Send dispatches an email to a single recipient
	Send(ctx context.Context, to string, subject string, body string) error
}
