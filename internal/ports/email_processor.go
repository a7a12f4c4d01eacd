package ports

import (
	"context"

	"github.com/mailmind/mailmind/internal/core"
	"github.com/mailmind/mailmind/internal/extract"
)

// EmailProcessor defines the interface for running submissions through the
// analysis pipeline
type EmailProcessor interface {
	// ProcessSubmission extracts, splits, analyzes and routes every email
	// found in a submission
	ProcessSubmission(ctx context.Context, in extract.Input) (*core.BatchReport, error)

	// ProcessMessage analyzes a single email assembled from discrete fields
	// (webhook or SMTP ingestion)
	ProcessMessage(ctx context.Context, sender, subject, body string) (*core.EmailReport, error)
}

// EmailIngest defines the interface for inbound email listeners
type EmailIngest interface {
	// Start starts the ingest listener
	Start() error

	// Stop stops the ingest listener
	Stop() error
}
