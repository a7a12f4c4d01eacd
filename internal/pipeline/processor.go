package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mailmind/mailmind/internal/core"
	"github.com/mailmind/mailmind/internal/extract"
)

// Processor wires the extraction front end to the analysis pipeline: text
// acquisition, multi-email splitting, per-email sender extraction, then batch
// analysis and routing.
type Processor struct {
	extractor *extract.Extractor
	splitter  *extract.Splitter
	batch     *core.BatchProcessor
	logger    *zap.Logger
}

// NewProcessor creates a new submission processor
func NewProcessor(
	extractor *extract.Extractor,
	splitter *extract.Splitter,
	batch *core.BatchProcessor,
	logger *zap.Logger,
) *Processor {
	return &Processor{
		extractor: extractor,
		splitter:  splitter,
		batch:     batch,
		logger:    logger,
	}
}

// ProcessSubmission runs one submission end to end. Input problems surface
// as typed errors before any model call is made.
func (p *Processor) ProcessSubmission(ctx context.Context, in extract.Input) (*core.BatchReport, error) {
	content := p.extractor.Extract(in)
	if content.Body == "" {
		return nil, inputError(content.Origin)
	}

	units := p.splitter.Split(content.Body)
	emails := make([]core.EmailContent, len(units))
	for i, unit := range units {
		emails[i] = core.EmailContent{
			Body:   unit,
			Origin: content.Origin,
			Sender: extract.Sender(unit),
		}
	}

	p.logger.Info("Processing submission",
		zap.String("origin", string(content.Origin)),
		zap.Int("emails", len(emails)))

	return p.batch.Process(ctx, emails)
}

// ProcessMessage analyzes one email assembled from discrete fields. The
// submission is not split; webhook senders are taken as given.
func (p *Processor) ProcessMessage(ctx context.Context, sender, subject, body string) (*core.EmailReport, error) {
	if body == "" {
		return nil, core.ErrNoContent
	}

	email := extract.AssembleWebhook(sender, subject, body)
	if email.Sender == "" {
		email.Sender = extract.Sender(email.Body)
	}

	report, err := p.batch.Process(ctx, []core.EmailContent{email})
	if err != nil {
		return nil, err
	}
	if len(report.Results) == 0 {
		return nil, fmt.Errorf("submission produced no results")
	}
	return &report.Results[0], nil
}

// inputError maps a failed extraction origin to its typed error
func inputError(origin core.Origin) error {
	switch origin {
	case core.OriginFileTooLarge:
		return core.ErrFileTooLarge
	case core.OriginUnsupported:
		return core.ErrUnsupportedFile
	case core.OriginPDFError:
		return fmt.Errorf("%w: could not extract text from pdf", core.ErrNoContent)
	case core.OriginTxtError:
		return fmt.Errorf("%w: could not decode text file", core.ErrNoContent)
	}
	return core.ErrNoContent
}
