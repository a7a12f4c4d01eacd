package core

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// ErrorCategory is the synthesized category for emails whose analysis failed
const ErrorCategory = "Erro"

// BatchProcessor applies the full analysis pipeline to each email of a
// submission independently. One failing email never aborts the rest; it is
// recorded as an error item and processing continues. Items run sequentially
// because the model endpoint is rate limited.
type BatchProcessor struct {
	analyzer *AnalyzerService
	router   *ActionRouter
	logger   *zap.Logger
	maxBatch int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(analyzer *AnalyzerService, router *ActionRouter, logger *zap.Logger, maxBatch int) *BatchProcessor {
	if maxBatch <= 0 {
		maxBatch = 10
	}
	return &BatchProcessor{
		analyzer: analyzer,
		router:   router,
		logger:   logger,
		maxBatch: maxBatch,
	}
}

// Process analyzes and routes every email in order. Output order matches
// input order. When the caller's deadline expires mid-batch, un-started
// emails are skipped and the partial results are returned.
func (p *BatchProcessor) Process(ctx context.Context, emails []EmailContent) (*BatchReport, error) {
	if len(emails) == 0 {
		return nil, ErrNoContent
	}
	if len(emails) > p.maxBatch {
		return nil, fmt.Errorf("%w: got %d, limit %d", ErrBatchTooLarge, len(emails), p.maxBatch)
	}

	report := &BatchReport{
		TotalEmails: len(emails),
		Results:     make([]EmailReport, 0, len(emails)),
	}

	for i := range emails {
		if ctx.Err() != nil {
			p.logger.Warn("Deadline exceeded, returning partial batch results",
				zap.Int("processed", len(report.Results)),
				zap.Int("total", len(emails)))
			break
		}
		report.Results = append(report.Results, p.processOne(ctx, &emails[i]))
	}

	return report, nil
}

// processOne runs a single email through analysis and routing, converting any
// failure into an error report item.
func (p *BatchProcessor) processOne(ctx context.Context, email *EmailContent) EmailReport {
	item := BatchItem{Content: *email}

	result, err := p.analyzer.Analyze(ctx, email)
	if err != nil {
		p.logger.Error("Email analysis failed", zap.Error(err))
		item.Err = err
		return p.errorReport(email, err)
	}
	item.Result = result

	item.Decision = p.router.Route(result, email)
	actionTaken := p.router.Dispatch(ctx, item.Decision)

	sender := email.Sender
	if sender == "" {
		sender = "Não identificado"
	}

	return EmailReport{
		Category:  result.Category,
		Attention: AttentionToken(result.NeedsHumanAttention),
		Summary:   result.Summary,
		Suggested: result.SuggestedAction,
		Action:    actionTaken,
		Sender:    sender,
		Cached:    result.ModelUsed == ModelUsedCache,
	}
}

func (p *BatchProcessor) errorReport(email *EmailContent, err error) EmailReport {
	sender := email.Sender
	if sender == "" {
		sender = "Não identificado"
	}
	msg := err.Error()
	if len(msg) > 100 {
		msg = msg[:100]
	}
	return EmailReport{
		Category:  ErrorCategory,
		Attention: AttentionToken(true),
		Summary:   "Falha na análise: " + msg,
		Suggested: "Verifique o conteúdo e tente novamente",
		Action:    "Erro no processamento",
		Sender:    sender,
	}
}
