package core

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mailmind/mailmind/internal/preprocess"
	"github.com/mailmind/mailmind/internal/whitelist"
)

// ModelUsedCache marks results served from the cache instead of a model call
const ModelUsedCache = "cache"

// AnalyzerConfig bounds how much text reaches the model and when
// preprocessing kicks in.
type AnalyzerConfig struct {
	CacheEnabled       bool
	CacheTTL           time.Duration
	MaxModelChars      int
	PreprocessMinChars int
	ModelName          string
	Generation         GenerationOptions
}

// AnalyzerService runs the classification pipeline for one email: cache
// lookup, text budget enforcement, prompt construction, model invocation and
// result parsing.
type AnalyzerService struct {
	llmClient LLMClient
	cache     CacheRepository
	prompts   *PromptBuilder
	parser    *ResultParser
	trusted   *whitelist.Checker
	logger    *zap.Logger
	cfg       AnalyzerConfig
}

// NewAnalyzerService creates a new analyzer service
func NewAnalyzerService(
	llmClient LLMClient,
	cache CacheRepository,
	prompts *PromptBuilder,
	parser *ResultParser,
	trusted *whitelist.Checker,
	logger *zap.Logger,
	cfg AnalyzerConfig,
) *AnalyzerService {
	if cfg.MaxModelChars <= 0 {
		cfg.MaxModelChars = 2000
	}
	if cfg.PreprocessMinChars <= 0 {
		cfg.PreprocessMinChars = 1000
	}
	return &AnalyzerService{
		llmClient: llmClient,
		cache:     cache,
		prompts:   prompts,
		parser:    parser,
		trusted:   trusted,
		logger:    logger,
		cfg:       cfg,
	}
}

// Analyze classifies a single email. Empty content is rejected; transport
// failures from the model propagate so the caller can record them, while
// content failures (empty or unparseable model output) degrade to the
// fallback result that escalates to a human.
func (s *AnalyzerService) Analyze(ctx context.Context, email *EmailContent) (*AnalysisResult, error) {
	if email.Body == "" {
		return nil, ErrNoContent
	}

	// Trusted sender domains skip classification entirely and go straight
	// to human review.
	if s.trusted != nil && s.trusted.IsTrusted(email.Sender) {
		s.logger.Info("Skipping model analysis for trusted sender domain",
			zap.String("sender", email.Sender))
		return &AnalysisResult{
			Category:            FallbackCategory,
			NeedsHumanAttention: true,
			Summary:             "Remetente de domínio confiável",
			SuggestedAction:     "Encaminhar diretamente para a equipe",
			AnalyzedAt:          time.Now(),
			ModelUsed:           "whitelist",
		}, nil
	}

	key := CacheKey(email.Body)
	if s.cfg.CacheEnabled {
		if cached, err := s.cache.Get(ctx, key); err == nil {
			s.logger.Debug("Cache hit for email content", zap.String("key", key))
			cached.ModelUsed = ModelUsedCache
			return cached, nil
		}
	}

	text := preprocess.TruncateForModel(email.Body, s.cfg.MaxModelChars)
	if len(text) > s.cfg.PreprocessMinChars {
		text = preprocess.Prepare(text)
	}

	prompt := s.prompts.Build(text)

	raw, err := s.llmClient.Complete(ctx, prompt, s.cfg.Generation)
	if err != nil {
		if errors.Is(err, ErrEmptyModelResponse) {
			// The provider answered but gave us nothing to parse. This is
			// a content failure: degrade to the escalation fallback
			// instead of retrying or failing the email.
			s.logger.Warn("Model returned no usable content, escalating", zap.Error(err))
			result := s.parser.fallback("")
			result.ProcessingID = uuid.NewString()
			return result, nil
		}
		return nil, err
	}

	result := s.parser.Parse(raw)
	result.ModelUsed = s.cfg.ModelName
	result.ProcessingID = uuid.NewString()

	if s.cfg.CacheEnabled {
		if err := s.cache.Set(ctx, key, result, s.cfg.CacheTTL); err != nil {
			s.logger.Error("Failed to update cache", zap.Error(err))
		}
	}

	return result, nil
}
