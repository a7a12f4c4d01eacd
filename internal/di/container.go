package di

import (
	"context"
	"fmt"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mailmind/mailmind/internal/adapters/ingest"
	"github.com/mailmind/mailmind/internal/config"
	"github.com/mailmind/mailmind/internal/core"
	"github.com/mailmind/mailmind/internal/extract"
	"github.com/mailmind/mailmind/internal/factory"
	"github.com/mailmind/mailmind/internal/logging"
	"github.com/mailmind/mailmind/internal/pipeline"
	"github.com/mailmind/mailmind/internal/ports"
	"github.com/mailmind/mailmind/internal/whitelist"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewMailerFactory); err != nil {
		return nil, err
	}

	// Register LLM client
	if err := container.Provide(func(f *factory.LLMFactory) (core.LLMClient, error) {
		return f.CreateLLMClient(context.Background())
	}); err != nil {
		return nil, err
	}

	// Register cache repository
	if err := container.Provide(func(f *factory.CacheFactory) (core.CacheRepository, error) {
		return f.CreateCacheRepository()
	}); err != nil {
		return nil, err
	}

	// Register mail transport
	if err := container.Provide(func(f *factory.MailerFactory) core.MailTransport {
		return f.CreateMailTransport()
	}); err != nil {
		return nil, err
	}

	// Register trusted domain checker
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *whitelist.Checker {
		trustedDomains := cfg.GetStringSlice("analysis.trusted_domains")
		if len(trustedDomains) > 0 {
			logger.Info("Loaded trusted domains", zap.Strings("domains", trustedDomains))
		}
		return whitelist.NewChecker(trustedDomains, logger)
	}); err != nil {
		return nil, err
	}

	// Register prompt builder and result parser
	if err := container.Provide(func(cfg *config.Config) *core.PromptBuilder {
		return core.NewPromptBuilder(cfg.GetStringSlice("analysis.categories"))
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(core.NewResultParser); err != nil {
		return nil, err
	}

	// Register analyzer service
	if err := container.Provide(func(
		cfg *config.Config,
		llmClient core.LLMClient,
		cacheRepo core.CacheRepository,
		cacheFactory *factory.CacheFactory,
		llmFactory *factory.LLMFactory,
		prompts *core.PromptBuilder,
		parser *core.ResultParser,
		trusted *whitelist.Checker,
		logger *zap.Logger,
	) (*core.AnalyzerService, error) {
		analysisCfg := cfg.GetAnalysis()
		ttl, err := cacheFactory.GetCacheTTL()
		if err != nil {
			return nil, fmt.Errorf("invalid cache TTL: %w", err)
		}
		return core.NewAnalyzerService(llmClient, cacheRepo, prompts, parser, trusted, logger, core.AnalyzerConfig{
			CacheEnabled:       cacheFactory.IsCacheEnabled(),
			CacheTTL:           ttl,
			MaxModelChars:      analysisCfg.MaxModelChars,
			PreprocessMinChars: analysisCfg.PreprocessMinChars,
			ModelName:          llmFactory.ModelName(),
			Generation:         llmFactory.GenerationOptions(),
		}), nil
	}); err != nil {
		return nil, err
	}

	// Register action router
	if err := container.Provide(func(cfg *config.Config, transport core.MailTransport, logger *zap.Logger) *core.ActionRouter {
		routingCfg := cfg.GetRouting()
		return core.NewActionRouter(transport, logger, routingCfg.CuratorAddress, routingCfg.ExcerptChars)
	}); err != nil {
		return nil, err
	}

	// Register batch processor
	if err := container.Provide(func(cfg *config.Config, analyzer *core.AnalyzerService, router *core.ActionRouter, logger *zap.Logger) *core.BatchProcessor {
		return core.NewBatchProcessor(analyzer, router, logger, cfg.GetAnalysis().MaxBatchSize)
	}); err != nil {
		return nil, err
	}

	// Register extraction front end
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *extract.Extractor {
		extractCfg := cfg.GetExtract()
		return extract.NewExtractor(logger, extract.ExtractorConfig{
			MaxFileSizeMB: extractCfg.MaxFileSizeMB,
			PDFMaxPages:   extractCfg.PDFMaxPages,
			PDFMaxChars:   extractCfg.PDFMaxChars,
		})
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *extract.Splitter {
		return extract.NewSplitter(logger, cfg.GetExtract().MinFragmentChars)
	}); err != nil {
		return nil, err
	}

	// Register submission processor
	if err := container.Provide(pipeline.NewProcessor); err != nil {
		return nil, err
	}
	if err := container.Provide(func(p *pipeline.Processor) ports.EmailProcessor {
		return p
	}); err != nil {
		return nil, err
	}

	// Register inbound SMTP listener
	if err := container.Provide(func(cfg *config.Config, processor ports.EmailProcessor, logger *zap.Logger) ports.EmailIngest {
		ingestCfg := cfg.GetIngest()
		return ingest.NewSMTPIngest(processor, logger, ingestCfg.ListenAddress, ingestCfg.Timeout)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
