package factory

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mailmind/mailmind/internal/adapters/bedrock"
	"github.com/mailmind/mailmind/internal/adapters/gemini"
	"github.com/mailmind/mailmind/internal/adapters/llm"
	"github.com/mailmind/mailmind/internal/adapters/openai"
	"github.com/mailmind/mailmind/internal/config"
	"github.com/mailmind/mailmind/internal/core"
	"go.uber.org/zap"
)

// LLMFactory creates LLM clients
type LLMFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger) *LLMFactory {
	return &LLMFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateLLMClient creates the configured primary client wrapped with retry
// handling, plus the fallback provider when one is configured.
func (f *LLMFactory) CreateLLMClient(ctx context.Context) (core.LLMClient, error) {
	llmConfig := f.cfg.GetLLM()

	primary, err := f.createProvider(ctx, llmConfig.Provider)
	if err != nil {
		return nil, err
	}

	var fallback core.LLMClient
	if llmConfig.FallbackProvider != "" && llmConfig.FallbackProvider != llmConfig.Provider {
		fallback, err = f.createProvider(ctx, llmConfig.FallbackProvider)
		if err != nil {
			return nil, fmt.Errorf("failed to create fallback provider: %w", err)
		}
	}

	retryCfg := llm.RetryConfig{
		MaxAttempts:    llmConfig.MaxAttempts,
		BaseDelay:      llmConfig.RetryBaseDelay,
		MaxDelay:       llmConfig.RetryMaxDelay,
		RequestTimeout: llmConfig.RequestTimeout,
	}
	return llm.NewResilientClient(primary, fallback, f.logger, retryCfg), nil
}

// ModelName returns the model identifier of the configured primary provider
func (f *LLMFactory) ModelName() string {
	switch f.cfg.GetLLM().Provider {
	case "bedrock":
		return f.cfg.GetBedrock().ModelID
	case "gemini":
		return f.cfg.GetGemini().ModelName
	case "openai":
		return f.cfg.GetOpenAI().ModelName
	default:
		return "unknown"
	}
}

// GenerationOptions returns the sampling options of the configured primary provider
func (f *LLMFactory) GenerationOptions() core.GenerationOptions {
	switch f.cfg.GetLLM().Provider {
	case "bedrock":
		bedrockCfg := f.cfg.GetBedrock()
		return core.GenerationOptions{
			Temperature:     bedrockCfg.Temperature,
			MaxOutputTokens: bedrockCfg.MaxTokens,
		}
	case "openai":
		openaiCfg := f.cfg.GetOpenAI()
		return core.GenerationOptions{
			Temperature:     openaiCfg.Temperature,
			MaxOutputTokens: openaiCfg.MaxTokens,
			JSONMode:        true,
		}
	default:
		geminiCfg := f.cfg.GetGemini()
		return core.GenerationOptions{
			Temperature:     geminiCfg.Temperature,
			MaxOutputTokens: geminiCfg.MaxTokens,
			JSONMode:        true,
		}
	}
}

func (f *LLMFactory) createProvider(ctx context.Context, provider string) (core.LLMClient, error) {
	switch provider {
	case "bedrock":
		bedrockCfg := f.cfg.GetBedrock()
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(bedrockCfg.Region),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
		}
		return bedrock.NewBedrockClient(bedrockruntime.NewFromConfig(awsCfg), bedrockCfg.ModelID, f.logger), nil
	case "gemini":
		geminiCfg := f.cfg.GetGemini()
		return gemini.NewGeminiClient(ctx, geminiCfg.APIKey, geminiCfg.ModelName, f.logger)
	case "openai":
		openaiCfg := f.cfg.GetOpenAI()
		return openai.NewOpenAIClient(openaiCfg.APIKey, openaiCfg.ModelName, f.logger), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}
