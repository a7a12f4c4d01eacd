package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mailmind/mailmind/internal/config"
	"github.com/mailmind/mailmind/internal/core"
	"github.com/mailmind/mailmind/internal/extract"
	"github.com/mailmind/mailmind/internal/factory"
	"github.com/mailmind/mailmind/internal/logging"
	"github.com/mailmind/mailmind/internal/pipeline"
	"github.com/mailmind/mailmind/internal/whitelist"
	"go.uber.org/zap"
)

var (
	// LLM provider flags
	provider    = flag.String("provider", "gemini", "LLM provider (gemini, openai, bedrock)")
	maxTokens   = flag.Int("max-tokens", 1024, "Maximum tokens for LLM response")
	temperature = flag.Float64("temperature", 0.2, "Temperature for LLM generation")

	// Bedrock flags
	bedrockRegion  = flag.String("bedrock-region", "us-east-1", "AWS region for Bedrock")
	bedrockModelID = flag.String("bedrock-model", "anthropic.claude-v2", "Bedrock model ID")

	// Gemini flags
	geminiAPIKey    = flag.String("gemini-api-key", "", "API key for Google Gemini")
	geminiModelName = flag.String("gemini-model", "gemini-2.5-flash", "Gemini model name")

	// OpenAI flags
	openaiAPIKey    = flag.String("openai-api-key", "", "API key for OpenAI")
	openaiModelName = flag.String("openai-model", "gpt-4", "OpenAI model name")

	// Triage flags
	curatorAddress = flag.String("curator", "", "Address that receives escalated emails")
	trustedDomains = flag.String("trusted", "", "Comma-separated list of trusted sender domains")

	// Input flags
	inputFile  = flag.String("file", "", "Input file, .txt or .pdf (use stdin if not specified)")
	jsonOut    = flag.Bool("json", false, "Print the report as JSON")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog    = flag.Bool("json-log", false, "Output logs in JSON format")
	configFile = flag.String("config", "", "Path to config file (overrides command line flags)")
)

func main() {
	flag.Parse()

	var cfg *config.Config
	var err error

	// Initialize logger
	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Load configuration from file if specified
	if *configFile != "" {
		cfg, err = config.New()
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
	} else {
		cfg = createConfigFromFlags()
	}

	ctx := context.Background()

	// Initialize LLM client
	llmFactory := factory.NewLLMFactory(cfg, logger)
	llmClient, err := llmFactory.CreateLLMClient(ctx)
	if err != nil {
		logger.Fatal("Failed to create LLM client", zap.Error(err))
	}
	defer func() {
		if closer, ok := llmClient.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				logger.Error("Failed to close LLM client", zap.Error(err))
			}
		}
	}()

	// Initialize cache
	cacheFactory := factory.NewCacheFactory(cfg, logger)
	cacheRepo, err := cacheFactory.CreateCacheRepository()
	if err != nil {
		logger.Fatal("Failed to create cache", zap.Error(err))
	}
	if stopper, ok := cacheRepo.(interface{ Stop() }); ok {
		defer stopper.Stop()
	}
	ttl, err := cacheFactory.GetCacheTTL()
	if err != nil {
		logger.Fatal("Invalid cache TTL", zap.Error(err))
	}

	// Build the pipeline
	analysisCfg := cfg.GetAnalysis()
	trustedChecker := whitelist.NewChecker(analysisCfg.TrustedDomains, logger)
	analyzer := core.NewAnalyzerService(
		llmClient,
		cacheRepo,
		core.NewPromptBuilder(analysisCfg.Categories),
		core.NewResultParser(logger),
		trustedChecker,
		logger,
		core.AnalyzerConfig{
			CacheEnabled:       cacheFactory.IsCacheEnabled(),
			CacheTTL:           ttl,
			MaxModelChars:      analysisCfg.MaxModelChars,
			PreprocessMinChars: analysisCfg.PreprocessMinChars,
			ModelName:          llmFactory.ModelName(),
			Generation:         llmFactory.GenerationOptions(),
		},
	)

	transport := factory.NewMailerFactory(cfg, logger).CreateMailTransport()
	routingCfg := cfg.GetRouting()
	router := core.NewActionRouter(transport, logger, routingCfg.CuratorAddress, routingCfg.ExcerptChars)
	batch := core.NewBatchProcessor(analyzer, router, logger, analysisCfg.MaxBatchSize)

	extractCfg := cfg.GetExtract()
	processor := pipeline.NewProcessor(
		extract.NewExtractor(logger, extract.ExtractorConfig{
			MaxFileSizeMB: extractCfg.MaxFileSizeMB,
			PDFMaxPages:   extractCfg.PDFMaxPages,
			PDFMaxChars:   extractCfg.PDFMaxChars,
		}),
		extract.NewSplitter(logger, extractCfg.MinFragmentChars),
		batch,
		logger,
	)

	// Read the submission
	in, err := readInput()
	if err != nil {
		logger.Fatal("Failed to read input", zap.Error(err))
	}

	startTime := time.Now()
	report, err := processor.ProcessSubmission(ctx, in)
	if err != nil {
		logger.Fatal("Triage failed", zap.Error(err))
	}
	duration := time.Since(startTime)

	printReport(report, duration)
}

// readInput builds the submission from the input flags. A .txt or .pdf file
// goes through upload extraction; anything else is treated as inline text.
func readInput() (extract.Input, error) {
	if *inputFile == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return extract.Input{}, fmt.Errorf("failed to read stdin: %w", err)
		}
		return extract.Input{Text: string(data)}, nil
	}

	data, err := os.ReadFile(*inputFile)
	if err != nil {
		return extract.Input{}, fmt.Errorf("failed to read %s: %w", *inputFile, err)
	}

	lower := strings.ToLower(*inputFile)
	if strings.HasSuffix(lower, ".txt") || strings.HasSuffix(lower, ".pdf") {
		return extract.Input{File: &extract.FileUpload{Name: *inputFile, Data: data}}, nil
	}
	return extract.Input{Text: string(data)}, nil
}

func printReport(report *core.BatchReport, duration time.Duration) {
	if *jsonOut {
		encoded, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			fmt.Printf("Failed to encode report: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(encoded))
		return
	}

	fmt.Printf("\n=== Triage Report ===\n")
	fmt.Printf("Emails analyzed: %d\n", report.TotalEmails)
	fmt.Printf("Processing time: %v\n", duration)
	for i, result := range report.Results {
		fmt.Printf("\n--- Email %d ---\n", i+1)
		fmt.Printf("Sender: %s\n", result.Sender)
		fmt.Printf("Category: %s\n", result.Category)
		fmt.Printf("Needs attention: %s\n", result.Attention)
		fmt.Printf("Summary: %s\n", result.Summary)
		fmt.Printf("Suggestion: %s\n", result.Suggested)
		fmt.Printf("Action: %s\n", result.Action)
		fmt.Printf("Cached: %t\n", result.Cached)
	}
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags() *config.Config {
	v := config.NewEmptyViper()

	v.Set("llm.provider", *provider)

	switch *provider {
	case "bedrock":
		v.Set("bedrock.region", *bedrockRegion)
		v.Set("bedrock.model_id", *bedrockModelID)
		v.Set("bedrock.max_tokens", *maxTokens)
		v.Set("bedrock.temperature", *temperature)
	case "gemini":
		v.Set("gemini.api_key", *geminiAPIKey)
		v.Set("gemini.model_name", *geminiModelName)
		v.Set("gemini.max_tokens", *maxTokens)
		v.Set("gemini.temperature", *temperature)
	case "openai":
		v.Set("openai.api_key", *openaiAPIKey)
		v.Set("openai.model_name", *openaiModelName)
		v.Set("openai.max_tokens", *maxTokens)
		v.Set("openai.temperature", *temperature)
	}

	v.Set("routing.curator_address", *curatorAddress)

	if *trustedDomains != "" {
		domains := strings.Split(*trustedDomains, ",")
		for i, domain := range domains {
			domains[i] = strings.TrimSpace(domain)
		}
		v.Set("analysis.trusted_domains", domains)
	} else {
		v.Set("analysis.trusted_domains", []string{})
	}

	return config.NewFromViper(v)
}
