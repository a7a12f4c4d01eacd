package config

import (
	"time"
)

// LLMConfig represents the provider selection and retry policy
type LLMConfig struct {
	Provider         string
	FallbackProvider string
	MaxAttempts      int
	RetryBaseDelay   time.Duration
	RetryMaxDelay    time.Duration
	RequestTimeout   time.Duration
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
}

// AnalysisConfig bounds the classification pipeline
type AnalysisConfig struct {
	Categories         []string
	MaxModelChars      int
	PreprocessMinChars int
	MaxBatchSize       int
	TrustedDomains     []string
}

// ExtractConfig bounds input handling
type ExtractConfig struct {
	MaxFileSizeMB    int
	PDFMaxPages      int
	PDFMaxChars      int
	MinFragmentChars int
}

// RoutingConfig holds the curator address and escalation excerpt budget
type RoutingConfig struct {
	CuratorAddress string
	ExcerptChars   int
}

// SMTPConfig represents one outbound SMTP transport
type SMTPConfig struct {
	Host           string
	Port           int
	Username       string
	Password       string
	NoreplyAddress string
	Timeout        time.Duration
}

// IngestConfig represents the inbound SMTP listener
type IngestConfig struct {
	Enabled       bool
	ListenAddress string
	Timeout       time.Duration
}

// GetLLM returns the LLM configuration
func (c *Config) GetLLM() LLMConfig {
	baseDelay, _ := c.GetDuration("llm.retry_base_delay")
	maxDelay, _ := c.GetDuration("llm.retry_max_delay")
	timeout, _ := c.GetDuration("llm.request_timeout")
	return LLMConfig{
		Provider:         c.GetString("llm.provider"),
		FallbackProvider: c.GetString("llm.fallback_provider"),
		MaxAttempts:      c.GetInt("llm.max_attempts"),
		RetryBaseDelay:   baseDelay,
		RetryMaxDelay:    maxDelay,
		RequestTimeout:   timeout,
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
	}
}

// GetAnalysis returns the analysis configuration
func (c *Config) GetAnalysis() AnalysisConfig {
	return AnalysisConfig{
		Categories:         c.GetStringSlice("analysis.categories"),
		MaxModelChars:      c.GetInt("analysis.max_model_chars"),
		PreprocessMinChars: c.GetInt("analysis.preprocess_min_chars"),
		MaxBatchSize:       c.GetInt("analysis.max_batch_size"),
		TrustedDomains:     c.GetStringSlice("analysis.trusted_domains"),
	}
}

// GetExtract returns the extraction configuration
func (c *Config) GetExtract() ExtractConfig {
	return ExtractConfig{
		MaxFileSizeMB:    c.GetInt("extract.max_file_size_mb"),
		PDFMaxPages:      c.GetInt("extract.pdf_max_pages"),
		PDFMaxChars:      c.GetInt("extract.pdf_max_chars"),
		MinFragmentChars: c.GetInt("extract.min_fragment_chars"),
	}
}

// GetRouting returns the routing configuration
func (c *Config) GetRouting() RoutingConfig {
	return RoutingConfig{
		CuratorAddress: c.GetString("routing.curator_address"),
		ExcerptChars:   c.GetInt("routing.excerpt_chars"),
	}
}

// GetSMTP returns the primary SMTP transport configuration
func (c *Config) GetSMTP() SMTPConfig {
	timeout, _ := c.GetDuration("smtp.timeout")
	return SMTPConfig{
		Host:           c.GetString("smtp.host"),
		Port:           c.GetInt("smtp.port"),
		Username:       c.GetString("smtp.username"),
		Password:       c.GetString("smtp.password"),
		NoreplyAddress: c.GetString("smtp.noreply_address"),
		Timeout:        timeout,
	}
}

// GetSMTPFallback returns the secondary SMTP transport configuration
func (c *Config) GetSMTPFallback() SMTPConfig {
	timeout, _ := c.GetDuration("smtp.timeout")
	return SMTPConfig{
		Host:           c.GetString("smtp.fallback.host"),
		Port:           c.GetInt("smtp.fallback.port"),
		Username:       c.GetString("smtp.fallback.username"),
		Password:       c.GetString("smtp.fallback.password"),
		NoreplyAddress: c.GetString("smtp.noreply_address"),
		Timeout:        timeout,
	}
}

// GetIngest returns the inbound SMTP listener configuration
func (c *Config) GetIngest() IngestConfig {
	timeout, _ := c.GetDuration("ingest.timeout")
	return IngestConfig{
		Enabled:       c.GetBool("ingest.enabled"),
		ListenAddress: c.GetString("ingest.listen_address"),
		Timeout:       timeout,
	}
}
