package core

import (
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"
)

// FallbackCategory is the category assigned when the model output cannot be
// parsed into the expected shape
const FallbackCategory = "Outro"

// modelResponse is the wire shape the model is instructed to produce
type modelResponse struct {
	Attention string `json:"atencao_humana"`
	Category  string `json:"categoria"`
	Summary   string `json:"resumo"`
	Suggested string `json:"sugestao_resposta_ou_acao"`
}

// ResultParser parses raw model output into an AnalysisResult. Parsing never
// fails: malformed output degrades to a fallback result that escalates the
// email to a human instead of crashing the pipeline.
type ResultParser struct {
	logger *zap.Logger
}

// NewResultParser creates a new result parser
func NewResultParser(logger *zap.Logger) *ResultParser {
	return &ResultParser{logger: logger}
}

// Parse converts raw model text into an AnalysisResult
func (p *ResultParser) Parse(raw string) *AnalysisResult {
	var resp modelResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		// The model sometimes wraps the JSON in prose or code fences.
		// Try the outermost brace span before giving up.
		jsonStart := strings.Index(raw, "{")
		jsonEnd := strings.LastIndex(raw, "}")
		if jsonStart < 0 || jsonEnd <= jsonStart {
			return p.fallback(raw)
		}
		if err := json.Unmarshal([]byte(raw[jsonStart:jsonEnd+1]), &resp); err != nil {
			return p.fallback(raw)
		}
	}

	// Both the category and the attention token must be present for the
	// result to be usable.
	if resp.Category == "" || resp.Attention == "" {
		return p.fallback(raw)
	}

	return &AnalysisResult{
		Category:            resp.Category,
		NeedsHumanAttention: parseAttention(resp.Attention),
		Summary:             resp.Summary,
		SuggestedAction:     resp.Suggested,
		AnalyzedAt:          time.Now(),
	}
}

// fallback returns the defined degraded result for unparseable model output
func (p *ResultParser) fallback(raw string) *AnalysisResult {
	if p.logger != nil {
		p.logger.Warn("Model response is not valid JSON, escalating to human review",
			zap.Int("response_size", len(raw)))
	}
	return &AnalysisResult{
		Category:            FallbackCategory,
		NeedsHumanAttention: true,
		Summary:             "Falha na análise: a resposta do modelo não é um JSON válido",
		SuggestedAction:     "Revisar manualmente",
		AnalyzedAt:          time.Now(),
	}
}

// parseAttention interprets the yes/no token. Anything that is not an explicit
// "no" counts as needing attention, so typos degrade towards human review.
func parseAttention(token string) bool {
	switch strings.ToUpper(strings.TrimSpace(token)) {
	case "NÃO", "NAO", "NO":
		return false
	}
	return true
}

// AttentionToken serializes the needs-attention flag back to its wire form
func AttentionToken(needsHuman bool) string {
	if needsHuman {
		return "SIM"
	}
	return "NÃO"
}

// SerializeResult renders an AnalysisResult in the same JSON shape the model
// produces, so stored and parsed results round-trip.
func SerializeResult(r *AnalysisResult) (string, error) {
	data, err := json.Marshal(modelResponse{
		Attention: AttentionToken(r.NeedsHumanAttention),
		Category:  r.Category,
		Summary:   r.Summary,
		Suggested: r.SuggestedAction,
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}
