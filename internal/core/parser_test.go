package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseWellFormedResponse(t *testing.T) {
	p := NewResultParser(zap.NewNop())

	result := p.Parse(`{"atencao_humana":"NÃO","categoria":"Elogio","resumo":"Cliente satisfeito","sugestao_resposta_ou_acao":"Agradecer o contato"}`)

	assert.Equal(t, "Elogio", result.Category)
	assert.False(t, result.NeedsHumanAttention)
	assert.Equal(t, "Cliente satisfeito", result.Summary)
	assert.Equal(t, "Agradecer o contato", result.SuggestedAction)
	assert.False(t, result.AnalyzedAt.IsZero())
}

func TestParseJSONInsideCodeFence(t *testing.T) {
	p := NewResultParser(zap.NewNop())

	raw := "```json\n{\"atencao_humana\":\"SIM\",\"categoria\":\"Reclamação\",\"resumo\":\"r\",\"sugestao_resposta_ou_acao\":\"s\"}\n```"
	result := p.Parse(raw)

	assert.Equal(t, "Reclamação", result.Category)
	assert.True(t, result.NeedsHumanAttention)
}

func TestParseMalformedFallsBack(t *testing.T) {
	p := NewResultParser(zap.NewNop())

	for _, raw := range []string{
		"",
		"o e-mail parece ser spam",
		"{quebrado",
		`{"categoria":"Spam"}`,
		`{"atencao_humana":"SIM"}`,
	} {
		result := p.Parse(raw)
		assert.Equal(t, FallbackCategory, result.Category, "raw: %q", raw)
		assert.True(t, result.NeedsHumanAttention, "raw: %q", raw)
		assert.NotEmpty(t, result.Summary, "raw: %q", raw)
		assert.NotEmpty(t, result.SuggestedAction, "raw: %q", raw)
	}
}

func TestParseIdempotent(t *testing.T) {
	p := NewResultParser(zap.NewNop())
	raw := `{"atencao_humana":"NAO","categoria":"Informação Geral","resumo":"dúvida","sugestao_resposta_ou_acao":"responder FAQ"}`

	first := p.Parse(raw)
	second := p.Parse(raw)

	assert.Equal(t, first.Category, second.Category)
	assert.Equal(t, first.NeedsHumanAttention, second.NeedsHumanAttention)
	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, first.SuggestedAction, second.SuggestedAction)
}

func TestParseAttentionTokens(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"SIM", true},
		{"sim", true},
		{"NÃO", false},
		{"não", false},
		{"NAO", false},
		{"no", false},
		{" NÃO ", false},
		{"talvez", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseAttention(tt.token), "token: %q", tt.token)
	}
}

func TestSerializeResultRoundTrips(t *testing.T) {
	p := NewResultParser(zap.NewNop())
	result := &AnalysisResult{
		Category:            "Solicitação de Status",
		NeedsHumanAttention: false,
		Summary:             "Cliente pergunta pelo pedido",
		SuggestedAction:     "Informar o prazo de entrega",
	}

	raw, err := SerializeResult(result)
	require.NoError(t, err)

	parsed := p.Parse(raw)
	assert.Equal(t, result.Category, parsed.Category)
	assert.Equal(t, result.NeedsHumanAttention, parsed.NeedsHumanAttention)
	assert.Equal(t, result.Summary, parsed.Summary)
	assert.Equal(t, result.SuggestedAction, parsed.SuggestedAction)
}
