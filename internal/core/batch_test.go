package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestBatch(llm LLMClient, transport MailTransport, maxBatch int) *BatchProcessor {
	analyzer := newTestAnalyzer(llm, newStubCache(), nil, AnalyzerConfig{})
	router := NewActionRouter(transport, zap.NewNop(), "curador@empresa.com", 500)
	return NewBatchProcessor(analyzer, router, zap.NewNop(), maxBatch)
}

func TestBatchRejectsEmptyInput(t *testing.T) {
	b := newTestBatch(&stubLLM{}, &recordingTransport{}, 10)

	_, err := b.Process(context.Background(), nil)

	assert.ErrorIs(t, err, ErrNoContent)
}

func TestBatchRejectsOversizedBatch(t *testing.T) {
	b := newTestBatch(&stubLLM{}, &recordingTransport{}, 2)

	emails := []EmailContent{{Body: "a"}, {Body: "b"}, {Body: "c"}}
	_, err := b.Process(context.Background(), emails)

	assert.ErrorIs(t, err, ErrBatchTooLarge)
}

func TestBatchProcessesAllEmailsInOrder(t *testing.T) {
	llm := &stubLLM{responses: []string{
		`{"atencao_humana":"NÃO","categoria":"Elogio","resumo":"a","sugestao_resposta_ou_acao":"agradecer"}`,
		`{"atencao_humana":"NÃO","categoria":"Spam","resumo":"b","sugestao_resposta_ou_acao":""}`,
		`{"atencao_humana":"SIM","categoria":"Reclamação","resumo":"c","sugestao_resposta_ou_acao":"ligar"}`,
	}}
	transport := &recordingTransport{}
	b := newTestBatch(llm, transport, 10)

	emails := []EmailContent{
		{Body: "primeiro", Sender: "a@example.com"},
		{Body: "segundo", Sender: "b@example.com"},
		{Body: "terceiro", Sender: "c@example.com"},
	}
	report, err := b.Process(context.Background(), emails)

	require.NoError(t, err)
	assert.Equal(t, 3, report.TotalEmails)
	require.Len(t, report.Results, 3)

	assert.Equal(t, "Elogio", report.Results[0].Category)
	assert.Equal(t, ActionMsgReplied, report.Results[0].Action)

	assert.Equal(t, "Spam", report.Results[1].Category)
	assert.Equal(t, ActionMsgSuppressed, report.Results[1].Action)

	assert.Equal(t, "Reclamação", report.Results[2].Category)
	assert.Equal(t, ActionMsgEscalated, report.Results[2].Action)

	// One auto-reply plus one escalation actually left the building.
	assert.Len(t, transport.sent, 2)
}

func TestBatchFailedEmailDoesNotAbortOthers(t *testing.T) {
	llm := &stubLLM{
		responses: []string{validResponse, "", validResponse},
		errs:      []error{nil, ErrProviderUnavailable, nil},
	}
	b := newTestBatch(llm, &recordingTransport{}, 10)

	emails := []EmailContent{
		{Body: "primeiro", Sender: "a@example.com"},
		{Body: "segundo", Sender: "b@example.com"},
		{Body: "terceiro", Sender: "c@example.com"},
	}
	report, err := b.Process(context.Background(), emails)

	require.NoError(t, err)
	require.Len(t, report.Results, 3)

	assert.Equal(t, "Informação Geral", report.Results[0].Category)

	assert.Equal(t, ErrorCategory, report.Results[1].Category)
	assert.Equal(t, "SIM", report.Results[1].Attention)
	assert.Contains(t, report.Results[1].Summary, "Falha na análise")
	assert.Equal(t, "b@example.com", report.Results[1].Sender)

	assert.Equal(t, "Informação Geral", report.Results[2].Category)
}

func TestBatchMissingSenderReported(t *testing.T) {
	llm := &stubLLM{responses: []string{validResponse}}
	b := newTestBatch(llm, &recordingTransport{}, 10)

	report, err := b.Process(context.Background(), []EmailContent{{Body: "sem remetente"}})

	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, "Não identificado", report.Results[0].Sender)
	assert.Equal(t, ActionMsgNoSender, report.Results[0].Action)
}

func TestBatchExpiredContextReturnsPartialResults(t *testing.T) {
	llm := &stubLLM{responses: []string{validResponse, validResponse}}
	b := newTestBatch(llm, &recordingTransport{}, 10)

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	emails := []EmailContent{{Body: "a"}, {Body: "b"}}
	report, err := b.Process(ctx, emails)

	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalEmails)
	assert.Empty(t, report.Results)
}
