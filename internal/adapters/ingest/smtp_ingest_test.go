package ingest

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mailmind/mailmind/internal/core"
	"github.com/mailmind/mailmind/internal/extract"
)

// capturingProcessor records what the ingest hands to the pipeline
type capturingProcessor struct {
	sender  string
	subject string
	body    string
}

func (p *capturingProcessor) ProcessSubmission(ctx context.Context, in extract.Input) (*core.BatchReport, error) {
	return nil, nil
}

func (p *capturingProcessor) ProcessMessage(ctx context.Context, sender, subject, body string) (*core.EmailReport, error) {
	p.sender = sender
	p.subject = subject
	p.body = body
	return &core.EmailReport{Category: "Informação Geral", Action: "ok"}, nil
}

func TestHandleMessagePlainText(t *testing.T) {
	processor := &capturingProcessor{}
	s := NewSMTPIngest(processor, zap.NewNop(), ":0", time.Minute)

	raw := "From: Alice <alice@example.com>\r\nSubject: Pedido\r\n\r\nQual o status do pedido?"
	err := s.handleMessage("envelope@example.com", []byte(raw))

	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", processor.sender, "the From header overrides the envelope sender")
	assert.Equal(t, "Pedido", processor.subject)
	assert.Equal(t, "Qual o status do pedido?", processor.body)
}

func TestHandleMessageKeepsEnvelopeSenderWithoutFromHeader(t *testing.T) {
	processor := &capturingProcessor{}
	s := NewSMTPIngest(processor, zap.NewNop(), ":0", time.Minute)

	raw := "Subject: Sem remetente\r\n\r\ncorpo"
	err := s.handleMessage("envelope@example.com", []byte(raw))

	require.NoError(t, err)
	assert.Equal(t, "envelope@example.com", processor.sender)
}

func TestHandleMessageMultipart(t *testing.T) {
	processor := &capturingProcessor{}
	s := NewSMTPIngest(processor, zap.NewNop(), ":0", time.Minute)

	raw := strings.Join([]string{
		"From: bob@example.com",
		"Subject: multipart",
		`Content-Type: multipart/alternative; boundary="frontier"`,
		"",
		"--frontier",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"parte em texto",
		"--frontier",
		"Content-Type: text/html; charset=utf-8",
		"",
		"<p>parte em html</p>",
		"--frontier--",
		"",
	}, "\r\n")

	err := s.handleMessage("envelope@example.com", []byte(raw))

	require.NoError(t, err)
	assert.Contains(t, processor.body, "parte em texto")
	assert.NotContains(t, processor.body, "html")
}

func TestHandleMessageUnparseable(t *testing.T) {
	processor := &capturingProcessor{}
	s := NewSMTPIngest(processor, zap.NewNop(), ":0", time.Minute)

	err := s.handleMessage("envelope@example.com", []byte("sem estrutura de e-mail"))

	assert.Error(t, err)
}
