package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordingTransport captures dispatched mail for assertions
type recordingTransport struct {
	sent []struct {
		to, subject, body string
	}
	err error
}

func (t *recordingTransport) Send(ctx context.Context, to, subject, body string) error {
	if t.err != nil {
		return t.err
	}
	t.sent = append(t.sent, struct{ to, subject, body string }{to, subject, body})
	return nil
}

func newTestRouter(transport MailTransport) *ActionRouter {
	return NewActionRouter(transport, zap.NewNop(), "curador@empresa.com", 500)
}

func TestRouteEscalatesWhenAttentionNeeded(t *testing.T) {
	r := newTestRouter(&recordingTransport{})

	result := &AnalysisResult{
		Category:            "Reclamação",
		NeedsHumanAttention: true,
		Summary:             "Cliente insatisfeito",
		SuggestedAction:     "Ligar para o cliente",
	}
	email := &EmailContent{Body: "Quero meu dinheiro de volta.", Sender: "bob@example.com"}

	decision := r.Route(result, email)

	assert.Equal(t, ActionEscalate, decision.Action)
	assert.Equal(t, "curador@empresa.com", decision.To)
	assert.Contains(t, decision.Subject, "Reclamação")
	assert.Contains(t, decision.Body, "bob@example.com")
	assert.Contains(t, decision.Body, "Cliente insatisfeito")
	assert.Contains(t, decision.Body, "Quero meu dinheiro de volta.")
}

func TestRouteEscalationBeatsSpam(t *testing.T) {
	r := newTestRouter(&recordingTransport{})

	// Attention takes precedence even for spam-labeled emails.
	result := &AnalysisResult{Category: SpamCategory, NeedsHumanAttention: true}
	decision := r.Route(result, &EmailContent{Body: "x", Sender: "a@b.com"})

	assert.Equal(t, ActionEscalate, decision.Action)
}

func TestRouteSuppressesSpam(t *testing.T) {
	r := newTestRouter(&recordingTransport{})

	for _, category := range []string{"Spam", "spam", "SPAM"} {
		result := &AnalysisResult{Category: category, NeedsHumanAttention: false}
		decision := r.Route(result, &EmailContent{Body: "compre agora", Sender: "spammer@example.com"})

		assert.Equal(t, ActionSuppress, decision.Action, "category: %q", category)
		assert.Empty(t, decision.To)
	}
}

func TestRouteAutoReplies(t *testing.T) {
	r := newTestRouter(&recordingTransport{})

	result := &AnalysisResult{
		Category:            "Informação Geral",
		NeedsHumanAttention: false,
		SuggestedAction:     "Seu pedido chega em 3 dias úteis.",
	}
	decision := r.Route(result, &EmailContent{Body: "Quando chega?", Sender: "alice@example.com"})

	assert.Equal(t, ActionAutoReply, decision.Action)
	assert.Equal(t, "alice@example.com", decision.To)
	assert.Equal(t, "Seu pedido chega em 3 dias úteis.", decision.Body)
}

func TestRouteAutoReplyWithoutSuggestionUsesTemplate(t *testing.T) {
	r := newTestRouter(&recordingTransport{})

	result := &AnalysisResult{Category: "Informação Geral", NeedsHumanAttention: false}
	decision := r.Route(result, &EmailContent{Body: "oi", Sender: "alice@example.com"})

	assert.Equal(t, ActionAutoReply, decision.Action)
	assert.Contains(t, decision.Body, "Recebemos a sua mensagem")
}

func TestRouteNoSender(t *testing.T) {
	r := newTestRouter(&recordingTransport{})

	result := &AnalysisResult{Category: "Informação Geral", NeedsHumanAttention: false}
	decision := r.Route(result, &EmailContent{Body: "sem cabeçalho"})

	assert.Equal(t, ActionNoSender, decision.Action)
}

func TestRouteDeterministic(t *testing.T) {
	r := newTestRouter(&recordingTransport{})

	result := &AnalysisResult{Category: "Elogio", NeedsHumanAttention: false, SuggestedAction: "Agradecer"}
	email := &EmailContent{Body: "Ótimo serviço!", Sender: "alice@example.com"}

	first := r.Route(result, email)
	second := r.Route(result, email)

	assert.Equal(t, first, second)
}

func TestRouteEscalationTruncatesExcerpt(t *testing.T) {
	transport := &recordingTransport{}
	r := NewActionRouter(transport, zap.NewNop(), "curador@empresa.com", 100)

	body := ""
	for i := 0; i < 50; i++ {
		body += "0123456789"
	}
	result := &AnalysisResult{Category: "Outro", NeedsHumanAttention: true}
	decision := r.Route(result, &EmailContent{Body: body, Sender: "a@b.com"})

	assert.Contains(t, decision.Body, body[:100]+"...")
	assert.NotContains(t, decision.Body, body[:101])
}

func TestDispatchSuppress(t *testing.T) {
	transport := &recordingTransport{}
	r := newTestRouter(transport)

	msg := r.Dispatch(context.Background(), RoutingDecision{Action: ActionSuppress})

	assert.Equal(t, ActionMsgSuppressed, msg)
	assert.Empty(t, transport.sent)
}

func TestDispatchNoSender(t *testing.T) {
	transport := &recordingTransport{}
	r := newTestRouter(transport)

	msg := r.Dispatch(context.Background(), RoutingDecision{Action: ActionNoSender})

	assert.Equal(t, ActionMsgNoSender, msg)
	assert.Empty(t, transport.sent)
}

func TestDispatchSendsEscalation(t *testing.T) {
	transport := &recordingTransport{}
	r := newTestRouter(transport)

	msg := r.Dispatch(context.Background(), RoutingDecision{
		Action:  ActionEscalate,
		To:      "curador@empresa.com",
		Subject: "assunto",
		Body:    "corpo",
	})

	assert.Equal(t, ActionMsgEscalated, msg)
	require.Len(t, transport.sent, 1)
	assert.Equal(t, "curador@empresa.com", transport.sent[0].to)
}

func TestDispatchSendsAutoReply(t *testing.T) {
	transport := &recordingTransport{}
	r := newTestRouter(transport)

	msg := r.Dispatch(context.Background(), RoutingDecision{
		Action:  ActionAutoReply,
		To:      "alice@example.com",
		Subject: "Re: sua mensagem",
		Body:    "resposta",
	})

	assert.Equal(t, ActionMsgReplied, msg)
	require.Len(t, transport.sent, 1)
}

func TestDispatchSendFailureIsReportedNotReturned(t *testing.T) {
	transport := &recordingTransport{err: errors.New("connection refused")}
	r := newTestRouter(transport)

	msg := r.Dispatch(context.Background(), RoutingDecision{
		Action: ActionAutoReply,
		To:     "alice@example.com",
	})

	assert.Equal(t, ActionMsgSendFailed, msg)
}
