package smtp

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// SimulatedSend records one dispatch handled by the simulation transport
type SimulatedSend struct {
	To      string
	Subject string
	Body    string
}

// SimulatedTransport logs sends instead of dispatching them. It is used when
// no SMTP server is configured, so the pipeline still produces routing
// decisions without outbound mail.
type SimulatedTransport struct {
	logger *zap.Logger
	mu     sync.Mutex
	sent   []SimulatedSend
}

// NewSimulatedTransport creates a new simulation transport
func NewSimulatedTransport(logger *zap.Logger) *SimulatedTransport {
	logger.Info("SMTP not configured - simulation mode active")
	return &SimulatedTransport{logger: logger}
}

// Send records the email and succeeds
func (t *SimulatedTransport) Send(ctx context.Context, to, subject, body string) error {
	t.mu.Lock()
	t.sent = append(t.sent, SimulatedSend{To: to, Subject: subject, Body: body})
	t.mu.Unlock()

	t.logger.Info("Simulated email dispatch",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("body_size", len(body)))
	return nil
}

// Sent returns a copy of everything dispatched so far
func (t *SimulatedTransport) Sent() []SimulatedSend {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]SimulatedSend, len(t.sent))
	copy(out, t.sent)
	return out
}
