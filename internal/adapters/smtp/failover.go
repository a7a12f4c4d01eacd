package smtp

import (
	"context"

	"go.uber.org/zap"

	"github.com/mailmind/mailmind/internal/core"
)

// FailoverTransport tries a primary transport and, when it fails, gives a
// configured secondary transport exactly one chance before reporting the
// failure.
type FailoverTransport struct {
	primary   core.MailTransport
	secondary core.MailTransport
	logger    *zap.Logger
}

// NewFailoverTransport creates a failover transport. secondary may be nil,
// in which case failures pass straight through.
func NewFailoverTransport(primary, secondary core.MailTransport, logger *zap.Logger) *FailoverTransport {
	return &FailoverTransport{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
	}
}

// Send dispatches through the primary, falling back to the secondary once
func (t *FailoverTransport) Send(ctx context.Context, to, subject, body string) error {
	err := t.primary.Send(ctx, to, subject, body)
	if err == nil {
		return nil
	}

	if t.secondary == nil {
		return err
	}

	t.logger.Warn("Primary mail transport failed, trying fallback",
		zap.String("to", to),
		zap.Error(err))
	return t.secondary.Send(ctx, to, subject, body)
}
