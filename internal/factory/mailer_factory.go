package factory

import (
	smtpadapter "github.com/mailmind/mailmind/internal/adapters/smtp"
	"github.com/mailmind/mailmind/internal/config"
	"github.com/mailmind/mailmind/internal/core"
	"go.uber.org/zap"
)

// MailerFactory creates outbound mail transports based on configuration
type MailerFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewMailerFactory creates a new mailer factory
func NewMailerFactory(cfg *config.Config, logger *zap.Logger) *MailerFactory {
	return &MailerFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateMailTransport creates the configured transport. When no SMTP host is
// set the transport only records sends, so the pipeline stays usable in
// development environments.
func (f *MailerFactory) CreateMailTransport() core.MailTransport {
	smtpCfg := f.cfg.GetSMTP()
	if smtpCfg.Host == "" {
		f.logger.Warn("SMTP host not configured, emails will be simulated")
		return smtpadapter.NewSimulatedTransport(f.logger)
	}

	primary := smtpadapter.NewMailer(smtpadapter.Config{
		Host:        smtpCfg.Host,
		Port:        smtpCfg.Port,
		Username:    smtpCfg.Username,
		Password:    smtpCfg.Password,
		FromAddress: smtpCfg.NoreplyAddress,
		Timeout:     smtpCfg.Timeout,
	}, f.logger)

	fallbackCfg := f.cfg.GetSMTPFallback()
	if fallbackCfg.Host == "" {
		return primary
	}

	secondary := smtpadapter.NewMailer(smtpadapter.Config{
		Host:        fallbackCfg.Host,
		Port:        fallbackCfg.Port,
		Username:    fallbackCfg.Username,
		Password:    fallbackCfg.Password,
		FromAddress: fallbackCfg.NoreplyAddress,
		Timeout:     fallbackCfg.Timeout,
	}, f.logger)
	return smtpadapter.NewFailoverTransport(primary, secondary, f.logger)
}
