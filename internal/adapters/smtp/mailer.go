// Package smtp implements the MailTransport port over a real SMTP server,
// with a failover wrapper and a simulation transport for unconfigured
// deployments.
package smtp

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"go.uber.org/zap"
)

// Config holds the SMTP connection settings for one transport
type Config struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	Timeout     time.Duration
}

// Mailer sends email through an SMTP server using STARTTLS and PLAIN auth
type Mailer struct {
	cfg    Config
	logger *zap.Logger
}

// NewMailer creates a new SMTP mailer
func NewMailer(cfg Config, logger *zap.Logger) *Mailer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.FromAddress == "" {
		cfg.FromAddress = cfg.Username
	}
	return &Mailer{cfg: cfg, logger: logger}
}

// Send dispatches an email to a single recipient
func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	conn, err := net.DialTimeout("tcp", addr, m.cfg.Timeout)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}

	deadline := time.Now().Add(m.cfg.Timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c, err := smtp.NewClientStartTLS(conn, &tls.Config{ServerName: m.cfg.Host})
	if err != nil {
		return fmt.Errorf("STARTTLS failed: %w", err)
	}
	defer c.Close()

	if m.cfg.Username != "" {
		auth := sasl.NewPlainClient("", m.cfg.Username, m.cfg.Password)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err := c.Mail(m.cfg.FromAddress, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}
	if err := c.Rcpt(to, nil); err != nil {
		return fmt.Errorf("RCPT TO failed: %w", err)
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(m.buildMessage(to, subject, body)); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send message data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		m.logger.Warn("QUIT command failed", zap.Error(err))
		// Not an error: the message has already been accepted
	}

	m.logger.Info("Email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// buildMessage renders the RFC 5322 message bytes
func (m *Mailer) buildMessage(to, subject, body string) []byte {
	var msg strings.Builder
	msg.WriteString("From: " + m.cfg.FromAddress + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	msg.WriteString("\r\n")
	return []byte(msg.String())
}
