// Package ingest receives inbound email over SMTP and feeds it through the
// triage pipeline.
package ingest

import (
	"bytes"
	"context"
	"io"
	"net/mail"
	"time"

	"github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"github.com/mailmind/mailmind/internal/ports"
)

// SMTPIngest runs an SMTP server; every message delivered to it is analyzed
// and routed like any other submission.
type SMTPIngest struct {
	processor  ports.EmailProcessor
	logger     *zap.Logger
	listenAddr string
	timeout    time.Duration
	server     *smtp.Server
}

// NewSMTPIngest creates a new SMTP ingest listener
func NewSMTPIngest(processor ports.EmailProcessor, logger *zap.Logger, listenAddr string, timeout time.Duration) *SMTPIngest {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &SMTPIngest{
		processor:  processor,
		logger:     logger,
		listenAddr: listenAddr,
		timeout:    timeout,
	}
}

// Start starts the SMTP server
func (s *SMTPIngest) Start() error {
	s.server = smtp.NewServer(&smtpBackend{ingest: s})

	s.server.Addr = s.listenAddr
	s.server.Domain = "localhost"
	s.server.ReadTimeout = 30 * time.Second
	s.server.WriteTimeout = 30 * time.Second
	s.server.MaxMessageBytes = 30 * 1024 * 1024 // 30MB
	s.server.MaxRecipients = 50
	s.server.AllowInsecureAuth = true

	s.logger.Info("SMTP ingest starting", zap.String("address", s.listenAddr))

	go func() {
		if err := s.server.ListenAndServe(); err != nil {
			if err != smtp.ErrServerClosed {
				s.logger.Error("SMTP server error", zap.Error(err))
			}
		}
	}()

	return nil
}

// Stop stops the SMTP server
func (s *SMTPIngest) Stop() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}

// handleMessage analyzes one delivered message
func (s *SMTPIngest) handleMessage(sender string, rawData []byte) error {
	msg, err := mail.ReadMessage(bytes.NewReader(rawData))
	if err != nil {
		s.logger.Error("Failed to parse inbound message", zap.Error(err))
		return err
	}

	subject := msg.Header.Get("Subject")
	if from := msg.Header.Get("From"); from != "" {
		if addr, err := mail.ParseAddress(from); err == nil {
			sender = addr.Address
		}
	}

	body, err := extractTextFromMessage(msg)
	if err != nil {
		s.logger.Error("Failed to extract message text", zap.Error(err))
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	report, err := s.processor.ProcessMessage(ctx, sender, subject, body)
	if err != nil {
		s.logger.Error("Inbound message analysis failed", zap.Error(err))
		return err
	}

	s.logger.Info("Inbound message triaged",
		zap.String("sender", sender),
		zap.String("category", report.Category),
		zap.String("action", report.Action))
	return nil
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	ingest *SMTPIngest
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(c *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{ingest: b.ingest}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	ingest *SMTPIngest
	sender string
}

// Reset resets the session state
func (s *smtpSession) Reset() {
	s.sender = ""
}

// Logout releases the session
func (s *smtpSession) Logout() error {
	return nil
}

// Mail sets the envelope sender
func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

// Rcpt accepts any recipient; routing happens after analysis
func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	return nil
}

// Data handles the message payload
func (s *smtpSession) Data(r io.Reader) error {
	rawData, err := io.ReadAll(r)
	if err != nil {
		s.ingest.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}
	return s.ingest.handleMessage(s.sender, rawData)
}
