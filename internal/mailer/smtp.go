package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hyperjump/minutes/internal/config"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// SMTPSender relays messages through one SMTP account.
type SMTPSender struct {
	cfg    config.MailConfig
	logger *zap.Logger
}

// NewSMTPSender validates the relay options once so SendMail only dials.
func NewSMTPSender(cfg config.MailConfig, logger *zap.Logger) (*SMTPSender, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &SMTPSender{cfg: cfg, logger: logger}
	if _, err := s.client(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SMTPSender) client() (*mail.Client, error) {
	opts := []mail.Option{mail.WithPort(s.cfg.Port)}
	switch s.cfg.TLS {
	case config.MailTLSImplicit:
		opts = append(opts, mail.WithSSL())
	case config.MailTLSNone:
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	default:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}
	c, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to configure mail client: %w", err)
	}
	return c, nil
}

// SendMail makes one delivery attempt. A rejected login matches ErrAuth; anything else ErrDelivery.
func (s *SMTPSender) SendMail(ctx context.Context, msg *Message) error {
	requestID := uuid.New().String()
	start := time.Now()

	m := mail.NewMsg()
	if err := m.FromFormat(msg.FromName, msg.FromAddress); err != nil {
		recordEmail(outcomeError)
		return fmt.Errorf("%w: invalid sender: %w", ErrDelivery, err)
	}
	if err := m.ToFromString(msg.To); err != nil {
		recordEmail(outcomeError)
		return fmt.Errorf("%w: invalid recipients: %w", ErrDelivery, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Text)
	m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)

	c, err := s.client()
	if err != nil {
		recordEmail(outcomeError)
		return fmt.Errorf("%w: %w", ErrDelivery, err)
	}
	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		err = classify(err)
		outcome := outcomeError
		if errors.Is(err, ErrAuth) {
			outcome = outcomeAuth
		}
		recordEmail(outcome)
		s.logger.Error("email delivery failed",
			zap.String("request_id", requestID),
			zap.String("host", s.cfg.Host),
			zap.Int("recipients", len(msg.Recipients())),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return err
	}
	recordEmail(outcomeOK)
	s.logger.Info("email sent",
		zap.String("request_id", requestID),
		zap.String("host", s.cfg.Host),
		zap.Int("recipients", len(msg.Recipients())),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// classify maps relay replies 530, 534 and 535 (authentication required or rejected) to ErrAuth.
func classify(err error) error {
	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		switch tpErr.Code {
		case 530, 534, 535:
			return fmt.Errorf("%w: %w", ErrAuth, err)
		}
	}
	if strings.Contains(err.Error(), "SMTP AUTH failed") {
		return fmt.Errorf("%w: %w", ErrAuth, err)
	}
	return fmt.Errorf("%w: %w", ErrDelivery, err)
}
