package email

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/gomail.v2"

	"github.com/sundiag/backoffice-api/internal/config"
	"github.com/sundiag/backoffice-api/pkg/logger"
)

// Attachment is one file carried inline with a message.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Service sends operational mail. Implementations must be safe for
// concurrent use.
type Service interface {
	Send(to []string, subject, body string, attachments ...Attachment) error
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
	logger *logger.Logger
}

func NewSMTPService(cfg config.SMTPConfig, log *logger.Logger) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: log,
	}
}

func (s *smtpService) Send(to []string, subject, body string, attachments ...Attachment) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	for _, a := range attachments {
		a := a
		m.Attach(a.Filename,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := io.Copy(w, bytes.NewReader(a.Data))
				return err
			}),
			gomail.SetHeader(map[string][]string{
				"Content-Type": {a.ContentType},
			}),
		)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error(err, "failed to send email", map[string]interface{}{
			"subject": subject,
			"to":      to,
		})
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("email sent", map[string]interface{}{
		"subject": subject,
		"to":      to,
	})
	return nil
}
