package mail

import (
	"fmt"
	"log"
	"net/smtp"

	"inkpress/internal/platform/config"
)

// Mailer delivers transactional mail (currently only password resets).
type Mailer interface {
	Send(to, subject, body string) error
}

// NewMailer returns an SMTP mailer when SMTP_HOST is configured, otherwise a
// logger-backed mailer so local setups work without a mail server.
func NewMailer(cfg *config.Config) Mailer {
	if cfg.SMTPHost == "" {
		return &logMailer{}
	}
	return &smtpMailer{
		addr: cfg.SMTPHost + ":" + cfg.SMTPPort,
		auth: smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost),
		from: cfg.MailFrom,
	}
}

type smtpMailer struct {
	addr string
	auth smtp.Auth
	from string
}

func (m *smtpMailer) Send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.from, to, subject, body)
	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

type logMailer struct{}

func (m *logMailer) Send(to, subject, body string) error {
	log.Printf("mail (not sent, no SMTP configured) to=%s subject=%q\n%s", to, subject, body)
	return nil
}
