package service

import (
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/docchat/docchat-be/config"
)

type Mailer interface {
	Send(to, subject, body string) error
}

type smtpMailer struct {
	cfg config.MailConfig
}

// NewMailer returns an SMTP mailer, or a logging stand-in when no mail host
// is configured so password resets still work in development.
func NewMailer(cfg config.MailConfig) Mailer {
	if cfg.Host == "" {
		return logMailer{}
	}
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) Send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.cfg.From, to, subject, body)
	return smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg))
}

type logMailer struct{}

func (logMailer) Send(to, subject, body string) error {
	slog.Info("mail delivery disabled, logging instead", "to", to, "subject", subject, "body", body)
	return nil
}
