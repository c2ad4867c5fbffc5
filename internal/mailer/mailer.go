package mailer

import (
	"strconv"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"reviewhub/internal/config"
)

// Mailer delivers mail best-effort: failures are logged and swallowed
// so that issuing a confirmation code never reveals whether an address
// is deliverable.
type Mailer interface {
	Send(subject, body string, recipients ...string)
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

func New(cfg *config.Config) Mailer {
	port, err := strconv.Atoi(cfg.SMTPPort)
	if err != nil {
		port = 587
	}

	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, port, cfg.SMTPUser, cfg.SMTPPass),
		from:   cfg.MailFrom,
	}
}

func (m *smtpMailer) Send(subject, body string, recipients ...string) {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", recipients...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		logrus.WithError(err).Warn("mail delivery failed")
	}
}
