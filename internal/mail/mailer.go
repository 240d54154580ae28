package mail

import (
	"gopkg.in/gomail.v2"

	"github.com/Okpara007/buzz4less/internal/config"
)

// Mailer sends through the configured SMTP relay. Delivery is synchronous;
// a failed dial or send is returned to the caller, there is no local retry.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func New(cfg config.SMTPConfig) *Mailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.SSL = cfg.Port == 465

	return &Mailer{
		dialer: d,
		from:   cfg.From,
	}
}

func (m *Mailer) Send(subject, body string, to ...string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	return m.dialer.DialAndSend(msg)
}

func (m *Mailer) SendHTML(subject, html string, to ...string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	return m.dialer.DialAndSend(msg)
}
