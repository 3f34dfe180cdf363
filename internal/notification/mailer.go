package notification

import (
	"fmt"
	"net/smtp"

	"github.com/senyabanana/tender-board/internal/router/config"
)

// Mailer - интерфейс исходящей почты. Каждое письмо может упасть независимо.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer отправляет письма через SMTP-релей с PLAIN-аутентификацией.
type SMTPMailer struct {
	host string
	port string
	from string
	pass string
}

// NewSMTPMailer создаёт новый экземпляр SMTPMailer.
func NewSMTPMailer(cfg config.Config) *SMTPMailer {
	return &SMTPMailer{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		from: cfg.EmailID,
		pass: cfg.EmailPassKey,
	}
}

// Send отправляет одно письмо указанному получателю.
func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.from, to, subject, body))

	auth := smtp.PlainAuth("", m.from, m.pass, m.host)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	return smtp.SendMail(addr, auth, m.from, []string{to}, msg)
}
