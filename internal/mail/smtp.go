package mail

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/spec-kit/shop-service/internal/config"
)

// SMTPSender delivers messages over SMTP. Every delivery opens its own
// connection, so a dead connection can never wedge the whole outbox.
type SMTPSender struct {
	host     string
	port     string
	from     string
	password string
}

// NewSMTPSender builds a sender from mail configuration.
func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	return &SMTPSender{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.SMTPEmail,
		password: cfg.SMTPPassword,
	}
}

// Deliver sends one message to all of its recipients.
func (s *SMTPSender) Deliver(msg *Message) error {
	if err := ValidateAddresses(msg.To); err != nil {
		return err
	}

	payload := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		s.from, strings.Join(msg.To, ", "), "Shop account", msg.Body,
	))

	auth := smtp.PlainAuth("", s.from, s.password, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return smtp.SendMail(addr, auth, s.from, msg.To, payload)
}
