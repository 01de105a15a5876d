package email

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"
)

// SMTPSender delivers mail with PLAIN auth over SMTP
type SMTPSender struct {
	host      string
	port      string
	user      string
	password  string
	fromEmail string
	fromName  string
}

func NewSMTPSender(host, port, user, password, fromEmail, fromName string) *SMTPSender {
	if fromEmail == "" {
		fromEmail = user
	}
	return &SMTPSender{
		host:      host,
		port:      port,
		user:      user,
		password:  password,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

// Send ignores ctx cancellation once the SMTP dialogue has started
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	auth := smtp.PlainAuth("", s.user, s.password, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return smtp.SendMail(addr, auth, s.fromEmail, []string{msg.To}, s.buildMIME(msg))
}

func (s *SMTPSender) buildMIME(msg Message) []byte {
	from := s.fromEmail
	if s.fromName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", s.fromName), s.fromEmail)
	}

	return []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s\r\n",
		from, msg.To, mime.QEncoding.Encode("utf-8", msg.Subject), msg.HTML,
	))
}
