package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/redmonkez12/jeogi-market/internal/logging"
	"github.com/redmonkez12/jeogi-market/templates"
)

const verificationSubject = "[Jeogi] 이메일 인증을 완료해 주세요"

// Message is a rendered email ready for delivery
type Message struct {
	To      string
	ToName  string
	Subject string
	HTML    string
}

// Sender delivers a rendered message through some provider
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type Service struct {
	sender    Sender
	linkTTL   time.Duration
	templates *template.Template
}

// NewService parses the embedded templates. linkTTL is only shown to the
// recipient; expiry itself is enforced by the signup flow.
func NewService(sender Sender, linkTTL time.Duration) (*Service, error) {
	tmpl, err := template.ParseFS(templates.EmailFS, "email/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}

	return &Service{
		sender:    sender,
		linkTTL:   linkTTL,
		templates: tmpl,
	}, nil
}

type verificationData struct {
	Name             string
	Link             string
	ExpiresInMinutes int
}

// SendVerificationEmail sends the signup verification link to the user
func (s *Service) SendVerificationEmail(ctx context.Context, toEmail, name, link string) error {
	logger := logging.GetLoggerFromContext(ctx)

	body, err := s.render("verification.html", verificationData{
		Name:             name,
		Link:             link,
		ExpiresInMinutes: int(s.linkTTL.Minutes()),
	})
	if err != nil {
		logger.Error("failed to render email template", "error", err)
		return fmt.Errorf("render template: %w", err)
	}

	msg := Message{To: toEmail, ToName: name, Subject: verificationSubject, HTML: body}
	if err := s.sender.Send(ctx, msg); err != nil {
		logger.Error("failed to send verification email", "email", toEmail, "error", err)
		return fmt.Errorf("send email: %w", err)
	}

	logger.Info("verification email sent", "email", toEmail)
	return nil
}

func (s *Service) render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
