package services

import (
	"fmt"
	"log"

	"gopkg.in/gomail.v2"

	"cloudauth/internal/config"
)

type EmailService interface {
	SendVerificationEmail(email, code string) error
}

// NewEmailService — в режиме "mock" письма уходят в лог, иначе через SMTP.
func NewEmailService(cfg config.EmailConfig) EmailService {
	if cfg.Mode == "real" {
		return &smtpEmailService{
			dialer:        gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
			from:          cfg.FromEmail,
			fromName:      cfg.FromName,
			expireMinutes: cfg.VerificationExpireMinutes,
		}
	}
	return &mockEmailService{fromName: cfg.FromName, expireMinutes: cfg.VerificationExpireMinutes}
}

type smtpEmailService struct {
	dialer        *gomail.Dialer
	from          string
	fromName      string
	expireMinutes int
}

func (s *smtpEmailService) SendVerificationEmail(email, code string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.from, s.fromName))
	m.SetHeader("To", email)
	m.SetHeader("Subject", fmt.Sprintf("[%s] Verify your email address", s.fromName))

	body := fmt.Sprintf(`
		<p>Hello,</p>
		<p>Thank you for registering with %s.</p>
		<p>Your email verification code is: <strong>%s</strong></p>
		<p>The code expires in %d minutes.</p>
		<p>If you did not request this code, you can ignore this email.</p>
		<p>Best regards,<br>The %s Team</p>
	`, s.fromName, code, s.expireMinutes, s.fromName)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

// mockEmailService не ходит в SMTP — удобно для разработки и тестов.
type mockEmailService struct {
	fromName      string
	expireMinutes int
}

func (s *mockEmailService) SendVerificationEmail(email, code string) error {
	log.Printf("[email][mock] to=%s code=%s expires_in=%dm from=%q", email, code, s.expireMinutes, s.fromName)
	return nil
}
