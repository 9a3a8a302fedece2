package services

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// EmailService sends account mail. Callers dispatch it in the background and
// only log failures; a broken SMTP relay must never fail a signup.
type EmailService interface {
	SendConfirmationEmail(email, token, baseURL string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendConfirmationEmail(email, token, baseURL string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Confirm your email")

	body := fmt.Sprintf(`
		<h2>Welcome to Contactbook!</h2>
		<p>Please confirm your email address by following the link below:</p>
		<p><a href="%s/auth/confirm/%s">Confirm email</a></p>
		<p>If you did not create an account, you can ignore this email.</p>
	`, baseURL, token)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}

	return nil
}
