package services

import (
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// MailService delivers account e-mails.
type MailService interface {
	SendPasswordResetEmail(to, firstName, token string) error
	SendPasswordChangedEmail(to string) error
}

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
	BaseURL     string
}

type smtpMailService struct {
	config SMTPConfig
	dialer *gomail.Dialer
	logger zerolog.Logger
}

func NewSMTPMailService(config SMTPConfig, logger zerolog.Logger) MailService {
	return &smtpMailService{
		config: config,
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
		logger: logger.With().Str("component", "mail").Logger(),
	}
}

func (s *smtpMailService) SendPasswordResetEmail(to, firstName, token string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.config.BaseURL, token)

	subject := "Password recovery code"
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<p>Hi %s,</p>
			<p>Use this code to reset your GYMETRA password:</p>
			<p><strong>%s</strong></p>
			<p>Or open <a href="%s">%s</a>.</p>
			<p>The code expires in 1 hour.</p>
		</body>
		</html>
	`, firstName, token, resetURL, resetURL)

	plainBody := fmt.Sprintf(`
Hi %s,

Use this code to reset your GYMETRA password:

%s

Or open %s

The code expires in 1 hour.
	`, firstName, token, resetURL)

	return s.send(s.buildMessage(to, subject, htmlBody, plainBody))
}

func (s *smtpMailService) SendPasswordChangedEmail(to string) error {
	subject := "Your password was changed"
	plainBody := `
Your GYMETRA password has been changed.

If you didn't make this change, please contact the front desk immediately.
	`
	htmlBody := `
		<html>
		<body>
			<p>Your GYMETRA password has been changed.</p>
			<p>If you didn't make this change, please contact the front desk immediately.</p>
		</body>
		</html>
	`
	return s.send(s.buildMessage(to, subject, htmlBody, plainBody))
}

func (s *smtpMailService) buildMessage(to, subject, htmlBody, plainBody string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)
	return m
}

func (s *smtpMailService) send(m *gomail.Message) error {
	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error().Err(err).Strs("to", m.GetHeader("To")).Msg("failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
