package auth

import (
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"

	"github.com/yagocr2/FilmWhere-sub000/config"
)

// Mailer sends account emails over plain SMTP. Without an SMTP host
// configured it only logs the links, which is what local development wants.
type Mailer struct {
	smtp            config.SMTPConfig
	publicBaseURL   string
	frontendBaseURL string
	logger          zerolog.Logger
}

func NewMailer(cfg config.Config, logger zerolog.Logger) *Mailer {
	return &Mailer{
		smtp:            cfg.SMTP,
		publicBaseURL:   cfg.PublicBaseURL,
		frontendBaseURL: cfg.FrontendBaseURL,
		logger:          logger.With().Str("component", "mailer").Logger(),
	}
}

func (m *Mailer) SendVerificationEmail(to string, token string) error {
	link := fmt.Sprintf("%s/verify?token=%s", m.publicBaseURL, token)
	body := fmt.Sprintf("Click the following link to verify your FilmWhere account:\n\n%s", link)
	return m.send(to, "Verify Your FilmWhere Account", body, link)
}

func (m *Mailer) SendPasswordResetEmail(to string, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", m.frontendBaseURL, token)
	body := fmt.Sprintf("Click the following link to reset your FilmWhere password:\n\n%s\n\nThe link expires in one hour.", link)
	return m.send(to, "Reset Your FilmWhere Password", body, link)
}

func (m *Mailer) send(to, subject, body, link string) error {
	if m.smtp.Host == "" {
		m.logger.Info().Str("to", to).Str("link", link).Msg("SMTP not configured, logging link instead")
		return nil
	}

	auth := smtp.PlainAuth("", m.smtp.From, m.smtp.Password, m.smtp.Host)

	message := []byte("Subject: " + subject + "\r\n" +
		"From: " + m.smtp.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		body + "\r\n")

	err := smtp.SendMail(m.smtp.Host+":"+m.smtp.Port, auth, m.smtp.From, []string{to}, message)
	if err != nil {
		m.logger.Error().Err(err).Str("to", to).Msg("SMTP send failed")
	}
	return err
}
