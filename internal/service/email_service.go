package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/esticore/auth-api/internal/config"
	"github.com/esticore/auth-api/internal/models"
	"github.com/wneessen/go-mail"
)

// ==============================================
// EMAIL SERVICE
// ==============================================

// EmailService sends verification and notification emails over SMTP.
type EmailService struct {
	host        string
	port        int
	username    string
	password    string
	fromEmail   string
	frontendURL string
	logger      *slog.Logger
}

func NewEmailService(cfg config.Config, logger *slog.Logger) *EmailService {
	return &EmailService{
		host:        cfg.SMTPHost,
		port:        cfg.SMTPPort,
		username:    cfg.SMTPUsername,
		password:    cfg.SMTPPassword,
		fromEmail:   cfg.FromEmail,
		frontendURL: cfg.FrontendURL,
		logger:      logger,
	}
}

// IsConfigured reports whether an SMTP endpoint is set up. Without one,
// sends fail fast and the caller reports verification_email_sent: false.
func (s *EmailService) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != ""
}

// SendVerification renders and dispatches the message for a token of
// either kind: short codes go out as a code to type in, legacy link tokens
// as a clickable verification URL.
func (s *EmailService) SendVerification(ctx context.Context, user *models.User, token *models.VerificationToken) error {
	subject, body := s.verificationContent(user, token)
	return s.send(ctx, user.Email, subject, body)
}

// SendVerificationSuccess sends the welcome email after a successful
// verification.
func (s *EmailService) SendVerificationSuccess(ctx context.Context, user *models.User) error {
	subject := "Email Verified Successfully - Welcome to Esticore!"
	body := fmt.Sprintf(`Hi %s!

Your email has been verified successfully and your Esticore account is now fully active.

Login at: %s/login

Best regards,
Esticore Team
`, user.FirstName, s.frontendURL)

	return s.send(ctx, user.Email, subject, body)
}

func (s *EmailService) verificationContent(user *models.User, token *models.VerificationToken) (subject string, body string) {
	switch token.Kind {
	case models.TokenKindLegacyLink:
		verificationURL := fmt.Sprintf("%s/verify?token=%s", s.frontendURL, token.Value)
		subject = "Verify your email address - Esticore"
		body = fmt.Sprintf(`Hi %s!

Welcome to Esticore! Please verify your email address to complete your registration.

Verification Link:
%s

This link will expire in 24 hours.

If you didn't create this account, you can safely ignore this email.

Best regards,
Esticore Team
`, user.FirstName, verificationURL)

	default:
		subject = "Your verification code - Esticore"
		body = fmt.Sprintf(`Hi %s!

Your email verification code is: %s

This code will expire in 5 minutes.

If you didn't request this code, please ignore this email.

Best regards,
Esticore Team
`, user.FirstName, token.Value)
	}

	return subject, body
}

func (s *EmailService) send(ctx context.Context, to, subject, body string) error {
	if !s.IsConfigured() {
		return fmt.Errorf("email service not configured")
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat("Esticore", s.fromEmail); err != nil {
		return fmt.Errorf("setting from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	client, err := mail.NewClient(s.host,
		mail.WithPort(s.port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.username),
		mail.WithPassword(s.password),
	)
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	s.logger.Info("email sent", "to", to, "subject", subject)
	return nil
}
