package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/clmblockchain/devpool/internal/config"
	"github.com/clmblockchain/devpool/internal/models"
)

// Notifier sends best-effort email notifications. Every method swallows its
// own failures and reports the outcome as a boolean; a notifier must never
// surface an error that could abort the caller's request. Registration
// success is decided by persistence alone, never by mail delivery.
type Notifier interface {
	SendWelcome(ctx context.Context, name, email, skills string) bool
	SendAdminAlert(ctx context.Context, profile *models.DeveloperProfile) bool
	SendSecurityAlert(ctx context.Context, eventType, details, ip string) bool
}

// NewNotifier picks the backend from configuration. Missing credentials
// yield a disabled notifier that reports false without connecting anywhere.
func NewNotifier(cfg *config.MailConfig, logger *slog.Logger) Notifier {
	if !cfg.Configured() {
		logger.Warn("mail not configured, notifications disabled")
		return &DisabledNotifier{logger: logger}
	}

	switch cfg.Provider {
	case "ses":
		n, err := NewSESNotifier(cfg, logger)
		if err != nil {
			logger.Error("failed to initialize SES notifier, notifications disabled", slog.Any("error", err))
			return &DisabledNotifier{logger: logger}
		}
		return n
	default:
		return NewSMTPNotifier(cfg, logger)
	}
}

// DisabledNotifier is used when no mail credentials are supplied.
type DisabledNotifier struct {
	logger *slog.Logger
}

func (n *DisabledNotifier) SendWelcome(ctx context.Context, name, email, skills string) bool {
	n.logger.Debug("mail disabled, skipping welcome email")
	return false
}

func (n *DisabledNotifier) SendAdminAlert(ctx context.Context, profile *models.DeveloperProfile) bool {
	n.logger.Debug("mail disabled, skipping admin alert")
	return false
}

func (n *DisabledNotifier) SendSecurityAlert(ctx context.Context, eventType, details, ip string) bool {
	n.logger.Debug("mail disabled, skipping security alert")
	return false
}

// Message builders shared by the SMTP and SES backends.

const welcomeSubject = "Welcome to the DevPool!"

func welcomeBody(name, skills string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #6366f1;">Welcome, %s!</h2>
    <p>Your developer profile has been registered successfully.</p>
    <div style="background: #f8f9fa; padding: 20px; border-radius: 10px; margin: 20px 0;">
        <p><strong>Skills on file:</strong> %s</p>
    </div>
    <p>An administrator will review your profile and get in touch when a matching opportunity comes up.</p>
    <div style="color: #666; font-size: 12px; margin-top: 20px; padding-top: 20px; border-top: 1px solid #eee;">
        <p>This is an automated message. Please do not reply to this email.</p>
    </div>
</div>`, name, skills)
}

func adminAlertSubject(name string) string {
	return fmt.Sprintf("New developer registration: %s", name)
}

func adminAlertBody(profile *models.DeveloperProfile) string {
	portfolio := "not provided"
	if profile.PortfolioURL != nil {
		portfolio = *profile.PortfolioURL
	}
	location := "not provided"
	if profile.Location != nil {
		location = *profile.Location
	}

	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #6366f1;">New Developer Registered</h2>
    <div style="background: #f8f9fa; padding: 20px; border-radius: 10px; margin: 20px 0;">
        <p><strong>Name:</strong> %s</p>
        <p><strong>Email:</strong> %s</p>
        <p><strong>Skills:</strong> %s</p>
        <p><strong>Experience:</strong> %d years</p>
        <p><strong>Portfolio:</strong> %s</p>
        <p><strong>Location:</strong> %s</p>
        <p><strong>IP:</strong> %s</p>
        <p><strong>Registered:</strong> %s</p>
    </div>
</div>`,
		profile.Name, profile.Email, profile.Skills, profile.ExperienceYears,
		portfolio, location, profile.IP, profile.CreatedAt.Format(time.RFC3339))
}

func securityAlertSubject(eventType string) string {
	return fmt.Sprintf("Security alert: %s", eventType)
}

func securityAlertBody(eventType, details, ip string) string {
	return fmt.Sprintf(`<div style="background: #fee; border: 1px solid #f66; padding: 20px; border-radius: 10px;">
    <h2 style="color: #d00;">Security Alert</h2>
    <p><strong>Event:</strong> %s</p>
    <p><strong>IP:</strong> %s</p>
    <p><strong>Timestamp:</strong> %s</p>
    <p><strong>Details:</strong> %s</p>
</div>`, eventType, ip, time.Now().UTC().Format("2006-01-02 15:04:05"), details)
}
