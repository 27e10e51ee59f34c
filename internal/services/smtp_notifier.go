package services

import (
	"context"
	"log/slog"

	"github.com/clmblockchain/devpool/internal/config"
	"github.com/clmblockchain/devpool/internal/models"
	pkglogger "github.com/clmblockchain/devpool/pkg/logger"
	"github.com/wneessen/go-mail"
)

// SMTPNotifier delivers mail through a plain SMTP relay. The transport —
// implicit TLS on the SSL port vs STARTTLS — was decided once at config load;
// every message goes through the same send path with the same bounded
// timeout, so a slow relay can delay a response by at most cfg.Timeout.
type SMTPNotifier struct {
	cfg    *config.MailConfig
	logger *slog.Logger
}

func NewSMTPNotifier(cfg *config.MailConfig, logger *slog.Logger) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg, logger: logger}
}

func (n *SMTPNotifier) SendWelcome(ctx context.Context, name, email, skills string) bool {
	if err := n.send(ctx, email, welcomeSubject, welcomeBody(name, skills)); err != nil {
		n.logger.Error("failed to send welcome email",
			slog.String("email", pkglogger.SanitizedEmail(email)),
			slog.Any("error", err))
		return false
	}

	n.logger.Info("welcome email sent", slog.String("email", pkglogger.SanitizedEmail(email)))
	return true
}

func (n *SMTPNotifier) SendAdminAlert(ctx context.Context, profile *models.DeveloperProfile) bool {
	if n.cfg.AdminEmail == "" {
		n.logger.Debug("no admin email configured, skipping admin alert")
		return false
	}

	if err := n.send(ctx, n.cfg.AdminEmail, adminAlertSubject(profile.Name), adminAlertBody(profile)); err != nil {
		n.logger.Error("failed to send admin alert", slog.Any("error", err))
		return false
	}

	n.logger.Info("admin alert sent", slog.String("developer_id", profile.ID))
	return true
}

func (n *SMTPNotifier) SendSecurityAlert(ctx context.Context, eventType, details, ip string) bool {
	if n.cfg.AdminEmail == "" {
		return false
	}

	if err := n.send(ctx, n.cfg.AdminEmail, securityAlertSubject(eventType), securityAlertBody(eventType, details, ip)); err != nil {
		n.logger.Error("failed to send security alert",
			slog.String("event_type", eventType),
			slog.Any("error", err))
		return false
	}

	return true
}

// send builds and delivers one HTML message over the configured transport.
func (n *SMTPNotifier) send(ctx context.Context, to, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(n.cfg.Sender); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	opts := []mail.Option{
		mail.WithPort(n.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(n.cfg.Username),
		mail.WithPassword(n.cfg.Password),
		mail.WithTimeout(n.cfg.Timeout),
	}

	switch {
	case n.cfg.UseSSL:
		opts = append(opts, mail.WithSSL())
	case n.cfg.UseTLS:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	default:
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	client, err := mail.NewClient(n.cfg.Server, opts...)
	if err != nil {
		return err
	}

	return client.DialAndSendWithContext(ctx, msg)
}
