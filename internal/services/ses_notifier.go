package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/clmblockchain/devpool/internal/config"
	"github.com/clmblockchain/devpool/internal/models"
	pkglogger "github.com/clmblockchain/devpool/pkg/logger"
)

// SESNotifier delivers mail through AWS SES, for deployments where no SMTP
// relay is available. Same best-effort contract as the SMTP backend.
type SESNotifier struct {
	sesClient  *ses.Client
	sender     string
	adminEmail string
	logger     *slog.Logger
}

func NewSESNotifier(cfg *config.MailConfig, logger *slog.Logger) (*SESNotifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &SESNotifier{
		sesClient:  ses.NewFromConfig(awsCfg),
		sender:     cfg.Sender,
		adminEmail: cfg.AdminEmail,
		logger:     logger,
	}, nil
}

func (n *SESNotifier) SendWelcome(ctx context.Context, name, email, skills string) bool {
	if err := n.send(ctx, email, welcomeSubject, welcomeBody(name, skills)); err != nil {
		n.logger.Error("failed to send welcome email via SES",
			slog.String("email", pkglogger.SanitizedEmail(email)),
			slog.Any("error", err))
		return false
	}

	n.logger.Info("welcome email sent", slog.String("email", pkglogger.SanitizedEmail(email)))
	return true
}

func (n *SESNotifier) SendAdminAlert(ctx context.Context, profile *models.DeveloperProfile) bool {
	if n.adminEmail == "" {
		n.logger.Debug("no admin email configured, skipping admin alert")
		return false
	}

	if err := n.send(ctx, n.adminEmail, adminAlertSubject(profile.Name), adminAlertBody(profile)); err != nil {
		n.logger.Error("failed to send admin alert via SES", slog.Any("error", err))
		return false
	}

	n.logger.Info("admin alert sent", slog.String("developer_id", profile.ID))
	return true
}

func (n *SESNotifier) SendSecurityAlert(ctx context.Context, eventType, details, ip string) bool {
	if n.adminEmail == "" {
		return false
	}

	if err := n.send(ctx, n.adminEmail, securityAlertSubject(eventType), securityAlertBody(eventType, details, ip)); err != nil {
		n.logger.Error("failed to send security alert via SES",
			slog.String("event_type", eventType),
			slog.Any("error", err))
		return false
	}

	return true
}

func (n *SESNotifier) send(ctx context.Context, to, subject, htmlBody string) error {
	input := &ses.SendEmailInput{
		Source: aws.String(n.sender),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subject),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data: aws.String(htmlBody),
				},
			},
		},
	}

	_, err := n.sesClient.SendEmail(ctx, input)
	return err
}
