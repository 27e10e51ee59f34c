package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/clmblockchain/devpool/internal/models"
	pkglogger "github.com/clmblockchain/devpool/pkg/logger"
)

// DeveloperStore is the slice of the developer repository the registration
// flow needs.
type DeveloperStore interface {
	Insert(ctx context.Context, dev *models.DeveloperProfile) (*models.DeveloperProfile, error)
	Count(ctx context.Context) (int, error)
}

// RegistrationService runs the intake pipeline: validation, persistence,
// then the two independent best-effort notifications.
type RegistrationService struct {
	store    DeveloperStore
	notifier Notifier
	logger   *slog.Logger
}

func NewRegistrationService(store DeveloperStore, notifier Notifier, logger *slog.Logger) *RegistrationService {
	return &RegistrationService{
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

// RegistrationResult is what a successful registration reports back: the
// stored profile, the outcome of each notification, and the current total.
type RegistrationResult struct {
	Profile         *models.DeveloperProfile
	WelcomeSent     bool
	AdminNotified   bool
	TotalDevelopers int
}

// Register validates and persists a submission. Validation and store errors
// propagate to the caller; notification failures never do — their outcomes
// ride along as informational flags.
func (s *RegistrationService) Register(ctx context.Context, sub Submission, ip string) (*RegistrationResult, error) {
	draft, err := ValidateSubmission(sub)
	if err != nil {
		return nil, err
	}
	draft.IP = ip

	created, err := s.store.Insert(ctx, draft)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateEmail) {
			s.logger.Info("duplicate registration rejected",
				slog.String("email", pkglogger.SanitizedEmail(draft.Email)))
		} else {
			s.logger.Error("failed to insert developer", slog.Any("error", err))
		}
		return nil, err
	}

	s.logger.Info("developer registered",
		slog.String("developer_id", created.ID),
		slog.String("email", pkglogger.SanitizedEmail(created.Email)))

	result := &RegistrationResult{
		Profile:       created,
		WelcomeSent:   s.notifier.SendWelcome(ctx, created.Name, created.Email, created.Skills),
		AdminNotified: s.notifier.SendAdminAlert(ctx, created),
	}

	count, err := s.store.Count(ctx)
	if err != nil {
		// The count is informational; a failed count must not fail a
		// registration that already committed.
		s.logger.Error("failed to count developers", slog.Any("error", err))
	}
	result.TotalDevelopers = count

	return result, nil
}

// CountDevelopers backs the public landing page counter.
func (s *RegistrationService) CountDevelopers(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}
