package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/clmblockchain/devpool/internal/models"
	"github.com/clmblockchain/devpool/pkg/auth"
	pkglogger "github.com/clmblockchain/devpool/pkg/logger"
)

// AdminStore looks up back-office accounts.
type AdminStore interface {
	GetByUsername(ctx context.Context, username string) (*models.AdminAccount, error)
}

// DeveloperDirectory is the slice of the developer repository the back
// office needs.
type DeveloperDirectory interface {
	ListAll(ctx context.Context, orderDesc bool) ([]*models.DeveloperProfile, error)
	DeleteByID(ctx context.Context, id string) error
}

// AdminService handles back-office authentication and record management.
// Login failures feed the per-IP throttle; every sensitive action lands in
// the security log.
type AdminService struct {
	admins     AdminStore
	developers DeveloperDirectory
	throttle   *LoginThrottle
	notifier   Notifier
	logger     *slog.Logger
	secLogger  *pkglogger.SecurityLogger
	now        func() time.Time
}

func NewAdminService(
	admins AdminStore,
	developers DeveloperDirectory,
	throttle *LoginThrottle,
	notifier Notifier,
	logger *slog.Logger,
	secLogger *pkglogger.SecurityLogger,
) *AdminService {
	return &AdminService{
		admins:     admins,
		developers: developers,
		throttle:   throttle,
		notifier:   notifier,
		logger:     logger,
		secLogger:  secLogger,
		now:        time.Now,
	}
}

// Login verifies credentials for the given client IP. Unknown usernames and
// wrong passwords are indistinguishable to the caller; both count against
// the IP's failure budget. A blocked IP is rejected before any credential
// check so it cannot probe accounts while blocked.
func (s *AdminService) Login(ctx context.Context, username, password, ip string) error {
	if s.throttle.IsBlocked(ip) {
		s.secLogger.LogEvent(pkglogger.SecurityEvent{
			EventType: "login_blocked",
			Username:  username,
			IPAddress: ip,
			Success:   false,
			Details:   "attempt from blocked IP",
		})
		return models.ErrRateLimited
	}

	account, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.logger.Error("admin lookup failed", slog.Any("error", err))
			return models.ErrInternalServer
		}
		return s.recordLoginFailure(ctx, username, ip, "unknown username")
	}

	if err := auth.ComparePassword(account.HashedPassword, password); err != nil {
		return s.recordLoginFailure(ctx, username, ip, "wrong password")
	}

	s.throttle.RecordSuccess(ip)
	s.secLogger.LogEvent(pkglogger.SecurityEvent{
		EventType: "login_success",
		Username:  username,
		IPAddress: ip,
		Success:   true,
	})
	s.notifier.SendSecurityAlert(ctx, "admin_login", fmt.Sprintf("admin %q logged in", username), ip)
	return nil
}

func (s *AdminService) recordLoginFailure(ctx context.Context, username, ip, reason string) error {
	nowBlocked := s.throttle.RecordFailure(ip)

	s.secLogger.LogEvent(pkglogger.SecurityEvent{
		EventType: "login_failure",
		Username:  username,
		IPAddress: ip,
		Success:   false,
		Details:   reason,
	})

	if nowBlocked {
		s.notifier.SendSecurityAlert(ctx, "ip_blocked",
			fmt.Sprintf("IP blocked after repeated failed logins (last username %q)", username), ip)
		return models.ErrRateLimited
	}
	return models.ErrUnauthorized
}

// ListDevelopers returns every profile, newest first.
func (s *AdminService) ListDevelopers(ctx context.Context) ([]*models.DeveloperProfile, error) {
	return s.developers.ListAll(ctx, true)
}

// DeleteDeveloper removes a profile and records who did it.
func (s *AdminService) DeleteDeveloper(ctx context.Context, id, actor, ip string) error {
	if err := s.developers.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return err
		}
		s.logger.Error("failed to delete developer", slog.String("developer_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.secLogger.LogEvent(pkglogger.SecurityEvent{
		EventType: "developer_deleted",
		Username:  actor,
		IPAddress: ip,
		Success:   true,
		Details:   "developer_id=" + id,
	})
	return nil
}

// ExportDevelopers serializes every profile, oldest first, and returns the
// payload with a timestamped download filename.
func (s *AdminService) ExportDevelopers(ctx context.Context, actor, ip string) ([]byte, string, error) {
	developers, err := s.developers.ListAll(ctx, false)
	if err != nil {
		s.logger.Error("failed to load developers for export", slog.Any("error", err))
		return nil, "", models.ErrInternalServer
	}

	payload, err := json.MarshalIndent(developers, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("marshaling export: %w", err)
	}

	filename := "developers_export_" + s.now().UTC().Format("20060102_150405") + ".json"

	s.secLogger.LogEvent(pkglogger.SecurityEvent{
		EventType: "developers_exported",
		Username:  actor,
		IPAddress: ip,
		Success:   true,
		Details:   fmt.Sprintf("records=%d", len(developers)),
	})
	return payload, filename, nil
}
