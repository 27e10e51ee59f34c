package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clmblockchain/devpool/internal/models"
)

type fakeDeveloperStore struct {
	inserted  *models.DeveloperProfile
	insertErr error
	count     int
	countErr  error
}

func (f *fakeDeveloperStore) Insert(_ context.Context, dev *models.DeveloperProfile) (*models.DeveloperProfile, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	f.inserted = dev
	out := *dev
	out.ID = "dev-1"
	return &out, nil
}

func (f *fakeDeveloperStore) Count(_ context.Context) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.count, nil
}

type fakeNotifier struct {
	welcomeOK     bool
	adminOK       bool
	welcomeCalled bool
	adminCalled   bool
	lastProfile   *models.DeveloperProfile
}

func (f *fakeNotifier) SendWelcome(_ context.Context, _, _, _ string) bool {
	f.welcomeCalled = true
	return f.welcomeOK
}

func (f *fakeNotifier) SendAdminAlert(_ context.Context, dev *models.DeveloperProfile) bool {
	f.adminCalled = true
	f.lastProfile = dev
	return f.adminOK
}

func (f *fakeNotifier) SendSecurityAlert(_ context.Context, _, _, _ string) bool {
	return true
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validRegistrationSubmission() Submission {
	return Submission{
		Name:            "Ada Lovelace",
		Email:           "Ada@Example.COM",
		Skills:          "Go, SQL",
		ExperienceYears: "7",
		PortfolioURL:    "ada.dev",
	}
}

func TestRegisterSuccess(t *testing.T) {
	store := &fakeDeveloperStore{count: 12}
	notifier := &fakeNotifier{welcomeOK: true, adminOK: true}
	svc := NewRegistrationService(store, notifier, discardLogger())

	result, err := svc.Register(context.Background(), validRegistrationSubmission(), "203.0.113.9")
	require.NoError(t, err)

	assert.Equal(t, "dev-1", result.Profile.ID)
	assert.Equal(t, "ada@example.com", result.Profile.Email)
	assert.Equal(t, "203.0.113.9", store.inserted.IP)
	assert.True(t, result.WelcomeSent)
	assert.True(t, result.AdminNotified)
	assert.Equal(t, 12, result.TotalDevelopers)
	assert.True(t, notifier.welcomeCalled)
	assert.True(t, notifier.adminCalled)
}

func TestRegisterValidationFailureSkipsStore(t *testing.T) {
	store := &fakeDeveloperStore{}
	notifier := &fakeNotifier{}
	svc := NewRegistrationService(store, notifier, discardLogger())

	sub := validRegistrationSubmission()
	sub.Email = "not-an-email"

	_, err := svc.Register(context.Background(), sub, "203.0.113.9")
	require.ErrorIs(t, err, models.ErrInvalidEmail)
	assert.Nil(t, store.inserted)
	assert.False(t, notifier.welcomeCalled)
}

func TestRegisterDuplicateEmailPropagates(t *testing.T) {
	store := &fakeDeveloperStore{insertErr: models.ErrDuplicateEmail}
	notifier := &fakeNotifier{}
	svc := NewRegistrationService(store, notifier, discardLogger())

	_, err := svc.Register(context.Background(), validRegistrationSubmission(), "203.0.113.9")
	require.ErrorIs(t, err, models.ErrDuplicateEmail)
	assert.False(t, notifier.welcomeCalled)
	assert.False(t, notifier.adminCalled)
}

func TestRegisterNotificationFailureDoesNotFail(t *testing.T) {
	store := &fakeDeveloperStore{count: 1}
	notifier := &fakeNotifier{welcomeOK: false, adminOK: false}
	svc := NewRegistrationService(store, notifier, discardLogger())

	result, err := svc.Register(context.Background(), validRegistrationSubmission(), "")
	require.NoError(t, err)
	assert.False(t, result.WelcomeSent)
	assert.False(t, result.AdminNotified)
}

func TestRegisterCountFailureDoesNotFail(t *testing.T) {
	store := &fakeDeveloperStore{countErr: errors.New("connection reset")}
	notifier := &fakeNotifier{welcomeOK: true, adminOK: true}
	svc := NewRegistrationService(store, notifier, discardLogger())

	result, err := svc.Register(context.Background(), validRegistrationSubmission(), "203.0.113.9")
	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalDevelopers)
}
