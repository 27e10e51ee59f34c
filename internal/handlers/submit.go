package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/clmblockchain/devpool/internal/models"
	"github.com/clmblockchain/devpool/internal/services"
	pkghttp "github.com/clmblockchain/devpool/pkg/http"
)

// RegistrationServiceInterface defines the interface for the intake pipeline
type RegistrationServiceInterface interface {
	Register(ctx context.Context, sub services.Submission, ip string) (*services.RegistrationResult, error)
	CountDevelopers(ctx context.Context) (int, error)
}

// SubmitHandler handles public developer registrations
type SubmitHandler struct {
	service  RegistrationServiceInterface
	ipConfig *pkghttp.IPConfig
}

// NewSubmitHandler creates a new SubmitHandler
func NewSubmitHandler(service RegistrationServiceInterface, ipConfig *pkghttp.IPConfig) *SubmitHandler {
	return &SubmitHandler{
		service:  service,
		ipConfig: ipConfig,
	}
}

// SubmitResponse is the success payload for a registration
type SubmitResponse struct {
	Message         string                   `json:"message"`
	Developer       *models.DeveloperProfile `json:"developer"`
	TotalDevelopers int                      `json:"total_developers"`
	EmailStatus     EmailStatus              `json:"email_status"`
}

// EmailStatus reports the outcome of the best-effort notifications
type EmailStatus struct {
	WelcomeSent   bool `json:"welcome_sent"`
	AdminNotified bool `json:"admin_notified"`
}

// Submit accepts an application/x-www-form-urlencoded registration
func (h *SubmitHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid form data")
		return
	}

	sub := services.Submission{
		Name:            r.PostFormValue("name"),
		Email:           r.PostFormValue("email"),
		Skills:          r.PostFormValue("skills"),
		ExperienceYears: r.PostFormValue("experience_years"),
		PortfolioURL:    r.PostFormValue("portfolio_url"),
		Location:        r.PostFormValue("location"),
	}

	ip := pkghttp.ExtractClientIP(r, h.ipConfig)

	result, err := h.service.Register(r.Context(), sub, ip)
	if err != nil {
		var missing *models.MissingFieldsError
		switch {
		case errors.As(err, &missing):
			pkghttp.WriteErrorWithDetails(w, http.StatusBadRequest, "missing_fields",
				"Required fields are missing", strings.Join(missing.Fields, ", "))
		case errors.Is(err, models.ErrInvalidExperience):
			pkghttp.WriteBadRequest(w, "Experience must be a whole number between 0 and 50")
		case errors.Is(err, models.ErrInvalidEmail):
			pkghttp.WriteBadRequest(w, "Invalid email address")
		case errors.Is(err, models.ErrDuplicateEmail):
			pkghttp.WriteConflict(w, "This email is already registered")
		default:
			pkghttp.WriteInternalError(w, "Failed to process registration")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, SubmitResponse{
		Message:         "Registration successful",
		Developer:       result.Profile,
		TotalDevelopers: result.TotalDevelopers,
		EmailStatus: EmailStatus{
			WelcomeSent:   result.WelcomeSent,
			AdminNotified: result.AdminNotified,
		},
	})
}
