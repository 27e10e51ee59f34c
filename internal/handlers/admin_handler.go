package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clmblockchain/devpool/internal/auth"
	"github.com/clmblockchain/devpool/internal/models"
	pkghttp "github.com/clmblockchain/devpool/pkg/http"
	pkglogger "github.com/clmblockchain/devpool/pkg/logger"
)

// AdminServiceInterface defines the back-office service contract.
type AdminServiceInterface interface {
	Login(ctx context.Context, username, password, ip string) error
	ListDevelopers(ctx context.Context) ([]*models.DeveloperProfile, error)
	DeleteDeveloper(ctx context.Context, id, actor, ip string) error
	ExportDevelopers(ctx context.Context, actor, ip string) ([]byte, string, error)
}

// AdminHandler handles admin authentication and record management.
type AdminHandler struct {
	service      AdminServiceInterface
	sessions     *auth.SessionManager
	ipConfig     *pkghttp.IPConfig
	cookieConfig auth.CookieConfig
	secLogger    *pkglogger.SecurityLogger
}

func NewAdminHandler(service AdminServiceInterface, sessions *auth.SessionManager, ipConfig *pkghttp.IPConfig, cookieConfig auth.CookieConfig, secLogger *pkglogger.SecurityLogger) *AdminHandler {
	return &AdminHandler{
		service:      service,
		sessions:     sessions,
		ipConfig:     ipConfig,
		cookieConfig: cookieConfig,
		secLogger:    secLogger,
	}
}

// LoginForm serves the login page data. An already-authenticated admin is
// sent straight to the dashboard.
func (h *AdminHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if token, err := auth.GetSessionCookie(r); err == nil {
		if _, err := h.sessions.Validate(token); err == nil {
			http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
			return
		}
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Admin login",
	})
}

// Login authenticates the posted credentials and establishes a session.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid form data")
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	ip := pkghttp.ExtractClientIP(r, h.ipConfig)

	if err := h.service.Login(r.Context(), username, password, ip); err != nil {
		switch {
		case errors.Is(err, models.ErrRateLimited):
			pkghttp.WriteTooManyRequests(w, "Too many failed attempts. Try again later.")
		case errors.Is(err, models.ErrUnauthorized):
			pkghttp.WriteUnauthorized(w, "Invalid username or password")
		default:
			pkghttp.WriteInternalError(w, "Login failed")
		}
		return
	}

	token, err := h.sessions.Issue(username)
	if err != nil {
		pkghttp.WriteInternalError(w, "Login failed")
		return
	}

	auth.SetSessionCookie(w, token, h.sessions.IdleTimeout(), h.cookieConfig)
	http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
}

// DashboardResponse lists every registered developer, newest first.
type DashboardResponse struct {
	Admin      string                     `json:"admin"`
	Total      int                        `json:"total"`
	Developers []*models.DeveloperProfile `json:"developers"`
}

// Dashboard returns the full developer list for the back office.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	username, _ := auth.AdminFromContext(r.Context())

	developers, err := h.service.ListDevelopers(r.Context())
	if err != nil {
		pkghttp.WriteInternalError(w, "Failed to load developers")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, DashboardResponse{
		Admin:      username,
		Total:      len(developers),
		Developers: developers,
	})
}

// Delete removes one developer record and returns to the dashboard.
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		pkghttp.WriteBadRequest(w, "Missing developer id")
		return
	}

	username, _ := auth.AdminFromContext(r.Context())
	ip := pkghttp.ExtractClientIP(r, h.ipConfig)

	if err := h.service.DeleteDeveloper(r.Context(), id, username, ip); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Developer not found")
			return
		}
		pkghttp.WriteInternalError(w, "Failed to delete developer")
		return
	}

	http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
}

// Export streams the full developer list as a JSON download.
func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request) {
	username, _ := auth.AdminFromContext(r.Context())
	ip := pkghttp.ExtractClientIP(r, h.ipConfig)

	payload, filename, err := h.service.ExportDevelopers(r.Context(), username, ip)
	if err != nil {
		pkghttp.WriteInternalError(w, "Failed to export developers")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

// Logout clears the session cookie and returns to the login page.
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var username string
	if token, err := auth.GetSessionCookie(r); err == nil {
		if claims, err := h.sessions.Validate(token); err == nil {
			username = claims.Username
		}
	}

	auth.ClearSessionCookie(w, h.cookieConfig)
	h.secLogger.LogEvent(pkglogger.SecurityEvent{
		EventType: "admin_logout",
		Username:  username,
		IPAddress: pkghttp.ExtractClientIP(r, h.ipConfig),
		Success:   true,
	})
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}
