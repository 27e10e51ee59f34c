package auth

import (
	"context"
	"net/http"

	pkghttp "github.com/clmblockchain/devpool/pkg/http"
	pkglogger "github.com/clmblockchain/devpool/pkg/logger"
)

// contextKey is a custom type for context keys
type contextKey string

const (
	// AdminContextKey is the key for storing the admin username in context
	AdminContextKey contextKey = "admin"
)

// RequireAdmin gates back-office routes behind a valid session cookie.
// Requests without one are bounced to the login page; requests with one get
// the token reissued, sliding the inactivity window forward.
func RequireAdmin(sm *SessionManager, ipConfig *pkghttp.IPConfig, cookieConfig CookieConfig, secLogger *pkglogger.SecurityLogger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := GetSessionCookie(r)
			if err != nil {
				secLogger.LogEvent(pkglogger.SecurityEvent{
					EventType: "unauthorized_access",
					IPAddress: pkghttp.ExtractClientIP(r, ipConfig),
					Success:   false,
					Details:   "no session cookie for " + r.URL.Path,
				})
				redirectToLogin(w, r)
				return
			}

			claims, err := sm.Validate(token)
			if err != nil {
				// Stale or tampered cookie. Clear it so the browser stops
				// resending it.
				ClearSessionCookie(w, cookieConfig)
				secLogger.LogEvent(pkglogger.SecurityEvent{
					EventType: "session_rejected",
					IPAddress: pkghttp.ExtractClientIP(r, ipConfig),
					Success:   false,
					Details:   "invalid or expired session cookie",
				})
				redirectToLogin(w, r)
				return
			}

			refreshed, err := sm.Refresh(claims)
			if err == nil {
				SetSessionCookie(w, refreshed, sm.IdleTimeout(), cookieConfig)
			}

			ctx := context.WithValue(r.Context(), AdminContextKey, claims.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

// AdminFromContext returns the authenticated admin username, if any.
func AdminFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(AdminContextKey).(string)
	return username, ok
}
