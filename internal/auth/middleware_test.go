package auth

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	pkghttp "github.com/clmblockchain/devpool/pkg/http"
	pkglogger "github.com/clmblockchain/devpool/pkg/logger"
)

func newGuardedHandler(sm *SessionManager) http.Handler {
	secLogger := pkglogger.NewSecurityLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	guard := RequireAdmin(sm, &pkghttp.IPConfig{}, CookieConfig{}, secLogger)
	return guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, ok := AdminFromContext(r.Context())
		if !ok {
			http.Error(w, "no admin in context", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(username))
	}))
}

func TestRequireAdminRedirectsWithoutCookie(t *testing.T) {
	sm, _ := newTestSessionManager(30 * time.Minute)
	handler := newGuardedHandler(sm)

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/admin/login" {
		t.Errorf("Location = %q, want /admin/login", loc)
	}
}

func TestRequireAdminLogsUnauthorizedAccess(t *testing.T) {
	var logs bytes.Buffer
	secLogger := pkglogger.NewSecurityLogger(slog.New(slog.NewJSONHandler(&logs, nil)))
	sm, _ := newTestSessionManager(30 * time.Minute)
	guard := RequireAdmin(sm, &pkghttp.IPConfig{}, CookieConfig{}, secLogger)
	handler := guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("wrapped handler should not run without a session")
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/export", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if !strings.Contains(logs.String(), `"event_type":"unauthorized_access"`) {
		t.Errorf("expected an unauthorized_access event, got logs: %s", logs.String())
	}
	if !strings.Contains(logs.String(), "/admin/export") {
		t.Errorf("expected the requested path in the event details, got logs: %s", logs.String())
	}
}

func TestRequireAdminAcceptsValidSession(t *testing.T) {
	sm, _ := newTestSessionManager(30 * time.Minute)
	handler := newGuardedHandler(sm)

	token, err := sm.Issue("admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "admin" {
		t.Errorf("body = %q, want admin", rec.Body.String())
	}

	// A valid request reissues the cookie to slide the idle window.
	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Error("expected a refreshed session cookie on the response")
	}
}

func TestRequireAdminClearsExpiredSession(t *testing.T) {
	sm, clock := newTestSessionManager(30 * time.Minute)
	handler := newGuardedHandler(sm)

	token, err := sm.Issue("admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	*clock = clock.Add(31 * time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected the stale session cookie to be cleared")
	}
}
