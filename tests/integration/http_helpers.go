package integration

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/clmblockchain/devpool/internal/auth"
	"github.com/clmblockchain/devpool/internal/database"
	"github.com/clmblockchain/devpool/internal/handlers"
	middlewareCustom "github.com/clmblockchain/devpool/internal/middleware"
	"github.com/clmblockchain/devpool/internal/models"
	"github.com/clmblockchain/devpool/internal/routes"
	"github.com/clmblockchain/devpool/internal/services"
	pkghttp "github.com/clmblockchain/devpool/pkg/http"
	pkglogger "github.com/clmblockchain/devpool/pkg/logger"
)

// SentEmail represents a captured email message
type SentEmail struct {
	Kind    string // "welcome", "admin_alert", "security_alert"
	To      string
	Details string
}

// MockNotifier captures outbound email for test assertions
type MockNotifier struct {
	mu     sync.Mutex
	Emails []SentEmail
}

func (m *MockNotifier) SendWelcome(_ context.Context, name, email, skills string) bool {
	m.record(SentEmail{Kind: "welcome", To: email, Details: name})
	return true
}

func (m *MockNotifier) SendAdminAlert(_ context.Context, dev *models.DeveloperProfile) bool {
	m.record(SentEmail{Kind: "admin_alert", Details: dev.Email})
	return true
}

func (m *MockNotifier) SendSecurityAlert(_ context.Context, eventType, details, ip string) bool {
	m.record(SentEmail{Kind: "security_alert", Details: eventType})
	return true
}

func (m *MockNotifier) record(email SentEmail) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Emails = append(m.Emails, email)
}

// ByKind returns the captured emails of one kind
func (m *MockNotifier) ByKind(kind string) []SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []SentEmail
	for _, e := range m.Emails {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// TestServer wraps httptest.Server with database and all dependencies
type TestServer struct {
	Server   *httptest.Server
	DB       *database.DB
	Notifier *MockNotifier
	Throttle *services.LoginThrottle
	Client   *http.Client
}

// NewTestServer initializes a complete HTTP server with real database + mocked email
func NewTestServer(db *database.DB) *TestServer {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

	developerRepo, adminRepo := InitializeRepositories(db)

	notifier := &MockNotifier{}
	secLogger := pkglogger.NewSecurityLogger(logger)
	throttle := services.NewLoginThrottle(services.ThrottleConfig{
		MaxFailures:   5,
		Window:        15 * time.Minute,
		BlockDuration: 15 * time.Minute,
	}, logger)

	registrationService := services.NewRegistrationService(developerRepo, notifier, logger)
	adminService := services.NewAdminService(adminRepo, developerRepo, throttle, notifier, logger, secLogger)

	sessions := auth.NewSessionManager("test-session-secret-32-chars-long!!", 30*time.Minute)
	ipConfig := &pkghttp.IPConfig{}
	cookieConfig := auth.CookieConfig{}

	indexHandler := handlers.NewIndexHandler(registrationService, logger)
	submitHandler := handlers.NewSubmitHandler(registrationService, ipConfig)
	adminHandler := handlers.NewAdminHandler(adminService, sessions, ipConfig, cookieConfig, secLogger)

	router := chi.NewRouter()
	router.Use(chiMiddleware.RequestID)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: "test"}))
	router.Use(chiMiddleware.Recoverer)

	routes.RegisterRoutes(router, indexHandler, submitHandler, adminHandler, sessions, ipConfig, cookieConfig, secLogger)

	server := httptest.NewServer(router)

	// Client that carries cookies but never follows redirects, so tests can
	// assert on the redirect responses themselves
	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &TestServer{
		Server:   server,
		DB:       db,
		Notifier: notifier,
		Throttle: throttle,
		Client:   client,
	}
}

// Close shuts down the test server
func (ts *TestServer) Close() {
	ts.Server.Close()
}

// PostForm submits an urlencoded form, attaching any provided cookies
func (ts *TestServer) PostForm(path string, form url.Values, cookies ...*http.Cookie) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return ts.Client.Do(req)
}

// Get issues a GET request, attaching any provided cookies
func (ts *TestServer) Get(path string, cookies ...*http.Cookie) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, ts.Server.URL+path, nil)
	if err != nil {
		return nil, err
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return ts.Client.Do(req)
}

// ReadBody drains and returns a response body
func ReadBody(resp *http.Response) string {
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return string(body)
}

// SessionCookie extracts the admin session cookie from a response, or nil
func SessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == auth.SessionCookieName {
			return c
		}
	}
	return nil
}
