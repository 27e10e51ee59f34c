package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/clmblockchain/devpool/internal/auth"
	"github.com/clmblockchain/devpool/internal/background"
	"github.com/clmblockchain/devpool/internal/config"
	"github.com/clmblockchain/devpool/internal/database"
	"github.com/clmblockchain/devpool/internal/handlers"
	middlewareCustom "github.com/clmblockchain/devpool/internal/middleware"
	"github.com/clmblockchain/devpool/internal/repositories"
	"github.com/clmblockchain/devpool/internal/routes"
	"github.com/clmblockchain/devpool/internal/services"
	pkgauth "github.com/clmblockchain/devpool/pkg/auth"
	pkghttp "github.com/clmblockchain/devpool/pkg/http"
	pkglogger "github.com/clmblockchain/devpool/pkg/logger"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Initialize repositories
	developerRepo := repositories.NewDeveloperRepository(db)
	adminRepo := repositories.NewAdminRepository(db)

	// Security plumbing
	secLogger := pkglogger.NewSecurityLogger(logger)
	throttle := services.NewLoginThrottle(services.ThrottleConfig{
		MaxFailures:   cfg.Auth.ThrottleMaxFails,
		Window:        cfg.Auth.ThrottleWindow,
		BlockDuration: cfg.Auth.ThrottleBlock,
	}, logger)
	janitor := background.NewThrottleJanitor(throttle, logger, cfg.Auth.JanitorInterval)

	// Outbound mail
	notifier := services.NewNotifier(&cfg.Mail, logger)

	// Initialize services
	registrationService := services.NewRegistrationService(developerRepo, notifier, logger)
	adminService := services.NewAdminService(adminRepo, developerRepo, throttle, notifier, logger, secLogger)

	// Sessions and client IP extraction
	sessions := auth.NewSessionManager(cfg.Auth.SessionSecret, cfg.Auth.SessionIdleTimeout)
	ipConfig := &pkghttp.IPConfig{TrustedProxies: cfg.Server.TrustedProxies}
	cookieConfig := auth.CookieConfig{Secure: cfg.Server.Env == "production"}

	// Initialize handlers
	indexHandler := handlers.NewIndexHandler(registrationService, logger)
	submitHandler := handlers.NewSubmitHandler(registrationService, ipConfig)
	adminHandler := handlers.NewAdminHandler(adminService, sessions, ipConfig, cookieConfig, secLogger)

	// Bootstrap the first admin account if the table is empty
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := ensureAdminAccount(ctx, adminRepo, logger); err != nil {
		logger.Error("failed to ensure admin account", slog.Any("error", err))
	}
	cancel()

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// Register routes
	routes.RegisterRoutes(router, indexHandler, submitHandler, adminHandler, sessions, ipConfig, cookieConfig, secLogger)

	// Health check with database
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.HealthCheck(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","database":"down"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","database":"up"}`))
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start throttle janitor
	janitorCtx, janitorCancel := context.WithCancel(context.Background())
	defer janitorCancel()

	go janitor.Start(janitorCtx)

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	janitorCancel()
	janitor.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

// ensureAdminAccount creates the first back-office account when none exists.
// ADMIN_USERNAME and ADMIN_PASSWORD are honored if set; otherwise a random
// password is generated and logged exactly once so the operator can rotate
// it with the adminpw tool.
func ensureAdminAccount(ctx context.Context, adminRepo *repositories.AdminRepository, logger *slog.Logger) error {
	count, err := adminRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count admin accounts: %w", err)
	}
	if count > 0 {
		return nil
	}

	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}

	password := os.Getenv("ADMIN_PASSWORD")
	generated := false
	if password == "" {
		password, err = pkgauth.GeneratePassword()
		if err != nil {
			return fmt.Errorf("failed to generate admin password: %w", err)
		}
		generated = true
	}

	if err := pkgauth.ValidatePassword(password); err != nil {
		return fmt.Errorf("ADMIN_PASSWORD rejected: %w", err)
	}

	hashed, err := pkgauth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	if err := adminRepo.Create(ctx, username, hashed); err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	if generated {
		// Logged once at bootstrap. Rotate it with cmd/adminpw.
		logger.Warn("admin account created with generated password",
			slog.String("username", username),
			slog.String("password", password))
	} else {
		logger.Info("admin account created", slog.String("username", username))
	}
	return nil
}
