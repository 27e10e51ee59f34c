package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/clmblockchain/devpool/internal/auth"
	"github.com/clmblockchain/devpool/internal/handlers"
	"github.com/clmblockchain/devpool/internal/middleware"
	pkghttp "github.com/clmblockchain/devpool/pkg/http"
	pkglogger "github.com/clmblockchain/devpool/pkg/logger"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	indexHandler *handlers.IndexHandler,
	submitHandler *handlers.SubmitHandler,
	adminHandler *handlers.AdminHandler,
	sessions *auth.SessionManager,
	ipConfig *pkghttp.IPConfig,
	cookieConfig auth.CookieConfig,
	secLogger *pkglogger.SecurityLogger,
) {
	// Public routes
	router.Get("/", indexHandler.Index)
	router.With(middleware.RateLimitByIP(middleware.DefaultSubmitRateLimit())).
		Post("/submit", submitHandler.Submit)

	// Admin routes. Everything under /admin skips caches so the back button
	// cannot replay a page after logout.
	router.Route("/admin", func(r chi.Router) {
		r.Use(middleware.NoCache)

		r.Get("/login", adminHandler.LoginForm)
		r.With(middleware.RateLimitByIP(middleware.DefaultLoginRateLimit())).
			Post("/login", adminHandler.Login)
		r.Get("/logout", adminHandler.Logout)

		// Session-gated back office
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin(sessions, ipConfig, cookieConfig, secLogger))

			r.Get("/dashboard", adminHandler.Dashboard)
			r.Post("/delete/{id}", adminHandler.Delete)
			r.Get("/export", adminHandler.Export)
		})
	})
}
