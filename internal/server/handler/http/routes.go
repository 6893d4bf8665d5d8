package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/atinyakov/tsadmin/internal/middleware"
)

// NewRouter constructs the stub server's HTTP handler.
//
// Routes:
//
//	POST /api/{version}/auth/signin   → authHandler.SignIn
//	POST /api/{version}/auth/signout  → authHandler.SignOut
//	GET  /api/{version}/sites         → sitesHandler.List
//
// Middleware chain (applied in order):
//  1. AllowContentType("application/xml", "text/xml"), skipped for bodiless requests
//  2. WithRequestLogging(logger)
//  3. TokenAuth(sessions), bypassed by sign-in
func NewRouter(
	authHandler *AuthHandler,
	sitesHandler *SitesHandler,
	sessions middleware.SessionValidator,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.AllowContentType("application/xml", "text/xml"))
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(middleware.TokenAuth(sessions))

	r.Route("/api/{version}", func(r chi.Router) {
		r.Post("/auth/signin", authHandler.SignIn)
		r.Post("/auth/signout", authHandler.SignOut)
		r.Get("/sites", sitesHandler.List)
		r.Get("/sites/", sitesHandler.List)
	})

	return r
}
