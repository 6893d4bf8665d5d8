// Package http provides the HTTP handlers of the stub REST server.
package http

import (
	"context"
	"encoding/xml"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/tsadmin/internal/middleware"
	"github.com/atinyakov/tsadmin/internal/models"
	"github.com/atinyakov/tsadmin/internal/service"
)

// AuthService defines the session operations required by AuthHandler.
type AuthService interface {
	// SignIn checks the credentials and opens a session.
	SignIn(ctx context.Context, creds models.CredentialsRequest) (models.Session, error)
	// SignOut ends the session identified by token.
	SignOut(ctx context.Context, token string) error
}

// AuthHandler serves the sign-in and sign-out endpoints.
type AuthHandler struct {
	AuthService AuthService
	Log         *zap.Logger
}

// SignIn expects a tsRequest document with a credentials element and
// answers with the session token, site and user identifiers.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req models.TSRequest
	if err := xml.NewDecoder(r.Body).Decode(&req); err != nil || req.Credentials == nil {
		middleware.WriteError(w, http.StatusBadRequest, "400000",
			"Bad Request", "The request body is not a valid sign-in request.")
		return
	}

	sess, err := h.AuthService.SignIn(r.Context(), *req.Credentials)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrSiteNotFound):
		h.logger().Info("sign-in rejected",
			zap.String("site", req.Credentials.Site.ContentURL),
			zap.Error(err),
		)
		middleware.WriteError(w, http.StatusUnauthorized, "401001",
			"Signin Error", "Error signing in to Tableau Server")
		return
	case err != nil:
		h.logger().Error("sign-in failed", zap.Error(err))
		middleware.WriteError(w, http.StatusInternalServerError, "500000",
			"Internal Server Error", "The server encountered an error.")
		return
	}

	middleware.WriteXML(w, http.StatusOK, &models.TSResponse{
		Credentials: &models.CredentialsResponse{
			Token: sess.AuthToken,
			Site:  &models.SiteRef{ID: sess.SiteID, ContentURL: sess.SiteNamespace},
			User:  &models.UserRef{ID: sess.UserID},
		},
	})
}

// SignOut ends the session resolved by the TokenAuth middleware.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "401002",
			"Unauthorized Access", "Invalid authentication credentials were provided.")
		return
	}
	if err := h.AuthService.SignOut(r.Context(), sess.AuthToken); err != nil {
		middleware.WriteError(w, http.StatusUnauthorized, "401002",
			"Unauthorized Access", "Invalid authentication credentials were provided.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) logger() *zap.Logger {
	if h.Log == nil {
		return zap.NewNop()
	}
	return h.Log
}
