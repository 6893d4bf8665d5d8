// Package middleware provides HTTP middlewares for session authentication
// and request logging.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/atinyakov/tsadmin/internal/models"
)

// AuthHeader carries the session token.
const AuthHeader = "X-Tableau-Auth"

type ctxKey string

const sessionKey ctxKey = "session"

// SessionValidator resolves a token to a live session.
type SessionValidator interface {
	Touch(ctx context.Context, token string) (models.Session, bool)
}

// TokenAuth rejects requests without a live session token.
//
// Sign-in requests pass through untouched. Everything else must carry a
// token in X-Tableau-Auth that v accepts; the resolved session is stored in
// the request context.
func TokenAuth(v SessionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/auth/signin") {
				next.ServeHTTP(w, r)
				return
			}
			token := r.Header.Get(AuthHeader)
			if token == "" {
				WriteError(w, http.StatusUnauthorized, "401002",
					"Unauthorized Access", "Invalid authentication credentials were provided.")
				return
			}
			sess, ok := v.Touch(r.Context(), token)
			if !ok {
				WriteError(w, http.StatusUnauthorized, "401002",
					"Unauthorized Access", "Invalid authentication credentials were provided.")
				return
			}
			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSessionFromContext returns the session stored by TokenAuth.
func GetSessionFromContext(ctx context.Context) (models.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(models.Session)
	return sess, ok
}
