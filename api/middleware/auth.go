package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mvasseur/fripe-backend/api/responses"
	"github.com/mvasseur/fripe-backend/pkg/db/models"
	pkgerrors "github.com/mvasseur/fripe-backend/pkg/errors"
	"github.com/mvasseur/fripe-backend/pkg/logger"
)

// Authenticator resolves an opaque bearer token to its account.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// Auth validates the bearer token and seeds the request context with the
// account identifier. Missing and unknown tokens are both rejected as
// unauthorized so callers cannot probe for valid tokens.
func Auth(authenticator Authenticator, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Unauthorized"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Unauthorized"))
				return
			}

			user, err := authenticator.Authenticate(r.Context(), token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithUserID(r.Context(), user.ID.String())
			if logg != nil {
				ctx = logg.WithUserID(ctx, user.ID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
