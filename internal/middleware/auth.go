// Package middleware holds the development backend's HTTP middleware.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/tableside/concierge/internal/model/account"
	"github.com/tableside/concierge/pkg/utils"
)

// Authenticator resolves bearer tokens.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (account.Account, error)
}

type ctxKey struct{}

// RequireBearer rejects requests without a valid "Authorization: Bearer"
// header and stores the account in the request context.
func RequireBearer(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				utils.RespondError(w, http.StatusUnauthorized, "Missing bearer token")
				return
			}
			acct, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				utils.RespondError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, acct)))
		})
	}
}

// AccountFrom returns the account stored by RequireBearer.
func AccountFrom(ctx context.Context) (account.Account, bool) {
	acct, ok := ctx.Value(ctxKey{}).(account.Account)
	return acct, ok
}

func bearerToken(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
