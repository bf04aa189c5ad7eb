package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/tendant/simple-blog/pkg/simpleblog"
)

type contextKey string

const identityKey contextKey = "identity"

// IdentityFrom returns the caller identity stored by the auth middleware.
func IdentityFrom(ctx context.Context) (simpleblog.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(simpleblog.Identity)
	return identity, ok
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return header[7:]
	}
	return ""
}

// RequireAuth verifies the bearer token and stores the resolved identity in
// the request context. Requests without a valid token are rejected.
func RequireAuth(verifier simpleblog.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			identity, err := verifier.Verify(r.Context(), token)
			if err != nil {
				http.Error(w, "invalid bearer token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, *identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
