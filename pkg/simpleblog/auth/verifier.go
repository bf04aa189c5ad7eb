// Package auth verifies bearer tokens and resolves them to caller identities.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth"
	"github.com/google/uuid"
	"github.com/tendant/simple-blog/pkg/simpleblog"
)

// ErrInvalidToken is returned when a token fails verification or carries
// claims that cannot be resolved to an identity.
var ErrInvalidToken = errors.New("invalid token")

// Verifier validates HS256 bearer tokens minted by the companion auth
// service. The subject claim carries the user id and the "role" claim
// distinguishes admins.
type Verifier struct {
	tokenAuth *jwtauth.JWTAuth
}

// New creates a Verifier for the given signing secret.
func New(secret string) *Verifier {
	return &Verifier{
		tokenAuth: jwtauth.New("HS256", []byte(secret), nil),
	}
}

// Verify parses and validates the token string and returns the identity it
// encodes.
func (v *Verifier) Verify(ctx context.Context, tokenString string) (*simpleblog.Identity, error) {
	token, err := jwtauth.VerifyToken(v.tokenAuth, tokenString)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	subject := token.Subject()
	if subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, fmt.Errorf("%w: subject is not a user id", ErrInvalidToken)
	}

	identity := &simpleblog.Identity{UserID: userID}
	if raw, ok := token.Get("role"); ok {
		if s, ok := raw.(string); ok && s != "" {
			identity.Role = &s
		}
	}
	return identity, nil
}

// Mint issues a signed token for the given identity. It exists for local
// development and tests; production tokens come from the auth service.
func (v *Verifier) Mint(identity simpleblog.Identity, ttl time.Duration) (string, error) {
	claims := map[string]interface{}{
		"sub": identity.UserID.String(),
	}
	if identity.Role != nil {
		claims["role"] = *identity.Role
	}
	jwtauth.SetIssuedNow(claims)
	jwtauth.SetExpiryIn(claims, ttl)

	_, tokenString, err := v.tokenAuth.Encode(claims)
	if err != nil {
		return "", fmt.Errorf("failed to encode token: %w", err)
	}
	return tokenString, nil
}

var _ simpleblog.TokenVerifier = (*Verifier)(nil)
