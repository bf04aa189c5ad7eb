package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-blog/pkg/simpleblog"
)

func TestMintVerifyRoundTrip(t *testing.T) {
	verifier := New("test-secret")
	role := "admin"
	identity := simpleblog.Identity{UserID: uuid.New(), Role: &role}

	token, err := verifier.Mint(identity, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := verifier.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, identity.UserID, got.UserID)
	require.NotNil(t, got.Role)
	assert.Equal(t, "admin", *got.Role)
	assert.True(t, got.IsAdmin())
}

func TestVerifyWithoutRole(t *testing.T) {
	verifier := New("test-secret")
	identity := simpleblog.Identity{UserID: uuid.New()}

	token, err := verifier.Mint(identity, time.Hour)
	require.NoError(t, err)

	got, err := verifier.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.False(t, got.IsAdmin())
}

func TestVerifyRejectsGarbage(t *testing.T) {
	verifier := New("test-secret")
	_, err := verifier.Verify(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	minter := New("secret-one")
	verifier := New("secret-two")

	token, err := minter.Mint(simpleblog.Identity{UserID: uuid.New()}, time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	verifier := New("test-secret")

	token, err := verifier.Mint(simpleblog.Identity{UserID: uuid.New()}, -time.Minute)
	require.NoError(t, err)

	_, err = verifier.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
