package server_test

import (
	"testing"

	"github.com/goliatone/go-usermgmt"
	"github.com/goliatone/go-usermgmt/server"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenUser() *server.User {
	return &server.User{
		ID:       uuid.New(),
		Username: "alice",
		Email:    "alice@example.com",
		Role:     usermgmt.RoleAdmin,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := server.NewTokenService([]byte(testSigningKey), 1, "go-usermgmt", usermgmt.DefaultLogger())
	user := tokenUser()

	signed, err := svc.Generate(user)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := svc.Validate(signed)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UID)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, usermgmt.RoleAdmin, claims.UserRole)
	assert.Equal(t, "alice", claims.Username)
}

func TestTokenRejectsWrongKey(t *testing.T) {
	issuing := server.NewTokenService([]byte(testSigningKey), 1, "go-usermgmt", usermgmt.DefaultLogger())
	validating := server.NewTokenService([]byte("another-signing-key-9876"), 1, "go-usermgmt", usermgmt.DefaultLogger())

	signed, err := issuing.Generate(tokenUser())
	require.NoError(t, err)

	_, err = validating.Validate(signed)
	require.Error(t, err)
}

func TestTokenRejectsWrongIssuer(t *testing.T) {
	issuing := server.NewTokenService([]byte(testSigningKey), 1, "someone-else", usermgmt.DefaultLogger())
	validating := server.NewTokenService([]byte(testSigningKey), 1, "go-usermgmt", usermgmt.DefaultLogger())

	signed, err := issuing.Generate(tokenUser())
	require.NoError(t, err)

	_, err = validating.Validate(signed)
	require.Error(t, err)
}

func TestTokenRejectsGarbage(t *testing.T) {
	svc := server.NewTokenService([]byte(testSigningKey), 1, "go-usermgmt", usermgmt.DefaultLogger())
	_, err := svc.Validate("not-a-jwt")
	require.Error(t, err)
}
