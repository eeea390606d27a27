package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTTokens_Issue(t *testing.T) {
	secret := "test-secret"
	issuer, _ := NewJWTTokens(secret)

	token, err := issuer.Issue("user-123", "u@college.edu", "club", 24*time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// Parse and verify claims
	parsed, err := jwt.ParseWithClaims(token, &jwtClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	claims, ok := parsed.Claims.(*jwtClaims)
	require.True(t, ok)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "u@college.edu", claims.Email)
	assert.Equal(t, "club", claims.Role)
}

func TestJWTTokens_IssueAndVerify(t *testing.T) {
	issuer, verifier := NewJWTTokens("test-secret")

	token, err := issuer.Issue("user-123", "u@college.edu", "student", time.Hour)
	require.NoError(t, err)

	userID, role, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
	assert.Equal(t, "student", role)
}

func TestJWTTokens_Verify_wrongSecret(t *testing.T) {
	issuer, _ := NewJWTTokens("secret-a")
	_, verifier := NewJWTTokens("secret-b")

	token, err := issuer.Issue("user-123", "u@college.edu", "student", time.Hour)
	require.NoError(t, err)

	_, _, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestJWTTokens_Verify_expired(t *testing.T) {
	issuer, verifier := NewJWTTokens("test-secret")

	token, err := issuer.Issue("user-123", "u@college.edu", "student", -time.Minute)
	require.NoError(t, err)

	_, _, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestJWTTokens_Verify_garbage(t *testing.T) {
	_, verifier := NewJWTTokens("test-secret")

	_, _, err := verifier.Verify("not-a-jwt")
	assert.Error(t, err)
}
