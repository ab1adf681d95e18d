package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	util := NewJWTUtil("test-secret", time.Hour)

	token, err := util.GenerateToken("ops@example.com", RoleAdmin)
	require.NoError(t, err)

	claims, err := util.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, "moto-rental", claims.Issuer)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTUtil("one", time.Hour).GenerateToken("ops", RoleAdmin)
	require.NoError(t, err)

	_, err = NewJWTUtil("two", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	util := NewJWTUtil("test-secret", time.Minute)
	issued := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	util.now = func() time.Time { return issued }

	token, err := util.GenerateToken("ops", RoleAdmin)
	require.NoError(t, err)

	util.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = util.ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidateRejectsOtherAlgorithms(t *testing.T) {
	util := NewJWTUtil("test-secret", time.Hour)
	claims := &Claims{Role: RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = util.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := NewJWTUtil("test-secret", time.Hour).ValidateToken("not.a.token")
	assert.Error(t, err)
}
