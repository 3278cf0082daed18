package jwt

import (
	"testing"
	"time"

	"storefront/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

var testUser = models.User{
	ID:       uuid.MustParse("123e4567-e89b-12d3-a456-426614174000"),
	Username: "admin",
	Role:     models.RoleAdmin,
}

func TestNewToken_RoundTrip(t *testing.T) {
	token, err := NewToken(testUser, testSecret, time.Hour)
	require.NoError(t, err)

	principal, err := ParseToken(token, testSecret)
	require.NoError(t, err)

	assert.Equal(t, testUser.ID, principal.UserID)
	assert.Equal(t, "admin", principal.Username)
	assert.Equal(t, models.RoleAdmin, principal.Role)
}

func TestNewToken_Claims(t *testing.T) {
	const ttl = 15 * time.Minute

	issued := time.Now()
	token, err := NewToken(testUser, testSecret, ttl)
	require.NoError(t, err)

	parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)

	assert.Equal(t, testUser.ID.String(), claims["sub"].(string))
	assert.Equal(t, "admin", claims["username"].(string))
	assert.Equal(t, models.RoleAdmin, claims["role"].(string))
	assert.NotEmpty(t, claims["jti"])

	const deltaSeconds = 1

	assert.InDelta(t, issued.Add(ttl).Unix(), claims["exp"].(float64), deltaSeconds)
}

func TestParseToken_Expired(t *testing.T) {
	token, err := NewToken(testUser, testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := NewToken(testUser, testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token, "other-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken("invalid.token.string", testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
