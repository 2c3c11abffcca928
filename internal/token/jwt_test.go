package token

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/readstack/readstack-auth/internal/model"
)

func TestJWT_AccessToken_Roundtrip(t *testing.T) {
	j := NewJWT("secret", time.Hour)
	u := uuid.New()

	access, err := j.GenerateAccessToken(u, "alice", time.Hour)
	require.NoError(t, err)

	claims, err := j.ParseAccessToken(access)
	require.NoError(t, err)
	require.Equal(t, u, claims.UserID)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, model.TokenKindAccess, claims.Kind)
}

func TestJWT_RefreshToken_Roundtrip(t *testing.T) {
	j := NewJWT("secret", time.Hour)
	u := uuid.New()

	refresh, jti, err := j.GenerateRefreshToken(u, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, jti)

	claims, err := j.ParseRefreshToken(refresh)
	require.NoError(t, err)
	require.Equal(t, u, claims.UserID)
	require.Equal(t, jti, claims.JTI)
	require.Equal(t, model.TokenKindRefresh, claims.Kind)
}

func TestJWT_TokenKind_Mismatch(t *testing.T) {
	j := NewJWT("secret", time.Hour)
	u := uuid.New()

	access, err := j.GenerateAccessToken(u, "alice", time.Hour)
	require.NoError(t, err)
	_, err = j.ParseRefreshToken(access)
	require.ErrorIs(t, err, model.ErrWrongTokenKind)

	refresh, _, err := j.GenerateRefreshToken(u, "alice")
	require.NoError(t, err)
	_, err = j.ParseAccessToken(refresh)
	require.ErrorIs(t, err, model.ErrWrongTokenKind)
}

func TestJWT_WrongSecret(t *testing.T) {
	j := NewJWT("secret", time.Hour)
	other := NewJWT("other-secret", time.Hour)
	u := uuid.New()

	access, err := j.GenerateAccessToken(u, "alice", time.Hour)
	require.NoError(t, err)

	_, err = other.ParseAccessToken(access)
	require.ErrorIs(t, err, model.ErrInvalidSignature)
}

func TestJWT_Expired(t *testing.T) {
	j := NewJWT("secret", time.Hour)
	u := uuid.New()

	access, err := j.GenerateAccessToken(u, "alice", -time.Minute)
	require.NoError(t, err)

	_, err = j.ParseAccessToken(access)
	require.ErrorIs(t, err, model.ErrTokenExpired)
}

func TestJWT_Malformed(t *testing.T) {
	j := NewJWT("secret", time.Hour)

	_, err := j.ParseAccessToken("not-a-token")
	require.ErrorIs(t, err, model.ErrTokenMalformed)
}
