package service

import (
	"context"
	"crypto/sha256"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/readstack/readstack-auth/internal/mocks"
	"github.com/readstack/readstack-auth/internal/model"
	"github.com/readstack/readstack-auth/internal/testutil"
)

func TestTokenService_Issue(t *testing.T) {
	ctx := context.Background()
	user := model.User{ID: uuid.New(), Username: "alice"}

	manager := &mocks.TokenManager{}
	store := &mocks.RefreshTokenStore{}
	users := &mocks.UserStore{}

	manager.On("GenerateAccessToken", user.ID, "alice", time.Hour).Return("access", nil).Once()
	manager.On("GenerateRefreshToken", user.ID, "alice").Return("refresh", "jti-1", nil).Once()
	store.On("Create", ctx, mock.Anything).Return(nil).Once()

	svc := NewTokenService(manager, store, users, time.Hour, 7*24*time.Hour, testutil.MakeNoopLogger())

	access, refresh, err := svc.Issue(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "access", access)
	assert.Equal(t, "refresh", refresh)
	store.AssertExpectations(t)
}

func TestTokenService_Issue_ManagerError(t *testing.T) {
	ctx := context.Background()
	user := model.User{ID: uuid.New(), Username: "alice"}

	manager := &mocks.TokenManager{}
	store := &mocks.RefreshTokenStore{}
	users := &mocks.UserStore{}

	manager.On("GenerateAccessToken", user.ID, "alice", time.Hour).Return("", assert.AnError).Once()

	svc := NewTokenService(manager, store, users, time.Hour, 7*24*time.Hour, testutil.MakeNoopLogger())

	_, _, err := svc.Issue(ctx, user)
	require.Error(t, err)
}

func TestTokenService_Refresh_Success(t *testing.T) {
	ctx := context.Background()
	user := model.User{ID: uuid.New(), Username: "alice"}
	jti := "jti-old"
	presented := "refresh-old"
	h := sha256.Sum256([]byte(presented))

	manager := &mocks.TokenManager{}
	store := &mocks.RefreshTokenStore{}
	users := &mocks.UserStore{}

	manager.On("ParseRefreshToken", presented).Return(model.TokenClaims{
		UserID: user.ID, Username: "alice", JTI: jti, Kind: model.TokenKindRefresh,
	}, nil).Once()
	store.On("GetByJTI", ctx, jti).Return(model.RefreshToken{
		JTI:       jti,
		UserID:    user.ID,
		TokenHash: h[:],
		IssuedAt:  time.Now().Add(-time.Hour),
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil).Once()
	users.On("GetByID", ctx, user.ID).Return(user, nil).Once()
	store.On("RevokeByJTI", ctx, jti).Return(nil).Once()
	manager.On("GenerateAccessToken", user.ID, "alice", time.Hour).Return("access-new", nil).Once()
	manager.On("GenerateRefreshToken", user.ID, "alice").Return("refresh-new", "jti-new", nil).Once()
	store.On("Create", ctx, mock.Anything).Return(nil).Once()

	svc := NewTokenService(manager, store, users, time.Hour, 7*24*time.Hour, testutil.MakeNoopLogger())

	access, refresh, gotUser, err := svc.Refresh(ctx, presented)
	require.NoError(t, err)
	assert.Equal(t, "access-new", access)
	assert.Equal(t, "refresh-new", refresh)
	assert.Equal(t, user.ID, gotUser.ID)
	store.AssertExpectations(t)
}

func TestTokenService_Refresh_Revoked(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	jti := "jti"
	presented := "refresh"
	h := sha256.Sum256([]byte(presented))
	now := time.Now()

	manager := &mocks.TokenManager{}
	store := &mocks.RefreshTokenStore{}
	users := &mocks.UserStore{}

	manager.On("ParseRefreshToken", presented).Return(model.TokenClaims{
		UserID: userID, JTI: jti, Kind: model.TokenKindRefresh,
	}, nil).Once()
	store.On("GetByJTI", ctx, jti).Return(model.RefreshToken{
		JTI:       jti,
		UserID:    userID,
		TokenHash: h[:],
		IssuedAt:  now.Add(-time.Hour),
		ExpiresAt: now.Add(time.Hour),
		RevokedAt: &now,
	}, nil).Once()

	svc := NewTokenService(manager, store, users, time.Hour, 7*24*time.Hour, testutil.MakeNoopLogger())

	_, _, _, err := svc.Refresh(ctx, presented)
	require.ErrorIs(t, err, model.ErrRefreshRevoked)
}

func TestTokenService_Refresh_Expired(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	jti := "jti"
	presented := "refresh"
	h := sha256.Sum256([]byte(presented))

	manager := &mocks.TokenManager{}
	store := &mocks.RefreshTokenStore{}
	users := &mocks.UserStore{}

	manager.On("ParseRefreshToken", presented).Return(model.TokenClaims{
		UserID: userID, JTI: jti, Kind: model.TokenKindRefresh,
	}, nil).Once()
	store.On("GetByJTI", ctx, jti).Return(model.RefreshToken{
		JTI:       jti,
		UserID:    userID,
		TokenHash: h[:],
		IssuedAt:  time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Minute),
	}, nil).Once()

	svc := NewTokenService(manager, store, users, time.Hour, 7*24*time.Hour, testutil.MakeNoopLogger())

	_, _, _, err := svc.Refresh(ctx, presented)
	require.ErrorIs(t, err, model.ErrTokenExpired)
}

func TestTokenService_Refresh_Mismatch(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	jti := "jti"
	presented := "refresh"
	h := sha256.Sum256([]byte("a different token"))

	manager := &mocks.TokenManager{}
	store := &mocks.RefreshTokenStore{}
	users := &mocks.UserStore{}

	manager.On("ParseRefreshToken", presented).Return(model.TokenClaims{
		UserID: userID, JTI: jti, Kind: model.TokenKindRefresh,
	}, nil).Once()
	store.On("GetByJTI", ctx, jti).Return(model.RefreshToken{
		JTI:       jti,
		UserID:    userID,
		TokenHash: h[:],
		IssuedAt:  time.Now().Add(-time.Hour),
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil).Once()

	svc := NewTokenService(manager, store, users, time.Hour, 7*24*time.Hour, testutil.MakeNoopLogger())

	_, _, _, err := svc.Refresh(ctx, presented)
	require.ErrorIs(t, err, model.ErrRefreshMismatch)
}

func TestTokenService_Refresh_UserGone(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	jti := "jti"
	presented := "refresh"
	h := sha256.Sum256([]byte(presented))

	manager := &mocks.TokenManager{}
	store := &mocks.RefreshTokenStore{}
	users := &mocks.UserStore{}

	manager.On("ParseRefreshToken", presented).Return(model.TokenClaims{
		UserID: userID, JTI: jti, Kind: model.TokenKindRefresh,
	}, nil).Once()
	store.On("GetByJTI", ctx, jti).Return(model.RefreshToken{
		JTI:       jti,
		UserID:    userID,
		TokenHash: h[:],
		IssuedAt:  time.Now().Add(-time.Hour),
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil).Once()
	users.On("GetByID", ctx, userID).Return(model.User{}, model.ErrNotFound).Once()

	svc := NewTokenService(manager, store, users, time.Hour, 7*24*time.Hour, testutil.MakeNoopLogger())

	_, _, _, err := svc.Refresh(ctx, presented)
	require.ErrorIs(t, err, model.ErrUnauthenticated)
}

func TestTokenService_GetUserID(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	manager := &mocks.TokenManager{}
	store := &mocks.RefreshTokenStore{}
	users := &mocks.UserStore{}

	manager.On("ParseAccessToken", "token").Return(model.TokenClaims{
		UserID: userID, Kind: model.TokenKindAccess,
	}, nil).Once()

	svc := NewTokenService(manager, store, users, time.Hour, 7*24*time.Hour, testutil.MakeNoopLogger())

	got, err := svc.GetUserID(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestTokenService_GetUserID_Invalid(t *testing.T) {
	ctx := context.Background()

	manager := &mocks.TokenManager{}
	store := &mocks.RefreshTokenStore{}
	users := &mocks.UserStore{}

	manager.On("ParseAccessToken", "bad").Return(model.TokenClaims{}, model.ErrInvalidSignature).Once()

	svc := NewTokenService(manager, store, users, time.Hour, 7*24*time.Hour, testutil.MakeNoopLogger())

	_, err := svc.GetUserID(ctx, "bad")
	require.ErrorIs(t, err, model.ErrInvalidSignature)
}
