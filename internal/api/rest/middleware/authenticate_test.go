package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/readstack/readstack-auth/internal/api/rest/request"
	"github.com/readstack/readstack-auth/internal/model"
	"github.com/readstack/readstack-auth/internal/testutil"
)

type tokenServiceMock struct {
	mock.Mock
}

func (m *tokenServiceMock) GetUserID(ctx context.Context, token string) (uuid.UUID, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

type oauthServiceMock struct {
	mock.Mock
}

func (m *oauthServiceMock) GetUserID(ctx context.Context, token string) (uuid.UUID, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func runAuthenticated(t *testing.T, tokens *tokenServiceMock, oauth *oauthServiceMock, header string) (*httptest.ResponseRecorder, uuid.UUID) {
	t.Helper()

	ctxMgr := request.NewManager()
	m := NewAuthenticate(tokens, oauth, ctxMgr, testutil.MakeNoopLogger())

	var resolved uuid.UUID
	handler := m.Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resolved, _ = ctxMgr.GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec, resolved
}

func TestAuthenticate_SignedTokenPath(t *testing.T) {
	userID := uuid.New()
	tokens := &tokenServiceMock{}
	oauth := &oauthServiceMock{}
	tokens.On("GetUserID", mock.Anything, "header.payload.signature").Return(userID, nil).Once()

	rec, resolved := runAuthenticated(t, tokens, oauth, "Bearer header.payload.signature")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, resolved)
	oauth.AssertNotCalled(t, "GetUserID", mock.Anything, mock.Anything)
}

func TestAuthenticate_OpaqueTokenPath(t *testing.T) {
	userID := uuid.New()
	tokens := &tokenServiceMock{}
	oauth := &oauthServiceMock{}
	oauth.On("GetUserID", mock.Anything, "opaque-token-value").Return(userID, nil).Once()

	rec, resolved := runAuthenticated(t, tokens, oauth, "Bearer opaque-token-value")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, resolved)
	tokens.AssertNotCalled(t, "GetUserID", mock.Anything, mock.Anything)
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	rec, _ := runAuthenticated(t, &tokenServiceMock{}, &oauthServiceMock{}, "")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"unauthenticated","message":"missing or invalid credentials"}`, rec.Body.String())
}

func TestAuthenticate_NotBearer(t *testing.T) {
	rec, _ := runAuthenticated(t, &tokenServiceMock{}, &oauthServiceMock{}, "Basic dXNlcjpwYXNz")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_InvalidToken_SameBodyForAllCauses(t *testing.T) {
	tokens := &tokenServiceMock{}
	oauth := &oauthServiceMock{}
	tokens.On("GetUserID", mock.Anything, "a.b.c").Return(uuid.Nil, model.ErrInvalidSignature).Once()
	oauth.On("GetUserID", mock.Anything, "revoked-opaque").Return(uuid.Nil, model.ErrUnauthenticated).Once()

	recSigned, _ := runAuthenticated(t, tokens, oauth, "Bearer a.b.c")
	recOpaque, _ := runAuthenticated(t, tokens, oauth, "Bearer revoked-opaque")

	require.Equal(t, http.StatusUnauthorized, recSigned.Code)
	require.Equal(t, http.StatusUnauthorized, recOpaque.Code)
	assert.Equal(t, recSigned.Body.String(), recOpaque.Body.String())
}
