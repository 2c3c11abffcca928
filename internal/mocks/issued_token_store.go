package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/readstack/readstack-auth/internal/model"
)

type IssuedTokenStore struct {
	mock.Mock
}

func (m *IssuedTokenStore) Create(ctx context.Context, token model.IssuedToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *IssuedTokenStore) GetByToken(ctx context.Context, token string) (model.IssuedToken, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(model.IssuedToken), args.Error(1)
}

func (m *IssuedTokenStore) Revoke(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *IssuedTokenStore) RevokeAllByClient(ctx context.Context, clientID string) error {
	args := m.Called(ctx, clientID)
	return args.Error(0)
}

func (m *IssuedTokenStore) Touch(ctx context.Context, token string, at time.Time) error {
	args := m.Called(ctx, token, at)
	return args.Error(0)
}
