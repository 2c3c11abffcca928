package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/readstack/readstack-auth/internal/model"
)

type AuthorizationCodeStore struct {
	mock.Mock
}

func (m *AuthorizationCodeStore) Create(ctx context.Context, code model.AuthorizationCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *AuthorizationCodeStore) Consume(ctx context.Context, code string, clientID string, now time.Time) (model.AuthorizationCode, error) {
	args := m.Called(ctx, code, clientID, now)
	return args.Get(0).(model.AuthorizationCode), args.Error(1)
}
