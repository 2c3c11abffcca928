package mocks

import (
	"github.com/stretchr/testify/mock"
)

type PasswordVerifier struct {
	mock.Mock
}

func (m *PasswordVerifier) Verify(password string, hash string) bool {
	args := m.Called(password, hash)
	return args.Bool(0)
}
