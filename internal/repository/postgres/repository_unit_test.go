package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRepositories(t *testing.T) {
	db := &Connection{}

	assert.Equal(t, db, NewUserRepository(db).db)
	assert.Equal(t, db, NewRefreshTokenRepository(db).db)
	assert.Equal(t, db, NewAuthorizationCodeRepository(db).db)
	assert.Equal(t, db, NewIssuedTokenRepository(db).db)
}
