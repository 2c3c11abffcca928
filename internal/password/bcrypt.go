package password

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/readstack/readstack-auth/internal/model"
)

// BcryptVerifier implements PasswordVerifier over bcrypt hashes.
type BcryptVerifier struct{}

func NewBcryptVerifier() model.PasswordVerifier {
	return &BcryptVerifier{}
}

// Verify reports whether password matches the stored bcrypt hash.
func (v *BcryptVerifier) Verify(password string, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
