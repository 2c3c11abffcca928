package model

// PasswordVerifier checks a presented password against a stored hash.
// Hashing itself happens in the registration flow outside this subsystem.
type PasswordVerifier interface {
	Verify(password string, hash string) bool
}
