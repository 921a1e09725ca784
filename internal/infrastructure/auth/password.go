package auth

import "golang.org/x/crypto/bcrypt"

// bcrypt cost
const bcryptCost = 12

// PasswordHasher hashes and verifies credentials. The domain stores only
// the hash; plaintext never leaves this package.
type PasswordHasher struct{}

// NewPasswordHasher creates a new PasswordHasher
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{}
}

// Hash produces a bcrypt hash of the password
func (h *PasswordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether the password matches the stored hash
func (h *PasswordHasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
