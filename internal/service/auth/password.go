package auth

import "golang.org/x/crypto/bcrypt"

// PasswordVerifier checks a login attempt's plaintext password against the
// stored hash. The handler depends on this interface so tests can swap in a
// cheap fake instead of paying for a real bcrypt comparison.
type PasswordVerifier interface {
	// Compare returns nil when password matches hashedPassword, and a
	// non-nil error on mismatch or on an unparseable hash.
	Compare(hashedPassword, password string) error
}

// BcryptVerifier is the production PasswordVerifier, backed by bcrypt. The
// hash carries its own cost parameter, so verification needs no config.
type BcryptVerifier struct{}

// NewBcryptVerifier creates a new BcryptVerifier.
func NewBcryptVerifier() *BcryptVerifier {
	return &BcryptVerifier{}
}

// Compare implements PasswordVerifier.
func (v *BcryptVerifier) Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
