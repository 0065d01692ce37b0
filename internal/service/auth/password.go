package auth

import "golang.org/x/crypto/bcrypt"

// PasswordVerifier abstracts password comparison to allow testing
// without bcrypt's computational cost.
type PasswordVerifier interface {
	// Compare checks whether password matches hashedPassword.
	// Returns nil on match, an error otherwise.
	Compare(hashedPassword, password string) error
}

// BcryptVerifier implements PasswordVerifier using bcrypt.
type BcryptVerifier struct{}

// NewBcryptVerifier creates a new BcryptVerifier.
func NewBcryptVerifier() *BcryptVerifier {
	return &BcryptVerifier{}
}

// Compare implements PasswordVerifier.Compare using bcrypt.
func (v *BcryptVerifier) Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
