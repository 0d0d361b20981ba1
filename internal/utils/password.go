package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a bcrypt hash at the configured cost. The plain
// secret never leaves this call unhashed.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether the plain secret matches the stored hash.
// bcrypt's comparison is constant-time, so callers need no extra care.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
