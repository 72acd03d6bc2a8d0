package user

import (
	"errors"

	apperrors "github.com/frahmantamala/leave-management/internal"
	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest input bcrypt will hash.
const MaxPasswordBytes = 72

var ErrPasswordTooLong = apperrors.ErrPasswordTooLong

// HashPassword is the only path by which a credential reaches storage.
// bcrypt salts every hash independently.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether candidate matches hashed. Mismatches and
// malformed hashes both yield false.
func VerifyPassword(hashed, candidate string) bool {
	if hashed == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(candidate)) == nil
}
