package auth

import (
	"errors"
	"fmt"

	"github.com/01moynul/herbal-storefront/internal/apperr"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength applies to registration and admin-created users.
const MinPasswordLength = 8

// MaxPasswordLength is the most bcrypt will hash, in bytes.
const MaxPasswordLength = 72

// HashPassword returns the bcrypt hash of a plaintext password.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", apperr.FieldError("password", fmt.Sprintf("must be at most %d bytes", MaxPasswordLength))
		}
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plaintext matches the stored hash.
// A mismatch is not an error.
func CheckPassword(hash, plaintext string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
