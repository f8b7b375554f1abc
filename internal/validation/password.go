package validation

import (
	"errors"
	"strings"
)

const (
	MinPasswordLength = 6
	// bcrypt silently truncates passwords longer than 72 bytes
	MaxPasswordLength = 72
)

var (
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrPasswordTooLong  = errors.New("password must not exceed 72 characters")
	ErrPasswordCommon   = errors.New("password is too common, please choose a stronger one")
)

var commonPasswords = []string{
	"123456", "1234567", "12345678", "123456789", "password", "qwerty",
	"abc123", "111111", "letmein", "senha123",
}

// ValidatePassword checks length bounds and rejects well-known passwords.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	if len(password) > MaxPasswordLength {
		return ErrPasswordTooLong
	}

	lower := strings.ToLower(password)
	for _, common := range commonPasswords {
		if lower == common {
			return ErrPasswordCommon
		}
	}

	return nil
}
