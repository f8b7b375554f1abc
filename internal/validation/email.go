package validation

import (
	"errors"
	"net/mail"
)

// ValidateEmail accepts a bare address only. Display-name and angle-bracket
// forms are rejected because the string is stored as the login email.
func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("email address is required")
	}

	// RFC 5321: total max 254 characters
	if len(email) > 254 {
		return errors.New("email address is too long (max 254 characters)")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil {
		return errors.New("invalid email address format")
	}
	if addr.Name != "" || addr.Address != email {
		return errors.New("email must be a plain address like name@example.com")
	}

	return nil
}
