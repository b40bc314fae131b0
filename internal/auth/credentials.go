// Package auth validates the login form. Validation is purely syntactic:
// no credential is checked against any authority.
package auth

import (
	"errors"
	"unicode/utf8"
)

// ErrorKind classifies a login form validation failure.
type ErrorKind string

const (
	KindMissingField ErrorKind = "missing_field"
	KindWeakPassword ErrorKind = "weak_password"
)

// User-facing messages shown above the login form.
const (
	MessageMissingField = "Username and password are required."
	MessageWeakPassword = "Password must be at least 8 characters, contain 1 uppercase letter and 1 number."
)

// MinPasswordLength is inclusive.
const MinPasswordLength = 8

var (
	ErrMissingField = &ValidationError{Kind: KindMissingField, Message: MessageMissingField}
	ErrWeakPassword = &ValidationError{Kind: KindWeakPassword, Message: MessageWeakPassword}
)

// ValidationError is returned by Validate. Message is safe to show to the user.
type ValidationError struct {
	Kind    ErrorKind
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is matches any ValidationError of the same kind.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Kind == e.Kind
}

// Credentials is the login form state.
type Credentials struct {
	Username string
	Password string
	Remember bool
}

// Validate checks required fields first and the password shape second.
func Validate(creds Credentials) error {
	if creds.Username == "" || creds.Password == "" {
		return ErrMissingField
	}
	if !StrongPassword(creds.Password) {
		return ErrWeakPassword
	}
	return nil
}

// StrongPassword reports whether password has at least MinPasswordLength
// characters, one ASCII uppercase letter and one ASCII digit.
func StrongPassword(password string) bool {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return false
	}
	var upper, digit bool
	for i := 0; i < len(password); i++ {
		switch b := password[i]; {
		case b >= 'A' && b <= 'Z':
			upper = true
		case b >= '0' && b <= '9':
			digit = true
		}
	}
	return upper && digit
}

// Message extracts the user-facing message from a validation error, or a
// generic message for anything else.
func Message(err error) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	return "Unable to sign in."
}
