// Package validation checks user-supplied request fields.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	digitRegex = regexp.MustCompile(`^[0-9]+$`)
)

const (
	maxNameLength     = 40
	maxPasswordBytes  = 72
	maxFragmentLength = 8
	maxAnswerLength   = 200
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidatePassword checks a gate password attempt. bcrypt ignores bytes past 72.
func ValidatePassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) > maxPasswordBytes {
		return ValidationError{Field: "password", Message: "password is too long"}
	}
	return nil
}

// ValidateName checks a player display name
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	n := utf8.RuneCountInString(name)
	if n < 2 {
		return ValidationError{Field: "name", Message: "name must be at least 2 characters"}
	}
	if n > maxNameLength {
		return ValidationError{Field: "name", Message: fmt.Sprintf("name must be at most %d characters", maxNameLength)}
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return ValidationError{Field: "name", Message: "name contains invalid characters"}
		}
	}
	return nil
}

// ValidateAnswer bounds free-text answers
func ValidateAnswer(answer string) error {
	if utf8.RuneCountInString(answer) > maxAnswerLength {
		return ValidationError{Field: "answer", Message: "answer is too long"}
	}
	return nil
}

// ValidateFragmentToken checks a token found at a revealed location
func ValidateFragmentToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ValidationError{Field: "token", Message: "token is required"}
	}
	if len(token) > maxFragmentLength || !digitRegex.MatchString(token) {
		return ValidationError{Field: "token", Message: "token must be a short number"}
	}
	return nil
}

// ValidateFinalCode checks that candidate is all digits and exactly length long
func ValidateFinalCode(candidate string, length int) error {
	if len(candidate) != length {
		return ValidationError{Field: "code", Message: fmt.Sprintf("code must have %d digits", length)}
	}
	if !digitRegex.MatchString(candidate) {
		return ValidationError{Field: "code", Message: "code must contain only digits"}
	}
	return nil
}
