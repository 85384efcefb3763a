package security

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// NormalizePassword folds case and trims whitespace so the gate accepts
// "Canela " and "canela" alike
func NormalizePassword(password string) string {
	return strings.ToLower(strings.TrimSpace(password))
}

// HashPassword returns a bcrypt hash of the normalized password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(NormalizePassword(password)), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares the normalized password against a bcrypt hash
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(NormalizePassword(password))) == nil
}
