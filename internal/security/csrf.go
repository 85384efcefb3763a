package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// CSRFGenerator derives CSRF tokens from the player ID with HMAC-SHA256.
// Tokens are deterministic, so no server-side token storage is needed.
type CSRFGenerator struct {
	secret []byte
}

// NewCSRFGenerator creates a generator keyed by secret
func NewCSRFGenerator(secret string) *CSRFGenerator {
	return &CSRFGenerator{secret: []byte(secret)}
}

// GenerateToken returns the CSRF token for playerID
func (g *CSRFGenerator) GenerateToken(playerID string) (string, error) {
	if playerID == "" {
		return "", fmt.Errorf("player ID is required")
	}
	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte("csrf:" + playerID))
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// ValidateToken compares token against the expected value in constant time
func (g *CSRFGenerator) ValidateToken(playerID, token string) bool {
	if playerID == "" || token == "" {
		return false
	}
	expected, err := g.GenerateToken(playerID)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(expected), []byte(token))
}
