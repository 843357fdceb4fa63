package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/UmidYul/21-IDUM/params"
)

// NewSessionToken generates an unguessable opaque bearer token:
// 32 random bytes hex-encoded into 64 characters.
func NewSessionToken() (string, error) {
	b := make([]byte, params.SessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("could not generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
