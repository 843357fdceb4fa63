package users

import (
	"strings"

	"github.com/UmidYul/21-IDUM/params"
	"golang.org/x/crypto/bcrypt"
)

var bcryptPrefixes = []string{"$2a$", "$2b$", "$2y$"}

// HashPassword derives a bcrypt credential from a plaintext password.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), params.BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword checks presented against the stored credential. Stored
// values carrying a bcrypt prefix get a constant-time hash comparison;
// anything else is treated as a legacy plaintext credential and compared
// directly, with legacy=true telling the caller to rehash on success.
// Malformed stored values simply verify false.
func VerifyPassword(presented, stored string) (ok bool, legacy bool) {
	for _, prefix := range bcryptPrefixes {
		if strings.HasPrefix(stored, prefix) {
			err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(presented))
			return err == nil, false
		}
	}
	return stored != "" && stored == presented, true
}
