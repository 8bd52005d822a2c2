package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// MintToken generates the random part of an access token. The plaintext goes to
// the client; only the SHA-256 hash is stored.
func MintToken() (plain string, hash string, err error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	plain = hex.EncodeToString(buf)
	return plain, HashToken(plain), nil
}

// HashToken returns the hex SHA-256 of a token's random part.
func HashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

// FormatToken builds the client-facing "<id>|<random>" form.
func FormatToken(id uint, plain string) string {
	return fmt.Sprintf("%d|%s", id, plain)
}

// SplitToken parses the "<id>|<random>" form presented by clients.
func SplitToken(bearer string) (id uint, plain string, err error) {
	parts := strings.SplitN(bearer, "|", 2)
	if len(parts) != 2 {
		return 0, "", fmt.Errorf("malformed token")
	}
	parsed, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("malformed token")
	}
	return uint(parsed), parts[1], nil
}

// TokenMatches compares a presented token against the stored hash in constant time.
func TokenMatches(storedHash, plain string) bool {
	return subtle.ConstantTimeCompare([]byte(storedHash), []byte(HashToken(plain))) == 1
}
