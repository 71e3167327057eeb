package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 100000
	pbkdf2SaltLen    = 16
	pbkdf2KeyLen     = 32

	pbkdf2Prefix = "$pbkdf2$"
	legacyPrefix = "$retreat$"

	// Fixed application salt used by the legacy single-round scheme.
	// Verification-only; new hashes are never produced in this format.
	legacySalt = "retreat-portal-2024"
)

// HashPassword derives a PBKDF2-HMAC-SHA256 credential string in the form
// $pbkdf2$<iterations>$<salt-hex>$<hash-hex>.
func HashPassword(password string) (string, error) {
	salt := make([]byte, pbkdf2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, pbkdf2KeyLen, sha256.New)
	return fmt.Sprintf("%s%d$%s$%s",
		pbkdf2Prefix,
		pbkdf2Iterations,
		hex.EncodeToString(salt),
		hex.EncodeToString(key),
	), nil
}

// VerifyPassword checks a password against a stored credential string.
// It dispatches on the credential prefix and fails closed: unknown or
// malformed credentials return false, never an error.
func VerifyPassword(password, credential string) bool {
	switch {
	case strings.HasPrefix(credential, pbkdf2Prefix):
		return verifyPBKDF2(password, credential)
	case strings.HasPrefix(credential, legacyPrefix):
		return verifyLegacy(password, credential)
	default:
		return false
	}
}

func verifyPBKDF2(password, credential string) bool {
	// "$pbkdf2$<iterations>$<salt-hex>$<hash-hex>" splits into
	// ["", "pbkdf2", iterations, salt, hash].
	parts := strings.Split(credential, "$")
	if len(parts) != 5 {
		return false
	}

	iterations, err := strconv.Atoi(parts[2])
	if err != nil || iterations <= 0 {
		return false
	}

	salt, err := hex.DecodeString(parts[3])
	if err != nil {
		return false
	}

	want, err := hex.DecodeString(parts[4])
	if err != nil {
		return false
	}

	got := pbkdf2.Key([]byte(password), salt, iterations, len(want), sha256.New)
	return constantTimeEqual(got, want)
}

func verifyLegacy(password, credential string) bool {
	want, err := hex.DecodeString(strings.TrimPrefix(credential, legacyPrefix))
	if err != nil {
		return false
	}

	sum := sha256.Sum256([]byte(password + legacySalt))
	return constantTimeEqual(sum[:], want)
}

// constantTimeEqual compares two digests without leaking the position of a
// mismatch. A length mismatch returns false immediately; lengths are not
// secret here, only digest contents.
func constantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}
