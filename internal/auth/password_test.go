package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"
)

func TestHashAndVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	cred, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !strings.HasPrefix(cred, "$pbkdf2$100000$") {
		t.Fatalf("unexpected credential format: %q", cred)
	}
	if !VerifyPassword("correct horse battery staple", cred) {
		t.Fatalf("expected password to verify against its own hash")
	}
	if VerifyPassword("correct horse battery stapl", cred) {
		t.Fatalf("expected wrong password to fail")
	}
}

func TestHashIsSalted(t *testing.T) {
	t.Parallel()

	a, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	b, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if a == b {
		t.Fatalf("two hashes of the same password must differ")
	}
	if !VerifyPassword("hunter2", a) || !VerifyPassword("hunter2", b) {
		t.Fatalf("both salted hashes must verify")
	}
}

func TestVerifyLegacyCredential(t *testing.T) {
	t.Parallel()

	sum := sha256.Sum256([]byte("oldpassword" + legacySalt))
	cred := legacyPrefix + hex.EncodeToString(sum[:])

	if !VerifyPassword("oldpassword", cred) {
		t.Fatalf("expected legacy credential to verify")
	}
	if VerifyPassword("newpassword", cred) {
		t.Fatalf("expected wrong password to fail against legacy credential")
	}
}

func TestVerifyFailsClosed(t *testing.T) {
	t.Parallel()

	cases := []string{
		"",
		"plaintext",
		"$bcrypt$whatever",
		"$pbkdf2$",
		"$pbkdf2$abc$00$00",
		"$pbkdf2$-1$00$00",
		"$pbkdf2$100000$nothex$00",
		"$pbkdf2$100000$00$nothex",
		"$retreat$nothex",
	}
	for _, cred := range cases {
		if VerifyPassword("anything", cred) {
			t.Fatalf("credential %q must fail closed", cred)
		}
	}
}
