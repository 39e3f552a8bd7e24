package auth

import (
	"encoding/base64"
	"strings"
	"testing"
)

// Low cost keeps the suite fast; the format is the same.
var testParams = ScryptParams{N: 1024, R: 8, P: 1, KeyLen: 64}

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(testParams)
	stored, err := h.Hash("correct horse")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	if !h.Verify("correct horse", stored) {
		t.Error("expected password to verify")
	}
	if h.Verify("wrong horse", stored) {
		t.Error("expected wrong password to fail")
	}
}

func TestPasswordHasher_Format(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(testParams)
	stored, err := h.Hash("pw")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	parts := strings.Split(stored, "$")
	if len(parts) != 6 {
		t.Fatalf("expected 6 parts, got %d: %q", len(parts), stored)
	}
	if parts[0] != "scrypt" || parts[1] != "1024" || parts[2] != "8" || parts[3] != "1" {
		t.Errorf("unexpected header: %v", parts[:4])
	}
	salt, err := base64.StdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) != 16 {
		t.Errorf("expected 16-byte base64 salt, got %q (%v)", parts[4], err)
	}
	key, err := base64.StdEncoding.DecodeString(parts[5])
	if err != nil || len(key) != 64 {
		t.Errorf("expected 64-byte base64 key, got %q (%v)", parts[5], err)
	}
}

func TestPasswordHasher_SaltIsRandom(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(testParams)
	a, err := h.Hash("same")
	if err != nil {
		t.Fatal(err)
	}
	b, err := h.Hash("same")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("expected different hashes for the same password")
	}
}

func TestPasswordHasher_VerifyUsesStoredParams(t *testing.T) {
	t.Parallel()

	stored, err := NewPasswordHasher(testParams).Hash("pw")
	if err != nil {
		t.Fatal(err)
	}
	// A hasher configured with other params still checks older hashes.
	if !NewPasswordHasher(ScryptParams{N: 2048, R: 8, P: 1, KeyLen: 32}).Verify("pw", stored) {
		t.Error("expected verify with stored params")
	}
}

func TestPasswordHasher_Malformed(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(testParams)
	cases := []string{
		"",
		"plain",
		"bcrypt$1024$8$1$c2FsdA==$aGFzaA==",
		"scrypt$x$8$1$c2FsdA==$aGFzaA==",
		"scrypt$1024$8$1$!!!$aGFzaA==",
		"scrypt$1024$8$1$c2FsdA==$",
		"scrypt$1000$8$1$c2FsdA==$aGFzaA==",
	}
	for _, stored := range cases {
		if h.Verify("pw", stored) {
			t.Errorf("expected %q not to verify", stored)
		}
	}
}

func TestNewPasswordHasher_Defaults(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(ScryptParams{})
	if h.params != DefaultScryptParams {
		t.Errorf("expected defaults, got %+v", h.params)
	}
}
