package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const (
	hashPrefix = "scrypt"
	saltBytes  = 16
)

// ScryptParams are the cost parameters written into every new hash.
type ScryptParams struct {
	N      int
	R      int
	P      int
	KeyLen int
}

// DefaultScryptParams matches hashes already stored by earlier deployments.
var DefaultScryptParams = ScryptParams{N: 16384, R: 8, P: 1, KeyLen: 64}

// PasswordHasher hashes passwords as "scrypt$N$r$p$saltB64$hashB64".
type PasswordHasher struct {
	params ScryptParams
}

// NewPasswordHasher creates a hasher. Zero params take the defaults.
func NewPasswordHasher(params ScryptParams) *PasswordHasher {
	if params.N == 0 || params.R == 0 || params.P == 0 || params.KeyLen == 0 {
		params = DefaultScryptParams
	}
	return &PasswordHasher{params: params}
}

// Hash derives a new salted hash of password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	p := h.params
	dk, err := scrypt.Key([]byte(password), salt, p.N, p.R, p.P, p.KeyLen)
	if err != nil {
		return "", fmt.Errorf("scrypt: %w", err)
	}

	return strings.Join([]string{
		hashPrefix,
		strconv.Itoa(p.N),
		strconv.Itoa(p.R),
		strconv.Itoa(p.P),
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(dk),
	}, "$"), nil
}

// Verify reports whether password matches stored. Cost parameters are read
// from stored, so hashes made with other parameters still verify.
// Malformed hashes never match.
func (h *PasswordHasher) Verify(password, stored string) bool {
	parts := strings.Split(stored, "$")
	if len(parts) != 6 || parts[0] != hashPrefix {
		return false
	}

	n, errN := strconv.Atoi(parts[1])
	r, errR := strconv.Atoi(parts[2])
	p, errP := strconv.Atoi(parts[3])
	if errN != nil || errR != nil || errP != nil {
		return false
	}
	salt, err := base64.StdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	want, err := base64.StdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return false
	}

	got, err := scrypt.Key([]byte(password), salt, n, r, p, len(want))
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(got, want) == 1
}
