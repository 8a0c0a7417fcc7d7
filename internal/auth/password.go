package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// argonParams are the Argon2id costs recorded in every hash.
type argonParams struct {
	time    uint32
	memory  uint32 // KiB
	threads uint8
	keyLen  uint32
}

// defaultArgon follows the OWASP Argon2id baseline: 64 MiB, 3 passes.
var defaultArgon = argonParams{time: 3, memory: 64 * 1024, threads: 1, keyLen: 32}

const argonSaltLen = 16

var errBadHash = errors.New("auth: malformed password hash")

// phc is a decoded $argon2id$v=19$m=...,t=...,p=...$salt$key string.
type phc struct {
	params argonParams
	salt   []byte
	key    []byte
}

func (h phc) String() string {
	b64 := base64.RawStdEncoding.EncodeToString
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.params.memory, h.params.time, h.params.threads, b64(h.salt), b64(h.key))
}

// HashPassword returns the Argon2id hash of password as a PHC string,
// the format accounts carry in password_hash.
func HashPassword(password string) (string, error) {
	return hashWith(password, defaultArgon)
}

func hashWith(password string, p argonParams) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, p.keyLen)
	return phc{params: p, salt: salt, key: key}.String(), nil
}

// VerifyPassword reports whether password matches encoded. Costs come
// from the hash itself, so hashes made with other settings still verify.
// A malformed hash is an error, not a mismatch.
func VerifyPassword(password, encoded string) (bool, error) {
	h, err := parsePHC(encoded)
	if err != nil {
		return false, err
	}
	p := h.params
	candidate := argon2.IDKey([]byte(password), h.salt, p.time, p.memory, p.threads, uint32(len(h.key))) //nolint:gosec // key length is small
	return subtle.ConstantTimeCompare(h.key, candidate) == 1, nil
}

func parsePHC(encoded string) (phc, error) {
	var h phc
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	f := strings.Split(encoded, "$")
	if len(f) != 6 || f[0] != "" || f[1] != "argon2id" {
		return h, fmt.Errorf("%w: not an argon2id PHC string", errBadHash)
	}

	var version int
	if _, err := fmt.Sscanf(f[2], "v=%d", &version); err != nil || version != argon2.Version {
		return h, fmt.Errorf("%w: unsupported version %q", errBadHash, f[2])
	}
	p := &h.params
	if _, err := fmt.Sscanf(f[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil || p.time == 0 || p.threads == 0 {
		return h, fmt.Errorf("%w: bad parameters %q", errBadHash, f[3])
	}

	var err error
	if h.salt, err = base64.RawStdEncoding.DecodeString(f[4]); err != nil {
		return h, fmt.Errorf("%w: salt: %w", errBadHash, err)
	}
	if h.key, err = base64.RawStdEncoding.DecodeString(f[5]); err != nil || len(h.key) == 0 {
		return h, fmt.Errorf("%w: empty or undecodable key", errBadHash)
	}
	p.keyLen = uint32(len(h.key)) //nolint:gosec // key length is small
	return h, nil
}
