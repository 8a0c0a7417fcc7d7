package auth

import (
	"errors"
	"strings"
	"testing"
)

// cheapArgon keeps tests fast; VerifyPassword reads costs from the hash.
var cheapArgon = argonParams{time: 1, memory: 1024, threads: 1, keyLen: 32}

func TestHashPassword_DefaultCostsAndVerify(t *testing.T) {
	hash, err := HashPassword("installer-pass")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=3,p=1$") {
		t.Errorf("hash = %q", hash)
	}
	if ok, err := VerifyPassword("installer-pass", hash); err != nil || !ok {
		t.Errorf("VerifyPassword() = %v, %v", ok, err)
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, err := hashWith("panel-pin-4711", cheapArgon)
	if err != nil {
		t.Fatal(err)
	}

	for pw, want := range map[string]bool{
		"panel-pin-4711":  true,
		"panel-pin-4712":  false,
		"":                false,
		"PANEL-PIN-4711":  false,
		"panel-pin-4711 ": false,
	} {
		ok, err := VerifyPassword(pw, hash)
		if err != nil {
			t.Fatalf("VerifyPassword(%q) error = %v", pw, err)
		}
		if ok != want {
			t.Errorf("VerifyPassword(%q) = %v, want %v", pw, ok, want)
		}
	}
}

func TestHashPassword_SaltsDiffer(t *testing.T) {
	a, _ := hashWith("same", cheapArgon)
	b, _ := hashWith("same", cheapArgon)
	if a == b {
		t.Error("equal hashes for equal passwords: salt not random")
	}
}

func TestParsePHC_RoundTrip(t *testing.T) {
	hash, _ := hashWith("x", cheapArgon)
	h, err := parsePHC(hash)
	if err != nil {
		t.Fatal(err)
	}
	if h.params != cheapArgon || len(h.salt) != argonSaltLen || h.String() != hash {
		t.Errorf("parsed = %+v", h)
	}
}

func TestVerifyPassword_Malformed(t *testing.T) {
	for name, hash := range map[string]string{
		"empty":         "",
		"plaintext":     "hunter2",
		"bcrypt":        "$2b$10$abcdefghijklmnopqrstuv",
		"other algo":    "$argon2i$v=19$m=65536,t=3,p=1$c2FsdHNhbHQ$aGFzaA",
		"missing key":   "$argon2id$v=19$m=65536,t=3,p=1$c2FsdHNhbHQ",
		"old version":   "$argon2id$v=16$m=65536,t=3,p=1$c2FsdHNhbHQ$aGFzaA",
		"zero passes":   "$argon2id$v=19$m=65536,t=0,p=1$c2FsdHNhbHQ$aGFzaA",
		"bad salt":      "$argon2id$v=19$m=65536,t=3,p=1$!!!$aGFzaA",
		"empty key":     "$argon2id$v=19$m=65536,t=3,p=1$c2FsdHNhbHQ$",
		"leading token": "x$argon2id$v=19$m=65536,t=3,p=1$c2FsdHNhbHQ$aGFzaA",
	} {
		if _, err := VerifyPassword("pw", hash); !errors.Is(err, errBadHash) {
			t.Errorf("%s: error = %v, want errBadHash", name, err)
		}
	}
}
