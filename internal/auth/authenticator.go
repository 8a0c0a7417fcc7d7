package auth

import (
	"fmt"
	"sync"
	"time"
)

// Authenticator checks logins against a fixed account list and verifies
// the tokens it issues.
type Authenticator struct {
	secret   string
	ttl      time.Duration
	accounts map[string]Account

	dummyOnce sync.Once
	dummy     string
}

// minSecretLen is the shortest accepted HS256 signing secret.
const minSecretLen = 32

// NewAuthenticator validates the accounts and secret. A non-positive ttl
// uses DefaultTokenTTL.
func NewAuthenticator(secret string, ttl time.Duration, accounts []Account) (*Authenticator, error) {
	if len(secret) < minSecretLen {
		return nil, fmt.Errorf("%w: signing secret must be at least %d bytes", ErrInvalidAccount, minSecretLen)
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("%w: no accounts configured", ErrInvalidAccount)
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	byName := make(map[string]Account, len(accounts))
	for _, a := range accounts {
		if !IsValidUsername(a.Username) {
			return nil, fmt.Errorf("%w: username %q", ErrInvalidAccount, a.Username)
		}
		if _, dup := byName[a.Username]; dup {
			return nil, fmt.Errorf("%w: duplicate username %q", ErrInvalidAccount, a.Username)
		}
		if !IsValidRole(a.Role) {
			return nil, fmt.Errorf("%w: %s has role %q", ErrInvalidAccount, a.Username, a.Role)
		}
		if _, err := parsePHC(a.PasswordHash); err != nil {
			return nil, fmt.Errorf("%w: %s password hash: %w", ErrInvalidAccount, a.Username, err)
		}
		byName[a.Username] = a
	}

	return &Authenticator{secret: secret, ttl: ttl, accounts: byName}, nil
}

// TTL returns the lifetime of issued tokens.
func (a *Authenticator) TTL() time.Duration { return a.ttl }

// Login verifies the credentials and returns a signed token. Unknown
// usernames still cost one hash verification so they cannot be told
// apart by timing.
func (a *Authenticator) Login(username, password string) (string, Role, error) {
	acct, ok := a.accounts[username]
	hash := acct.PasswordHash
	if !ok {
		hash = a.dummyHash()
	}

	match, err := VerifyPassword(password, hash)
	if err != nil || !match || !ok {
		return "", "", ErrInvalidCredentials
	}

	token, err := IssueToken(acct.Username, acct.Role, a.secret, a.ttl)
	if err != nil {
		return "", "", err
	}
	return token, acct.Role, nil
}

// Verify parses a bearer token. The token's account must still exist
// with the same role.
func (a *Authenticator) Verify(token string) (*Claims, error) {
	claims, err := ParseToken(token, a.secret)
	if err != nil {
		return nil, err
	}
	acct, ok := a.accounts[claims.Subject]
	if !ok || acct.Role != claims.Role {
		return nil, fmt.Errorf("%w: account %q changed", ErrTokenInvalid, claims.Subject)
	}
	return claims, nil
}

func (a *Authenticator) dummyHash() string {
	a.dummyOnce.Do(func() {
		// any configured hash has realistic cost parameters
		for _, acct := range a.accounts {
			a.dummy = acct.PasswordHash
			return
		}
	})
	return a.dummy
}
