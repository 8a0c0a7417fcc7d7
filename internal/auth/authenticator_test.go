package auth

import (
	"errors"
	"testing"
	"time"
)

func testAccounts(t *testing.T) []Account {
	t.Helper()
	adminHash, err := hashWith("admin-pass", cheapArgon)
	if err != nil {
		t.Fatal(err)
	}
	viewerHash, err := hashWith("viewer-pass", cheapArgon)
	if err != nil {
		t.Fatal(err)
	}
	return []Account{
		{Username: "installer", PasswordHash: adminHash, Role: RoleAdmin},
		{Username: "wallpanel", PasswordHash: viewerHash, Role: RoleViewer},
	}
}

func TestNewAuthenticator_Validation(t *testing.T) {
	accounts := testAccounts(t)

	tests := []struct {
		name     string
		secret   string
		accounts []Account
	}{
		{"short secret", "short", accounts},
		{"no accounts", testSecret, nil},
		{"bad username", testSecret, []Account{{Username: "a b", PasswordHash: accounts[0].PasswordHash, Role: RoleAdmin}}},
		{"duplicate", testSecret, []Account{accounts[0], accounts[0]}},
		{"bad role", testSecret, []Account{{Username: "x", PasswordHash: accounts[0].PasswordHash, Role: "root"}}},
		{"bad hash", testSecret, []Account{{Username: "x", PasswordHash: "plaintext", Role: RoleAdmin}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewAuthenticator(tt.secret, time.Minute, tt.accounts); !errors.Is(err, ErrInvalidAccount) {
				t.Errorf("error = %v, want ErrInvalidAccount", err)
			}
		})
	}
}

func TestAuthenticator_LoginAndVerify(t *testing.T) {
	a, err := NewAuthenticator(testSecret, 0, testAccounts(t))
	if err != nil {
		t.Fatal(err)
	}
	if a.TTL() != DefaultTokenTTL {
		t.Errorf("TTL() = %v", a.TTL())
	}

	token, role, err := a.Login("installer", "admin-pass")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if role != RoleAdmin {
		t.Errorf("role = %s", role)
	}

	claims, err := a.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.Subject != "installer" || claims.Role != RoleAdmin {
		t.Errorf("claims = %+v", claims)
	}
}

func TestAuthenticator_LoginFailures(t *testing.T) {
	a, err := NewAuthenticator(testSecret, time.Minute, testAccounts(t))
	if err != nil {
		t.Fatal(err)
	}

	for _, creds := range [][2]string{
		{"installer", "wrong"},
		{"nobody", "admin-pass"},
		{"", ""},
	} {
		if _, _, err := a.Login(creds[0], creds[1]); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login(%q) error = %v, want ErrInvalidCredentials", creds[0], err)
		}
	}
}

func TestAuthenticator_VerifyRejectsStaleAccounts(t *testing.T) {
	accounts := testAccounts(t)
	a, err := NewAuthenticator(testSecret, time.Minute, accounts)
	if err != nil {
		t.Fatal(err)
	}

	unknown, _ := IssueToken("ghost", RoleAdmin, testSecret, time.Minute)
	if _, err := a.Verify(unknown); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("unknown account error = %v", err)
	}

	promoted, _ := IssueToken("wallpanel", RoleAdmin, testSecret, time.Minute)
	if _, err := a.Verify(promoted); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("role mismatch error = %v", err)
	}
}
