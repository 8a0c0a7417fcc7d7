package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/nerrad567/handlerhub/internal/audit"
	"github.com/nerrad567/handlerhub/internal/auth"
)

const testJWTSecret = "api-test-secret-at-least-32-bytes!!"

func authServer(t *testing.T) *testEnv {
	t.Helper()

	var accounts []auth.Account
	for user, role := range map[string]auth.Role{
		"installer": auth.RoleAdmin,
		"operator":  auth.RoleOperator,
		"panel":     auth.RoleViewer,
	} {
		hash, err := auth.HashPassword(user + "-pass")
		if err != nil {
			t.Fatal(err)
		}
		accounts = append(accounts, auth.Account{Username: user, PasswordHash: hash, Role: role})
	}
	authenticator, err := auth.NewAuthenticator(testJWTSecret, 5*time.Minute, accounts)
	if err != nil {
		t.Fatal(err)
	}

	return testServerWith(t, func(d *Deps) { d.Auth = authenticator })
}

func (e *testEnv) login(t *testing.T, user string) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/v1/auth/login", `{"username":"`+user+`","password":"`+user+`-pass"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: %d %s", user, rec.Code, rec.Body.String())
	}
	var resp loginResponse
	decode(t, rec, &resp)
	if resp.TokenType != "Bearer" || resp.ExpiresIn != 300 {
		t.Errorf("login response = %+v", resp)
	}
	return resp.AccessToken
}

func TestLogin(t *testing.T) {
	env := authServer(t)

	rec := env.do(t, http.MethodPost, "/api/v1/auth/login", `{"username":"installer","password":"nope"}`)
	if rec.Code != http.StatusUnauthorized || rec.Header().Get("WWW-Authenticate") == "" {
		t.Errorf("bad password = %d", rec.Code)
	}
	if rec := env.do(t, http.MethodPost, "/api/v1/auth/login", `{`); rec.Code != http.StatusBadRequest {
		t.Errorf("bad json = %d", rec.Code)
	}

	token := env.login(t, "operator")
	rec = env.doAs(t, token, http.MethodGet, "/api/v1/auth/me", "")
	var me struct {
		Username    string   `json:"username"`
		Role        string   `json:"role"`
		Permissions []string `json:"permissions"`
	}
	decode(t, rec, &me)
	if me.Username != "operator" || me.Role != "operator" || len(me.Permissions) != 2 {
		t.Errorf("me = %+v", me)
	}
}

func TestLogin_DisabledWithoutAuthenticator(t *testing.T) {
	env := testServer(t)
	if rec := env.do(t, http.MethodPost, "/api/v1/auth/login", `{"username":"a","password":"b"}`); rec.Code != http.StatusNotFound {
		t.Errorf("login without auth = %d", rec.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	env := authServer(t)

	if rec := env.do(t, http.MethodGet, "/api/v1/health", ""); rec.Code != http.StatusOK {
		t.Errorf("health must stay public, got %d", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/api/v1/things", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("no token = %d", rec.Code)
	}
	if rec := env.doAs(t, "garbage", http.MethodGet, "/api/v1/things", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token = %d", rec.Code)
	}
	forged, _ := auth.IssueToken("installer", auth.RoleAdmin, "some-other-secret-that-is-long-enough", time.Minute)
	if rec := env.doAs(t, forged, http.MethodGet, "/api/v1/things", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("forged token = %d", rec.Code)
	}
}

func TestPermissions(t *testing.T) {
	env := authServer(t)
	tokens := map[string]string{}
	for _, u := range []string{"installer", "operator", "panel"} {
		tokens[u] = env.login(t, u)
	}

	tests := []struct {
		user   string
		method string
		path   string
		body   string
		want   int
	}{
		{"panel", http.MethodGet, "/api/v1/things", "", http.StatusOK},
		{"panel", http.MethodGet, "/api/v1/console", "", http.StatusOK},
		{"panel", http.MethodPost, "/api/v1/console/lgwebos", `{"uid":"lgwebos:WebOSTV:living","command":"channels"}`, http.StatusForbidden},
		{"panel", http.MethodPost, "/api/v1/things", tvBody, http.StatusForbidden},
		{"operator", http.MethodPost, "/api/v1/things", tvBody, http.StatusForbidden},
		{"operator", http.MethodGet, "/api/v1/audit", "", http.StatusForbidden},
		{"installer", http.MethodPost, "/api/v1/things", tvBody, http.StatusCreated},
		{"operator", http.MethodPost, "/api/v1/console/lgwebos", `{"uid":"lgwebos:WebOSTV:living","command":"channels"}`, http.StatusOK},
		{"operator", http.MethodDelete, "/api/v1/things/lgwebos:WebOSTV:living", "", http.StatusForbidden},
		{"installer", http.MethodGet, "/api/v1/audit", "", http.StatusOK},
	}
	for _, tt := range tests {
		rec := env.doAs(t, tokens[tt.user], tt.method, tt.path, tt.body)
		if rec.Code != tt.want {
			t.Errorf("%s %s %s = %d, want %d (%s)", tt.user, tt.method, tt.path, rec.Code, tt.want, rec.Body.String())
		}
	}
}

func TestAuditRecordsActor(t *testing.T) {
	env := authServer(t)
	admin := env.login(t, "installer")
	operator := env.login(t, "operator")

	env.doAs(t, admin, http.MethodPost, "/api/v1/things", tvBody)
	env.doAs(t, operator, http.MethodPost, "/api/v1/console/lgwebos", `{"uid":"lgwebos:WebOSTV:living","command":"accesskey"}`)

	rec := env.doAs(t, admin, http.MethodGet, "/api/v1/audit?user_id=operator", "")
	var res audit.ListResult
	decode(t, rec, &res)
	if res.Total != 1 || res.Entries[0].Action != audit.ActionCommand {
		t.Fatalf("operator entries = %+v", res.Entries)
	}

	rec = env.doAs(t, admin, http.MethodGet, "/api/v1/audit?user_id=installer&action=add", "")
	decode(t, rec, &res)
	if res.Total != 1 {
		t.Errorf("installer add entries = %d", res.Total)
	}
}
