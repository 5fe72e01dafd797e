package runtime

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mohammad-safakhou/wsd/config"
)

func protected(secret []byte, scopes ...string) *echo.Echo {
	e := echo.New()
	e.GET("/p", func(c echo.Context) error {
		sub, _ := SubjectFromContext(c.Request().Context())
		return c.String(http.StatusOK, sub)
	}, EchoAuthMiddleware(secret), RequireScopes(scopes...))
	return e
}

func call(e *echo.Echo, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthAcceptsSignedToken(t *testing.T) {
	secret := []byte("s3cret")
	tok, err := SignJWT("alice", secret, time.Hour, ScopeRunsWrite)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	rec := call(protected(secret, ScopeRunsWrite), "Bearer "+tok)
	if rec.Code != http.StatusOK || rec.Body.String() != "alice" {
		t.Fatalf("got %d %q", rec.Code, rec.Body.String())
	}
}

func TestAuthRejects(t *testing.T) {
	secret := []byte("s3cret")
	expired, _ := SignJWT("alice", secret, -time.Minute)
	other, _ := SignJWT("alice", []byte("other"), time.Hour)
	noScope, _ := SignJWT("alice", secret, time.Hour)
	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"garbage", "Bearer nope", http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong key", "Bearer " + other, http.StatusUnauthorized},
		{"missing scope", "Bearer " + noScope, http.StatusForbidden},
	}
	e := protected(secret, ScopeRunsWrite)
	for _, tc := range cases {
		if rec := call(e, tc.header); rec.Code != tc.want {
			t.Errorf("%s: code = %d, want %d", tc.name, rec.Code, tc.want)
		}
	}
}

func TestAuthCookie(t *testing.T) {
	secret := []byte("s3cret")
	tok, _ := SignJWT("bob", secret, time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.AddCookie(&http.Cookie{Name: "auth", Value: tok})
	rec := httptest.NewRecorder()
	protected(secret).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "bob" {
		t.Fatalf("got %d %q", rec.Code, rec.Body.String())
	}
}

func TestNormaliseScopes(t *testing.T) {
	got := normaliseScopes("runs:write  eval:read")
	if len(got) != 2 || got[0] != "runs:write" || got[1] != "eval:read" {
		t.Fatalf("string scopes = %v", got)
	}
	got = normaliseScopes([]interface{}{" a ", 3, ""})
	if len(got) != 1 || got[0] != "a" {
		t.Fatalf("list scopes = %v", got)
	}
}

func TestLoadJWTSecret(t *testing.T) {
	if _, err := LoadJWTSecret(&config.Config{}); err != ErrNoSecret {
		t.Fatalf("err = %v", err)
	}
	cfg := &config.Config{Server: config.ServerConfig{JWTSecret: " k "}}
	s, err := LoadJWTSecret(cfg)
	if err != nil || string(s) != "k" {
		t.Fatalf("secret = %q, %v", s, err)
	}
}
