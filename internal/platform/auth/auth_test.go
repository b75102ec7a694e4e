package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

func withRoles(ctx context.Context, roles []string) context.Context {
	return context.WithValue(ctx, UserRolesKey, roles)
}

var testKey = []byte("test-signing-key")

func signToken(t *testing.T, claims *Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(testKey)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	tokenStr := signToken(t, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Roles: []string{RoleDentist},
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tokenStr)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := JWTMiddleware(JWTConfig{SigningKey: testKey})
	var gotUser string
	var gotRoles []string
	err := mw(func(c echo.Context) error {
		gotUser = UserIDFromContext(c.Request().Context())
		gotRoles = RolesFromContext(c.Request().Context())
		return okHandler(c)
	})(c)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotUser != "user-1" {
		t.Errorf("expected user-1, got %s", gotUser)
	}
	if len(gotRoles) != 1 || gotRoles[0] != RoleDentist {
		t.Errorf("expected dentist role, got %v", gotRoles)
	}
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	mw := JWTMiddleware(JWTConfig{SigningKey: testKey})
	err := mw(okHandler)(c)

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}

func TestJWTMiddleware_ExpiredToken(t *testing.T) {
	e := echo.New()
	tokenStr := signToken(t, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tokenStr)
	c := e.NewContext(req, httptest.NewRecorder())

	mw := JWTMiddleware(JWTConfig{SigningKey: testKey})
	err := mw(okHandler)(c)

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for expired token, got %v", err)
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()

	cases := []struct {
		name     string
		roles    []string
		required []string
		wantOK   bool
	}{
		{"exact match", []string{RoleDentist}, []string{RoleDentist}, true},
		{"admin passes everything", []string{RoleAdmin}, []string{RoleReception}, true},
		{"missing role", []string{RoleAssistant}, []string{RoleDentist}, false},
		{"no roles", nil, []string{RoleDentist}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			c := e.NewContext(req, httptest.NewRecorder())

			// Seed roles the way JWTMiddleware does.
			ctx := c.Request().Context()
			devCtx := req.WithContext(withRoles(ctx, tc.roles))
			c.SetRequest(devCtx)

			err := RequireRole(tc.required...)(okHandler)(c)
			if tc.wantOK && err != nil {
				t.Errorf("expected access, got %v", err)
			}
			if !tc.wantOK {
				he, ok := err.(*echo.HTTPError)
				if !ok || he.Code != http.StatusForbidden {
					t.Errorf("expected 403, got %v", err)
				}
			}
		})
	}
}

func TestDevAuthMiddleware(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	err := DevAuthMiddleware()(func(c echo.Context) error {
		roles := RolesFromContext(c.Request().Context())
		if len(roles) != 1 || roles[0] != RoleAdmin {
			t.Errorf("expected admin role in dev mode, got %v", roles)
		}
		return okHandler(c)
	})(c)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
