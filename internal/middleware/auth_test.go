package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/parintorn/table-reservation/internal/model"
	"github.com/parintorn/table-reservation/internal/utils"
)

const testSecret = "unit-test-secret"

func signedToken(t *testing.T, userID uint64, role string, ttlMin int) string {
	t.Helper()
	tok, err := utils.NewSessionToken(testSecret, userID, role, ttlMin)
	if err != nil {
		t.Fatalf("NewSessionToken() error = %v", err)
	}
	return tok.Token
}

// runAuth sends a GET through JWTAuth into a handler that records the
// context identity.
func runAuth(t *testing.T, decorate func(*http.Request)) (*httptest.ResponseRecorder, *uint64, *string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if decorate != nil {
		decorate(req)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotID uint64
	var gotRole string
	h := JWTAuth(testSecret)(func(c echo.Context) error {
		gotID, _ = c.Get("user_id").(uint64)
		gotRole, _ = c.Get("role").(string)
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	return rec, &gotID, &gotRole
}

func TestJWTAuth_MissingToken(t *testing.T) {
	rec, _, _ := runAuth(t, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"success":false`) {
		t.Errorf("body = %s, want failure envelope", rec.Body.String())
	}
}

func TestJWTAuth_BearerHeader(t *testing.T) {
	token := signedToken(t, 7, model.RoleAdmin, 5)
	rec, id, role := runAuth(t, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	if *id != 7 || *role != model.RoleAdmin {
		t.Errorf("context identity = %d/%s, want 7/admin", *id, *role)
	}
}

func TestJWTAuth_SessionCookie(t *testing.T) {
	token := signedToken(t, 3, model.RoleUser, 5)
	rec, id, role := runAuth(t, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if *id != 3 || *role != model.RoleUser {
		t.Errorf("context identity = %d/%s, want 3/user", *id, *role)
	}
}

func TestJWTAuth_RejectsBadCredentials(t *testing.T) {
	expired := func(t *testing.T) string {
		t.Helper()
		claims := jwt.MapClaims{
			"sub": 1, "role": model.RoleUser,
			"exp": time.Now().Add(-time.Hour).Unix(),
		}
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return s
	}

	foreign := func(t *testing.T) string {
		t.Helper()
		claims := jwt.MapClaims{"sub": 1, "role": model.RoleUser, "exp": time.Now().Add(time.Hour).Unix()}
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return s
	}

	tests := []struct {
		name  string
		token func(*testing.T) string
	}{
		{"garbage", func(*testing.T) string { return "not.a.jwt" }},
		{"expired", expired},
		{"wrong secret", foreign},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _, _ := runAuth(t, func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+tt.token(t))
			})
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestCaller(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	if _, ok := Caller(c); ok {
		t.Error("Caller() ok on bare context, want false")
	}

	c.Set("user_id", uint64(12))
	c.Set("role", model.RoleUser)
	id, ok := Caller(c)
	if !ok || id.UserID != 12 || id.Role != model.RoleUser {
		t.Errorf("Caller() = %+v/%v, want {12 user}/true", id, ok)
	}
}

func TestRequireAdmin(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	run := func(role interface{}) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		if role != nil {
			c.Set("role", role)
		}
		if err := RequireAdmin()(next)(c); err != nil {
			t.Fatalf("handler error = %v", err)
		}
		return rec
	}

	if rec := run(model.RoleAdmin); rec.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200", rec.Code)
	}
	if rec := run(model.RoleUser); rec.Code != http.StatusForbidden {
		t.Errorf("user status = %d, want 403", rec.Code)
	}
	if rec := run(nil); rec.Code != http.StatusForbidden {
		t.Errorf("anonymous status = %d, want 403", rec.Code)
	}
}
