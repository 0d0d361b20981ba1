// Package middleware contains reusable HTTP middleware: session
// authentication, the admin gate, the redis token bucket and the public
// response cache.
package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/parintorn/table-reservation/internal/service"
)

// SessionCookieName is the httpOnly cookie carrying the session token when
// no Authorization header is present.
const SessionCookieName = "token"

// JWTAuth returns a middleware that validates the session credential and
// injects the resolved {id, role} pair into the request context. The token
// is read from the Authorization header first, then from the session cookie.
// Requests without a valid credential are rejected with 401; the middleware
// has no side effect beyond context attachment.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c)
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false, "message": "not authorized to access this route",
				})
			}

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false, "message": "not authorized to access this route",
				})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false, "message": "not authorized to access this route",
				})
			}

			// Numeric JWT claims decode as float64.
			sub, ok := claims["sub"].(float64)
			role, rok := claims["role"].(string)
			if !ok || !rok || sub <= 0 {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false, "message": "not authorized to access this route",
				})
			}

			c.Set("user_id", uint64(sub))
			c.Set("role", role)
			return next(c)
		}
	}
}

// bearerToken extracts the raw credential from the Authorization header or,
// failing that, from the session cookie.
func bearerToken(c echo.Context) string {
	auth := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if ck, err := c.Cookie(SessionCookieName); err == nil && ck.Value != "" {
		return ck.Value
	}
	return ""
}

// Caller rebuilds the identity stored by JWTAuth. The second return value is
// false when the middleware did not run or stored unexpected types.
func Caller(c echo.Context) (service.Identity, bool) {
	id, ok := c.Get("user_id").(uint64)
	role, rok := c.Get("role").(string)
	if !ok || !rok || id == 0 {
		return service.Identity{}, false
	}
	return service.Identity{UserID: id, Role: role}, true
}
