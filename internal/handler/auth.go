package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/parintorn/table-reservation/internal/config"
	"github.com/parintorn/table-reservation/internal/middleware"
	"github.com/parintorn/table-reservation/internal/model"
	"github.com/parintorn/table-reservation/internal/repository"
	"github.com/parintorn/table-reservation/internal/utils"
)

// AuthHandler bundles dependencies for registration, login and session
// endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, users *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPart struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// sessionResponse issues a token for the user, sets it as an httpOnly cookie
// and writes the envelope. The same token travels in the body so API clients
// that do not keep cookies can use the Authorization header instead.
func (h *AuthHandler) sessionResponse(c echo.Context, status int, u userPart) error {
	tok, err := utils.NewSessionToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.TokenTTLMin)
	if err != nil {
		return respondError(c, err)
	}
	h.setSessionCookie(c, tok.Token, tok.Exp)
	return respond(c, status, echo.Map{
		"token":   tok.Token,
		"expires": tok.Exp,
		"user":    u,
	})
}

func (h *AuthHandler) setSessionCookie(c echo.Context, value string, expires time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Expires:  expires,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.Cfg.Env == "prod",
		SameSite: http.SameSiteLaxMode,
	})
}

// Register handles POST /api/v1/auth/register. The user is created with a
// hashed secret and logged in immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var reg model.Registration
	if err := c.Bind(&reg); err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid request body")
	}
	reg.Normalize()
	if err := reg.Validate(); err != nil {
		return respondError(c, err)
	}

	id, err := h.Users.Create(c.Request().Context(), reg, h.Cfg.BcryptCost)
	if err != nil {
		return respondError(c, err)
	}
	return h.sessionResponse(c, http.StatusCreated, userPart{
		ID: id, Name: reg.Name, Email: reg.Email, Role: reg.Role,
	})
}

// Login handles POST /api/v1/auth/login. An unknown email is reported as
// not found; a wrong password as invalid credentials.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid request body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return respondMessage(c, http.StatusBadRequest, "please provide an email and password")
	}

	u, err := h.Users.GetByEmail(c.Request().Context(), req.Email)
	if err != nil {
		return respondError(c, err)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return respondMessage(c, http.StatusUnauthorized, "invalid credentials")
	}
	return h.sessionResponse(c, http.StatusOK, userPart{
		ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role,
	})
}

// Me handles GET /api/v1/auth/me and returns the caller's persisted identity.
func (h *AuthHandler) Me(c echo.Context) error {
	caller, ok := middleware.Caller(c)
	if !ok {
		return respondMessage(c, http.StatusUnauthorized, "not authorized to access this route")
	}
	u, err := h.Users.GetByID(c.Request().Context(), caller.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, u)
}

// Logout handles GET /api/v1/auth/logout. Sessions are stateless, so logout
// only instructs the client to discard the cookie; issued tokens stay valid
// until natural expiry.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.setSessionCookie(c, "none", time.Now().Add(10*time.Second))
	return respond(c, http.StatusOK, echo.Map{})
}
