// Package utils provides helpers for session token issuance and password
// hashing.
package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionToken is a signed JWT proving a resolved identity, together with
// its expiry. Tokens are stateless; there is no server-side revocation list
// and they stay valid until natural expiry.
type SessionToken struct {
	Token string    `json:"token"`
	Exp   time.Time `json:"expires"`
}

// NewSessionToken builds and signs an HS256 JWT carrying the user ID as
// subject and the role as a custom claim.
func NewSessionToken(secret string, userID uint64, role string, ttlMin int) (SessionToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  exp.Unix(),
		"iat":  time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}
