package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewSessionToken_RoundTrip(t *testing.T) {
	const secret = "test-secret"
	tok, err := NewSessionToken(secret, 42, "admin", 30)
	if err != nil {
		t.Fatalf("NewSessionToken() error = %v", err)
	}
	if tok.Token == "" {
		t.Fatal("empty token")
	}

	parsed, err := jwt.Parse(tok.Token, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("parse failed: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if sub, _ := claims["sub"].(float64); uint64(sub) != 42 {
		t.Errorf("sub = %v, want 42", claims["sub"])
	}
	if claims["role"] != "admin" {
		t.Errorf("role = %v, want admin", claims["role"])
	}

	wantExp := time.Now().UTC().Add(30 * time.Minute)
	if diff := tok.Exp.Sub(wantExp); diff < -5*time.Second || diff > 5*time.Second {
		t.Errorf("exp = %v, want about %v", tok.Exp, wantExp)
	}
}

func TestNewSessionToken_WrongSecretRejected(t *testing.T) {
	tok, err := NewSessionToken("right", 1, "user", 10)
	if err != nil {
		t.Fatalf("NewSessionToken() error = %v", err)
	}
	_, err = jwt.Parse(tok.Token, func(*jwt.Token) (interface{}, error) {
		return []byte("wrong"), nil
	})
	if err == nil {
		t.Error("token signed with another secret was accepted")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22", 4)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("hash equals plain text")
	}
	if !VerifyPassword(hash, "hunter22") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(hash, "hunter23") {
		t.Error("wrong password accepted")
	}
	if VerifyPassword("not-a-bcrypt-hash", "hunter22") {
		t.Error("malformed hash accepted")
	}
}
