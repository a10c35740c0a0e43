package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	clientID := "table-7"

	tok, err := GenerateToken(clientID, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	got, err := GetClientIDFromToken(tok, secret)
	if err != nil {
		t.Fatalf("GetClientIDFromToken error: %v", err)
	}
	if got != clientID {
		t.Fatalf("client id mismatch: got %q want %q", got, clientID)
	}
}

func TestGenerateToken_NoExpiry(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	tok, err := GenerateToken("c1", secret, 0)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	claims := &Claims{}
	if _, err := jwt.ParseWithClaims(tok, claims, func(*jwt.Token) (interface{}, error) { return secret, nil }); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.ExpiresAt != nil {
		t.Fatalf("expected no exp claim, got %v", claims.ExpiresAt)
	}
}

func TestGenerateToken_EmptyClientID(t *testing.T) {
	t.Parallel()

	if _, err := GenerateToken("", []byte("k"), time.Hour); err == nil {
		t.Fatal("expected error for empty client id")
	}
}

func TestGetClientIDFromToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	tok, err := GenerateToken("u1", secret, -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = GetClientIDFromToken(tok, secret)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestGetClientIDFromToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("u2", []byte("right-secret"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = GetClientIDFromToken(tok, []byte("wrong-secret"))
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestGetClientIDFromToken_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := GetClientIDFromToken("not.a.jwt", []byte("k"))
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestGetClientIDFromToken_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "c1"},
	}).SignedString(secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := GetClientIDFromToken(tok, secret); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
