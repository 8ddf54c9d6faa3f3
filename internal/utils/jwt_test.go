package utils

import (
    "testing"

    "github.com/golang-jwt/jwt/v5"
)

func TestNewAccessTokenRoundTrip(t *testing.T) {
    const secret = "test-secret"
    at, err := NewAccessToken(secret, 42, "USER", 15)
    if err != nil {
        t.Fatalf("NewAccessToken error: %v", err)
    }

    tok, err := jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        t.Fatalf("parse error: %v (valid=%v)", err, tok != nil && tok.Valid)
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        t.Fatal("claims are not MapClaims")
    }
    // numeric claims come back as float64 after JSON round-trip
    if sub, _ := claims["sub"].(float64); uint64(sub) != 42 {
        t.Errorf("sub = %v, want 42", claims["sub"])
    }
    if role, _ := claims["role"].(string); role != "USER" {
        t.Errorf("role = %v, want USER", claims["role"])
    }
}

func TestNewAccessTokenWrongSecretRejected(t *testing.T) {
    at, err := NewAccessToken("right", 1, "USER", 15)
    if err != nil {
        t.Fatalf("NewAccessToken error: %v", err)
    }
    if _, err := jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
        return []byte("wrong"), nil
    }); err == nil {
        t.Fatal("token signed with a different secret was accepted")
    }
}

func TestRefreshTokenHashIsStable(t *testing.T) {
    rt, err := NewRefreshToken(7)
    if err != nil {
        t.Fatalf("NewRefreshToken error: %v", err)
    }
    if len(rt.Raw) != 96 {
        t.Errorf("raw length = %d, want 96", len(rt.Raw))
    }
    h1 := HashRefreshRaw(rt.Raw)
    h2 := HashRefreshRaw(rt.Raw)
    if h1 != h2 {
        t.Error("hash of the same raw token differs")
    }
    if len(h1) != 64 {
        t.Errorf("hash length = %d, want 64", len(h1))
    }

    other, _ := NewRefreshToken(7)
    if HashRefreshRaw(other.Raw) == h1 {
        t.Error("distinct tokens produced the same hash")
    }
}
