package auth

import (
	"testing"
	"time"
)

func TestGenerateParseRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	token, err := tm.Generate("65f0c1d2e3a4b5c6d7e8f901", "alice")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := tm.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "65f0c1d2e3a4b5c6d7e8f901" {
		t.Errorf("user id = %q", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Errorf("username = %q", claims.Username)
	}
}

func TestParseExpiredToken(t *testing.T) {
	tm := NewTokenManager("test-secret", -time.Minute)
	token, err := tm.Generate("id", "alice")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := tm.Parse(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestParseWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Hour).Generate("id", "alice")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := NewTokenManager("secret-b", time.Hour).Parse(token); err == nil {
		t.Fatal("expected signature mismatch to be rejected")
	}
}

func TestParseGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := tm.Parse(tok); err == nil {
			t.Errorf("parse(%q) accepted", tok)
		}
	}
}
