package utils

import (
	"net/http/httptest"
	"testing"
	"time"

	"kalamela-backend/models"
)

func TestTokenLifecycle(t *testing.T) {
	t.Setenv("SECRET", "test-secret")
	user := models.User{ID: 7, Email: "a@unit.org", Role: models.RoleOfficial}

	t.Run("a fresh token verifies and is not expired", func(t *testing.T) {
		token, err := GenerateToken(user, time.Hour)
		if err != nil {
			t.Fatalf("generate token: %v", err)
		}

		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		userID, err := VerifyToken(r)
		if err != nil {
			t.Fatalf("verify token: %v", err)
		}
		if userID != user.ID {
			t.Errorf("user id = %d, want %d", userID, user.ID)
		}
		if IsTokenExpired(token) {
			t.Error("fresh token reported expired")
		}
	})

	t.Run("an expired token is rejected", func(t *testing.T) {
		token, err := GenerateToken(user, -time.Minute)
		if err != nil {
			t.Fatalf("generate token: %v", err)
		}
		if !IsTokenExpired(token) {
			t.Error("expired token reported usable")
		}

		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		if _, err := VerifyToken(r); err == nil {
			t.Error("expired token verified")
		}
	})

	t.Run("a malformed header is rejected", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("Authorization", "token-without-scheme")
		if _, err := VerifyToken(r); err == nil {
			t.Error("malformed header verified")
		}
	})
}
