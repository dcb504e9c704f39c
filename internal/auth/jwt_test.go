package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/shreyanshchaubey/ExpenseX/internal/models"
)

func TestJWTManager(t *testing.T) {
	user := &models.User{ID: "user-1", Email: "alice@example.com"}

	t.Run("round trip", func(t *testing.T) {
		m := NewJWTManager("test-secret", time.Hour)
		token, err := m.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		claims, err := m.Validate(token)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if claims.UserID != user.ID || claims.Email != user.Email {
			t.Errorf("claims = %+v", claims)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewJWTManager("secret-a", time.Hour).Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		_, err = NewJWTManager("secret-b", time.Hour).Validate(token)
		if !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		m := NewJWTManager("test-secret", time.Minute)
		issued := time.Now().Add(-time.Hour)
		m.now = func() time.Time { return issued }
		token, err := m.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		m.now = time.Now
		if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		m := NewJWTManager("test-secret", time.Hour)
		if _, err := m.Validate("not-a-token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})
}
