package jwt

import (
	"errors"
	"testing"
	"time"

	"lexlink/internal/entity"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	mgr := NewJWTManager("test-secret", 15*time.Minute, 24*time.Hour)

	user := entity.User{
		Id:       "user-1",
		Email:    "a@example.com",
		Username: "alice",
		Role:     entity.RoleLawyer,
	}

	token, err := mgr.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := mgr.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.UserId != user.Id || claims.Username != user.Username || claims.Role != user.Role {
		t.Fatalf("claims = %+v, want fields of %+v", claims, user)
	}
}

func TestAccessToken_Expired(t *testing.T) {
	mgr := NewJWTManager("test-secret", -time.Minute, 24*time.Hour)

	token, err := mgr.GenerateAccessToken(entity.User{Id: "user-1"})
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := mgr.ValidateAccessToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("err = %v, want ErrExpiredToken", err)
	}
}

func TestAccessToken_WrongSecret(t *testing.T) {
	token, err := NewJWTManager("secret-a", time.Minute, time.Hour).
		GenerateAccessToken(entity.User{Id: "user-1"})
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := NewJWTManager("secret-b", time.Minute, time.Hour).ValidateAccessToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestRefreshToken_Unique(t *testing.T) {
	mgr := NewJWTManager("test-secret", time.Minute, time.Hour)

	a, err := mgr.GenerateRefreshToken()
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	b, err := mgr.GenerateRefreshToken()
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	if a == b {
		t.Fatalf("refresh tokens collided")
	}
}
