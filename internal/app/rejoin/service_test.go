package rejoin

import (
	"fmt"
	"testing"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewService("test-secret", "ledgerweight", time.Hour)

	tokenString, err := svc.Generate("user-1", "game-abc")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	claims, err := svc.Validate(tokenString)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("UserID = %s, want user-1", claims.UserID)
	}
	if claims.GameID != "game-abc" {
		t.Fatalf("GameID = %s, want game-abc", claims.GameID)
	}
}

func TestGenerateSignsExpectedClaims(t *testing.T) {
	secret := "test-secret"
	svc := NewService(secret, "ledgerweight", time.Hour)

	tokenString, err := svc.Generate("user-1", "game-abc")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		t.Fatalf("parse token error: %v", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("claims are not map claims")
	}
	if got, _ := claims["iss"].(string); got != "ledgerweight" {
		t.Fatalf("iss = %s, want ledgerweight", got)
	}
	if got, _ := claims["sub"].(string); got != "user-1" {
		t.Fatalf("sub = %s, want user-1", got)
	}
	if got, _ := claims["gid"].(string); got != "game-abc" {
		t.Fatalf("gid = %s, want game-abc", got)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	issued := NewService("secret-a", "ledgerweight", time.Hour)
	tokenString, err := issued.Generate("user-1", "game-abc")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	verifier := NewService("secret-b", "ledgerweight", time.Hour)
	if _, err := verifier.Validate(tokenString); err == nil {
		t.Fatal("expected error for token signed with another secret")
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := NewService("test-secret", "ledgerweight", time.Hour)
	svc.ttl = -time.Minute

	tokenString, err := svc.Generate("user-1", "game-abc")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if _, err := svc.Validate(tokenString); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestValidateRejectsWrongIssuer(t *testing.T) {
	issued := NewService("test-secret", "someone-else", time.Hour)
	tokenString, err := issued.Generate("user-1", "game-abc")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	verifier := NewService("test-secret", "ledgerweight", time.Hour)
	if _, err := verifier.Validate(tokenString); err == nil {
		t.Fatal("expected error for token from another issuer")
	}
}

func TestGenerateRequiresConfig(t *testing.T) {
	svc := NewService("", "ledgerweight", time.Hour)
	if _, err := svc.Generate("user-1", "game-abc"); err == nil {
		t.Fatal("expected error for missing secret")
	}
}

func TestGenerateRequiresSeat(t *testing.T) {
	svc := NewService("test-secret", "ledgerweight", time.Hour)
	if _, err := svc.Generate("", "game-abc"); err == nil {
		t.Fatal("expected error for empty user id")
	}
	if _, err := svc.Generate("user-1", ""); err == nil {
		t.Fatal("expected error for empty game id")
	}
}
