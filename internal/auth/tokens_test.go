package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/vantahq/pulseboard/internal/models"
)

func testUser() *models.User {
	return &models.User{
		ID:             "user-1",
		Email:          "worker@acme.example",
		OrganizationID: "org-1",
	}
}

func TestIssuePairRoundTrip(t *testing.T) {
	manager := NewTokenManager("test-secret", 30*time.Minute, 24*time.Hour)

	pair, err := manager.IssuePair(testUser())
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}
	if pair.TokenType != "bearer" || pair.ExpiresIn != int64((30*time.Minute).Seconds()) {
		t.Fatalf("unexpected pair metadata: %+v", pair)
	}

	access, err := manager.Verify(pair.AccessToken)
	if err != nil {
		t.Fatalf("verify access: %v", err)
	}
	if access.UserID != "user-1" || access.OrganizationID != "org-1" || access.TokenType != TokenTypeAccess {
		t.Fatalf("unexpected access claims: %+v", access)
	}
	if access.Legacy {
		t.Fatalf("token with organization claim must not be legacy")
	}
	if access.Subject != "worker@acme.example" {
		t.Fatalf("expected email subject, got %q", access.Subject)
	}

	refresh, err := manager.Verify(pair.RefreshToken)
	if err != nil {
		t.Fatalf("verify refresh: %v", err)
	}
	if refresh.TokenType != TokenTypeRefresh {
		t.Fatalf("expected refresh type, got %q", refresh.TokenType)
	}
}

func TestVerifyDetectsLegacyTokens(t *testing.T) {
	manager := NewTokenManager("test-secret", 30*time.Minute, 24*time.Hour)

	orphan := testUser()
	orphan.OrganizationID = ""
	token, err := manager.IssueAccessToken(orphan)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	claims, err := manager.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !claims.Legacy || claims.OrganizationID != "" {
		t.Fatalf("expected legacy claims, got %+v", claims)
	}
}

func TestVerifyRejectsForgedAndExpiredTokens(t *testing.T) {
	manager := NewTokenManager("test-secret", 30*time.Minute, 24*time.Hour)
	forger := NewTokenManager("other-secret", 30*time.Minute, 24*time.Hour)

	forged, err := forger.IssueAccessToken(testUser())
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := manager.Verify(forged); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign signature, got %v", err)
	}

	if _, err := manager.Verify("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}

	shortLived := NewTokenManager("test-secret", time.Nanosecond, time.Nanosecond)
	stale, err := shortLived.IssueAccessToken(testUser())
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := shortLived.Verify(stale); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestNewTokenManagerAppliesDefaultTTLs(t *testing.T) {
	manager := NewTokenManager("test-secret", 0, 0)

	pair, err := manager.IssuePair(testUser())
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}
	if pair.ExpiresIn != int64((30 * time.Minute).Seconds()) {
		t.Fatalf("expected default access TTL, got %d", pair.ExpiresIn)
	}
}
