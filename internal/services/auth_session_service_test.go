package services

import (
	"errors"
	"testing"
	"time"

	"github.com/vantahq/pulseboard/internal/auth"
	"github.com/vantahq/pulseboard/internal/models"
	"gorm.io/gorm"
)

type sessionUserRepositoryStub struct {
	users    map[string]models.User
	statuses map[string]string
}

func newSessionUserRepositoryStub() *sessionUserRepositoryStub {
	return &sessionUserRepositoryStub{
		users:    make(map[string]models.User),
		statuses: make(map[string]string),
	}
}

func (stub *sessionUserRepositoryStub) FindByID(userID string) (models.User, error) {
	user, ok := stub.users[userID]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (stub *sessionUserRepositoryStub) FindByNormalizedEmail(email string) (models.User, error) {
	for _, user := range stub.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (stub *sessionUserRepositoryStub) UpdateStatus(userID string, status string) error {
	stub.statuses[userID] = status
	return nil
}

func newSessionFixture(t *testing.T) (*AuthSessionService, *sessionUserRepositoryStub, *auth.TokenManager) {
	t.Helper()
	users := newSessionUserRepositoryStub()
	hash, err := auth.HashPassword("Sup3rSecret")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	users.users["user-1"] = models.User{
		ID:             "user-1",
		Email:          "worker@acme.example",
		PasswordHash:   hash,
		OrganizationID: "org-1",
		Role:           models.RoleUser,
	}
	tokens := auth.NewTokenManager("test-secret", 30*time.Minute, 24*time.Hour)
	return NewAuthSessionService(users, tokens), users, tokens
}

func TestLoginVerifiesCredentials(t *testing.T) {
	service, users, _ := newSessionFixture(t)

	if _, _, err := service.Login("nobody@acme.example", "Sup3rSecret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
	if _, _, err := service.Login("worker@acme.example", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}

	user, pair, err := service.Login("  Worker@ACME.example ", "Sup3rSecret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" || pair.TokenType != "bearer" {
		t.Fatalf("expected a bearer token pair, got %+v", pair)
	}
	if user.Status != models.UserStatusActive {
		t.Fatalf("expected active status after login, got %q", user.Status)
	}
	if users.statuses["user-1"] != models.UserStatusActive {
		t.Fatalf("expected persisted active status, got %q", users.statuses["user-1"])
	}
}

func TestLoginRejectsAccountWithoutOrganization(t *testing.T) {
	service, users, _ := newSessionFixture(t)
	orphan := users.users["user-1"]
	orphan.OrganizationID = ""
	users.users["user-1"] = orphan

	if _, _, err := service.Login("worker@acme.example", "Sup3rSecret"); !errors.Is(err, ErrAccountNeedsMigration) {
		t.Fatalf("expected ErrAccountNeedsMigration, got %v", err)
	}
}

func TestRefreshRequiresRefreshTokenType(t *testing.T) {
	service, users, tokens := newSessionFixture(t)
	user := users.users["user-1"]

	pair, err := tokens.IssuePair(&user)
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}

	if _, _, err := service.Refresh(pair.AccessToken); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for access token, got %v", err)
	}

	refreshed, newPair, err := service.Refresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if refreshed.ID != "user-1" || newPair.AccessToken == "" {
		t.Fatalf("expected fresh pair for user-1")
	}
}

func TestRefreshRejectsOrganizationMismatch(t *testing.T) {
	service, users, tokens := newSessionFixture(t)
	user := users.users["user-1"]

	pair, err := tokens.IssuePair(&user)
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}

	// Account moved to another organization after the token was minted.
	moved := users.users["user-1"]
	moved.OrganizationID = "org-2"
	users.users["user-1"] = moved

	if _, _, err := service.Refresh(pair.RefreshToken); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken on organization mismatch, got %v", err)
	}
}

func TestResolveRejectsLegacyClaims(t *testing.T) {
	service, _, _ := newSessionFixture(t)

	if _, err := service.Resolve(auth.Claims{UserID: "user-1", Legacy: true}); !errors.Is(err, ErrNeedsReauthentication) {
		t.Fatalf("expected ErrNeedsReauthentication, got %v", err)
	}
}

func TestResolveRepairsStaleStatus(t *testing.T) {
	service, users, _ := newSessionFixture(t)
	stale := users.users["user-1"]
	stale.Status = "online"
	users.users["user-1"] = stale

	user, err := service.Resolve(auth.Claims{UserID: "user-1", OrganizationID: "org-1", TokenType: auth.TokenTypeAccess})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if user.Status != models.UserStatusActive {
		t.Fatalf("expected repaired active status, got %q", user.Status)
	}
	if users.statuses["user-1"] != "" {
		t.Fatalf("repair must not write to the store, wrote %q", users.statuses["user-1"])
	}
}

func TestResolveRejectsForeignOrganizationClaim(t *testing.T) {
	service, _, _ := newSessionFixture(t)

	if _, err := service.Resolve(auth.Claims{UserID: "user-1", OrganizationID: "org-2"}); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := service.Resolve(auth.Claims{UserID: "ghost", OrganizationID: "org-1"}); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for unknown user, got %v", err)
	}
}
