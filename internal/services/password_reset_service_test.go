package services

import (
	"errors"
	"testing"
	"time"

	"github.com/vantahq/pulseboard/internal/auth"
	"github.com/vantahq/pulseboard/internal/models"
	"gorm.io/gorm"
)

type passwordResetRepositoryStub struct {
	tokens map[string]models.PasswordResetToken
}

func newPasswordResetRepositoryStub() *passwordResetRepositoryStub {
	return &passwordResetRepositoryStub{tokens: make(map[string]models.PasswordResetToken)}
}

func (stub *passwordResetRepositoryStub) CreateInvalidatingPrevious(token *models.PasswordResetToken, now time.Time) error {
	for key, previous := range stub.tokens {
		if previous.Email == token.Email && !previous.Used {
			previous.Used = true
			previous.UsedAt = &now
			stub.tokens[key] = previous
		}
	}
	stub.tokens[token.Token] = *token
	return nil
}

func (stub *passwordResetRepositoryStub) FindByToken(token string) (models.PasswordResetToken, error) {
	record, ok := stub.tokens[token]
	if !ok {
		return models.PasswordResetToken{}, gorm.ErrRecordNotFound
	}
	return record, nil
}

func (stub *passwordResetRepositoryStub) MarkUsed(tokenID string, usedAt time.Time) error {
	for key, record := range stub.tokens {
		if record.ID == tokenID {
			record.Used = true
			record.UsedAt = &usedAt
			stub.tokens[key] = record
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type resetUserRepositoryStub struct {
	users   map[string]models.User
	updates map[string]map[string]any
}

func newResetUserRepositoryStub() *resetUserRepositoryStub {
	return &resetUserRepositoryStub{
		users:   make(map[string]models.User),
		updates: make(map[string]map[string]any),
	}
}

func (stub *resetUserRepositoryStub) FindByNormalizedEmail(email string) (models.User, error) {
	for _, user := range stub.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (stub *resetUserRepositoryStub) UpdateInOrganization(userID string, organizationID string, updates map[string]any) error {
	user, ok := stub.users[userID]
	if !ok || user.OrganizationID != organizationID {
		return gorm.ErrRecordNotFound
	}
	stub.updates[userID] = updates
	return nil
}

func newResetFixture() (*PasswordResetService, *passwordResetRepositoryStub, *resetUserRepositoryStub, *mailerStub) {
	resets := newPasswordResetRepositoryStub()
	users := newResetUserRepositoryStub()
	users.users["user-1"] = models.User{
		ID:             "user-1",
		Email:          "worker@acme.example",
		OrganizationID: "org-1",
	}
	mailer := &mailerStub{}
	service := NewPasswordResetService(resets, users, mailer, "http://localhost:3000")
	return service, resets, users, mailer
}

func TestRequestResetIsSilentForUnknownEmail(t *testing.T) {
	service, resets, _, mailer := newResetFixture()

	if err := service.RequestReset("nobody@acme.example"); err != nil {
		t.Fatalf("expected silent success, got %v", err)
	}
	if len(resets.tokens) != 0 {
		t.Fatalf("expected no token for unknown address, got %d", len(resets.tokens))
	}
	if len(mailer.resets) != 0 {
		t.Fatalf("expected no mail for unknown address, got %d", len(mailer.resets))
	}
}

func TestRequestResetInvalidatesPreviousTokens(t *testing.T) {
	service, resets, _, mailer := newResetFixture()

	if err := service.RequestReset("Worker@Acme.Example"); err != nil {
		t.Fatalf("first request failed: %v", err)
	}
	if err := service.RequestReset("worker@acme.example"); err != nil {
		t.Fatalf("second request failed: %v", err)
	}

	usable := 0
	now := time.Now()
	for _, record := range resets.tokens {
		if record.Usable(now) {
			usable++
		}
	}
	if usable != 1 {
		t.Fatalf("expected exactly one usable token, got %d", usable)
	}
	if len(mailer.resets) != 2 {
		t.Fatalf("expected two reset mails, got %d", len(mailer.resets))
	}
}

func TestResetPasswordConsumesTokenOnce(t *testing.T) {
	service, resets, users, _ := newResetFixture()

	if err := service.RequestReset("worker@acme.example"); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var tokenValue string
	for value := range resets.tokens {
		tokenValue = value
	}

	if err := service.ResetPassword(tokenValue, "N3wSecret"); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if _, ok := users.updates["user-1"]["password_hash"]; !ok {
		t.Fatalf("expected password hash update for user-1")
	}

	if err := service.ResetPassword(tokenValue, "N3wSecret"); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid on reuse, got %v", err)
	}
}

func TestResetPasswordRejectsExpiredToken(t *testing.T) {
	service, resets, _, _ := newResetFixture()

	resets.tokens["stale"] = models.PasswordResetToken{
		ID:             "token-1",
		Email:          "worker@acme.example",
		UserID:         "user-1",
		OrganizationID: "org-1",
		Token:          "stale",
		ExpiresAt:      time.Now().Add(-time.Minute),
	}
	if err := service.ResetPassword("stale", "N3wSecret"); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid for expired token, got %v", err)
	}
}

func TestResetPasswordRejectsStaleOrganizationBinding(t *testing.T) {
	service, resets, users, _ := newResetFixture()

	resets.tokens["moved"] = models.PasswordResetToken{
		ID:             "token-1",
		Email:          "worker@acme.example",
		UserID:         "user-1",
		OrganizationID: "org-1",
		Token:          "moved",
		ExpiresAt:      time.Now().Add(time.Hour),
	}

	// The account changed organization after the token was minted.
	moved := users.users["user-1"]
	moved.OrganizationID = "org-2"
	users.users["user-1"] = moved

	if err := service.ResetPassword("moved", "N3wSecret"); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid on organization mismatch, got %v", err)
	}
}

func TestResetPasswordRejectsWeakReplacement(t *testing.T) {
	service, resets, _, _ := newResetFixture()

	resets.tokens["good"] = models.PasswordResetToken{
		ID:             "token-1",
		Email:          "worker@acme.example",
		UserID:         "user-1",
		OrganizationID: "org-1",
		Token:          "good",
		ExpiresAt:      time.Now().Add(time.Hour),
	}
	if err := service.ResetPassword("good", "weak"); !errors.Is(err, auth.ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}
