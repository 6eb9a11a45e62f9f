package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/vantahq/pulseboard/internal/auth"
	"github.com/vantahq/pulseboard/internal/mail"
	"github.com/vantahq/pulseboard/internal/models"
	"github.com/vantahq/pulseboard/internal/security"
)

var ErrResetTokenInvalid = errors.New("reset token invalid")

type PasswordResetRepository interface {
	CreateInvalidatingPrevious(token *models.PasswordResetToken, now time.Time) error
	FindByToken(token string) (models.PasswordResetToken, error)
	MarkUsed(tokenID string, usedAt time.Time) error
}

type ResetUserRepository interface {
	FindByNormalizedEmail(email string) (models.User, error)
	UpdateInOrganization(userID string, organizationID string, updates map[string]any) error
}

type PasswordResetService struct {
	resets    PasswordResetRepository
	users     ResetUserRepository
	mailer    mail.Mailer
	publicURL string
}

func NewPasswordResetService(resets PasswordResetRepository, users ResetUserRepository, mailer mail.Mailer, publicURL string) *PasswordResetService {
	return &PasswordResetService{resets: resets, users: users, mailer: mailer, publicURL: publicURL}
}

// RequestReset never tells the caller whether the email exists. A new
// token invalidates any earlier unused ones for the same address.
func (service *PasswordResetService) RequestReset(email string) error {
	email = normalizeEmail(email)

	user, err := service.users.FindByNormalizedEmail(email)
	if err != nil {
		// Unknown address: respond identically, send nothing.
		return nil
	}

	tokenValue, err := security.RandomString(48, invitationTokenAlphabet)
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	now := time.Now()
	token := models.PasswordResetToken{
		ID:             uuid.NewString(),
		Email:          email,
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
		Token:          tokenValue,
		ExpiresAt:      now.Add(models.PasswordResetTTL),
	}
	if err := service.resets.CreateInvalidatingPrevious(&token, now); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", service.publicURL, tokenValue)
	if !service.mailer.SendPasswordReset(email, resetLink) {
		log.Printf("password reset email to %s not delivered", email)
	}
	return nil
}

// ResetPassword consumes a token exactly once. The stored organization
// binding has to match the user's current organization, so a token
// minted before a membership change cannot move the account.
func (service *PasswordResetService) ResetPassword(tokenValue string, newPassword string) error {
	record, err := service.resets.FindByToken(tokenValue)
	if err != nil {
		return ErrResetTokenInvalid
	}
	now := time.Now()
	if !record.Usable(now) {
		return ErrResetTokenInvalid
	}

	user, err := service.users.FindByNormalizedEmail(record.Email)
	if err != nil {
		return ErrResetTokenInvalid
	}
	if user.ID != record.UserID || user.OrganizationID != record.OrganizationID {
		return ErrResetTokenInvalid
	}

	if err := auth.ValidatePasswordStrength(newPassword); err != nil {
		return err
	}
	passwordHash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := service.users.UpdateInOrganization(user.ID, user.OrganizationID, map[string]any{
		"password_hash": passwordHash,
	}); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if err := service.resets.MarkUsed(record.ID, now); err != nil {
		return fmt.Errorf("mark token used: %w", err)
	}
	return nil
}
