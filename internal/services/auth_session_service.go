package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/vantahq/pulseboard/internal/auth"
	"github.com/vantahq/pulseboard/internal/models"
)

var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrNeedsReauthentication = errors.New("session predates organization accounts")
	ErrAccountNeedsMigration = errors.New("account has no organization")
)

type SessionUserRepository interface {
	FindByID(userID string) (models.User, error)
	FindByNormalizedEmail(email string) (models.User, error)
	UpdateStatus(userID string, status string) error
}

type AuthSessionService struct {
	users  SessionUserRepository
	tokens *auth.TokenManager
}

func NewAuthSessionService(users SessionUserRepository, tokens *auth.TokenManager) *AuthSessionService {
	return &AuthSessionService{users: users, tokens: tokens}
}

func (service *AuthSessionService) Login(email string, password string) (models.User, auth.TokenPair, error) {
	user, err := service.users.FindByNormalizedEmail(normalizeEmail(email))
	if err != nil {
		return models.User{}, auth.TokenPair{}, ErrInvalidCredentials
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		return models.User{}, auth.TokenPair{}, ErrInvalidCredentials
	}
	if user.OrganizationID == "" {
		return models.User{}, auth.TokenPair{}, ErrAccountNeedsMigration
	}

	pair, err := service.tokens.IssuePair(&user)
	if err != nil {
		return models.User{}, auth.TokenPair{}, fmt.Errorf("issue tokens: %w", err)
	}
	if err := service.users.UpdateStatus(user.ID, models.UserStatusActive); err != nil {
		log.Printf("set status for %s failed: %v", user.ID, err)
	}
	user.Status = models.UserStatusActive
	return user, pair, nil
}

func (service *AuthSessionService) Logout(user *models.User) {
	if err := service.users.UpdateStatus(user.ID, models.UserStatusOffline); err != nil {
		log.Printf("set status for %s failed: %v", user.ID, err)
	}
}

// Refresh exchanges a refresh token for a fresh pair. Legacy tokens and
// tokens whose organization no longer matches the stored account are
// rejected; the holder has to sign in again.
func (service *AuthSessionService) Refresh(refreshToken string) (models.User, auth.TokenPair, error) {
	claims, err := service.tokens.Verify(refreshToken)
	if err != nil {
		return models.User{}, auth.TokenPair{}, err
	}
	if claims.TokenType != auth.TokenTypeRefresh {
		return models.User{}, auth.TokenPair{}, auth.ErrInvalidToken
	}
	if claims.Legacy {
		return models.User{}, auth.TokenPair{}, ErrNeedsReauthentication
	}

	user, err := service.users.FindByID(claims.UserID)
	if err != nil {
		return models.User{}, auth.TokenPair{}, auth.ErrInvalidToken
	}
	if user.OrganizationID == "" {
		return models.User{}, auth.TokenPair{}, ErrAccountNeedsMigration
	}
	if user.OrganizationID != claims.OrganizationID {
		log.Printf("refresh token organization mismatch for user %s, possible replay", user.ID)
		return models.User{}, auth.TokenPair{}, auth.ErrInvalidToken
	}

	pair, err := service.tokens.IssuePair(&user)
	if err != nil {
		return models.User{}, auth.TokenPair{}, fmt.Errorf("issue tokens: %w", err)
	}
	return user, pair, nil
}

// Resolve turns verified access claims into the authenticated principal,
// applying the same organization checks on every request.
func (service *AuthSessionService) Resolve(claims auth.Claims) (models.User, error) {
	if claims.Legacy {
		return models.User{}, ErrNeedsReauthentication
	}
	user, err := service.users.FindByID(claims.UserID)
	if err != nil {
		return models.User{}, auth.ErrInvalidToken
	}
	if user.OrganizationID == "" {
		return models.User{}, ErrAccountNeedsMigration
	}
	if user.OrganizationID != claims.OrganizationID {
		log.Printf("token organization mismatch for user %s, possible replay", user.ID)
		return models.User{}, auth.ErrInvalidToken
	}

	// Stale rows written before the status values were settled still say
	// "online"; repair the view without touching the database.
	if user.Status == "online" {
		user.Status = models.UserStatusActive
	}
	if user.Status == "" {
		user.Status = models.UserStatusOffline
	}
	return user, nil
}
