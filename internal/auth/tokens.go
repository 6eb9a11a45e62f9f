package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vantahq/pulseboard/internal/models"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)

type sessionClaims struct {
	UserID         string `json:"user_id,omitempty"`
	OrganizationID string `json:"org_id,omitempty"`
	TokenType      string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// Claims is the verified content of a session token. Tokens minted before
// organizations existed carry only a user id; those come back with Legacy
// set and an empty OrganizationID.
type Claims struct {
	UserID         string
	OrganizationID string
	Subject        string
	TokenType      string
	Legacy         bool
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type TokenManager struct {
	secretKey  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenManager(secretKey string, accessTTL time.Duration, refreshTTL time.Duration) *TokenManager {
	if accessTTL <= 0 {
		accessTTL = 30 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenManager{
		secretKey:  []byte(secretKey),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (manager *TokenManager) IssueAccessToken(user *models.User) (string, error) {
	return manager.sign(user, TokenTypeAccess, manager.accessTTL)
}

func (manager *TokenManager) IssuePair(user *models.User) (TokenPair, error) {
	access, err := manager.sign(user, TokenTypeAccess, manager.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := manager.sign(user, TokenTypeRefresh, manager.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(manager.accessTTL.Seconds()),
	}, nil
}

func (manager *TokenManager) sign(user *models.User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
		TokenType:      tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(manager.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and classifies a token. A parsable token without an
// organization claim is a legacy session, not an error; callers decide
// how to treat it.
func (manager *TokenManager) Verify(rawToken string) (Claims, error) {
	parsed := &sessionClaims{}
	token, err := jwt.ParseWithClaims(rawToken, parsed, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return manager.secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpiredToken
		}
		return Claims{}, ErrInvalidToken
	}
	if !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	if parsed.ExpiresAt == nil || parsed.ExpiresAt.Time.Before(time.Now()) {
		return Claims{}, ErrExpiredToken
	}
	if parsed.UserID == "" {
		return Claims{}, ErrInvalidToken
	}

	tokenType := parsed.TokenType
	if tokenType == "" {
		tokenType = TokenTypeAccess
	}
	return Claims{
		UserID:         parsed.UserID,
		OrganizationID: parsed.OrganizationID,
		Subject:        parsed.Subject,
		TokenType:      tokenType,
		Legacy:         parsed.OrganizationID == "",
	}, nil
}
