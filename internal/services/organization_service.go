package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vantahq/pulseboard/internal/auth"
	"github.com/vantahq/pulseboard/internal/db"
	"github.com/vantahq/pulseboard/internal/mail"
	"github.com/vantahq/pulseboard/internal/models"
	"github.com/vantahq/pulseboard/internal/security"
)

var (
	ErrTermsNotAccepted    = errors.New("terms not accepted")
	ErrDomainTaken         = errors.New("domain already registered")
	ErrEmailTaken          = errors.New("email already registered")
	ErrSeatLimitReached    = errors.New("organization seat limit reached")
	ErrInvitationPending   = errors.New("invitation already pending")
	ErrInvitationNotFound  = errors.New("invitation not found")
	ErrInvitationExpired   = errors.New("invitation expired")
	ErrInvitationAccepted  = errors.New("invitation already accepted")
	ErrOrganizationClosed  = errors.New("organization not accepting members")
	ErrOrganizationMissing = errors.New("organization not found")
)

const invitationTokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type OrganizationRepository interface {
	FindByID(organizationID string) (models.Organization, error)
	ExistsByDomain(domain string) (bool, error)
	Register(organization *models.Organization, owner *models.User, policy *models.SecurityPolicy, audit *models.AuditLog) error
	UpdateFields(organizationID string, updates map[string]any) error
	FindPolicy(organizationID string) (models.SecurityPolicy, error)
	Stats(organizationID string) (db.OrganizationStats, error)
}

type OrganizationUserRepository interface {
	ExistsByNormalizedEmail(email string) (bool, error)
	ListByOrganization(organizationID string, role string, limit int, offset int) ([]models.User, error)
}

type OrganizationInvitationRepository interface {
	Create(invitation *models.Invitation) error
	FindByToken(token string) (models.Invitation, error)
	ExistsPendingForEmail(email string, now time.Time) (bool, error)
	ListByOrganization(organizationID string) ([]models.Invitation, error)
	AcceptWithNewMember(invitation *models.Invitation, user *models.User, acceptedAt time.Time) error
}

type AuditLogRepository interface {
	Create(entry *models.AuditLog) error
	ListByOrganization(organizationID string, limit int, offset int) ([]models.AuditLog, error)
}

type OrganizationService struct {
	organizations OrganizationRepository
	users         OrganizationUserRepository
	invitations   OrganizationInvitationRepository
	audits        AuditLogRepository
	tokens        *auth.TokenManager
	mailer        mail.Mailer
	publicURL     string
}

func NewOrganizationService(
	organizations OrganizationRepository,
	users OrganizationUserRepository,
	invitations OrganizationInvitationRepository,
	audits AuditLogRepository,
	tokens *auth.TokenManager,
	mailer mail.Mailer,
	publicURL string,
) *OrganizationService {
	return &OrganizationService{
		organizations: organizations,
		users:         users,
		invitations:   invitations,
		audits:        audits,
		tokens:        tokens,
		mailer:        mailer,
		publicURL:     publicURL,
	}
}

type RegistrationInput struct {
	OrganizationName string
	Domain           string
	Email            string
	Password         string
	FirstName        string
	LastName         string
	TermsAccepted    bool
	PrivacyAccepted  bool
}

// Register creates an organization on a 14 day trial together with its
// owner account and issues the first session token.
func (service *OrganizationService) Register(input RegistrationInput) (models.User, models.Organization, auth.TokenPair, error) {
	if !input.TermsAccepted || !input.PrivacyAccepted {
		return models.User{}, models.Organization{}, auth.TokenPair{}, ErrTermsNotAccepted
	}

	domain := strings.ToLower(strings.TrimSpace(input.Domain))
	email := normalizeEmail(input.Email)

	domainTaken, err := service.organizations.ExistsByDomain(domain)
	if err != nil {
		return models.User{}, models.Organization{}, auth.TokenPair{}, fmt.Errorf("check domain: %w", err)
	}
	if domainTaken {
		return models.User{}, models.Organization{}, auth.TokenPair{}, ErrDomainTaken
	}

	emailTaken, err := service.users.ExistsByNormalizedEmail(email)
	if err != nil {
		return models.User{}, models.Organization{}, auth.TokenPair{}, fmt.Errorf("check email: %w", err)
	}
	if emailTaken {
		return models.User{}, models.Organization{}, auth.TokenPair{}, ErrEmailTaken
	}

	if err := auth.ValidatePasswordStrength(input.Password); err != nil {
		return models.User{}, models.Organization{}, auth.TokenPair{}, err
	}
	passwordHash, err := auth.HashPassword(input.Password)
	if err != nil {
		return models.User{}, models.Organization{}, auth.TokenPair{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	trialEnd := now.Add(models.TrialPeriodDays * 24 * time.Hour)
	organization := models.Organization{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(input.OrganizationName),
		Domain:      domain,
		Plan:        models.PlanFree,
		Status:      models.OrganizationStatusTrial,
		MaxUsers:    models.DefaultMaxUsers,
		TrialEndsAt: &trialEnd,
	}
	owner := models.User{
		ID:                  uuid.NewString(),
		Email:               email,
		PasswordHash:        passwordHash,
		FirstName:           strings.TrimSpace(input.FirstName),
		LastName:            strings.TrimSpace(input.LastName),
		Role:                models.RoleAdmin,
		IsOrganizationOwner: true,
		EmailVerified:       true,
		Status:              models.UserStatusActive,
	}
	policy := models.SecurityPolicy{ID: uuid.NewString()}
	audit := models.AuditLog{
		ID:      uuid.NewString(),
		ActorID: owner.ID,
		Action:  "organization.registered",
		Details: fmt.Sprintf("organization %q registered by %s", organization.Name, email),
	}

	if err := service.organizations.Register(&organization, &owner, &policy, &audit); err != nil {
		if db.IsUniqueViolation(err) {
			return models.User{}, models.Organization{}, auth.TokenPair{}, ErrEmailTaken
		}
		return models.User{}, models.Organization{}, auth.TokenPair{}, fmt.Errorf("register organization: %w", err)
	}

	pair, err := service.tokens.IssuePair(&owner)
	if err != nil {
		return models.User{}, models.Organization{}, auth.TokenPair{}, fmt.Errorf("issue tokens: %w", err)
	}
	return owner, organization, pair, nil
}

// Invite creates a 7 day invitation for a new member. Delivery failures
// are logged, never surfaced; the invitation stays valid either way.
func (service *OrganizationService) Invite(actor *models.User, email string, role string) (models.Invitation, error) {
	email = normalizeEmail(email)
	if role == "" {
		role = models.RoleUser
	}

	organization, err := service.organizations.FindByID(actor.OrganizationID)
	if err != nil {
		return models.Invitation{}, ErrOrganizationMissing
	}
	if organization.CurrentUsers >= organization.MaxUsers {
		return models.Invitation{}, ErrSeatLimitReached
	}

	emailTaken, err := service.users.ExistsByNormalizedEmail(email)
	if err != nil {
		return models.Invitation{}, fmt.Errorf("check email: %w", err)
	}
	if emailTaken {
		return models.Invitation{}, ErrEmailTaken
	}

	now := time.Now()
	pending, err := service.invitations.ExistsPendingForEmail(email, now)
	if err != nil {
		return models.Invitation{}, fmt.Errorf("check pending invitations: %w", err)
	}
	if pending {
		return models.Invitation{}, ErrInvitationPending
	}

	token, err := security.RandomString(48, invitationTokenAlphabet)
	if err != nil {
		return models.Invitation{}, fmt.Errorf("generate invitation token: %w", err)
	}

	invitation := models.Invitation{
		ID:             uuid.NewString(),
		OrganizationID: organization.ID,
		Email:          email,
		Role:           role,
		Token:          token,
		InvitedBy:      actor.ID,
		ExpiresAt:      now.Add(models.InvitationTTL),
	}
	if err := service.invitations.Create(&invitation); err != nil {
		return models.Invitation{}, fmt.Errorf("create invitation: %w", err)
	}

	inviteLink := fmt.Sprintf("%s/accept-invite?token=%s", service.publicURL, token)
	if !service.mailer.SendInvitation(email, organization.Name, inviteLink) {
		log.Printf("invitation email to %s not delivered, token remains valid", email)
	}

	service.recordAudit(organization.ID, actor.ID, "member.invited",
		fmt.Sprintf("%s invited as %s", email, role))

	return invitation, nil
}

type AcceptInvitationInput struct {
	Token     string
	Password  string
	FirstName string
	LastName  string
}

func (service *OrganizationService) AcceptInvitation(input AcceptInvitationInput) (models.User, auth.TokenPair, error) {
	invitation, err := service.invitations.FindByToken(strings.TrimSpace(input.Token))
	if err != nil {
		return models.User{}, auth.TokenPair{}, ErrInvitationNotFound
	}

	now := time.Now()
	if invitation.Accepted {
		return models.User{}, auth.TokenPair{}, ErrInvitationAccepted
	}
	if now.After(invitation.ExpiresAt) {
		return models.User{}, auth.TokenPair{}, ErrInvitationExpired
	}

	organization, err := service.organizations.FindByID(invitation.OrganizationID)
	if err != nil {
		return models.User{}, auth.TokenPair{}, ErrOrganizationMissing
	}
	if !organization.AcceptsMembers() {
		return models.User{}, auth.TokenPair{}, ErrOrganizationClosed
	}

	emailTaken, err := service.users.ExistsByNormalizedEmail(invitation.Email)
	if err != nil {
		return models.User{}, auth.TokenPair{}, fmt.Errorf("check email: %w", err)
	}
	if emailTaken {
		return models.User{}, auth.TokenPair{}, ErrEmailTaken
	}

	if err := auth.ValidatePasswordStrength(input.Password); err != nil {
		return models.User{}, auth.TokenPair{}, err
	}
	passwordHash, err := auth.HashPassword(input.Password)
	if err != nil {
		return models.User{}, auth.TokenPair{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:            uuid.NewString(),
		Email:         invitation.Email,
		PasswordHash:  passwordHash,
		FirstName:     strings.TrimSpace(input.FirstName),
		LastName:      strings.TrimSpace(input.LastName),
		Role:          invitation.Role,
		EmailVerified: true,
		Status:        models.UserStatusActive,
	}
	if err := service.invitations.AcceptWithNewMember(&invitation, &user, now); err != nil {
		if errors.Is(err, db.ErrSeatsExhausted) {
			return models.User{}, auth.TokenPair{}, ErrSeatLimitReached
		}
		if db.IsUniqueViolation(err) {
			return models.User{}, auth.TokenPair{}, ErrEmailTaken
		}
		return models.User{}, auth.TokenPair{}, fmt.Errorf("accept invitation: %w", err)
	}

	service.recordAudit(invitation.OrganizationID, user.ID, "member.joined",
		fmt.Sprintf("%s accepted invitation", user.Email))

	pair, err := service.tokens.IssuePair(&user)
	if err != nil {
		return models.User{}, auth.TokenPair{}, fmt.Errorf("issue tokens: %w", err)
	}
	return user, pair, nil
}

type InvitationView struct {
	models.Invitation
	ComputedStatus string
}

func (service *OrganizationService) ListInvitations(organizationID string) ([]InvitationView, error) {
	invitations, err := service.invitations.ListByOrganization(organizationID)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	now := time.Now()
	views := make([]InvitationView, 0, len(invitations))
	for _, invitation := range invitations {
		views = append(views, InvitationView{
			Invitation:     invitation,
			ComputedStatus: invitation.Status(now),
		})
	}
	return views, nil
}

func (service *OrganizationService) Get(organizationID string) (models.Organization, error) {
	return service.organizations.FindByID(organizationID)
}

func (service *OrganizationService) Policy(organizationID string) (models.SecurityPolicy, error) {
	return service.organizations.FindPolicy(organizationID)
}

func (service *OrganizationService) Update(organizationID string, name string, maxUsers int) (models.Organization, error) {
	updates := map[string]any{}
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		updates["name"] = trimmed
	}
	if maxUsers > 0 {
		updates["max_users"] = maxUsers
	}
	if len(updates) > 0 {
		if err := service.organizations.UpdateFields(organizationID, updates); err != nil {
			return models.Organization{}, fmt.Errorf("update organization: %w", err)
		}
	}
	return service.organizations.FindByID(organizationID)
}

func (service *OrganizationService) Stats(organizationID string) (db.OrganizationStats, error) {
	return service.organizations.Stats(organizationID)
}

func (service *OrganizationService) AuditLog(organizationID string, limit int, offset int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return service.audits.ListByOrganization(organizationID, limit, offset)
}

func (service *OrganizationService) recordAudit(organizationID string, actorID string, action string, details string) {
	entry := models.AuditLog{
		ID:             uuid.NewString(),
		OrganizationID: organizationID,
		ActorID:        actorID,
		Action:         action,
		Details:        details,
	}
	if err := service.audits.Create(&entry); err != nil {
		log.Printf("audit write failed (%s): %v", action, err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
