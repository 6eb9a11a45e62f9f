package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vantahq/pulseboard/internal/db"
	"github.com/vantahq/pulseboard/internal/models"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrForbiddenRole  = errors.New("role change not allowed")
	ErrOwnerProtected = errors.New("owner account protected")
	ErrSelfRemoval    = errors.New("cannot remove own account")
	ErrNotPermitted   = errors.New("not permitted")
)

type UserRepository interface {
	FindByIDInOrganization(userID string, organizationID string) (models.User, error)
	ListByOrganization(organizationID string, role string, limit int, offset int) ([]models.User, error)
	TeamStatsByOrganization(organizationID string) (db.TeamStats, error)
	UpdateInOrganization(userID string, organizationID string, updates map[string]any) error
	DeleteInOrganization(userID string, organizationID string) error
}

type UserService struct {
	users UserRepository
}

func NewUserService(users UserRepository) *UserService {
	return &UserService{users: users}
}

func (service *UserService) List(organizationID string, role string, limit int, offset int) ([]models.User, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return service.users.ListByOrganization(organizationID, role, limit, offset)
}

// Get resolves a member inside the caller's organization. A user from
// another tenant comes back as not found, never as forbidden.
func (service *UserService) Get(userID string, organizationID string) (models.User, error) {
	user, err := service.users.FindByIDInOrganization(userID, organizationID)
	if err != nil {
		return models.User{}, ErrUserNotFound
	}
	return user, nil
}

func (service *UserService) TeamStats(organizationID string) (db.TeamStats, error) {
	stats, err := service.users.TeamStatsByOrganization(organizationID)
	if err != nil {
		return db.TeamStats{}, fmt.Errorf("team stats: %w", err)
	}
	return stats, nil
}

type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Status    *string
}

// UpdateSelf accepts only profile fields. Role, organization and owner
// flags never come from the client.
func (service *UserService) UpdateSelf(user *models.User, update ProfileUpdate) (models.User, error) {
	updates := map[string]any{}
	if update.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*update.FirstName)
	}
	if update.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*update.LastName)
	}
	if update.Status != nil {
		if status := *update.Status; status == models.UserStatusActive ||
			status == models.UserStatusIdle || status == models.UserStatusOffline {
			updates["status"] = status
		}
	}
	if len(updates) > 0 {
		if err := service.users.UpdateInOrganization(user.ID, user.OrganizationID, updates); err != nil {
			return models.User{}, fmt.Errorf("update profile: %w", err)
		}
	}
	return service.Get(user.ID, user.OrganizationID)
}

type MemberUpdate struct {
	FirstName *string
	LastName  *string
	Role      *string
}

func (service *UserService) UpdateMember(actor *models.User, userID string, update MemberUpdate) (models.User, error) {
	if !actor.CanManageMembers() {
		return models.User{}, ErrNotPermitted
	}
	target, err := service.users.FindByIDInOrganization(userID, actor.OrganizationID)
	if err != nil {
		return models.User{}, ErrUserNotFound
	}
	if target.IsOrganizationOwner && !actor.IsOrganizationOwner {
		return models.User{}, ErrOwnerProtected
	}

	updates := map[string]any{}
	if update.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*update.FirstName)
	}
	if update.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*update.LastName)
	}
	if update.Role != nil {
		role := *update.Role
		if role != models.RoleAdmin && role != models.RoleManager && role != models.RoleUser {
			return models.User{}, ErrForbiddenRole
		}
		// Only the owner hands out admin.
		if role == models.RoleAdmin && !actor.IsOrganizationOwner {
			return models.User{}, ErrForbiddenRole
		}
		updates["role"] = role
	}
	if len(updates) > 0 {
		if err := service.users.UpdateInOrganization(target.ID, actor.OrganizationID, updates); err != nil {
			return models.User{}, fmt.Errorf("update member: %w", err)
		}
	}
	return service.Get(target.ID, actor.OrganizationID)
}

func (service *UserService) RemoveMember(actor *models.User, userID string) error {
	if !actor.CanManageMembers() {
		return ErrNotPermitted
	}
	if actor.ID == userID {
		return ErrSelfRemoval
	}
	target, err := service.users.FindByIDInOrganization(userID, actor.OrganizationID)
	if err != nil {
		return ErrUserNotFound
	}
	if target.IsOrganizationOwner {
		return ErrOwnerProtected
	}
	if err := service.users.DeleteInOrganization(target.ID, actor.OrganizationID); err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	return nil
}
