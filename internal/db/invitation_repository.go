package db

import (
	"errors"
	"time"

	"github.com/vantahq/pulseboard/internal/models"
	"gorm.io/gorm"
)

// ErrSeatsExhausted reports that the organization filled its last seat
// between the invite being sent and being accepted.
var ErrSeatsExhausted = errors.New("organization seats exhausted")

type InvitationRepository struct {
	database *gorm.DB
}

func NewInvitationRepository(database *gorm.DB) *InvitationRepository {
	return &InvitationRepository{database: database}
}

func (repo *InvitationRepository) Create(invitation *models.Invitation) error {
	return repo.database.Create(invitation).Error
}

func (repo *InvitationRepository) FindByToken(token string) (models.Invitation, error) {
	var invitation models.Invitation
	if err := repo.database.Where("token = ?", token).First(&invitation).Error; err != nil {
		return models.Invitation{}, err
	}
	return invitation, nil
}

func (repo *InvitationRepository) ExistsPendingForEmail(email string, now time.Time) (bool, error) {
	var matched int64
	if err := repo.database.Model(&models.Invitation{}).
		Where("lower(trim(email)) = ? AND accepted = ? AND expires_at > ?", email, false, now).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *InvitationRepository) ListByOrganization(organizationID string) ([]models.Invitation, error) {
	invitations := make([]models.Invitation, 0)
	if err := repo.database.
		Where("organization_id = ?", organizationID).
		Order("created_at DESC").
		Find(&invitations).Error; err != nil {
		return nil, err
	}
	return invitations, nil
}

// AcceptWithNewMember creates the invited user, claims a seat and marks
// the invitation accepted in one transaction. The counter update is
// conditional on a free seat, so concurrent accepts cannot overshoot
// the plan limit.
func (repo *InvitationRepository) AcceptWithNewMember(invitation *models.Invitation, user *models.User, acceptedAt time.Time) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		user.OrganizationID = invitation.OrganizationID
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		seat := tx.Model(&models.Organization{}).
			Where("id = ? AND current_users < max_users", invitation.OrganizationID).
			Update("current_users", gorm.Expr("current_users + 1"))
		if seat.Error != nil {
			return seat.Error
		}
		if seat.RowsAffected == 0 {
			return ErrSeatsExhausted
		}
		return tx.Model(&models.Invitation{}).
			Where("id = ?", invitation.ID).
			Updates(map[string]any{
				"accepted":    true,
				"accepted_at": acceptedAt,
			}).Error
	})
}
