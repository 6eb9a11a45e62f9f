package db

import (
	"github.com/vantahq/pulseboard/internal/models"
	"gorm.io/gorm"
)

type OrganizationRepository struct {
	database *gorm.DB
}

func NewOrganizationRepository(database *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{database: database}
}

func (repo *OrganizationRepository) FindByID(organizationID string) (models.Organization, error) {
	var organization models.Organization
	if err := repo.database.Where("id = ?", organizationID).First(&organization).Error; err != nil {
		return models.Organization{}, err
	}
	return organization, nil
}

func (repo *OrganizationRepository) ExistsByDomain(domain string) (bool, error) {
	var matched int64
	if err := repo.database.Model(&models.Organization{}).
		Where("domain = ?", domain).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

// Register creates the organization together with its owner account, the
// default security policy and the first audit row. Either everything
// commits or nothing does.
func (repo *OrganizationRepository) Register(
	organization *models.Organization,
	owner *models.User,
	policy *models.SecurityPolicy,
	audit *models.AuditLog,
) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(organization).Error; err != nil {
			return err
		}
		owner.OrganizationID = organization.ID
		if err := tx.Create(owner).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Organization{}).
			Where("id = ?", organization.ID).
			Updates(map[string]any{
				"owner_id":      owner.ID,
				"current_users": 1,
			}).Error; err != nil {
			return err
		}
		organization.OwnerID = owner.ID
		organization.CurrentUsers = 1
		policy.OrganizationID = organization.ID
		if err := tx.Create(policy).Error; err != nil {
			return err
		}
		audit.OrganizationID = organization.ID
		return tx.Create(audit).Error
	})
}

func (repo *OrganizationRepository) UpdateFields(organizationID string, updates map[string]any) error {
	return repo.database.Model(&models.Organization{}).
		Where("id = ?", organizationID).
		Updates(updates).Error
}

func (repo *OrganizationRepository) FindPolicy(organizationID string) (models.SecurityPolicy, error) {
	var policy models.SecurityPolicy
	if err := repo.database.Where("organization_id = ?", organizationID).First(&policy).Error; err != nil {
		return models.SecurityPolicy{}, err
	}
	return policy, nil
}

type OrganizationStats struct {
	Members      int64
	Projects     int64
	ActiveTimers int64
	TotalEntries int64
	TrackedHours float64
	OpenAlerts   int64
}

func (repo *OrganizationRepository) Stats(organizationID string) (OrganizationStats, error) {
	var stats OrganizationStats
	if err := repo.database.Model(&models.User{}).
		Where("organization_id = ?", organizationID).
		Count(&stats.Members).Error; err != nil {
		return OrganizationStats{}, err
	}
	if err := repo.database.Model(&models.Project{}).
		Where("organization_id = ?", organizationID).
		Count(&stats.Projects).Error; err != nil {
		return OrganizationStats{}, err
	}
	if err := repo.database.Model(&models.TimeEntry{}).
		Where("organization_id = ? AND end_time IS NULL", organizationID).
		Count(&stats.ActiveTimers).Error; err != nil {
		return OrganizationStats{}, err
	}
	if err := repo.database.Model(&models.TimeEntry{}).
		Where("organization_id = ?", organizationID).
		Count(&stats.TotalEntries).Error; err != nil {
		return OrganizationStats{}, err
	}
	var tracked struct {
		Total float64
	}
	if err := repo.database.Model(&models.TimeEntry{}).
		Select("COALESCE(SUM(duration_seconds), 0) / 3600.0 AS total").
		Where("organization_id = ?", organizationID).
		Scan(&tracked).Error; err != nil {
		return OrganizationStats{}, err
	}
	stats.TrackedHours = tracked.Total
	if err := repo.database.Model(&models.ProductivityAlert{}).
		Where("organization_id = ? AND resolved = ?", organizationID, false).
		Count(&stats.OpenAlerts).Error; err != nil {
		return OrganizationStats{}, err
	}
	return stats, nil
}
