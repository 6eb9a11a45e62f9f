package db

import (
	"time"

	"github.com/vantahq/pulseboard/internal/models"
	"gorm.io/gorm"
)

type ProductivityRepository struct {
	database *gorm.DB
}

func NewProductivityRepository(database *gorm.DB) *ProductivityRepository {
	return &ProductivityRepository{database: database}
}

func (repo *ProductivityRepository) CreateSnapshot(snapshot *models.RealTimeActivity) error {
	return repo.database.Create(snapshot).Error
}

func (repo *ProductivityRepository) ListSnapshotsSince(userID string, organizationID string, since time.Time) ([]models.RealTimeActivity, error) {
	snapshots := make([]models.RealTimeActivity, 0)
	if err := repo.database.
		Where("user_id = ? AND organization_id = ? AND recorded_at >= ?", userID, organizationID, since).
		Order("recorded_at ASC").
		Find(&snapshots).Error; err != nil {
		return nil, err
	}
	return snapshots, nil
}

func (repo *ProductivityRepository) CreateAlert(alert *models.ProductivityAlert) error {
	return repo.database.Create(alert).Error
}

func (repo *ProductivityRepository) HasUnresolvedAlert(userID string, organizationID string, alertType string) (bool, error) {
	var matched int64
	if err := repo.database.Model(&models.ProductivityAlert{}).
		Where("user_id = ? AND organization_id = ? AND alert_type = ? AND resolved = ?",
			userID, organizationID, alertType, false).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *ProductivityRepository) ListAlerts(organizationID string, onlyUnresolved bool, limit int, offset int) ([]models.ProductivityAlert, error) {
	query := repo.database.Where("organization_id = ?", organizationID)
	if onlyUnresolved {
		query = query.Where("resolved = ?", false)
	}
	alerts := make([]models.ProductivityAlert, 0)
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

func (repo *ProductivityRepository) ResolveAlert(alertID string, organizationID string, resolverID string, resolvedAt time.Time) error {
	result := repo.database.Model(&models.ProductivityAlert{}).
		Where("id = ? AND organization_id = ?", alertID, organizationID).
		Updates(map[string]any{
			"resolved":    true,
			"resolved_by": resolverID,
			"resolved_at": resolvedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (repo *ProductivityRepository) CreateGoal(goal *models.ProductivityGoal) error {
	return repo.database.Create(goal).Error
}

func (repo *ProductivityRepository) ListGoals(userID string, organizationID string) ([]models.ProductivityGoal, error) {
	goals := make([]models.ProductivityGoal, 0)
	if err := repo.database.
		Where("user_id = ? AND organization_id = ?", userID, organizationID).
		Order("created_at DESC").
		Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

func (repo *ProductivityRepository) UpdateGoal(goalID string, userID string, organizationID string, updates map[string]any) error {
	result := repo.database.Model(&models.ProductivityGoal{}).
		Where("id = ? AND user_id = ? AND organization_id = ?", goalID, userID, organizationID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (repo *ProductivityRepository) DeleteGoal(goalID string, userID string, organizationID string) error {
	result := repo.database.
		Where("id = ? AND user_id = ? AND organization_id = ?", goalID, userID, organizationID).
		Delete(&models.ProductivityGoal{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
