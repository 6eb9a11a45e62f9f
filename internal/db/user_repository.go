package db

import (
	"github.com/vantahq/pulseboard/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

// FindByID looks a user up without an organization filter. The auth
// middleware needs the stored record to compare against token claims.
func (repo *UserRepository) FindByID(userID string) (models.User, error) {
	var user models.User
	if err := repo.database.Where("id = ?", userID).First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) FindByIDInOrganization(userID string, organizationID string) (models.User, error) {
	var user models.User
	if err := repo.database.
		Where("id = ? AND organization_id = ?", userID, organizationID).
		First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) FindByNormalizedEmail(email string) (models.User, error) {
	var user models.User
	if err := repo.database.Where("lower(trim(email)) = ?", email).First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) ExistsByNormalizedEmail(email string) (bool, error) {
	var matched int64
	if err := repo.database.Model(&models.User{}).
		Where("lower(trim(email)) = ?", email).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *UserRepository) Create(user *models.User) error {
	return repo.database.Create(user).Error
}

func (repo *UserRepository) Save(user *models.User) error {
	return repo.database.Save(user).Error
}

func (repo *UserRepository) ListByOrganization(organizationID string, role string, limit int, offset int) ([]models.User, error) {
	query := repo.database.Where("organization_id = ?", organizationID)
	if role != "" {
		query = query.Where("role = ?", role)
	}
	users := make([]models.User, 0)
	if err := query.Order("created_at ASC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (repo *UserRepository) CountByOrganization(organizationID string) (int64, error) {
	var count int64
	if err := repo.database.Model(&models.User{}).
		Where("organization_id = ?", organizationID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// TeamStats summarizes an organization's member roster.
type TeamStats struct {
	TotalMembers  int64
	ActiveMembers int64
	RoleCounts    map[string]int64
}

func (repo *UserRepository) TeamStatsByOrganization(organizationID string) (TeamStats, error) {
	stats := TeamStats{RoleCounts: make(map[string]int64)}
	if err := repo.database.Model(&models.User{}).
		Where("organization_id = ?", organizationID).
		Count(&stats.TotalMembers).Error; err != nil {
		return TeamStats{}, err
	}
	if err := repo.database.Model(&models.User{}).
		Where("organization_id = ? AND status = ?", organizationID, models.UserStatusActive).
		Count(&stats.ActiveMembers).Error; err != nil {
		return TeamStats{}, err
	}
	var rows []struct {
		Role  string
		Count int64
	}
	if err := repo.database.Model(&models.User{}).
		Select("role, COUNT(*) as count").
		Where("organization_id = ?", organizationID).
		Group("role").
		Scan(&rows).Error; err != nil {
		return TeamStats{}, err
	}
	for _, row := range rows {
		stats.RoleCounts[row.Role] = row.Count
	}
	return stats, nil
}

func (repo *UserRepository) UpdateInOrganization(userID string, organizationID string, updates map[string]any) error {
	return repo.database.Model(&models.User{}).
		Where("id = ? AND organization_id = ?", userID, organizationID).
		Updates(updates).Error
}

func (repo *UserRepository) UpdateStatus(userID string, status string) error {
	return repo.database.Model(&models.User{}).Where("id = ?", userID).Update("status", status).Error
}

// DeleteInOrganization removes a member and decrements the organization
// member counter in the same transaction.
func (repo *UserRepository) DeleteInOrganization(userID string, organizationID string) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND organization_id = ?", userID, organizationID).Delete(&models.User{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&models.Organization{}).
			Where("id = ? AND current_users > 0", organizationID).
			Update("current_users", gorm.Expr("current_users - 1")).Error
	})
}
