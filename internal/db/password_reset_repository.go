package db

import (
	"time"

	"github.com/vantahq/pulseboard/internal/models"
	"gorm.io/gorm"
)

type PasswordResetRepository struct {
	database *gorm.DB
}

func NewPasswordResetRepository(database *gorm.DB) *PasswordResetRepository {
	return &PasswordResetRepository{database: database}
}

// CreateInvalidatingPrevious stores the new token and burns every earlier
// unused token for the same email, so only the latest link works.
func (repo *PasswordResetRepository) CreateInvalidatingPrevious(token *models.PasswordResetToken, now time.Time) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PasswordResetToken{}).
			Where("lower(trim(email)) = ? AND used = ?", token.Email, false).
			Updates(map[string]any{
				"used":    true,
				"used_at": now,
			}).Error; err != nil {
			return err
		}
		return tx.Create(token).Error
	})
}

func (repo *PasswordResetRepository) FindByToken(token string) (models.PasswordResetToken, error) {
	var record models.PasswordResetToken
	if err := repo.database.Where("token = ?", token).First(&record).Error; err != nil {
		return models.PasswordResetToken{}, err
	}
	return record, nil
}

func (repo *PasswordResetRepository) MarkUsed(tokenID string, usedAt time.Time) error {
	return repo.database.Model(&models.PasswordResetToken{}).
		Where("id = ?", tokenID).
		Updates(map[string]any{
			"used":    true,
			"used_at": usedAt,
		}).Error
}
