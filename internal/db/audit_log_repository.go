package db

import (
	"github.com/vantahq/pulseboard/internal/models"
	"gorm.io/gorm"
)

type AuditLogRepository struct {
	database *gorm.DB
}

func NewAuditLogRepository(database *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{database: database}
}

func (repo *AuditLogRepository) Create(entry *models.AuditLog) error {
	return repo.database.Create(entry).Error
}

func (repo *AuditLogRepository) ListByOrganization(organizationID string, limit int, offset int) ([]models.AuditLog, error) {
	entries := make([]models.AuditLog, 0)
	if err := repo.database.
		Where("organization_id = ?", organizationID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
