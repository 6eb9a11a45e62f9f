package db

import (
	"github.com/vantahq/pulseboard/internal/models"
	"gorm.io/gorm"
)

type ProjectRepository struct {
	database *gorm.DB
}

func NewProjectRepository(database *gorm.DB) *ProjectRepository {
	return &ProjectRepository{database: database}
}

func (repo *ProjectRepository) Create(project *models.Project) error {
	return repo.database.Create(project).Error
}

func (repo *ProjectRepository) FindInOrganization(projectID string, organizationID string) (models.Project, error) {
	var project models.Project
	if err := repo.database.
		Where("id = ? AND organization_id = ?", projectID, organizationID).
		First(&project).Error; err != nil {
		return models.Project{}, err
	}
	return project, nil
}

func (repo *ProjectRepository) ListByOrganization(organizationID string, status string) ([]models.Project, error) {
	query := repo.database.Where("organization_id = ?", organizationID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	projects := make([]models.Project, 0)
	if err := query.Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (repo *ProjectRepository) Save(project *models.Project) error {
	return repo.database.Save(project).Error
}

// DeleteWithTasks removes the project and every task under it, both
// scoped to the organization.
func (repo *ProjectRepository) DeleteWithTasks(projectID string, organizationID string) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND organization_id = ?", projectID, organizationID).Delete(&models.Project{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("project_id = ? AND organization_id = ?", projectID, organizationID).
			Delete(&models.Task{}).Error
	})
}

func (repo *ProjectRepository) AddTrackedHours(projectID string, organizationID string, hours float64) error {
	return repo.database.Model(&models.Project{}).
		Where("id = ? AND organization_id = ?", projectID, organizationID).
		Update("hours_tracked", gorm.Expr("hours_tracked + ?", hours)).Error
}
