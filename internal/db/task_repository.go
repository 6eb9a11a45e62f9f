package db

import (
	"github.com/vantahq/pulseboard/internal/models"
	"gorm.io/gorm"
)

type TaskRepository struct {
	database *gorm.DB
}

func NewTaskRepository(database *gorm.DB) *TaskRepository {
	return &TaskRepository{database: database}
}

func (repo *TaskRepository) Create(task *models.Task) error {
	return repo.database.Create(task).Error
}

func (repo *TaskRepository) FindInOrganization(taskID string, organizationID string) (models.Task, error) {
	var task models.Task
	if err := repo.database.
		Where("id = ? AND organization_id = ?", taskID, organizationID).
		First(&task).Error; err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (repo *TaskRepository) ListByProject(projectID string, organizationID string) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	if err := repo.database.
		Where("project_id = ? AND organization_id = ?", projectID, organizationID).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (repo *TaskRepository) ListAssignedTo(userID string, organizationID string) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	if err := repo.database.
		Where("assigned_to = ? AND organization_id = ?", userID, organizationID).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (repo *TaskRepository) UpdateInOrganization(taskID string, organizationID string, updates map[string]any) error {
	result := repo.database.Model(&models.Task{}).
		Where("id = ? AND organization_id = ?", taskID, organizationID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (repo *TaskRepository) DeleteInOrganization(taskID string, organizationID string) error {
	result := repo.database.
		Where("id = ? AND organization_id = ?", taskID, organizationID).
		Delete(&models.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
