package db

import (
	"time"

	"github.com/vantahq/pulseboard/internal/models"
	"gorm.io/gorm"
)

type TimeEntryRepository struct {
	database *gorm.DB
}

func NewTimeEntryRepository(database *gorm.DB) *TimeEntryRepository {
	return &TimeEntryRepository{database: database}
}

func (repo *TimeEntryRepository) Create(entry *models.TimeEntry) error {
	return repo.database.Create(entry).Error
}

func (repo *TimeEntryRepository) Save(entry *models.TimeEntry) error {
	return repo.database.Save(entry).Error
}

// FindActiveByUser returns the single running entry for the user. The
// partial unique index on time_entries guarantees at most one row.
func (repo *TimeEntryRepository) FindActiveByUser(userID string) (models.TimeEntry, error) {
	var entry models.TimeEntry
	if err := repo.database.
		Where("user_id = ? AND end_time IS NULL", userID).
		First(&entry).Error; err != nil {
		return models.TimeEntry{}, err
	}
	return entry, nil
}

func (repo *TimeEntryRepository) FindForUser(entryID string, userID string, organizationID string) (models.TimeEntry, error) {
	var entry models.TimeEntry
	if err := repo.database.
		Where("id = ? AND user_id = ? AND organization_id = ?", entryID, userID, organizationID).
		First(&entry).Error; err != nil {
		return models.TimeEntry{}, err
	}
	return entry, nil
}

type TimeEntryFilter struct {
	From      *time.Time
	To        *time.Time
	ProjectID string
	Limit     int
	Offset    int
}

func (repo *TimeEntryRepository) ListForUser(userID string, organizationID string, filter TimeEntryFilter) ([]models.TimeEntry, error) {
	query := repo.database.Where("user_id = ? AND organization_id = ?", userID, organizationID)
	query = applyTimeEntryFilter(query, filter)
	entries := make([]models.TimeEntry, 0)
	if err := query.Order("start_time DESC").Limit(filter.Limit).Offset(filter.Offset).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *TimeEntryRepository) ListForOrganization(organizationID string, filter TimeEntryFilter) ([]models.TimeEntry, error) {
	query := repo.database.Where("organization_id = ?", organizationID)
	query = applyTimeEntryFilter(query, filter)
	entries := make([]models.TimeEntry, 0)
	if err := query.Order("start_time DESC").Limit(filter.Limit).Offset(filter.Offset).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func applyTimeEntryFilter(query *gorm.DB, filter TimeEntryFilter) *gorm.DB {
	if filter.From != nil {
		query = query.Where("start_time >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("start_time < ?", *filter.To)
	}
	if filter.ProjectID != "" {
		query = query.Where("project_id = ?", filter.ProjectID)
	}
	return query
}
