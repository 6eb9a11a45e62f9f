package db

import (
	"errors"
	"time"

	"github.com/vantahq/pulseboard/internal/models"
	"gorm.io/gorm"
)

type MonitoringRepository struct {
	database *gorm.DB
}

func NewMonitoringRepository(database *gorm.DB) *MonitoringRepository {
	return &MonitoringRepository{database: database}
}

func (repo *MonitoringRepository) CreateScreenshot(screenshot *models.Screenshot) error {
	return repo.database.Create(screenshot).Error
}

func (repo *MonitoringRepository) ListScreenshotsByEntry(entryID string, userID string, organizationID string) ([]models.Screenshot, error) {
	screenshots := make([]models.Screenshot, 0)
	if err := repo.database.
		Where("time_entry_id = ? AND user_id = ? AND organization_id = ? AND is_deleted = ?",
			entryID, userID, organizationID, false).
		Order("captured_at ASC").
		Find(&screenshots).Error; err != nil {
		return nil, err
	}
	return screenshots, nil
}

type ScreenshotFilter struct {
	UserID string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

func (repo *MonitoringRepository) ListScreenshotsByOrganization(organizationID string, filter ScreenshotFilter) ([]models.Screenshot, error) {
	query := repo.database.Where("organization_id = ? AND is_deleted = ?", organizationID, false)
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.From != nil {
		query = query.Where("captured_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("captured_at < ?", *filter.To)
	}
	screenshots := make([]models.Screenshot, 0)
	if err := query.Order("captured_at DESC").Limit(filter.Limit).Offset(filter.Offset).Find(&screenshots).Error; err != nil {
		return nil, err
	}
	return screenshots, nil
}

func (repo *MonitoringRepository) FindScreenshot(screenshotID string, organizationID string) (models.Screenshot, error) {
	var screenshot models.Screenshot
	if err := repo.database.
		Where("id = ? AND organization_id = ? AND is_deleted = ?", screenshotID, organizationID, false).
		First(&screenshot).Error; err != nil {
		return models.Screenshot{}, err
	}
	return screenshot, nil
}

// SoftDeleteScreenshot marks the row deleted; the image itself is removed
// by the caller through the storage backend.
func (repo *MonitoringRepository) SoftDeleteScreenshot(screenshotID string, organizationID string) error {
	return repo.database.Model(&models.Screenshot{}).
		Where("id = ? AND organization_id = ?", screenshotID, organizationID).
		Update("is_deleted", true).Error
}

func (repo *MonitoringRepository) FindSettings(userID string, organizationID string) (models.MonitoringSettings, error) {
	var settings models.MonitoringSettings
	if err := repo.database.
		Where("user_id = ? AND organization_id = ?", userID, organizationID).
		First(&settings).Error; err != nil {
		return models.MonitoringSettings{}, err
	}
	return settings, nil
}

func (repo *MonitoringRepository) CreateSettings(settings *models.MonitoringSettings) error {
	return repo.database.Create(settings).Error
}

func (repo *MonitoringRepository) SaveSettings(settings *models.MonitoringSettings) error {
	return repo.database.Save(settings).Error
}

func (repo *MonitoringRepository) FindOpenSession(entryID string) (models.ActivitySession, error) {
	var session models.ActivitySession
	if err := repo.database.
		Where("time_entry_id = ? AND ended_at IS NULL", entryID).
		Order("started_at DESC").
		First(&session).Error; err != nil {
		return models.ActivitySession{}, err
	}
	return session, nil
}

func (repo *MonitoringRepository) CreateSession(session *models.ActivitySession) error {
	return repo.database.Create(session).Error
}

func (repo *MonitoringRepository) SaveSession(session *models.ActivitySession) error {
	return repo.database.Save(session).Error
}

func (repo *MonitoringRepository) CreateKeystrokeRecord(record *models.KeystrokeRecord) error {
	return repo.database.Create(record).Error
}

func (repo *MonitoringRepository) FindOpenAppUsage(entryID string, organizationID string) (models.ApplicationUsage, error) {
	var usage models.ApplicationUsage
	if err := repo.database.
		Where("time_entry_id = ? AND organization_id = ? AND ended_at IS NULL", entryID, organizationID).
		Order("started_at DESC").
		First(&usage).Error; err != nil {
		return models.ApplicationUsage{}, err
	}
	return usage, nil
}

func (repo *MonitoringRepository) CreateAppUsage(usage *models.ApplicationUsage) error {
	return repo.database.Create(usage).Error
}

func (repo *MonitoringRepository) SaveAppUsage(usage *models.ApplicationUsage) error {
	return repo.database.Save(usage).Error
}

// FindRecentVisit returns the latest visit of the domain inside the entry
// recorded after the cutoff, so repeated navigations within the window
// fold into one row.
func (repo *MonitoringRepository) FindRecentVisit(entryID string, domain string, cutoff time.Time) (models.WebsiteVisit, bool, error) {
	var visit models.WebsiteVisit
	err := repo.database.
		Where("time_entry_id = ? AND domain = ? AND visited_at >= ?", entryID, domain, cutoff).
		Order("visited_at DESC").
		First(&visit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.WebsiteVisit{}, false, nil
	}
	if err != nil {
		return models.WebsiteVisit{}, false, err
	}
	return visit, true, nil
}

func (repo *MonitoringRepository) CreateVisit(visit *models.WebsiteVisit) error {
	return repo.database.Create(visit).Error
}

func (repo *MonitoringRepository) SaveVisit(visit *models.WebsiteVisit) error {
	return repo.database.Save(visit).Error
}

func (repo *MonitoringRepository) ListAppUsageForEntry(entryID string, organizationID string) ([]models.ApplicationUsage, error) {
	usages := make([]models.ApplicationUsage, 0)
	if err := repo.database.
		Where("time_entry_id = ? AND organization_id = ?", entryID, organizationID).
		Order("started_at ASC").
		Find(&usages).Error; err != nil {
		return nil, err
	}
	return usages, nil
}

func (repo *MonitoringRepository) ListSessionsForEntry(entryID string, organizationID string) ([]models.ActivitySession, error) {
	sessions := make([]models.ActivitySession, 0)
	if err := repo.database.
		Where("time_entry_id = ? AND organization_id = ?", entryID, organizationID).
		Order("started_at ASC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}
