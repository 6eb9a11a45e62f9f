package services

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vantahq/pulseboard/internal/db"
	"github.com/vantahq/pulseboard/internal/models"
	"github.com/vantahq/pulseboard/internal/storage"
)

var ErrScreenshotNotFound = errors.New("screenshot not found")

// visitDedupWindow folds repeated navigations to the same domain into
// one visit row.
const visitDedupWindow = 5 * time.Minute

type MonitoringRepository interface {
	CreateScreenshot(screenshot *models.Screenshot) error
	ListScreenshotsByEntry(entryID string, userID string, organizationID string) ([]models.Screenshot, error)
	ListScreenshotsByOrganization(organizationID string, filter db.ScreenshotFilter) ([]models.Screenshot, error)
	FindScreenshot(screenshotID string, organizationID string) (models.Screenshot, error)
	SoftDeleteScreenshot(screenshotID string, organizationID string) error
	FindSettings(userID string, organizationID string) (models.MonitoringSettings, error)
	CreateSettings(settings *models.MonitoringSettings) error
	SaveSettings(settings *models.MonitoringSettings) error
	FindOpenSession(entryID string) (models.ActivitySession, error)
	CreateSession(session *models.ActivitySession) error
	SaveSession(session *models.ActivitySession) error
	CreateKeystrokeRecord(record *models.KeystrokeRecord) error
	FindOpenAppUsage(entryID string, organizationID string) (models.ApplicationUsage, error)
	CreateAppUsage(usage *models.ApplicationUsage) error
	SaveAppUsage(usage *models.ApplicationUsage) error
	FindRecentVisit(entryID string, domain string, cutoff time.Time) (models.WebsiteVisit, bool, error)
	CreateVisit(visit *models.WebsiteVisit) error
	SaveVisit(visit *models.WebsiteVisit) error
}

type MonitoringTimeEntryRepository interface {
	FindForUser(entryID string, userID string, organizationID string) (models.TimeEntry, error)
}

type MonitoringService struct {
	monitoring MonitoringRepository
	entries    MonitoringTimeEntryRepository
	files      storage.Backend
	defaults   models.MonitoringSettings
}

func NewMonitoringService(monitoring MonitoringRepository, entries MonitoringTimeEntryRepository, files storage.Backend, screenshotInterval int) *MonitoringService {
	if screenshotInterval <= 0 {
		screenshotInterval = 10
	}
	return &MonitoringService{
		monitoring: monitoring,
		entries:    entries,
		files:      files,
		defaults: models.MonitoringSettings{
			ScreenshotsEnabled:        true,
			ScreenshotIntervalMinutes: screenshotInterval,
			ActivityTrackingEnabled:   true,
			AppTrackingEnabled:        true,
			URLTrackingEnabled:        true,
		},
	}
}

// verifyEntry anchors every ingestion to a time entry owned by the
// caller inside their organization. Anything else is not found.
func (service *MonitoringService) verifyEntry(user *models.User, entryID string) (models.TimeEntry, error) {
	entry, err := service.entries.FindForUser(entryID, user.ID, user.OrganizationID)
	if err != nil {
		return models.TimeEntry{}, ErrTimeEntryNotFound
	}
	return entry, nil
}

func (service *MonitoringService) SaveScreenshot(user *models.User, entryID string, data []byte, fileName string, capturedAt time.Time) (models.Screenshot, error) {
	entry, err := service.verifyEntry(user, entryID)
	if err != nil {
		return models.Screenshot{}, err
	}

	settings, err := service.Settings(user)
	if err != nil {
		return models.Screenshot{}, err
	}

	// The stored name is minted here; the uploader's file name only
	// contributes its extension.
	storedName := uuid.NewString() + screenshotExtension(fileName)
	saved, err := service.files.Save(data, "screenshots", user.OrganizationID, user.ID, storedName)
	if err != nil {
		return models.Screenshot{}, fmt.Errorf("store screenshot: %w", err)
	}

	if capturedAt.IsZero() {
		capturedAt = time.Now()
	}
	screenshot := models.Screenshot{
		ID:             uuid.NewString(),
		TimeEntryID:    entry.ID,
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
		ImageURL:       saved.URL,
		ThumbnailURL:   saved.ThumbnailURL,
		Blurred:        settings.BlurScreenshots,
		CapturedAt:     capturedAt,
	}
	if err := service.monitoring.CreateScreenshot(&screenshot); err != nil {
		return models.Screenshot{}, fmt.Errorf("record screenshot: %w", err)
	}
	return screenshot, nil
}

func (service *MonitoringService) ListScreenshots(user *models.User, entryID string) ([]models.Screenshot, error) {
	if _, err := service.verifyEntry(user, entryID); err != nil {
		return nil, err
	}
	return service.monitoring.ListScreenshotsByEntry(entryID, user.ID, user.OrganizationID)
}

func (service *MonitoringService) AdminScreenshots(organizationID string, filter db.ScreenshotFilter) ([]models.Screenshot, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	return service.monitoring.ListScreenshotsByOrganization(organizationID, filter)
}

// DeleteScreenshot soft-deletes the record and best-effort removes the
// stored image. Members may delete their own shots, managers any in the
// organization.
func (service *MonitoringService) DeleteScreenshot(actor *models.User, screenshotID string) error {
	screenshot, err := service.monitoring.FindScreenshot(screenshotID, actor.OrganizationID)
	if err != nil {
		return ErrScreenshotNotFound
	}
	if screenshot.UserID != actor.ID && !actor.CanManageMembers() {
		return ErrScreenshotNotFound
	}
	if err := service.monitoring.SoftDeleteScreenshot(screenshot.ID, actor.OrganizationID); err != nil {
		return fmt.Errorf("delete screenshot: %w", err)
	}
	service.files.Delete(screenshot.ImageURL)
	return nil
}

// Settings returns the per-user monitoring settings, creating the
// organization defaults on first access.
func (service *MonitoringService) Settings(user *models.User) (models.MonitoringSettings, error) {
	settings, err := service.monitoring.FindSettings(user.ID, user.OrganizationID)
	if err == nil {
		return settings, nil
	}

	settings = service.defaults
	settings.ID = uuid.NewString()
	settings.UserID = user.ID
	settings.OrganizationID = user.OrganizationID
	if err := service.monitoring.CreateSettings(&settings); err != nil {
		// Lost a race with a concurrent first access; reread.
		if db.IsUniqueViolation(err) {
			return service.monitoring.FindSettings(user.ID, user.OrganizationID)
		}
		return models.MonitoringSettings{}, fmt.Errorf("create monitoring settings: %w", err)
	}
	return settings, nil
}

type SettingsUpdate struct {
	ScreenshotsEnabled        *bool
	ScreenshotIntervalMinutes *int
	BlurScreenshots           *bool
	ActivityTrackingEnabled   *bool
	AppTrackingEnabled        *bool
	URLTrackingEnabled        *bool
}

func (service *MonitoringService) UpdateSettings(user *models.User, update SettingsUpdate) (models.MonitoringSettings, error) {
	settings, err := service.Settings(user)
	if err != nil {
		return models.MonitoringSettings{}, err
	}
	if update.ScreenshotsEnabled != nil {
		settings.ScreenshotsEnabled = *update.ScreenshotsEnabled
	}
	if update.ScreenshotIntervalMinutes != nil && *update.ScreenshotIntervalMinutes > 0 {
		settings.ScreenshotIntervalMinutes = *update.ScreenshotIntervalMinutes
	}
	if update.BlurScreenshots != nil {
		settings.BlurScreenshots = *update.BlurScreenshots
	}
	if update.ActivityTrackingEnabled != nil {
		settings.ActivityTrackingEnabled = *update.ActivityTrackingEnabled
	}
	if update.AppTrackingEnabled != nil {
		settings.AppTrackingEnabled = *update.AppTrackingEnabled
	}
	if update.URLTrackingEnabled != nil {
		settings.URLTrackingEnabled = *update.URLTrackingEnabled
	}
	if err := service.monitoring.SaveSettings(&settings); err != nil {
		return models.MonitoringSettings{}, fmt.Errorf("save monitoring settings: %w", err)
	}
	return settings, nil
}

type ActivityTick struct {
	Keystrokes     int
	MouseClicks    int
	MouseMovements int
	ActiveApp      string
	CurrentSite    string
}

// RecordActivity folds a tick into the entry's open activity session,
// creating one if needed, and keeps a raw keystroke record for audits.
func (service *MonitoringService) RecordActivity(user *models.User, entryID string, tick ActivityTick) (models.ActivitySession, error) {
	entry, err := service.verifyEntry(user, entryID)
	if err != nil {
		return models.ActivitySession{}, err
	}

	now := time.Now()
	session, err := service.monitoring.FindOpenSession(entry.ID)
	if err != nil {
		session = models.ActivitySession{
			ID:             uuid.NewString(),
			TimeEntryID:    entry.ID,
			UserID:         user.ID,
			OrganizationID: user.OrganizationID,
			StartedAt:      now,
			ActiveApps:     []string{},
			VisitedSites:   []string{},
		}
		if err := service.monitoring.CreateSession(&session); err != nil {
			return models.ActivitySession{}, fmt.Errorf("create activity session: %w", err)
		}
	}

	session.KeystrokeCount += tick.Keystrokes
	session.MouseClickCount += tick.MouseClicks
	session.MouseMovementCount += tick.MouseMovements
	session.ActiveApps = appendUnique(session.ActiveApps, tick.ActiveApp)
	session.VisitedSites = appendUnique(session.VisitedSites, tick.CurrentSite)
	if err := service.monitoring.SaveSession(&session); err != nil {
		return models.ActivitySession{}, fmt.Errorf("save activity session: %w", err)
	}

	if tick.Keystrokes > 0 {
		record := models.KeystrokeRecord{
			ID:             uuid.NewString(),
			TimeEntryID:    entry.ID,
			UserID:         user.ID,
			OrganizationID: user.OrganizationID,
			Count:          tick.Keystrokes,
			RecordedAt:     now,
		}
		if err := service.monitoring.CreateKeystrokeRecord(&record); err != nil {
			return models.ActivitySession{}, fmt.Errorf("record keystrokes: %w", err)
		}
	}
	return session, nil
}

// RecordAppSwitch closes the previous usage row and opens one for the
// newly focused application.
func (service *MonitoringService) RecordAppSwitch(user *models.User, entryID string, appName string, windowTitle string) (models.ApplicationUsage, error) {
	entry, err := service.verifyEntry(user, entryID)
	if err != nil {
		return models.ApplicationUsage{}, err
	}

	now := time.Now()
	if open, err := service.monitoring.FindOpenAppUsage(entry.ID, user.OrganizationID); err == nil {
		ended := now
		open.EndedAt = &ended
		open.DurationSeconds = int64(now.Sub(open.StartedAt).Seconds())
		if err := service.monitoring.SaveAppUsage(&open); err != nil {
			return models.ApplicationUsage{}, fmt.Errorf("close app usage: %w", err)
		}
	}

	usage := models.ApplicationUsage{
		ID:             uuid.NewString(),
		TimeEntryID:    entry.ID,
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
		AppName:        appName,
		WindowTitle:    windowTitle,
		Category:       CategorizeApplication(appName),
		StartedAt:      now,
	}
	if err := service.monitoring.CreateAppUsage(&usage); err != nil {
		return models.ApplicationUsage{}, fmt.Errorf("record app usage: %w", err)
	}
	return usage, nil
}

// RecordWebsiteVisit counts a navigation. Revisiting the same domain
// within the dedup window bumps page views instead of inserting.
func (service *MonitoringService) RecordWebsiteVisit(user *models.User, entryID string, rawURL string) (models.WebsiteVisit, error) {
	entry, err := service.verifyEntry(user, entryID)
	if err != nil {
		return models.WebsiteVisit{}, err
	}

	now := time.Now()
	domain := ExtractDomain(rawURL)
	recent, found, err := service.monitoring.FindRecentVisit(entry.ID, domain, now.Add(-visitDedupWindow))
	if err != nil {
		return models.WebsiteVisit{}, fmt.Errorf("find recent visit: %w", err)
	}
	if found {
		recent.PageViews++
		recent.DurationSeconds = int64(now.Sub(recent.VisitedAt).Seconds())
		if err := service.monitoring.SaveVisit(&recent); err != nil {
			return models.WebsiteVisit{}, fmt.Errorf("update visit: %w", err)
		}
		return recent, nil
	}

	visit := models.WebsiteVisit{
		ID:             uuid.NewString(),
		TimeEntryID:    entry.ID,
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
		URL:            rawURL,
		Domain:         domain,
		Category:       CategorizeWebsite(domain),
		PageViews:      1,
		VisitedAt:      now,
	}
	if err := service.monitoring.CreateVisit(&visit); err != nil {
		return models.WebsiteVisit{}, fmt.Errorf("record visit: %w", err)
	}
	return visit, nil
}

// screenshotExtension keeps the upload's extension only when it is a
// short alphanumeric suffix, defaulting to png otherwise.
func screenshotExtension(fileName string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(fileName)))
	if len(ext) < 2 || len(ext) > 9 {
		return ".png"
	}
	for _, char := range ext[1:] {
		if (char < 'a' || char > 'z') && (char < '0' || char > '9') {
			return ".png"
		}
	}
	return ext
}

func appendUnique(values []string, value string) []string {
	if value == "" {
		return values
	}
	for _, existing := range values {
		if existing == value {
			return values
		}
	}
	return append(values, value)
}
