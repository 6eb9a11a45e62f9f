package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vantahq/pulseboard/internal/db"
	"github.com/vantahq/pulseboard/internal/models"
	"github.com/vantahq/pulseboard/internal/storage"
	"gorm.io/gorm"
)

type monitoringRepositoryStub struct {
	screenshots map[string]models.Screenshot
	settings    map[string]models.MonitoringSettings
	sessions    map[string]models.ActivitySession
	keystrokes  []models.KeystrokeRecord
	appUsages   map[string]models.ApplicationUsage
	visits      map[string]models.WebsiteVisit
}

func newMonitoringRepositoryStub() *monitoringRepositoryStub {
	return &monitoringRepositoryStub{
		screenshots: make(map[string]models.Screenshot),
		settings:    make(map[string]models.MonitoringSettings),
		sessions:    make(map[string]models.ActivitySession),
		appUsages:   make(map[string]models.ApplicationUsage),
		visits:      make(map[string]models.WebsiteVisit),
	}
}

func (stub *monitoringRepositoryStub) CreateScreenshot(screenshot *models.Screenshot) error {
	stub.screenshots[screenshot.ID] = *screenshot
	return nil
}

func (stub *monitoringRepositoryStub) ListScreenshotsByEntry(entryID string, userID string, organizationID string) ([]models.Screenshot, error) {
	screenshots := make([]models.Screenshot, 0)
	for _, screenshot := range stub.screenshots {
		if screenshot.TimeEntryID == entryID && screenshot.UserID == userID &&
			screenshot.OrganizationID == organizationID && !screenshot.IsDeleted {
			screenshots = append(screenshots, screenshot)
		}
	}
	return screenshots, nil
}

func (stub *monitoringRepositoryStub) ListScreenshotsByOrganization(organizationID string, filter db.ScreenshotFilter) ([]models.Screenshot, error) {
	screenshots := make([]models.Screenshot, 0)
	for _, screenshot := range stub.screenshots {
		if screenshot.OrganizationID == organizationID && !screenshot.IsDeleted {
			screenshots = append(screenshots, screenshot)
		}
	}
	return screenshots, nil
}

func (stub *monitoringRepositoryStub) FindScreenshot(screenshotID string, organizationID string) (models.Screenshot, error) {
	screenshot, ok := stub.screenshots[screenshotID]
	if !ok || screenshot.OrganizationID != organizationID || screenshot.IsDeleted {
		return models.Screenshot{}, gorm.ErrRecordNotFound
	}
	return screenshot, nil
}

func (stub *monitoringRepositoryStub) SoftDeleteScreenshot(screenshotID string, organizationID string) error {
	screenshot, ok := stub.screenshots[screenshotID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	screenshot.IsDeleted = true
	stub.screenshots[screenshotID] = screenshot
	return nil
}

func (stub *monitoringRepositoryStub) FindSettings(userID string, organizationID string) (models.MonitoringSettings, error) {
	settings, ok := stub.settings[userID]
	if !ok {
		return models.MonitoringSettings{}, gorm.ErrRecordNotFound
	}
	return settings, nil
}

func (stub *monitoringRepositoryStub) CreateSettings(settings *models.MonitoringSettings) error {
	stub.settings[settings.UserID] = *settings
	return nil
}

func (stub *monitoringRepositoryStub) SaveSettings(settings *models.MonitoringSettings) error {
	stub.settings[settings.UserID] = *settings
	return nil
}

func (stub *monitoringRepositoryStub) FindOpenSession(entryID string) (models.ActivitySession, error) {
	for _, session := range stub.sessions {
		if session.TimeEntryID == entryID && session.EndedAt == nil {
			return session, nil
		}
	}
	return models.ActivitySession{}, gorm.ErrRecordNotFound
}

func (stub *monitoringRepositoryStub) CreateSession(session *models.ActivitySession) error {
	stub.sessions[session.ID] = *session
	return nil
}

func (stub *monitoringRepositoryStub) SaveSession(session *models.ActivitySession) error {
	stub.sessions[session.ID] = *session
	return nil
}

func (stub *monitoringRepositoryStub) CreateKeystrokeRecord(record *models.KeystrokeRecord) error {
	stub.keystrokes = append(stub.keystrokes, *record)
	return nil
}

func (stub *monitoringRepositoryStub) FindOpenAppUsage(entryID string, organizationID string) (models.ApplicationUsage, error) {
	for _, usage := range stub.appUsages {
		if usage.TimeEntryID == entryID && usage.OrganizationID == organizationID && usage.EndedAt == nil {
			return usage, nil
		}
	}
	return models.ApplicationUsage{}, gorm.ErrRecordNotFound
}

func (stub *monitoringRepositoryStub) CreateAppUsage(usage *models.ApplicationUsage) error {
	stub.appUsages[usage.ID] = *usage
	return nil
}

func (stub *monitoringRepositoryStub) SaveAppUsage(usage *models.ApplicationUsage) error {
	stub.appUsages[usage.ID] = *usage
	return nil
}

func (stub *monitoringRepositoryStub) FindRecentVisit(entryID string, domain string, cutoff time.Time) (models.WebsiteVisit, bool, error) {
	for _, visit := range stub.visits {
		if visit.TimeEntryID == entryID && visit.Domain == domain && visit.VisitedAt.After(cutoff) {
			return visit, true, nil
		}
	}
	return models.WebsiteVisit{}, false, nil
}

func (stub *monitoringRepositoryStub) CreateVisit(visit *models.WebsiteVisit) error {
	stub.visits[visit.ID] = *visit
	return nil
}

func (stub *monitoringRepositoryStub) SaveVisit(visit *models.WebsiteVisit) error {
	stub.visits[visit.ID] = *visit
	return nil
}

type monitoringEntryStub struct {
	entries map[string]models.TimeEntry
}

func (stub *monitoringEntryStub) FindForUser(entryID string, userID string, organizationID string) (models.TimeEntry, error) {
	entry, ok := stub.entries[entryID]
	if !ok || entry.UserID != userID || entry.OrganizationID != organizationID {
		return models.TimeEntry{}, gorm.ErrRecordNotFound
	}
	return entry, nil
}

type storageBackendStub struct {
	saved   []string
	deleted []string
}

func (stub *storageBackendStub) Save(data []byte, folder string, organizationID string, userID string, fileName string) (storage.SavedFile, error) {
	stub.saved = append(stub.saved, fileName)
	url := "/uploads/" + folder + "/" + organizationID + "/" + userID + "/" + fileName
	return storage.SavedFile{URL: url, ThumbnailURL: url}, nil
}

func (stub *storageBackendStub) Delete(fileURL string) bool {
	stub.deleted = append(stub.deleted, fileURL)
	return true
}

func newMonitoringFixture() (*MonitoringService, *monitoringRepositoryStub, *storageBackendStub, *models.User) {
	monitoring := newMonitoringRepositoryStub()
	entries := &monitoringEntryStub{entries: map[string]models.TimeEntry{
		"entry-1": {ID: "entry-1", UserID: "user-1", OrganizationID: "org-1", StartTime: time.Now()},
	}}
	files := &storageBackendStub{}
	user := &models.User{ID: "user-1", OrganizationID: "org-1", Role: models.RoleUser}
	return NewMonitoringService(monitoring, entries, files, 10), monitoring, files, user
}

func TestSaveScreenshotRequiresOwnEntry(t *testing.T) {
	service, _, _, user := newMonitoringFixture()

	if _, err := service.SaveScreenshot(user, "missing", []byte("png"), "shot.png", time.Time{}); !errors.Is(err, ErrTimeEntryNotFound) {
		t.Fatalf("expected ErrTimeEntryNotFound, got %v", err)
	}

	screenshot, err := service.SaveScreenshot(user, "entry-1", []byte("png"), "shot.png", time.Time{})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if screenshot.ImageURL == "" || screenshot.CapturedAt.IsZero() {
		t.Fatalf("expected stored screenshot with capture time, got %+v", screenshot)
	}
}

func TestSaveScreenshotMintsStorageName(t *testing.T) {
	service, _, files, user := newMonitoringFixture()

	if _, err := service.SaveScreenshot(user, "entry-1", []byte("png"),
		"../../../org-b/user-9/screenshots/evidence.png", time.Time{}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if len(files.saved) != 1 {
		t.Fatalf("expected one stored file, got %d", len(files.saved))
	}
	stored := files.saved[0]
	if strings.ContainsAny(stored, `/\`) || strings.Contains(stored, "..") {
		t.Fatalf("stored name must be a single component, got %q", stored)
	}
	if !strings.HasSuffix(stored, ".png") {
		t.Fatalf("expected png extension, got %q", stored)
	}
	if stored == "evidence.png" {
		t.Fatalf("client file name must not be used verbatim")
	}

	if _, err := service.SaveScreenshot(user, "entry-1", []byte("png"), "weird.<script>", time.Time{}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasSuffix(files.saved[1], ".png") {
		t.Fatalf("suspicious extension must fall back to png, got %q", files.saved[1])
	}
}

func TestDeleteScreenshotPermissions(t *testing.T) {
	service, monitoring, files, user := newMonitoringFixture()

	monitoring.screenshots["own"] = models.Screenshot{
		ID: "own", UserID: "user-1", OrganizationID: "org-1", ImageURL: "/uploads/own.png",
	}
	monitoring.screenshots["other"] = models.Screenshot{
		ID: "other", UserID: "user-2", OrganizationID: "org-1", ImageURL: "/uploads/other.png",
	}

	if err := service.DeleteScreenshot(user, "other"); !errors.Is(err, ErrScreenshotNotFound) {
		t.Fatalf("member deleting a colleague's screenshot must fail, got %v", err)
	}
	if err := service.DeleteScreenshot(user, "own"); err != nil {
		t.Fatalf("deleting own screenshot failed: %v", err)
	}
	if !monitoring.screenshots["own"].IsDeleted {
		t.Fatalf("expected soft delete flag")
	}
	if len(files.deleted) != 1 || files.deleted[0] != "/uploads/own.png" {
		t.Fatalf("expected stored image removed, got %v", files.deleted)
	}

	manager := &models.User{ID: "boss", OrganizationID: "org-1", Role: models.RoleManager}
	if err := service.DeleteScreenshot(manager, "other"); err != nil {
		t.Fatalf("manager delete failed: %v", err)
	}
}

func TestSettingsCreatedOnFirstAccess(t *testing.T) {
	service, monitoring, _, user := newMonitoringFixture()

	settings, err := service.Settings(user)
	if err != nil {
		t.Fatalf("settings failed: %v", err)
	}
	if !settings.ScreenshotsEnabled || settings.ScreenshotIntervalMinutes != 10 {
		t.Fatalf("expected defaults, got %+v", settings)
	}
	if _, ok := monitoring.settings["user-1"]; !ok {
		t.Fatalf("expected persisted defaults")
	}

	interval := 0
	blur := true
	updated, err := service.UpdateSettings(user, SettingsUpdate{ScreenshotIntervalMinutes: &interval, BlurScreenshots: &blur})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.ScreenshotIntervalMinutes != 10 {
		t.Fatalf("non-positive interval must be ignored, got %d", updated.ScreenshotIntervalMinutes)
	}
	if !updated.BlurScreenshots {
		t.Fatalf("expected blur enabled")
	}
}

func TestRecordActivityFoldsIntoOpenSession(t *testing.T) {
	service, monitoring, _, user := newMonitoringFixture()

	first, err := service.RecordActivity(user, "entry-1", ActivityTick{
		Keystrokes: 10, MouseClicks: 2, ActiveApp: "GoLand", CurrentSite: "pkg.go.dev",
	})
	if err != nil {
		t.Fatalf("first tick failed: %v", err)
	}
	second, err := service.RecordActivity(user, "entry-1", ActivityTick{
		Keystrokes: 5, ActiveApp: "GoLand", CurrentSite: "github.com",
	})
	if err != nil {
		t.Fatalf("second tick failed: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("expected ticks to share one open session")
	}
	if second.KeystrokeCount != 15 || second.MouseClickCount != 2 {
		t.Fatalf("expected accumulated counters, got %+v", second)
	}
	if len(second.ActiveApps) != 1 || len(second.VisitedSites) != 2 {
		t.Fatalf("expected deduplicated apps and both sites, got %+v", second)
	}
	if len(monitoring.keystrokes) != 2 {
		t.Fatalf("expected a keystroke record per tick with input, got %d", len(monitoring.keystrokes))
	}
}

func TestRecordAppSwitchClosesPreviousUsage(t *testing.T) {
	service, monitoring, _, user := newMonitoringFixture()

	first, err := service.RecordAppSwitch(user, "entry-1", "Visual Studio Code", "main.go")
	if err != nil {
		t.Fatalf("first switch failed: %v", err)
	}
	if first.Category != AppCategoryDevelopment {
		t.Fatalf("expected development category, got %q", first.Category)
	}

	second, err := service.RecordAppSwitch(user, "entry-1", "Slack", "#general")
	if err != nil {
		t.Fatalf("second switch failed: %v", err)
	}
	if second.Category != AppCategoryCommunication {
		t.Fatalf("expected communication category, got %q", second.Category)
	}

	closed := monitoring.appUsages[first.ID]
	if closed.EndedAt == nil {
		t.Fatalf("expected previous usage closed on switch")
	}
}

func TestRecordWebsiteVisitDeduplicatesWithinWindow(t *testing.T) {
	service, monitoring, _, user := newMonitoringFixture()

	first, err := service.RecordWebsiteVisit(user, "entry-1", "https://www.github.com/vantahq")
	if err != nil {
		t.Fatalf("first visit failed: %v", err)
	}
	if first.Domain != "github.com" || first.Category != SiteCategoryDevelopment {
		t.Fatalf("expected categorized github visit, got %+v", first)
	}

	second, err := service.RecordWebsiteVisit(user, "entry-1", "https://github.com/vantahq/pulseboard")
	if err != nil {
		t.Fatalf("second visit failed: %v", err)
	}
	if second.ID != first.ID || second.PageViews != 2 {
		t.Fatalf("expected deduplicated visit with two page views, got %+v", second)
	}
	if len(monitoring.visits) != 1 {
		t.Fatalf("expected one stored visit, got %d", len(monitoring.visits))
	}

	other, err := service.RecordWebsiteVisit(user, "entry-1", "https://stackoverflow.com/questions")
	if err != nil {
		t.Fatalf("third visit failed: %v", err)
	}
	if other.ID == first.ID {
		t.Fatalf("different domain must open a new visit row")
	}
}
