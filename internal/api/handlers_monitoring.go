package api

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/vantahq/pulseboard/internal/db"
	"github.com/vantahq/pulseboard/internal/services"
)

const maxScreenshotBytes = 10 << 20

type settingsUpdateInput struct {
	ScreenshotsEnabled        *bool `json:"screenshots_enabled"`
	ScreenshotIntervalMinutes *int  `json:"screenshot_interval_minutes"`
	BlurScreenshots           *bool `json:"blur_screenshots"`
	ActivityTrackingEnabled   *bool `json:"activity_tracking_enabled"`
	AppTrackingEnabled        *bool `json:"app_tracking_enabled"`
	URLTrackingEnabled        *bool `json:"url_tracking_enabled"`
}

type activityInput struct {
	TimeEntryID    string `json:"time_entry_id"`
	Keystrokes     int    `json:"keystrokes"`
	MouseClicks    int    `json:"mouse_clicks"`
	MouseMovements int    `json:"mouse_movements"`
	ActiveApp      string `json:"active_app"`
	CurrentSite    string `json:"current_site"`
}

type appSwitchInput struct {
	TimeEntryID string `json:"time_entry_id"`
	AppName     string `json:"app_name"`
	WindowTitle string `json:"window_title"`
}

type websiteVisitInput struct {
	TimeEntryID string `json:"time_entry_id"`
	URL         string `json:"url"`
}

// UploadScreenshot ingests one multipart image for a time entry owned by
// the caller.
func (handler *Handler) UploadScreenshot(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}

	entryID := c.FormValue("time_entry_id")
	if entryID == "" {
		return apiError(c, fiber.StatusBadRequest, "time_entry_id required")
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "screenshot file required")
	}
	if fileHeader.Size > maxScreenshotBytes {
		return apiError(c, fiber.StatusRequestEntityTooLarge, "screenshot too large")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "unreadable screenshot file")
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxScreenshotBytes))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "unreadable screenshot file")
	}

	capturedAt := time.Time{}
	if raw := c.FormValue("captured_at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid captured_at")
		}
		capturedAt = parsed
	}

	screenshot, err := handler.monitoring.SaveScreenshot(user, entryID, data, fileHeader.Filename, capturedAt)
	if err != nil {
		return handler.serviceError(c, err)
	}
	handler.collectors.ScreenshotsTotal.Inc()
	return c.Status(fiber.StatusCreated).JSON(screenshotView(screenshot))
}

func (handler *Handler) ListScreenshots(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	screenshots, err := handler.monitoring.ListScreenshots(user, c.Params("entryId"))
	if err != nil {
		return handler.serviceError(c, err)
	}
	views := make([]fiber.Map, 0, len(screenshots))
	for _, screenshot := range screenshots {
		views = append(views, screenshotView(screenshot))
	}
	return c.JSON(fiber.Map{"screenshots": views})
}

// AdminScreenshots lists any member's screenshots inside the caller's
// organization, filtered by user and capture window.
func (handler *Handler) AdminScreenshots(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	filter := db.ScreenshotFilter{
		UserID: c.Query("user_id"),
		Limit:  queryInt(c, "limit", 50),
		Offset: queryInt(c, "offset", 0),
	}
	if from, err := parseDateQuery(c, "from", time.Time{}); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid from date")
	} else if !from.IsZero() {
		filter.From = &from
	}
	if to, err := parseDateQuery(c, "to", time.Time{}); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid to date")
	} else if !to.IsZero() {
		filter.To = &to
	}

	screenshots, err := handler.monitoring.AdminScreenshots(user.OrganizationID, filter)
	if err != nil {
		return handler.serviceError(c, err)
	}
	views := make([]fiber.Map, 0, len(screenshots))
	for _, screenshot := range screenshots {
		views = append(views, screenshotView(screenshot))
	}
	return c.JSON(fiber.Map{"screenshots": views})
}

func (handler *Handler) DeleteScreenshot(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	if err := handler.monitoring.DeleteScreenshot(user, c.Params("id")); err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) GetMonitoringSettings(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	settings, err := handler.monitoring.Settings(user)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(settingsView(settings))
}

func (handler *Handler) UpdateMonitoringSettings(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	var input settingsUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	settings, err := handler.monitoring.UpdateSettings(user, services.SettingsUpdate{
		ScreenshotsEnabled:        input.ScreenshotsEnabled,
		ScreenshotIntervalMinutes: input.ScreenshotIntervalMinutes,
		BlurScreenshots:           input.BlurScreenshots,
		ActivityTrackingEnabled:   input.ActivityTrackingEnabled,
		AppTrackingEnabled:        input.AppTrackingEnabled,
		URLTrackingEnabled:        input.URLTrackingEnabled,
	})
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(settingsView(settings))
}

func (handler *Handler) RecordActivity(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	var input activityInput
	if err := c.BodyParser(&input); err != nil || input.TimeEntryID == "" {
		return apiError(c, fiber.StatusBadRequest, "time_entry_id required")
	}
	session, err := handler.monitoring.RecordActivity(user, input.TimeEntryID, services.ActivityTick{
		Keystrokes:     input.Keystrokes,
		MouseClicks:    input.MouseClicks,
		MouseMovements: input.MouseMovements,
		ActiveApp:      input.ActiveApp,
		CurrentSite:    input.CurrentSite,
	})
	if err != nil {
		return handler.serviceError(c, err)
	}
	handler.collectors.IncTelemetryEvent("activity")
	return c.JSON(sessionView(session))
}

func (handler *Handler) RecordAppSwitch(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	var input appSwitchInput
	if err := c.BodyParser(&input); err != nil || input.TimeEntryID == "" || input.AppName == "" {
		return apiError(c, fiber.StatusBadRequest, "time_entry_id and app_name required")
	}
	usage, err := handler.monitoring.RecordAppSwitch(user, input.TimeEntryID, input.AppName, input.WindowTitle)
	if err != nil {
		return handler.serviceError(c, err)
	}
	handler.collectors.IncTelemetryEvent("app_switch")
	return c.JSON(appUsageView(usage))
}

func (handler *Handler) RecordWebsiteVisit(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	var input websiteVisitInput
	if err := c.BodyParser(&input); err != nil || input.TimeEntryID == "" || input.URL == "" {
		return apiError(c, fiber.StatusBadRequest, "time_entry_id and url required")
	}
	visit, err := handler.monitoring.RecordWebsiteVisit(user, input.TimeEntryID, input.URL)
	if err != nil {
		return handler.serviceError(c, err)
	}
	handler.collectors.IncTelemetryEvent("website_visit")
	return c.JSON(visitView(visit))
}
