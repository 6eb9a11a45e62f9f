package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vantahq/pulseboard/internal/db"
	"github.com/vantahq/pulseboard/internal/models"
)

var (
	ErrTimerAlreadyRunning = errors.New("a time entry is already running")
	ErrNoActiveTimer       = errors.New("no active time entry")
	ErrTimeEntryNotFound   = errors.New("time entry not found")
	ErrTimerNotPausable    = errors.New("time entry cannot be paused")
	ErrTimerNotResumable   = errors.New("time entry cannot be resumed")
	ErrInvalidTimeRange    = errors.New("invalid time range")
)

type TimeEntryRepository interface {
	Create(entry *models.TimeEntry) error
	Save(entry *models.TimeEntry) error
	FindActiveByUser(userID string) (models.TimeEntry, error)
	FindForUser(entryID string, userID string, organizationID string) (models.TimeEntry, error)
	ListForUser(userID string, organizationID string, filter db.TimeEntryFilter) ([]models.TimeEntry, error)
	ListForOrganization(organizationID string, filter db.TimeEntryFilter) ([]models.TimeEntry, error)
}

type TimerProjectRepository interface {
	FindInOrganization(projectID string, organizationID string) (models.Project, error)
	AddTrackedHours(projectID string, organizationID string, hours float64) error
}

type TimerTaskRepository interface {
	FindInOrganization(taskID string, organizationID string) (models.Task, error)
}

type TimerService struct {
	entries  TimeEntryRepository
	projects TimerProjectRepository
	tasks    TimerTaskRepository
}

func NewTimerService(entries TimeEntryRepository, projects TimerProjectRepository, tasks TimerTaskRepository) *TimerService {
	return &TimerService{entries: entries, projects: projects, tasks: tasks}
}

type StartTimerInput struct {
	ProjectID   string
	TaskID      string
	Description string
}

// Start opens a new running entry. The partial unique index on
// time_entries backs up the pre-check, so two concurrent starts cannot
// both commit.
func (service *TimerService) Start(user *models.User, input StartTimerInput) (models.TimeEntry, error) {
	if _, err := service.entries.FindActiveByUser(user.ID); err == nil {
		return models.TimeEntry{}, ErrTimerAlreadyRunning
	}

	if _, err := service.projects.FindInOrganization(input.ProjectID, user.OrganizationID); err != nil {
		return models.TimeEntry{}, ErrProjectNotFound
	}
	if input.TaskID != "" {
		if _, err := service.tasks.FindInOrganization(input.TaskID, user.OrganizationID); err != nil {
			return models.TimeEntry{}, ErrTaskNotFound
		}
	}

	entry := models.TimeEntry{
		ID:             uuid.NewString(),
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
		ProjectID:      input.ProjectID,
		TaskID:         input.TaskID,
		Description:    strings.TrimSpace(input.Description),
		StartTime:      time.Now(),
		Status:         models.TrackingStatusActive,
		PausePeriods:   []models.PausePeriod{},
	}
	if err := service.entries.Create(&entry); err != nil {
		if db.IsUniqueViolation(err) {
			return models.TimeEntry{}, ErrTimerAlreadyRunning
		}
		return models.TimeEntry{}, fmt.Errorf("create time entry: %w", err)
	}
	return entry, nil
}

func (service *TimerService) Active(user *models.User) (models.TimeEntry, error) {
	entry, err := service.entries.FindActiveByUser(user.ID)
	if err != nil {
		return models.TimeEntry{}, ErrNoActiveTimer
	}
	return entry, nil
}

// Pause opens a new pause window. Pausing a stopped or already paused
// entry is rejected.
func (service *TimerService) Pause(user *models.User, entryID string) (models.TimeEntry, error) {
	entry, err := service.entries.FindForUser(entryID, user.ID, user.OrganizationID)
	if err != nil {
		return models.TimeEntry{}, ErrTimeEntryNotFound
	}
	if entry.Status != models.TrackingStatusActive || entry.EndTime != nil {
		return models.TimeEntry{}, ErrTimerNotPausable
	}

	entry.PausePeriods = append(entry.PausePeriods, models.PausePeriod{PauseTime: time.Now()})
	entry.Status = models.TrackingStatusPaused
	if err := service.entries.Save(&entry); err != nil {
		return models.TimeEntry{}, fmt.Errorf("pause time entry: %w", err)
	}
	return entry, nil
}

// Resume closes the open pause window and recomputes the accumulated
// pause total from all closed windows.
func (service *TimerService) Resume(user *models.User, entryID string) (models.TimeEntry, error) {
	entry, err := service.entries.FindForUser(entryID, user.ID, user.OrganizationID)
	if err != nil {
		return models.TimeEntry{}, ErrTimeEntryNotFound
	}
	if entry.Status != models.TrackingStatusPaused || entry.EndTime != nil {
		return models.TimeEntry{}, ErrTimerNotResumable
	}
	openIndex := entry.OpenPause()
	if openIndex < 0 {
		return models.TimeEntry{}, ErrTimerNotResumable
	}

	now := time.Now()
	entry.PausePeriods[openIndex].ResumeTime = &now
	entry.TotalPauseSeconds = entry.ClosedPauseSeconds()
	entry.Status = models.TrackingStatusActive
	if err := service.entries.Save(&entry); err != nil {
		return models.TimeEntry{}, fmt.Errorf("resume time entry: %w", err)
	}
	return entry, nil
}

// Stop finalizes the entry. A pause still open at stop time accrues into
// the total before the working duration is computed, and durations are
// clamped so clock skew can never produce negative time.
func (service *TimerService) Stop(user *models.User, entryID string) (models.TimeEntry, error) {
	entry, err := service.entries.FindForUser(entryID, user.ID, user.OrganizationID)
	if err != nil {
		return models.TimeEntry{}, ErrTimeEntryNotFound
	}
	if entry.EndTime != nil || entry.Status == models.TrackingStatusStopped {
		return models.TimeEntry{}, ErrTimeEntryNotFound
	}

	now := time.Now()
	if openIndex := entry.OpenPause(); openIndex >= 0 {
		entry.PausePeriods[openIndex].ResumeTime = &now
	}
	entry.TotalPauseSeconds = entry.ClosedPauseSeconds()

	rawSeconds := int64(now.Sub(entry.StartTime).Seconds())
	if rawSeconds < 0 {
		rawSeconds = 0
	}
	workedSeconds := rawSeconds - entry.TotalPauseSeconds
	if workedSeconds < 0 {
		workedSeconds = 0
	}

	entry.EndTime = &now
	entry.DurationSeconds = workedSeconds
	entry.Status = models.TrackingStatusStopped
	if err := service.entries.Save(&entry); err != nil {
		return models.TimeEntry{}, fmt.Errorf("stop time entry: %w", err)
	}

	// Project hours are a denormalized convenience; a failed increment
	// is logged but the stop has already succeeded.
	hours := float64(workedSeconds) / 3600.0
	if err := service.projects.AddTrackedHours(entry.ProjectID, entry.OrganizationID, hours); err != nil {
		log.Printf("add tracked hours to project %s failed: %v", entry.ProjectID, err)
	}
	return entry, nil
}

func (service *TimerService) List(user *models.User, filter db.TimeEntryFilter) ([]models.TimeEntry, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	return service.entries.ListForUser(user.ID, user.OrganizationID, filter)
}

type ManualEntryInput struct {
	ProjectID   string
	TaskID      string
	Description string
	StartTime   time.Time
	EndTime     time.Time
}

func (service *TimerService) CreateManual(user *models.User, input ManualEntryInput) (models.TimeEntry, error) {
	if !input.EndTime.After(input.StartTime) {
		return models.TimeEntry{}, ErrInvalidTimeRange
	}
	if _, err := service.projects.FindInOrganization(input.ProjectID, user.OrganizationID); err != nil {
		return models.TimeEntry{}, ErrProjectNotFound
	}
	if input.TaskID != "" {
		if _, err := service.tasks.FindInOrganization(input.TaskID, user.OrganizationID); err != nil {
			return models.TimeEntry{}, ErrTaskNotFound
		}
	}

	seconds := int64(input.EndTime.Sub(input.StartTime).Seconds())
	endTime := input.EndTime
	entry := models.TimeEntry{
		ID:              uuid.NewString(),
		UserID:          user.ID,
		OrganizationID:  user.OrganizationID,
		ProjectID:       input.ProjectID,
		TaskID:          input.TaskID,
		Description:     strings.TrimSpace(input.Description),
		StartTime:       input.StartTime,
		EndTime:         &endTime,
		DurationSeconds: seconds,
		Status:          models.TrackingStatusStopped,
		Manual:          true,
		PausePeriods:    []models.PausePeriod{},
	}
	if err := service.entries.Create(&entry); err != nil {
		return models.TimeEntry{}, fmt.Errorf("create manual entry: %w", err)
	}

	hours := float64(seconds) / 3600.0
	if err := service.projects.AddTrackedHours(entry.ProjectID, entry.OrganizationID, hours); err != nil {
		log.Printf("add tracked hours to project %s failed: %v", entry.ProjectID, err)
	}
	return entry, nil
}

type EntryUpdate struct {
	Description *string
	TaskID      *string
}

// UpdateEntry only touches descriptive fields; times and durations are
// owned by the state machine.
func (service *TimerService) UpdateEntry(user *models.User, entryID string, update EntryUpdate) (models.TimeEntry, error) {
	entry, err := service.entries.FindForUser(entryID, user.ID, user.OrganizationID)
	if err != nil {
		return models.TimeEntry{}, ErrTimeEntryNotFound
	}
	if update.Description != nil {
		entry.Description = strings.TrimSpace(*update.Description)
	}
	if update.TaskID != nil {
		if *update.TaskID != "" {
			if _, err := service.tasks.FindInOrganization(*update.TaskID, user.OrganizationID); err != nil {
				return models.TimeEntry{}, ErrTaskNotFound
			}
		}
		entry.TaskID = *update.TaskID
	}
	if err := service.entries.Save(&entry); err != nil {
		return models.TimeEntry{}, fmt.Errorf("update time entry: %w", err)
	}
	return entry, nil
}

type DailyReport struct {
	Date          string  `json:"date"`
	TotalSeconds  int64   `json:"total_seconds"`
	TotalHours    float64 `json:"total_hours"`
	EntryCount    int     `json:"entry_count"`
	PausedSeconds int64   `json:"paused_seconds"`
}

func (service *TimerService) DailyReport(user *models.User, day time.Time) (DailyReport, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	entries, err := service.entries.ListForUser(user.ID, user.OrganizationID, db.TimeEntryFilter{
		From:  &dayStart,
		To:    &dayEnd,
		Limit: 500,
	})
	if err != nil {
		return DailyReport{}, fmt.Errorf("load entries: %w", err)
	}

	report := DailyReport{Date: dayStart.Format("2006-01-02"), EntryCount: len(entries)}
	for _, entry := range entries {
		report.TotalSeconds += entry.DurationSeconds
		report.PausedSeconds += entry.TotalPauseSeconds
	}
	report.TotalHours = float64(report.TotalSeconds) / 3600.0
	return report, nil
}

type TeamMemberReport struct {
	UserID       string  `json:"user_id"`
	TotalSeconds int64   `json:"total_seconds"`
	TotalHours   float64 `json:"total_hours"`
	EntryCount   int     `json:"entry_count"`
}

// TeamReport aggregates the organization's entries per member over a
// date range.
func (service *TimerService) TeamReport(organizationID string, from time.Time, to time.Time) ([]TeamMemberReport, error) {
	if !to.After(from) {
		return nil, ErrInvalidTimeRange
	}
	entries, err := service.entries.ListForOrganization(organizationID, db.TimeEntryFilter{
		From:  &from,
		To:    &to,
		Limit: 10000,
	})
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}

	totals := make(map[string]*TeamMemberReport)
	order := make([]string, 0)
	for _, entry := range entries {
		report, ok := totals[entry.UserID]
		if !ok {
			report = &TeamMemberReport{UserID: entry.UserID}
			totals[entry.UserID] = report
			order = append(order, entry.UserID)
		}
		report.TotalSeconds += entry.DurationSeconds
		report.EntryCount++
	}

	reports := make([]TeamMemberReport, 0, len(order))
	for _, userID := range order {
		report := totals[userID]
		report.TotalHours = float64(report.TotalSeconds) / 3600.0
		reports = append(reports, *report)
	}
	return reports, nil
}
