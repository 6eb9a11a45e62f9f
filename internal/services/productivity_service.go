package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vantahq/pulseboard/internal/db"
	"github.com/vantahq/pulseboard/internal/models"
)

var (
	ErrAlertNotFound = errors.New("alert not found")
	ErrGoalNotFound  = errors.New("goal not found")
)

// alertWindow is the trailing span of snapshots inspected on every new
// snapshot.
const alertWindow = 30 * time.Minute

const (
	lowActivityThreshold  = 10.0
	lowActivitySnapshots  = 3
	productivityDropCount = 4
	excessiveIdleCount    = 6
)

type ProductivitySnapshotRepository interface {
	CreateSnapshot(snapshot *models.RealTimeActivity) error
	ListSnapshotsSince(userID string, organizationID string, since time.Time) ([]models.RealTimeActivity, error)
	CreateAlert(alert *models.ProductivityAlert) error
	HasUnresolvedAlert(userID string, organizationID string, alertType string) (bool, error)
	ListAlerts(organizationID string, onlyUnresolved bool, limit int, offset int) ([]models.ProductivityAlert, error)
	ResolveAlert(alertID string, organizationID string, resolverID string, resolvedAt time.Time) error
	CreateGoal(goal *models.ProductivityGoal) error
	ListGoals(userID string, organizationID string) ([]models.ProductivityGoal, error)
	UpdateGoal(goalID string, userID string, organizationID string, updates map[string]any) error
	DeleteGoal(goalID string, userID string, organizationID string) error
}

type ProductivityEntryRepository interface {
	FindForUser(entryID string, userID string, organizationID string) (models.TimeEntry, error)
	ListForUser(userID string, organizationID string, filter db.TimeEntryFilter) ([]models.TimeEntry, error)
}

type ProductivityMonitoringRepository interface {
	ListAppUsageForEntry(entryID string, organizationID string) ([]models.ApplicationUsage, error)
	ListSessionsForEntry(entryID string, organizationID string) ([]models.ActivitySession, error)
}

type ProductivityService struct {
	snapshots  ProductivitySnapshotRepository
	entries    ProductivityEntryRepository
	monitoring ProductivityMonitoringRepository
	onAlert    func(alertType string)
}

func NewProductivityService(
	snapshots ProductivitySnapshotRepository,
	entries ProductivityEntryRepository,
	monitoring ProductivityMonitoringRepository,
	onAlert func(alertType string),
) *ProductivityService {
	if onAlert == nil {
		onAlert = func(string) {}
	}
	return &ProductivityService{
		snapshots:  snapshots,
		entries:    entries,
		monitoring: monitoring,
		onAlert:    onAlert,
	}
}

type TrackInput struct {
	TimeEntryID    string
	Keystrokes     int
	MouseClicks    int
	MouseMovements int
	WindowMinutes  float64
	CurrentApp     string
	CurrentURL     string
	IsIdle         bool
}

// Track persists a real-time snapshot and sweeps the trailing window for
// alert conditions. The snapshot only lands against a time entry owned
// by the caller inside their organization.
func (service *ProductivityService) Track(user *models.User, input TrackInput) (models.RealTimeActivity, error) {
	entry, err := service.entries.FindForUser(input.TimeEntryID, user.ID, user.OrganizationID)
	if err != nil {
		return models.RealTimeActivity{}, ErrTimeEntryNotFound
	}

	windowMinutes := input.WindowMinutes
	if windowMinutes <= 0 {
		windowMinutes = 1
	}
	score := ActivityLevel(input.Keystrokes, input.MouseClicks, input.MouseMovements, windowMinutes)
	appCategory := CategorizeApplication(input.CurrentApp)
	siteCategory := SiteCategoryOther
	if input.CurrentURL != "" {
		siteCategory = CategorizeWebsite(ExtractDomain(input.CurrentURL))
	}

	snapshot := models.RealTimeActivity{
		ID:                uuid.NewString(),
		UserID:            user.ID,
		OrganizationID:    user.OrganizationID,
		TimeEntryID:       entry.ID,
		ActivityScore:     score,
		ProductivityLevel: DetermineLevel(score, appCategory, siteCategory),
		IsIdle:            input.IsIdle,
		CurrentApp:        input.CurrentApp,
		CurrentURL:        input.CurrentURL,
		RecordedAt:        time.Now(),
	}
	if err := service.snapshots.CreateSnapshot(&snapshot); err != nil {
		return models.RealTimeActivity{}, fmt.Errorf("store snapshot: %w", err)
	}

	if err := service.sweepAlerts(user, snapshot.RecordedAt); err != nil {
		return models.RealTimeActivity{}, err
	}
	return snapshot, nil
}

func (service *ProductivityService) sweepAlerts(user *models.User, now time.Time) error {
	window, err := service.snapshots.ListSnapshotsSince(user.ID, user.OrganizationID, now.Add(-alertWindow))
	if err != nil {
		return fmt.Errorf("load snapshot window: %w", err)
	}

	lowActivity := 0
	lowProductivity := 0
	idle := 0
	for _, snapshot := range window {
		if snapshot.ActivityScore < lowActivityThreshold {
			lowActivity++
		}
		if snapshot.ProductivityLevel == models.ProductivityLow || snapshot.ProductivityLevel == models.ProductivityVeryLow {
			lowProductivity++
		}
		if snapshot.IsIdle {
			idle++
		}
	}

	if lowActivity >= lowActivitySnapshots {
		if err := service.raiseAlert(user, models.AlertLowActivity, models.SeverityMedium,
			fmt.Sprintf("activity below %.0f in %d recent snapshots", lowActivityThreshold, lowActivity)); err != nil {
			return err
		}
	}
	if lowProductivity >= productivityDropCount {
		if err := service.raiseAlert(user, models.AlertProductivityDrop, models.SeverityHigh,
			fmt.Sprintf("%d low productivity snapshots in the last 30 minutes", lowProductivity)); err != nil {
			return err
		}
	}
	if idle >= excessiveIdleCount {
		if err := service.raiseAlert(user, models.AlertExcessiveIdle, models.SeverityMedium,
			fmt.Sprintf("%d idle snapshots in the last 30 minutes", idle)); err != nil {
			return err
		}
	}
	return nil
}

// raiseAlert suppresses duplicates: one unresolved alert per type per
// user at a time.
func (service *ProductivityService) raiseAlert(user *models.User, alertType string, severity string, message string) error {
	exists, err := service.snapshots.HasUnresolvedAlert(user.ID, user.OrganizationID, alertType)
	if err != nil {
		return fmt.Errorf("check alerts: %w", err)
	}
	if exists {
		return nil
	}
	alert := models.ProductivityAlert{
		ID:             uuid.NewString(),
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
		AlertType:      alertType,
		Severity:       severity,
		Message:        message,
	}
	if err := service.snapshots.CreateAlert(&alert); err != nil {
		return fmt.Errorf("create alert: %w", err)
	}
	service.onAlert(alertType)
	return nil
}

func (service *ProductivityService) Alerts(organizationID string, onlyUnresolved bool, limit int, offset int) ([]models.ProductivityAlert, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return service.snapshots.ListAlerts(organizationID, onlyUnresolved, limit, offset)
}

func (service *ProductivityService) ResolveAlert(actor *models.User, alertID string) error {
	if err := service.snapshots.ResolveAlert(alertID, actor.OrganizationID, actor.ID, time.Now()); err != nil {
		return ErrAlertNotFound
	}
	return nil
}

type GoalInput struct {
	Name           string
	TargetHours    float64
	TargetActivity float64
	Period         string
}

func (service *ProductivityService) CreateGoal(user *models.User, input GoalInput) (models.ProductivityGoal, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return models.ProductivityGoal{}, ErrInvalidInput
	}
	period := input.Period
	if period == "" {
		period = "weekly"
	}
	goal := models.ProductivityGoal{
		ID:             uuid.NewString(),
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
		Name:           name,
		TargetHours:    input.TargetHours,
		TargetActivity: input.TargetActivity,
		Period:         period,
		Active:         true,
	}
	if err := service.snapshots.CreateGoal(&goal); err != nil {
		return models.ProductivityGoal{}, fmt.Errorf("create goal: %w", err)
	}
	return goal, nil
}

func (service *ProductivityService) ListGoals(user *models.User) ([]models.ProductivityGoal, error) {
	return service.snapshots.ListGoals(user.ID, user.OrganizationID)
}

type GoalUpdate struct {
	Name           *string
	TargetHours    *float64
	TargetActivity *float64
	Active         *bool
}

func (service *ProductivityService) UpdateGoal(user *models.User, goalID string, update GoalUpdate) error {
	updates := map[string]any{}
	if update.Name != nil && strings.TrimSpace(*update.Name) != "" {
		updates["name"] = strings.TrimSpace(*update.Name)
	}
	if update.TargetHours != nil {
		updates["target_hours"] = *update.TargetHours
	}
	if update.TargetActivity != nil {
		updates["target_activity"] = *update.TargetActivity
	}
	if update.Active != nil {
		updates["active"] = *update.Active
	}
	if len(updates) == 0 {
		return nil
	}
	if err := service.snapshots.UpdateGoal(goalID, user.ID, user.OrganizationID, updates); err != nil {
		return ErrGoalNotFound
	}
	return nil
}

func (service *ProductivityService) DeleteGoal(user *models.User, goalID string) error {
	if err := service.snapshots.DeleteGoal(goalID, user.ID, user.OrganizationID); err != nil {
		return ErrGoalNotFound
	}
	return nil
}

type UserReport struct {
	UserID          string  `json:"user_id"`
	From            string  `json:"from"`
	To              string  `json:"to"`
	TrackedSeconds  int64   `json:"tracked_seconds"`
	TrackedHours    float64 `json:"tracked_hours"`
	AverageActivity float64 `json:"average_activity"`
	FocusScore      float64 `json:"focus_score"`
	EfficiencyScore float64 `json:"efficiency_score"`
	EntryCount      int     `json:"entry_count"`
}

// Report summarizes a member's tracked time and telemetry over a range.
// Time utilization for the efficiency blend assumes an 8 hour working
// day per calendar day in the range.
func (service *ProductivityService) Report(user *models.User, from time.Time, to time.Time) (UserReport, error) {
	if !to.After(from) {
		return UserReport{}, ErrInvalidTimeRange
	}
	entries, err := service.entries.ListForUser(user.ID, user.OrganizationID, db.TimeEntryFilter{
		From:  &from,
		To:    &to,
		Limit: 10000,
	})
	if err != nil {
		return UserReport{}, fmt.Errorf("load entries: %w", err)
	}

	report := UserReport{
		UserID:     user.ID,
		From:       from.Format("2006-01-02"),
		To:         to.Format("2006-01-02"),
		EntryCount: len(entries),
	}

	var sessionMinutes float64
	var weightedActivity float64
	appSwitches := 0
	for _, entry := range entries {
		report.TrackedSeconds += entry.DurationSeconds

		usages, err := service.monitoring.ListAppUsageForEntry(entry.ID, user.OrganizationID)
		if err != nil {
			return UserReport{}, fmt.Errorf("load app usage: %w", err)
		}
		appSwitches += len(usages)

		sessions, err := service.monitoring.ListSessionsForEntry(entry.ID, user.OrganizationID)
		if err != nil {
			return UserReport{}, fmt.Errorf("load sessions: %w", err)
		}
		for _, session := range sessions {
			end := time.Now()
			if session.EndedAt != nil {
				end = *session.EndedAt
			}
			minutes := end.Sub(session.StartedAt).Minutes()
			if minutes <= 0 {
				minutes = 1
			}
			sessionMinutes += minutes
			weightedActivity += ActivityLevel(session.KeystrokeCount, session.MouseClickCount, session.MouseMovementCount, minutes) * minutes
		}
	}

	report.TrackedHours = float64(report.TrackedSeconds) / 3600.0
	if sessionMinutes > 0 {
		report.AverageActivity = weightedActivity / sessionMinutes
	}
	report.FocusScore = FocusScore(appSwitches, maxFloat(sessionMinutes, 1))

	days := to.Sub(from).Hours() / 24
	if days < 1 {
		days = 1
	}
	utilization := report.TrackedHours / (days * 8) * 100
	if utilization > 100 {
		utilization = 100
	}
	report.EfficiencyScore = EfficiencyScore(utilization, report.AverageActivity)
	return report, nil
}

// Recommendations turns a report into short actionable notes.
func Recommendations(report UserReport) []string {
	recommendations := make([]string, 0, 3)
	if report.AverageActivity < 30 {
		recommendations = append(recommendations, "Activity levels are low; consider reviewing workload or removing blockers.")
	}
	if report.FocusScore < 60 {
		recommendations = append(recommendations, "Frequent application switching detected; try longer uninterrupted focus blocks.")
	}
	if report.TrackedHours < 4 {
		recommendations = append(recommendations, "Tracked time is below typical levels for the period.")
	}
	if len(recommendations) == 0 {
		recommendations = append(recommendations, "Productivity looks healthy for this period.")
	}
	return recommendations
}

func maxFloat(a float64, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
