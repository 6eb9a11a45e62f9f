package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/vantahq/pulseboard/internal/services"
)

type trackInput struct {
	TimeEntryID    string  `json:"time_entry_id"`
	Keystrokes     int     `json:"keystrokes"`
	MouseClicks    int     `json:"mouse_clicks"`
	MouseMovements int     `json:"mouse_movements"`
	WindowMinutes  float64 `json:"window_minutes"`
	CurrentApp     string  `json:"current_app"`
	CurrentURL     string  `json:"current_url"`
	IsIdle         bool    `json:"is_idle"`
}

type goalInput struct {
	Name           string  `json:"name"`
	TargetHours    float64 `json:"target_hours"`
	TargetActivity float64 `json:"target_activity"`
	Period         string  `json:"period"`
}

type goalUpdateInput struct {
	Name           *string  `json:"name"`
	TargetHours    *float64 `json:"target_hours"`
	TargetActivity *float64 `json:"target_activity"`
	Active         *bool    `json:"active"`
}

func (handler *Handler) TrackProductivity(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	var input trackInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	snapshot, err := handler.productivity.Track(user, services.TrackInput{
		TimeEntryID:    input.TimeEntryID,
		Keystrokes:     input.Keystrokes,
		MouseClicks:    input.MouseClicks,
		MouseMovements: input.MouseMovements,
		WindowMinutes:  input.WindowMinutes,
		CurrentApp:     input.CurrentApp,
		CurrentURL:     input.CurrentURL,
		IsIdle:         input.IsIdle,
	})
	if err != nil {
		return handler.serviceError(c, err)
	}
	handler.collectors.IncTelemetryEvent("productivity_snapshot")
	return c.JSON(snapshotView(snapshot))
}

func (handler *Handler) ListAlerts(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	alerts, err := handler.productivity.Alerts(
		user.OrganizationID,
		c.QueryBool("unresolved", false),
		queryInt(c, "limit", 50),
		queryInt(c, "offset", 0),
	)
	if err != nil {
		return handler.serviceError(c, err)
	}
	views := make([]fiber.Map, 0, len(alerts))
	for _, alert := range alerts {
		views = append(views, alertView(alert))
	}
	return c.JSON(fiber.Map{"alerts": views})
}

func (handler *Handler) ResolveAlert(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	if err := handler.productivity.ResolveAlert(user, c.Params("id")); err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) CreateGoal(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	var input goalInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	goal, err := handler.productivity.CreateGoal(user, services.GoalInput{
		Name:           input.Name,
		TargetHours:    input.TargetHours,
		TargetActivity: input.TargetActivity,
		Period:         input.Period,
	})
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(goalView(goal))
}

func (handler *Handler) ListGoals(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	goals, err := handler.productivity.ListGoals(user)
	if err != nil {
		return handler.serviceError(c, err)
	}
	views := make([]fiber.Map, 0, len(goals))
	for _, goal := range goals {
		views = append(views, goalView(goal))
	}
	return c.JSON(fiber.Map{"goals": views})
}

func (handler *Handler) UpdateGoal(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	var input goalUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if err := handler.productivity.UpdateGoal(user, c.Params("id"), services.GoalUpdate{
		Name:           input.Name,
		TargetHours:    input.TargetHours,
		TargetActivity: input.TargetActivity,
		Active:         input.Active,
	}); err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) DeleteGoal(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	if err := handler.productivity.DeleteGoal(user, c.Params("id")); err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// ProductivityReport builds the caller's personal report, or another
// member's when a manager passes user_id.
func (handler *Handler) ProductivityReport(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}

	subject := user
	if targetID := c.Query("user_id"); targetID != "" && targetID != user.ID {
		if !user.CanManageMembers() {
			return apiError(c, fiber.StatusForbidden, "manager access required")
		}
		target, err := handler.users.Get(targetID, user.OrganizationID)
		if err != nil {
			return handler.serviceError(c, err)
		}
		subject = &target
	}

	now := time.Now()
	from, err := parseDateQuery(c, "from", now.AddDate(0, 0, -7))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid from date")
	}
	to, err := parseDateQuery(c, "to", now)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid to date")
	}

	report, err := handler.productivity.Report(subject, from, to)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"report":          report,
		"recommendations": services.Recommendations(report),
	})
}

// ProductivitySummary aggregates per-member reports for managers.
func (handler *Handler) ProductivitySummary(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}

	now := time.Now()
	from, err := parseDateQuery(c, "from", now.AddDate(0, 0, -7))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid from date")
	}
	to, err := parseDateQuery(c, "to", now)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid to date")
	}

	members, err := handler.users.List(user.OrganizationID, "", 200, 0)
	if err != nil {
		return handler.serviceError(c, err)
	}
	reports := make([]services.UserReport, 0, len(members))
	for index := range members {
		report, err := handler.productivity.Report(&members[index], from, to)
		if err != nil {
			return handler.serviceError(c, err)
		}
		reports = append(reports, report)
	}
	return c.JSON(fiber.Map{"reports": reports})
}
