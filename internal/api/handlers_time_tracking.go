package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/vantahq/pulseboard/internal/db"
	"github.com/vantahq/pulseboard/internal/services"
)

type startTimerInput struct {
	ProjectID   string `json:"project_id"`
	TaskID      string `json:"task_id"`
	Description string `json:"description"`
}

type manualEntryInput struct {
	ProjectID   string    `json:"project_id"`
	TaskID      string    `json:"task_id"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
}

type entryUpdateInput struct {
	Description *string `json:"description"`
	TaskID      *string `json:"task_id"`
}

func (handler *Handler) StartTimer(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	var input startTimerInput
	if err := c.BodyParser(&input); err != nil || input.ProjectID == "" {
		return apiError(c, fiber.StatusBadRequest, "project_id required")
	}
	entry, err := handler.timers.Start(user, services.StartTimerInput{
		ProjectID:   input.ProjectID,
		TaskID:      input.TaskID,
		Description: input.Description,
	})
	if err != nil {
		return handler.serviceError(c, err)
	}
	handler.collectors.ActiveTimers.Inc()
	return c.Status(fiber.StatusCreated).JSON(entryView(entry))
}

func (handler *Handler) ActiveTimer(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	entry, err := handler.timers.Active(user)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(entryView(entry))
}

func (handler *Handler) PauseTimer(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	entry, err := handler.timers.Pause(user, c.Params("id"))
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(entryView(entry))
}

func (handler *Handler) ResumeTimer(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	entry, err := handler.timers.Resume(user, c.Params("id"))
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(entryView(entry))
}

func (handler *Handler) StopTimer(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	entry, err := handler.timers.Stop(user, c.Params("id"))
	if err != nil {
		return handler.serviceError(c, err)
	}
	handler.collectors.ActiveTimers.Dec()
	return c.JSON(entryView(entry))
}

func (handler *Handler) ListTimeEntries(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	filter := db.TimeEntryFilter{
		ProjectID: c.Query("project_id"),
		Limit:     queryInt(c, "limit", 50),
		Offset:    queryInt(c, "offset", 0),
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

	entries, err := handler.timers.List(user, filter)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"entries": entryViews(entries)})
}

func (handler *Handler) CreateManualEntry(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	var input manualEntryInput
	if err := c.BodyParser(&input); err != nil || input.ProjectID == "" {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	entry, err := handler.timers.CreateManual(user, services.ManualEntryInput{
		ProjectID:   input.ProjectID,
		TaskID:      input.TaskID,
		Description: input.Description,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
	})
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entryView(entry))
}

func (handler *Handler) UpdateTimeEntry(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	var input entryUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	entry, err := handler.timers.UpdateEntry(user, c.Params("id"), services.EntryUpdate{
		Description: input.Description,
		TaskID:      input.TaskID,
	})
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(entryView(entry))
}

func (handler *Handler) DailyReport(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	day, err := parseDateQuery(c, "date", time.Now())
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}
	report, err := handler.timers.DailyReport(user, day)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(report)
}

func (handler *Handler) TeamReport(c *fiber.Ctx) error {
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
	reports, err := handler.timers.TeamReport(user.OrganizationID, from, to)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"members": reports})
}
