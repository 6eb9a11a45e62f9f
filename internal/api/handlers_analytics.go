package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/vantahq/pulseboard/internal/services"
)

// AnalyticsDashboard bundles the caller's report, recommendations and
// goals into one payload so a dashboard loads with a single request.
func (handler *Handler) AnalyticsDashboard(c *fiber.Ctx) error {
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

	report, err := handler.productivity.Report(user, from, to)
	if err != nil {
		return handler.serviceError(c, err)
	}
	goals, err := handler.productivity.ListGoals(user)
	if err != nil {
		return handler.serviceError(c, err)
	}
	goalViews := make([]fiber.Map, 0, len(goals))
	for _, goal := range goals {
		goalViews = append(goalViews, goalView(goal))
	}
	return c.JSON(fiber.Map{
		"report":          report,
		"recommendations": services.Recommendations(report),
		"goals":           goalViews,
	})
}

// TeamAnalytics reports on every member and rolls the numbers up into
// organization totals for managers.
func (handler *Handler) TeamAnalytics(c *fiber.Ctx) error {
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

	memberViews := make([]fiber.Map, 0, len(members))
	var trackedHours, activitySum float64
	var topPerformer fiber.Map
	var topScore float64
	for index := range members {
		report, err := handler.productivity.Report(&members[index], from, to)
		if err != nil {
			return handler.serviceError(c, err)
		}
		memberViews = append(memberViews, fiber.Map{
			"user":   userView(members[index]),
			"report": report,
		})
		trackedHours += report.TrackedHours
		activitySum += report.AverageActivity
		if report.EfficiencyScore > topScore {
			topScore = report.EfficiencyScore
			topPerformer = userView(members[index])
		}
	}

	averageActivity := 0.0
	if len(members) > 0 {
		averageActivity = activitySum / float64(len(members))
	}
	return c.JSON(fiber.Map{
		"members": memberViews,
		"totals": fiber.Map{
			"tracked_hours":    trackedHours,
			"average_activity": averageActivity,
		},
		"top_performer": topPerformer,
	})
}
