package api

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/health", handler.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(
		handler.collectors.Registry(),
		promhttp.HandlerOpts{},
	)))

	api := app.Group("/api")
	api.Get("/health", handler.Health)

	auth := api.Group("/auth")
	auth.Post("/login", handler.Login)
	auth.Post("/refresh", handler.Refresh)
	auth.Post("/accept-invite", handler.OptionalAuth, handler.AcceptInvite)
	auth.Post("/forgot-password", handler.OptionalAuth, handler.ForgotPassword)
	auth.Post("/reset-password", handler.OptionalAuth, handler.ResetPassword)
	auth.Post("/logout", handler.RequireAuth, handler.Logout)
	auth.Get("/me", handler.RequireAuth, handler.Me)

	// Removed with the move to organization accounts.
	auth.Post("/register", deprecatedEndpoint("POST /api/organizations/register"))
	auth.Post("/invite", deprecatedEndpoint("POST /api/organizations/invite"))
	auth.Get("/invitations", deprecatedEndpoint("GET /api/organizations/invitations"))
	auth.Get("/invitations/all", deprecatedEndpoint("GET /api/organizations/invitations"))

	organizations := api.Group("/organizations")
	organizations.Post("/register", handler.RegisterOrganization)
	organizations.Get("/me", handler.RequireAuth, handler.GetOrganization)
	organizations.Put("/me", handler.RequireAuth, handler.AdminAccess, handler.UpdateOrganization)
	organizations.Get("/stats", handler.RequireAuth, handler.AdminAccess, handler.OrganizationStats)
	organizations.Get("/policy", handler.RequireAuth, handler.AdminAccess, handler.OrganizationPolicy)
	organizations.Post("/invite", handler.RequireAuth, handler.AdminAccess, handler.InviteMember)
	organizations.Get("/invitations", handler.RequireAuth, handler.ManagerAccess, handler.ListInvitations)
	organizations.Get("/audit-log", handler.RequireAuth, handler.AdminAccess, handler.OrganizationAuditLog)

	users := api.Group("/users", handler.RequireAuth)
	users.Get("", handler.ListMembers)
	users.Put("/me", handler.UpdateProfile)
	users.Get("/team/stats", handler.ManagerAccess, handler.TeamStats)
	users.Get("/:id", handler.GetMember)
	users.Put("/:id", handler.ManagerAccess, handler.UpdateMember)
	users.Delete("/:id", handler.ManagerAccess, handler.RemoveMember)

	projects := api.Group("/projects", handler.RequireAuth)
	projects.Get("", handler.ListProjects)
	projects.Post("", handler.ManagerAccess, handler.CreateProject)
	projects.Get("/:id", handler.GetProject)
	projects.Put("/:id", handler.ManagerAccess, handler.UpdateProject)
	projects.Delete("/:id", handler.AdminAccess, handler.DeleteProject)
	projects.Get("/:id/tasks", handler.ListTasks)
	projects.Post("/:id/tasks", handler.ManagerAccess, handler.CreateTask)

	tasks := api.Group("/tasks", handler.RequireAuth)
	tasks.Get("/my", handler.ListMyTasks)
	tasks.Put("/:taskId", handler.UpdateTask)
	tasks.Delete("/:taskId", handler.ManagerAccess, handler.DeleteTask)

	tracking := api.Group("/time-tracking", handler.RequireAuth)
	tracking.Post("/start", handler.StartTimer)
	tracking.Get("/active", handler.ActiveTimer)
	tracking.Post("/:id/pause", handler.PauseTimer)
	tracking.Post("/:id/resume", handler.ResumeTimer)
	tracking.Post("/:id/stop", handler.StopTimer)
	tracking.Get("/entries", handler.ListTimeEntries)
	tracking.Post("/entries", handler.CreateManualEntry)
	tracking.Put("/entries/:id", handler.UpdateTimeEntry)
	tracking.Get("/reports/daily", handler.DailyReport)
	tracking.Get("/reports/team", handler.ManagerAccess, handler.TeamReport)

	monitoring := api.Group("/monitoring", handler.RequireAuth)
	monitoring.Post("/screenshots", handler.UploadScreenshot)
	monitoring.Get("/screenshots/entry/:entryId", handler.ListScreenshots)
	monitoring.Get("/screenshots", handler.ManagerAccess, handler.AdminScreenshots)
	monitoring.Delete("/screenshots/:id", handler.DeleteScreenshot)
	monitoring.Get("/settings", handler.GetMonitoringSettings)
	monitoring.Put("/settings", handler.UpdateMonitoringSettings)
	monitoring.Post("/activity", handler.RecordActivity)
	monitoring.Post("/app-switch", handler.RecordAppSwitch)
	monitoring.Post("/website-visit", handler.RecordWebsiteVisit)

	productivity := api.Group("/productivity", handler.RequireAuth)
	productivity.Post("/track", handler.TrackProductivity)
	productivity.Get("/alerts", handler.ManagerAccess, handler.ListAlerts)
	productivity.Post("/alerts/:id/resolve", handler.ManagerAccess, handler.ResolveAlert)
	productivity.Post("/goals", handler.CreateGoal)
	productivity.Get("/goals", handler.ListGoals)
	productivity.Put("/goals/:id", handler.UpdateGoal)
	productivity.Delete("/goals/:id", handler.DeleteGoal)
	productivity.Get("/report", handler.ProductivityReport)
	productivity.Get("/summary", handler.ManagerAccess, handler.ProductivitySummary)

	analytics := api.Group("/analytics", handler.RequireAuth)
	analytics.Get("/dashboard", handler.AnalyticsDashboard)
	analytics.Get("/team", handler.ManagerAccess, handler.TeamAnalytics)
}

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "service": "pulseboard"})
}
