package api

import (
	"gorm.io/gorm"

	"github.com/vantahq/pulseboard/internal/auth"
	"github.com/vantahq/pulseboard/internal/config"
	"github.com/vantahq/pulseboard/internal/db"
	"github.com/vantahq/pulseboard/internal/mail"
	"github.com/vantahq/pulseboard/internal/metrics"
	"github.com/vantahq/pulseboard/internal/services"
	"github.com/vantahq/pulseboard/internal/storage"
)

type Handler struct {
	repositories *db.Repositories
	tokens       *auth.TokenManager
	collectors   *metrics.Metrics

	organizations  *services.OrganizationService
	sessions       *services.AuthSessionService
	passwordResets *services.PasswordResetService
	users          *services.UserService
	projects       *services.ProjectService
	timers         *services.TimerService
	monitoring     *services.MonitoringService
	productivity   *services.ProductivityService
}

func NewHandler(database *gorm.DB, cfg *config.Config, files storage.Backend, mailer mail.Mailer, collectors *metrics.Metrics) *Handler {
	repositories := db.NewRepositories(database)
	tokens := auth.NewTokenManager(cfg.Auth.SecretKey, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	publicURL := cfg.Server.PublicURL

	return &Handler{
		repositories: repositories,
		tokens:       tokens,
		collectors:   collectors,

		organizations: services.NewOrganizationService(
			repositories.Organizations,
			repositories.Users,
			repositories.Invitations,
			repositories.AuditLogs,
			tokens,
			mailer,
			publicURL,
		),
		sessions:       services.NewAuthSessionService(repositories.Users, tokens),
		passwordResets: services.NewPasswordResetService(repositories.PasswordResets, repositories.Users, mailer, publicURL),
		users:          services.NewUserService(repositories.Users),
		projects:       services.NewProjectService(repositories.Projects, repositories.Tasks, repositories.Users),
		timers:         services.NewTimerService(repositories.TimeEntries, repositories.Projects, repositories.Tasks),
		monitoring:     services.NewMonitoringService(repositories.Monitoring, repositories.TimeEntries, files, cfg.Monitoring.ScreenshotIntervalMinutes),
		productivity: services.NewProductivityService(
			repositories.Productivity,
			repositories.TimeEntries,
			repositories.Monitoring,
			collectors.IncAlert,
		),
	}
}
