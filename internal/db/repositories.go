package db

import (
	"strings"

	"gorm.io/gorm"
)

type Repositories struct {
	Users          *UserRepository
	Organizations  *OrganizationRepository
	Invitations    *InvitationRepository
	Projects       *ProjectRepository
	Tasks          *TaskRepository
	TimeEntries    *TimeEntryRepository
	Monitoring     *MonitoringRepository
	Productivity   *ProductivityRepository
	PasswordResets *PasswordResetRepository
	AuditLogs      *AuditLogRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:          NewUserRepository(database),
		Organizations:  NewOrganizationRepository(database),
		Invitations:    NewInvitationRepository(database),
		Projects:       NewProjectRepository(database),
		Tasks:          NewTaskRepository(database),
		TimeEntries:    NewTimeEntryRepository(database),
		Monitoring:     NewMonitoringRepository(database),
		Productivity:   NewProductivityRepository(database),
		PasswordResets: NewPasswordResetRepository(database),
		AuditLogs:      NewAuditLogRepository(database),
	}
}

// IsUniqueViolation reports whether err comes from a violated unique index.
// The sqlite driver surfaces these as plain errors, so the message is inspected.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
