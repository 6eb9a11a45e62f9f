package models

import "time"

const (
	PlanFree         = "free"
	PlanStarter      = "starter"
	PlanProfessional = "professional"
	PlanEnterprise   = "enterprise"
)

const (
	OrganizationStatusTrial     = "trial"
	OrganizationStatusActive    = "active"
	OrganizationStatusSuspended = "suspended"
	OrganizationStatusCancelled = "cancelled"
)

const (
	DefaultMaxUsers = 5
	TrialPeriodDays = 14
)

type Organization struct {
	ID           string `gorm:"primaryKey"`
	Name         string `gorm:"not null"`
	Domain       string `gorm:"uniqueIndex;not null"`
	OwnerID      string `gorm:"not null;default:''"`
	Plan         string `gorm:"not null;default:free"`
	Status       string `gorm:"not null;default:trial"`
	MaxUsers     int    `gorm:"not null;default:5"`
	CurrentUsers int    `gorm:"not null;default:0"`
	TrialEndsAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AcceptsMembers reports whether new members may still join the organization.
func (organization *Organization) AcceptsMembers() bool {
	return organization.Status == OrganizationStatusTrial || organization.Status == OrganizationStatusActive
}

type SecurityPolicy struct {
	ID                    string `gorm:"primaryKey"`
	OrganizationID        string `gorm:"uniqueIndex;not null"`
	MinPasswordLength     int    `gorm:"not null;default:8"`
	RequireMFA            bool   `gorm:"not null;default:false"`
	SessionTimeoutMinutes int    `gorm:"not null;default:480"`
	DataRetentionDays     int    `gorm:"not null;default:90"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

type AuditLog struct {
	ID             string `gorm:"primaryKey"`
	OrganizationID string `gorm:"index;not null"`
	ActorID        string `gorm:"not null;default:''"`
	Action         string `gorm:"not null"`
	Details        string `gorm:"not null;default:''"`
	CreatedAt      time.Time
}
