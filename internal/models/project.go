package models

import "time"

const (
	ProjectStatusActive    = "active"
	ProjectStatusPaused    = "paused"
	ProjectStatusCompleted = "completed"
	ProjectStatusArchived  = "archived"
)

const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
	TaskPriorityUrgent = "urgent"
)

type Project struct {
	ID             string   `gorm:"primaryKey"`
	OrganizationID string   `gorm:"index;not null"`
	Name           string   `gorm:"not null"`
	Description    string   `gorm:"not null;default:''"`
	Status         string   `gorm:"not null;default:active"`
	HoursTracked   float64  `gorm:"not null;default:0"`
	TeamMemberIDs  []string `gorm:"serializer:json"`
	CreatedBy      string   `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Task struct {
	ID             string `gorm:"primaryKey"`
	ProjectID      string `gorm:"index;not null"`
	OrganizationID string `gorm:"index;not null"`
	Title          string `gorm:"not null"`
	Description    string `gorm:"not null;default:''"`
	Status         string `gorm:"not null;default:todo"`
	Priority       string `gorm:"not null;default:medium"`
	AssignedTo     string `gorm:"not null;default:''"`
	CreatedBy      string `gorm:"not null"`
	DueDate        *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
