package models

import "time"

const (
	ProductivityVeryLow  = "very_low"
	ProductivityLow      = "low"
	ProductivityModerate = "moderate"
	ProductivityHigh     = "high"
	ProductivityVeryHigh = "very_high"
)

const (
	AlertLowActivity      = "low_activity"
	AlertExcessiveIdle    = "excessive_idle"
	AlertProductivityDrop = "productivity_drop"
	AlertUnusualPattern   = "unusual_pattern"
	AlertDistraction      = "distraction_alert"
)

const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

type RealTimeActivity struct {
	ID                string    `gorm:"primaryKey"`
	UserID            string    `gorm:"index:idx_rta_user_time;not null"`
	OrganizationID    string    `gorm:"not null"`
	TimeEntryID       string    `gorm:"not null;default:''"`
	ActivityScore     float64   `gorm:"not null;default:0"`
	ProductivityLevel string    `gorm:"not null;default:moderate"`
	IsIdle            bool      `gorm:"not null;default:false"`
	CurrentApp        string    `gorm:"not null;default:''"`
	CurrentURL        string    `gorm:"not null;default:''"`
	RecordedAt        time.Time `gorm:"index:idx_rta_user_time;not null"`
}

type ProductivityAlert struct {
	ID             string `gorm:"primaryKey"`
	UserID         string `gorm:"not null"`
	OrganizationID string `gorm:"index;not null"`
	AlertType      string `gorm:"not null"`
	Severity       string `gorm:"not null;default:medium"`
	Message        string `gorm:"not null;default:''"`
	Resolved       bool   `gorm:"not null;default:false"`
	ResolvedBy     string `gorm:"not null;default:''"`
	ResolvedAt     *time.Time
	CreatedAt      time.Time
}

type ProductivityGoal struct {
	ID             string  `gorm:"primaryKey"`
	UserID         string  `gorm:"index;not null"`
	OrganizationID string  `gorm:"not null"`
	Name           string  `gorm:"not null"`
	TargetHours    float64 `gorm:"not null;default:0"`
	TargetActivity float64 `gorm:"not null;default:0"`
	Period         string  `gorm:"not null;default:weekly"`
	Active         bool    `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
