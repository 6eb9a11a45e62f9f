package models

import "time"

type Screenshot struct {
	ID             string    `gorm:"primaryKey"`
	TimeEntryID    string    `gorm:"index;not null"`
	UserID         string    `gorm:"not null"`
	OrganizationID string    `gorm:"index;not null"`
	ImageURL       string    `gorm:"not null"`
	ThumbnailURL   string    `gorm:"not null;default:''"`
	Blurred        bool      `gorm:"not null;default:false"`
	IsDeleted      bool      `gorm:"not null;default:false"`
	CapturedAt     time.Time `gorm:"not null"`
	CreatedAt      time.Time
}

type ActivitySession struct {
	ID                 string    `gorm:"primaryKey"`
	TimeEntryID        string    `gorm:"index;not null"`
	UserID             string    `gorm:"not null"`
	OrganizationID     string    `gorm:"not null"`
	StartedAt          time.Time `gorm:"not null"`
	EndedAt            *time.Time
	KeystrokeCount     int      `gorm:"not null;default:0"`
	MouseClickCount    int      `gorm:"not null;default:0"`
	MouseMovementCount int      `gorm:"not null;default:0"`
	ActiveApps         []string `gorm:"serializer:json"`
	VisitedSites       []string `gorm:"serializer:json"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type KeystrokeRecord struct {
	ID             string    `gorm:"primaryKey"`
	TimeEntryID    string    `gorm:"index;not null"`
	UserID         string    `gorm:"not null"`
	OrganizationID string    `gorm:"not null"`
	Count          int       `gorm:"not null;default:0"`
	RecordedAt     time.Time `gorm:"not null"`
}

type ApplicationUsage struct {
	ID              string    `gorm:"primaryKey"`
	TimeEntryID     string    `gorm:"index;not null"`
	UserID          string    `gorm:"not null"`
	OrganizationID  string    `gorm:"not null"`
	AppName         string    `gorm:"not null"`
	WindowTitle     string    `gorm:"not null;default:''"`
	Category        string    `gorm:"not null;default:neutral"`
	StartedAt       time.Time `gorm:"not null"`
	EndedAt         *time.Time
	DurationSeconds int64 `gorm:"not null;default:0"`
}

type WebsiteVisit struct {
	ID              string    `gorm:"primaryKey"`
	TimeEntryID     string    `gorm:"index;not null"`
	UserID          string    `gorm:"not null"`
	OrganizationID  string    `gorm:"not null"`
	URL             string    `gorm:"not null"`
	Domain          string    `gorm:"not null"`
	Category        string    `gorm:"not null;default:other"`
	PageViews       int       `gorm:"not null;default:1"`
	DurationSeconds int64     `gorm:"not null;default:0"`
	VisitedAt       time.Time `gorm:"not null"`
}

type MonitoringSettings struct {
	ID                        string `gorm:"primaryKey"`
	UserID                    string `gorm:"not null;uniqueIndex:uidx_settings_user_org"`
	OrganizationID            string `gorm:"not null;uniqueIndex:uidx_settings_user_org"`
	ScreenshotsEnabled        bool   `gorm:"not null;default:true"`
	ScreenshotIntervalMinutes int    `gorm:"not null;default:10"`
	BlurScreenshots           bool   `gorm:"not null;default:false"`
	ActivityTrackingEnabled   bool   `gorm:"not null;default:true"`
	AppTrackingEnabled        bool   `gorm:"not null;default:true"`
	URLTrackingEnabled        bool   `gorm:"not null;default:true"`
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}
