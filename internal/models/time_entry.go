package models

import "time"

const (
	TrackingStatusActive  = "active"
	TrackingStatusPaused  = "paused"
	TrackingStatusStopped = "stopped"
	TrackingStatusIdle    = "idle"
)

// PausePeriod is one pause window inside a time entry. ResumeTime is nil
// while the pause is still open.
type PausePeriod struct {
	PauseTime  time.Time  `json:"pause_time"`
	ResumeTime *time.Time `json:"resume_time"`
}

type TimeEntry struct {
	ID                string    `gorm:"primaryKey"`
	UserID            string    `gorm:"index;not null"`
	OrganizationID    string    `gorm:"index;not null"`
	ProjectID         string    `gorm:"index;not null"`
	TaskID            string    `gorm:"not null;default:''"`
	Description       string    `gorm:"not null;default:''"`
	StartTime         time.Time `gorm:"not null"`
	EndTime           *time.Time
	DurationSeconds   int64         `gorm:"not null;default:0"`
	PausePeriods      []PausePeriod `gorm:"serializer:json"`
	TotalPauseSeconds int64         `gorm:"not null;default:0"`
	Status            string        `gorm:"not null;default:active"`
	Manual            bool          `gorm:"not null;default:false"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ClosedPauseSeconds sums the durations of all closed pause windows.
func (entry *TimeEntry) ClosedPauseSeconds() int64 {
	var total int64
	for _, period := range entry.PausePeriods {
		if period.ResumeTime == nil {
			continue
		}
		total += int64(period.ResumeTime.Sub(period.PauseTime).Seconds())
	}
	return total
}

// OpenPause returns the index of the open pause window, or -1 if none.
func (entry *TimeEntry) OpenPause() int {
	for index := len(entry.PausePeriods) - 1; index >= 0; index-- {
		if entry.PausePeriods[index].ResumeTime == nil {
			return index
		}
	}
	return -1
}
