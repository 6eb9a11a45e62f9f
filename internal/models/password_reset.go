package models

import "time"

const PasswordResetTTL = time.Hour

type PasswordResetToken struct {
	ID             string    `gorm:"primaryKey"`
	Email          string    `gorm:"index;not null"`
	UserID         string    `gorm:"not null"`
	OrganizationID string    `gorm:"not null"`
	Token          string    `gorm:"uniqueIndex;not null"`
	ExpiresAt      time.Time `gorm:"not null"`
	Used           bool      `gorm:"not null;default:false"`
	UsedAt         *time.Time
	CreatedAt      time.Time
}

func (token *PasswordResetToken) Usable(now time.Time) bool {
	return !token.Used && now.Before(token.ExpiresAt)
}
