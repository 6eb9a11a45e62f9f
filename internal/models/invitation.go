package models

import "time"

const InvitationTTL = 7 * 24 * time.Hour

const (
	InvitationStatusPending  = "pending"
	InvitationStatusExpired  = "expired"
	InvitationStatusAccepted = "accepted"
)

type Invitation struct {
	ID             string    `gorm:"primaryKey"`
	OrganizationID string    `gorm:"index;not null"`
	Email          string    `gorm:"not null"`
	Role           string    `gorm:"not null;default:user"`
	Token          string    `gorm:"uniqueIndex;not null"`
	InvitedBy      string    `gorm:"not null"`
	ExpiresAt      time.Time `gorm:"not null"`
	Accepted       bool      `gorm:"not null;default:false"`
	AcceptedAt     *time.Time
	CreatedAt      time.Time
}

func (invitation *Invitation) Status(now time.Time) string {
	switch {
	case invitation.Accepted:
		return InvitationStatusAccepted
	case now.After(invitation.ExpiresAt):
		return InvitationStatusExpired
	default:
		return InvitationStatusPending
	}
}
