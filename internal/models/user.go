package models

import "time"

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleUser    = "user"
)

const (
	UserStatusActive  = "active"
	UserStatusIdle    = "idle"
	UserStatusOffline = "offline"
)

type User struct {
	ID                  string `gorm:"primaryKey"`
	Email               string `gorm:"uniqueIndex;not null"`
	PasswordHash        string `gorm:"not null"`
	FirstName           string `gorm:"not null;default:''"`
	LastName            string `gorm:"not null;default:''"`
	Role                string `gorm:"not null;default:user"`
	OrganizationID      string `gorm:"index;not null;default:''"`
	IsOrganizationOwner bool   `gorm:"not null;default:false"`
	EmailVerified       bool   `gorm:"not null;default:false"`
	Status              string `gorm:"not null;default:offline"`
	LastActive          *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (user *User) FullName() string {
	if user.FirstName == "" {
		return user.LastName
	}
	if user.LastName == "" {
		return user.FirstName
	}
	return user.FirstName + " " + user.LastName
}

func (user *User) CanManageMembers() bool {
	return user.Role == RoleAdmin || user.Role == RoleManager
}

func (user *User) IsOrganizationAdmin() bool {
	return user.Role == RoleAdmin || user.IsOrganizationOwner
}
