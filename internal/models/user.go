package models

import (
	"time"
)

type UserRole string

const (
	RoleAdmin UserRole = "ADMIN"
	RoleMod   UserRole = "MOD"
	RoleUser  UserRole = "USER"
)

// ValidRole reports whether s names one of the known roles.
func ValidRole(s string) bool {
	switch UserRole(s) {
	case RoleAdmin, RoleMod, RoleUser:
		return true
	}
	return false
}

// RoleAllowed is the single admission check used by the role gate.
func RoleAllowed(role UserRole, allowed ...UserRole) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Username     string    `gorm:"size:100;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         UserRole  `gorm:"type:varchar(10);not null;default:'USER'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
