package models

import "time"

type UserRole string

const (
	RoleAdmin         UserRole = "Admin"
	RoleSuperAdmin    UserRole = "SuperAdmin"
	RoleDPO           UserRole = "DPO"
	RoleCollaborateur UserRole = "Collaborateur"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleSuperAdmin, RoleDPO, RoleCollaborateur:
		return true
	}
	return false
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"nom"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         UserRole  `gorm:"type:varchar(20);not null" json:"role"`
	Active       bool      `gorm:"default:true" json:"actif"`
	CreatedAt    time.Time `json:"cree_le"`
}
