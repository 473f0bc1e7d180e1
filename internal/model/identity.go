package model

import (
	"time"
)

// Roles recognized by the authorization gate.
const (
	RoleSuperAdmin = "super-admin"
	RoleAdmin      = "admin"
)

// IdentityAccount is a login account managed by the identity provider.
// StudioID and Role together are the account's claims: they are attached
// once when the account is bound to a studio and never re-pointed at a
// different studio afterwards.
type IdentityAccount struct {
	UID           string    `json:"uid" gorm:"type:varchar(36);primaryKey"`
	Email         string    `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	DisplayName   string    `json:"display_name" gorm:"type:varchar(100)"`
	PasswordHash  string    `json:"-" gorm:"type:varchar(255)"`
	EmailVerified bool      `json:"email_verified" gorm:"default:false"`
	Disabled      bool      `json:"disabled" gorm:"default:false"`
	StudioID      *string   `json:"studio_id,omitempty" gorm:"type:varchar(36);index"`
	Role          string    `json:"role,omitempty" gorm:"type:varchar(50)"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
