package model

import (
	"time"
)

// Studio represents the root document of one tenant partition.
// Every other record in the partition hangs off its ID.
type Studio struct {
	ID         string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name       string    `json:"name" gorm:"type:varchar(100);not null"`
	AdminEmail string    `json:"admin_email" gorm:"type:varchar(100);not null"`
	Settings   string    `json:"settings" gorm:"type:jsonb"`
	IsArchived bool      `json:"is_archived" gorm:"default:false"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
