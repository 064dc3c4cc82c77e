package model

import (
	"time"
)

// Audit log action types.
const (
	ActionCreate = "create"
	ActionRead   = "read"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionLogin  = "login"
	ActionLogout = "logout"
	ActionShare  = "share"
)

// AuditLog records one sensitive operation. Details are stored as JSON
// with sensitive fields already masked.
type AuditLog struct {
	ID         uint   `gorm:"primaryKey"`
	EventID    string `gorm:"uniqueIndex;not null"`
	UserID     *uint  `gorm:"index"`
	Action     string `gorm:"not null"`
	EntityType string `gorm:"not null;index"`
	EntityID   *uint  `gorm:"index"`
	Details    string
	IPAddress  string
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}
