package model

import (
	"time"
)

// User roles. Roles are descriptive only; the API applies no
// role-based authorization.
const (
	RoleAdmin     = "admin"
	RoleProvider  = "provider"
	RoleAssistant = "assistant"
)

type User struct {
	ID        uint   `gorm:"primaryKey"`
	Username  string `gorm:"uniqueIndex;not null"`
	Password  string `gorm:"not null"` // bcrypt hash
	Name      string
	Email     string
	Role      string    `gorm:"not null;default:provider;check:role IN ('admin', 'provider', 'assistant')"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
