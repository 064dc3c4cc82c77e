package model

import (
	"time"
)

// Access levels for patient records shared between users.
const (
	AccessRead  = "read"  // may view the patient
	AccessWrite = "write" // may view and edit
	AccessFull  = "full"  // may also share with others
)

// SharedAccess grants one user access to another user's patient.
type SharedAccess struct {
	ID          uint      `gorm:"primaryKey"`
	PatientID   uint      `gorm:"not null;index"`
	UserID      uint      `gorm:"not null;index"`
	GrantedBy   uint      `gorm:"not null"`
	AccessLevel string    `gorm:"not null;check:access_level IN ('read', 'write', 'full')"`
	GrantedAt   time.Time `gorm:"autoCreateTime"`

	Patient Patient `gorm:"foreignKey:PatientID"`
	User    User    `gorm:"foreignKey:UserID"`
}

// CanWrite reports whether the level allows editing the patient.
func (s *SharedAccess) CanWrite() bool {
	return s.AccessLevel == AccessWrite || s.AccessLevel == AccessFull
}

// CanShare reports whether the level allows granting further access.
func (s *SharedAccess) CanShare() bool {
	return s.AccessLevel == AccessFull
}
