package model

import (
	"time"
)

type Patient struct {
	ID          uint   `gorm:"primaryKey"`
	FirstName   string `gorm:"not null"`
	LastName    string `gorm:"not null"`
	DateOfBirth string
	UserID      uint      `gorm:"not null;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`

	Owner    User      `gorm:"foreignKey:UserID"`
	Programs []Program `gorm:"foreignKey:PatientID;constraint:OnDelete:CASCADE"`
}
