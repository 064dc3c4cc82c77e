package model

import (
	"time"
)

type Task struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Description string
	ProgramID   uint      `gorm:"not null;index"`
	ColumnID    uint      `gorm:"not null;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`

	Program Program     `gorm:"foreignKey:ProgramID"`
	Column  BoardColumn `gorm:"foreignKey:ColumnID;constraint:OnDelete:CASCADE"`
}
