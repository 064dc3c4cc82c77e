package model

import (
	"time"
)

// Program is a named treatment track belonging to one patient. Each
// program owns a Kanban board made of BoardColumns.
type Program struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"not null"`
	PatientID uint      `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Patient Patient       `gorm:"foreignKey:PatientID"`
	Columns []BoardColumn `gorm:"foreignKey:ProgramID;constraint:OnDelete:CASCADE"`
	Tasks   []Task        `gorm:"foreignKey:ProgramID;constraint:OnDelete:CASCADE"`
}
