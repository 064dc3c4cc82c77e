package model

// A program's board keeps between MinColumns and MaxColumns columns.
const (
	MinColumns = 3
	MaxColumns = 5
)

// DefaultColumnTitles seed the board of a newly created program.
var DefaultColumnTitles = []string{"To Do", "In Progress", "Done"}

// BoardColumn is one column of a program's Kanban board. Positions are
// a dense permutation of 0..count-1 within a board.
type BoardColumn struct {
	ID        uint   `gorm:"primaryKey"`
	ProgramID uint   `gorm:"not null;index"`
	Title     string `gorm:"not null"`
	Position  int    `gorm:"not null"`
}
