package repository

import "errors"

// Not-found errors, one per entity.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrPatientNotFound = errors.New("patient not found")
	ErrProgramNotFound = errors.New("program not found")
	ErrColumnNotFound  = errors.New("column not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrShareNotFound   = errors.New("shared access record not found")
)

// Board invariant violations.
var (
	// ErrColumnLimit is returned when adding a column to a full board.
	ErrColumnLimit = errors.New("a board cannot have more than 5 columns")

	// ErrColumnMinimum is returned when removing a column from a minimal board.
	ErrColumnMinimum = errors.New("a board must keep at least 3 columns")

	// ErrInvalidOrder is returned when a reorder request is not a dense
	// permutation of the board's columns.
	ErrInvalidOrder = errors.New("column order must cover every board column exactly once")

	// ErrColumnMismatch is returned when a task references a column of a
	// different program.
	ErrColumnMismatch = errors.New("column does not belong to the task's program")
)
