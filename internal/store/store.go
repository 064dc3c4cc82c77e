// Package store gives the desktop client one data interface with two
// backends: direct SQLite access for single-user installs and the REST
// API for shared installs. Both expose the same semantics, so the rest
// of the application never knows which mode it runs in.
package store

import (
	"context"
	"errors"
	"fmt"

	"patientmanager/internal/apiclient"
	"patientmanager/internal/config"
	"patientmanager/internal/model"
	"patientmanager/internal/repository"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type Store interface {
	// Login verifies credentials and establishes the session.
	Login(ctx context.Context, username, password string) (*model.User, error)

	Patients(ctx context.Context) ([]model.Patient, error)
	Patient(ctx context.Context, id uint) (*model.Patient, error)
	CreatePatient(ctx context.Context, patient *model.Patient) error
	UpdatePatient(ctx context.Context, patient *model.Patient) error
	DeletePatient(ctx context.Context, id uint) error

	Programs(ctx context.Context, patientID uint) ([]model.Program, error)
	Program(ctx context.Context, id uint) (*model.Program, error)
	CreateProgram(ctx context.Context, program *model.Program) error
	RenameProgram(ctx context.Context, id uint, name string) error
	DeleteProgram(ctx context.Context, id uint) error

	Columns(ctx context.Context, programID uint) ([]model.BoardColumn, error)
	AppendColumn(ctx context.Context, programID uint, title string) (*model.BoardColumn, error)
	RenameColumn(ctx context.Context, id uint, title string) (*model.BoardColumn, error)
	DeleteColumn(ctx context.Context, id uint) error
	ReorderColumns(ctx context.Context, programID uint, order []repository.ColumnPosition) ([]model.BoardColumn, error)

	Tasks(ctx context.Context, programID uint) ([]model.Task, error)
	Task(ctx context.Context, id uint) (*model.Task, error)
	CreateTask(ctx context.Context, task *model.Task) error
	UpdateTask(ctx context.Context, task *model.Task) error
	MoveTask(ctx context.Context, id, columnID uint) (*model.Task, error)
	DeleteTask(ctx context.Context, id uint) error
}

// Open picks the backend named by the client configuration.
func Open(cfg config.Client) (Store, error) {
	switch cfg.Mode {
	case config.ModeLocal:
		db, err := repository.NewDB(cfg.DBFile)
		if err != nil {
			return nil, fmt.Errorf("open local database: %w", err)
		}
		return NewLocal(db), nil
	case config.ModeRemote:
		return NewRemote(apiclient.New(cfg.RemoteURL)), nil
	default:
		return nil, fmt.Errorf("unknown mode %q", cfg.Mode)
	}
}
