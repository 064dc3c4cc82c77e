package store

import (
	"context"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"patientmanager/internal/model"
	"patientmanager/internal/repository"
)

// Local works straight against the SQLite file through the same
// repositories the server uses.
var _ Store = (*Local)(nil)

type Local struct {
	users    *repository.UserRepository
	patients *repository.PatientRepository
	programs *repository.ProgramRepository
	columns  *repository.ColumnRepository
	tasks    *repository.TaskRepository
}

func NewLocal(db *gorm.DB) *Local {
	return &Local{
		users:    repository.NewUserRepository(db),
		patients: repository.NewPatientRepository(db),
		programs: repository.NewProgramRepository(db),
		columns:  repository.NewColumnRepository(db),
		tasks:    repository.NewTaskRepository(db),
	}
}

func (l *Local) Login(ctx context.Context, username, password string) (*model.User, error) {
	user, err := l.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	user.Password = ""
	return user, nil
}

func (l *Local) Patients(ctx context.Context) ([]model.Patient, error) {
	return l.patients.GetAll(ctx)
}

func (l *Local) Patient(ctx context.Context, id uint) (*model.Patient, error) {
	patient, err := l.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, repository.ErrPatientNotFound
	}
	return patient, nil
}

func (l *Local) CreatePatient(ctx context.Context, patient *model.Patient) error {
	return l.patients.Create(ctx, patient)
}

func (l *Local) UpdatePatient(ctx context.Context, patient *model.Patient) error {
	return l.patients.Update(ctx, patient)
}

func (l *Local) DeletePatient(ctx context.Context, id uint) error {
	return l.patients.Delete(ctx, id)
}

func (l *Local) Programs(ctx context.Context, patientID uint) ([]model.Program, error) {
	return l.programs.GetByPatient(ctx, patientID)
}

func (l *Local) Program(ctx context.Context, id uint) (*model.Program, error) {
	program, err := l.programs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if program == nil {
		return nil, repository.ErrProgramNotFound
	}
	return program, nil
}

func (l *Local) CreateProgram(ctx context.Context, program *model.Program) error {
	return l.programs.Create(ctx, program)
}

func (l *Local) RenameProgram(ctx context.Context, id uint, name string) error {
	program, err := l.Program(ctx, id)
	if err != nil {
		return err
	}
	program.Name = name
	return l.programs.Update(ctx, program)
}

func (l *Local) DeleteProgram(ctx context.Context, id uint) error {
	return l.programs.Delete(ctx, id)
}

func (l *Local) Columns(ctx context.Context, programID uint) ([]model.BoardColumn, error) {
	return l.columns.GetByProgram(ctx, programID)
}

func (l *Local) AppendColumn(ctx context.Context, programID uint, title string) (*model.BoardColumn, error) {
	column := &model.BoardColumn{ProgramID: programID, Title: title}
	if err := l.columns.Append(ctx, column); err != nil {
		return nil, err
	}
	return column, nil
}

func (l *Local) RenameColumn(ctx context.Context, id uint, title string) (*model.BoardColumn, error) {
	return l.columns.Rename(ctx, id, title)
}

func (l *Local) DeleteColumn(ctx context.Context, id uint) error {
	return l.columns.Delete(ctx, id)
}

func (l *Local) ReorderColumns(ctx context.Context, programID uint, order []repository.ColumnPosition) ([]model.BoardColumn, error) {
	if err := l.columns.Reorder(ctx, programID, order); err != nil {
		return nil, err
	}
	return l.columns.GetByProgram(ctx, programID)
}

func (l *Local) Tasks(ctx context.Context, programID uint) ([]model.Task, error) {
	return l.tasks.GetByProgram(ctx, programID)
}

func (l *Local) Task(ctx context.Context, id uint) (*model.Task, error) {
	task, err := l.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, repository.ErrTaskNotFound
	}
	return task, nil
}

func (l *Local) CreateTask(ctx context.Context, task *model.Task) error {
	return l.tasks.Create(ctx, task)
}

func (l *Local) UpdateTask(ctx context.Context, task *model.Task) error {
	return l.tasks.Update(ctx, task)
}

func (l *Local) MoveTask(ctx context.Context, id, columnID uint) (*model.Task, error) {
	return l.tasks.Move(ctx, id, columnID)
}

func (l *Local) DeleteTask(ctx context.Context, id uint) error {
	return l.tasks.Delete(ctx, id)
}
