package store

import (
	"context"
	"errors"
	"net/http"

	"patientmanager/internal/apiclient"
	"patientmanager/internal/handler"
	"patientmanager/internal/model"
	"patientmanager/internal/repository"
)

// Remote drives the REST API and translates wire shapes back into the
// model types the Local backend hands out.
var _ Store = (*Remote)(nil)

type Remote struct {
	client *apiclient.Client
}

func NewRemote(client *apiclient.Client) *Remote {
	return &Remote{client: client}
}

// remoteErr maps API status codes onto the sentinel errors Local uses,
// so callers see the same failures in both modes.
func remoteErr(err error, notFound error) error {
	var statusErr *apiclient.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.Code {
		case http.StatusUnauthorized:
			return ErrInvalidCredentials
		case http.StatusNotFound:
			if notFound != nil {
				return notFound
			}
		case http.StatusBadRequest:
			return errors.New(statusErr.Message)
		}
	}
	return err
}

func patientFromWire(p handler.PatientResponse) model.Patient {
	return model.Patient{
		ID:          p.ID,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		DateOfBirth: p.DateOfBirth,
		UserID:      p.UserID,
		CreatedAt:   p.CreatedAt,
	}
}

func programFromWire(p handler.ProgramResponse) model.Program {
	return model.Program{
		ID:        p.ID,
		Name:      p.Name,
		PatientID: p.PatientID,
		CreatedAt: p.CreatedAt,
	}
}

func columnFromWire(c handler.ColumnResponse) model.BoardColumn {
	return model.BoardColumn{
		ID:        c.ID,
		ProgramID: c.ProgramID,
		Title:     c.Title,
		Position:  c.Position,
	}
}

func taskFromWire(t handler.TaskResponse) model.Task {
	return model.Task{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		ProgramID:   t.ProgramID,
		ColumnID:    t.ColumnID,
		CreatedAt:   t.CreatedAt,
	}
}

func (r *Remote) Login(ctx context.Context, username, password string) (*model.User, error) {
	resp, err := r.client.Login(ctx, username, password)
	if err != nil {
		return nil, remoteErr(err, nil)
	}
	return &model.User{
		ID:        resp.User.ID,
		Username:  resp.User.Username,
		Name:      resp.User.Name,
		Email:     resp.User.Email,
		Role:      resp.User.Role,
		CreatedAt: resp.User.CreatedAt,
	}, nil
}

func (r *Remote) Patients(ctx context.Context) ([]model.Patient, error) {
	wire, err := r.client.Patients(ctx, 0)
	if err != nil {
		return nil, remoteErr(err, nil)
	}
	patients := make([]model.Patient, len(wire))
	for i, p := range wire {
		patients[i] = patientFromWire(p)
	}
	return patients, nil
}

func (r *Remote) Patient(ctx context.Context, id uint) (*model.Patient, error) {
	wire, err := r.client.Patient(ctx, id)
	if err != nil {
		return nil, remoteErr(err, repository.ErrPatientNotFound)
	}
	patient := patientFromWire(*wire)
	return &patient, nil
}

func (r *Remote) CreatePatient(ctx context.Context, patient *model.Patient) error {
	wire, err := r.client.CreatePatient(ctx, handler.CreatePatientRequest{
		FirstName:   patient.FirstName,
		LastName:    patient.LastName,
		DateOfBirth: patient.DateOfBirth,
		UserID:      patient.UserID,
	})
	if err != nil {
		return remoteErr(err, nil)
	}
	*patient = patientFromWire(*wire)
	return nil
}

func (r *Remote) UpdatePatient(ctx context.Context, patient *model.Patient) error {
	wire, err := r.client.UpdatePatient(ctx, patient.ID, handler.UpdatePatientRequest{
		FirstName:   patient.FirstName,
		LastName:    patient.LastName,
		DateOfBirth: patient.DateOfBirth,
	})
	if err != nil {
		return remoteErr(err, repository.ErrPatientNotFound)
	}
	*patient = patientFromWire(*wire)
	return nil
}

func (r *Remote) DeletePatient(ctx context.Context, id uint) error {
	return remoteErr(r.client.DeletePatient(ctx, id), repository.ErrPatientNotFound)
}

func (r *Remote) Programs(ctx context.Context, patientID uint) ([]model.Program, error) {
	wire, err := r.client.Programs(ctx, patientID)
	if err != nil {
		return nil, remoteErr(err, repository.ErrPatientNotFound)
	}
	programs := make([]model.Program, len(wire))
	for i, p := range wire {
		programs[i] = programFromWire(p)
	}
	return programs, nil
}

func (r *Remote) Program(ctx context.Context, id uint) (*model.Program, error) {
	wire, err := r.client.Program(ctx, id)
	if err != nil {
		return nil, remoteErr(err, repository.ErrProgramNotFound)
	}
	program := programFromWire(*wire)
	return &program, nil
}

func (r *Remote) CreateProgram(ctx context.Context, program *model.Program) error {
	wire, err := r.client.CreateProgram(ctx, handler.CreateProgramRequest{
		Name:      program.Name,
		PatientID: program.PatientID,
	})
	if err != nil {
		return remoteErr(err, repository.ErrPatientNotFound)
	}
	*program = programFromWire(*wire)
	return nil
}

func (r *Remote) RenameProgram(ctx context.Context, id uint, name string) error {
	_, err := r.client.UpdateProgram(ctx, id, handler.UpdateProgramRequest{Name: name})
	return remoteErr(err, repository.ErrProgramNotFound)
}

func (r *Remote) DeleteProgram(ctx context.Context, id uint) error {
	return remoteErr(r.client.DeleteProgram(ctx, id), repository.ErrProgramNotFound)
}

func (r *Remote) Columns(ctx context.Context, programID uint) ([]model.BoardColumn, error) {
	wire, err := r.client.Columns(ctx, programID)
	if err != nil {
		return nil, remoteErr(err, repository.ErrProgramNotFound)
	}
	columns := make([]model.BoardColumn, len(wire))
	for i, c := range wire {
		columns[i] = columnFromWire(c)
	}
	return columns, nil
}

func (r *Remote) AppendColumn(ctx context.Context, programID uint, title string) (*model.BoardColumn, error) {
	wire, err := r.client.AppendColumn(ctx, programID, title)
	if err != nil {
		return nil, remoteErr(err, repository.ErrProgramNotFound)
	}
	column := columnFromWire(*wire)
	return &column, nil
}

func (r *Remote) RenameColumn(ctx context.Context, id uint, title string) (*model.BoardColumn, error) {
	wire, err := r.client.RenameColumn(ctx, id, title)
	if err != nil {
		return nil, remoteErr(err, repository.ErrColumnNotFound)
	}
	column := columnFromWire(*wire)
	return &column, nil
}

func (r *Remote) DeleteColumn(ctx context.Context, id uint) error {
	return remoteErr(r.client.DeleteColumn(ctx, id), repository.ErrColumnNotFound)
}

func (r *Remote) ReorderColumns(ctx context.Context, programID uint, order []repository.ColumnPosition) ([]model.BoardColumn, error) {
	var req handler.ReorderColumnsRequest
	req.Columns = make([]struct {
		ID       uint `json:"id" binding:"required"`
		Position *int `json:"position" binding:"required"`
	}, len(order))
	for i := range order {
		req.Columns[i].ID = order[i].ID
		position := order[i].Position
		req.Columns[i].Position = &position
	}

	wire, err := r.client.ReorderColumns(ctx, programID, req)
	if err != nil {
		return nil, remoteErr(err, repository.ErrProgramNotFound)
	}
	columns := make([]model.BoardColumn, len(wire))
	for i, c := range wire {
		columns[i] = columnFromWire(c)
	}
	return columns, nil
}

func (r *Remote) Tasks(ctx context.Context, programID uint) ([]model.Task, error) {
	wire, err := r.client.Tasks(ctx, programID)
	if err != nil {
		return nil, remoteErr(err, repository.ErrProgramNotFound)
	}
	tasks := make([]model.Task, len(wire))
	for i, t := range wire {
		tasks[i] = taskFromWire(t)
	}
	return tasks, nil
}

func (r *Remote) Task(ctx context.Context, id uint) (*model.Task, error) {
	wire, err := r.client.Task(ctx, id)
	if err != nil {
		return nil, remoteErr(err, repository.ErrTaskNotFound)
	}
	task := taskFromWire(*wire)
	return &task, nil
}

func (r *Remote) CreateTask(ctx context.Context, task *model.Task) error {
	wire, err := r.client.CreateTask(ctx, handler.CreateTaskRequest{
		Name:        task.Name,
		Description: task.Description,
		ProgramID:   task.ProgramID,
		ColumnID:    task.ColumnID,
	})
	if err != nil {
		return remoteErr(err, repository.ErrProgramNotFound)
	}
	*task = taskFromWire(*wire)
	return nil
}

func (r *Remote) UpdateTask(ctx context.Context, task *model.Task) error {
	wire, err := r.client.UpdateTask(ctx, task.ID, handler.UpdateTaskRequest{
		Name:        task.Name,
		Description: task.Description,
	})
	if err != nil {
		return remoteErr(err, repository.ErrTaskNotFound)
	}
	*task = taskFromWire(*wire)
	return nil
}

func (r *Remote) MoveTask(ctx context.Context, id, columnID uint) (*model.Task, error) {
	wire, err := r.client.MoveTask(ctx, id, columnID)
	if err != nil {
		return nil, remoteErr(err, repository.ErrTaskNotFound)
	}
	task := taskFromWire(*wire)
	return &task, nil
}

func (r *Remote) DeleteTask(ctx context.Context, id uint) error {
	return remoteErr(r.client.DeleteTask(ctx, id), repository.ErrTaskNotFound)
}
