package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patientmanager/internal/model"
	"patientmanager/internal/repository"
	"patientmanager/internal/testutil"
)

func TestProgramRepository_GetByPatient(t *testing.T) {
	// Arrange
	db := testutil.NewDB(t)
	repo := repository.NewProgramRepository(db)
	ctx := context.Background()

	patient, first := seedPatient(t, db)
	second := &model.Program{Name: "Aquatic Therapy", PatientID: patient.ID}
	require.NoError(t, repo.Create(ctx, second))

	// Act
	programs, err := repo.GetByPatient(ctx, patient.ID)

	// Assert
	assert.NoError(t, err)
	require.Len(t, programs, 2)
	assert.Equal(t, first.ID, programs[0].ID)
	assert.Equal(t, second.ID, programs[1].ID)
}

func TestProgramRepository_Update(t *testing.T) {
	// Arrange
	db := testutil.NewDB(t)
	repo := repository.NewProgramRepository(db)
	ctx := context.Background()

	_, program := seedPatient(t, db)
	program.Name = "Renamed Program"

	// Act
	err := repo.Update(ctx, program)

	// Assert
	assert.NoError(t, err)

	updated, err := repo.GetByID(ctx, program.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Renamed Program", updated.Name)

	assert.ErrorIs(t, repo.Update(ctx, &model.Program{ID: 9999, Name: "Nope"}), repository.ErrProgramNotFound)
}

func TestProgramDelete_RemovesTasksAndBoard(t *testing.T) {
	// Arrange
	db := testutil.NewDB(t)
	repo := repository.NewProgramRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	ctx := context.Background()

	_, program := seedPatient(t, db)
	require.NoError(t, taskRepo.Create(ctx, &model.Task{Name: "Session", ProgramID: program.ID}))

	// Act
	err := repo.Delete(ctx, program.ID)

	// Assert
	assert.NoError(t, err)

	var tasks, columns int64
	assert.NoError(t, db.Model(&model.Task{}).Where("program_id = ?", program.ID).Count(&tasks).Error)
	assert.NoError(t, db.Model(&model.BoardColumn{}).Where("program_id = ?", program.ID).Count(&columns).Error)
	assert.Zero(t, tasks)
	assert.Zero(t, columns)

	gone, err := repo.GetByID(ctx, program.ID)
	assert.NoError(t, err)
	assert.Nil(t, gone)

	assert.ErrorIs(t, repo.Delete(ctx, program.ID), repository.ErrProgramNotFound)
}
