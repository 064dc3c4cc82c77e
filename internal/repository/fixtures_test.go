package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"patientmanager/internal/model"
	"patientmanager/internal/repository"
)

// seedPatient creates an owner, a patient and one program with its
// default board, returning them for the test to build on.
func seedPatient(t *testing.T, db *gorm.DB) (*model.Patient, *model.Program) {
	t.Helper()
	ctx := context.Background()

	owner := &model.User{Username: "owner_" + t.Name(), Password: "hash"}
	require.NoError(t, repository.NewUserRepository(db).Create(ctx, owner))

	patient := &model.Patient{FirstName: "Jane", LastName: "Doe", DateOfBirth: "1990-04-12", UserID: owner.ID}
	require.NoError(t, repository.NewPatientRepository(db).Create(ctx, patient))

	program := &model.Program{Name: "Physical Therapy", PatientID: patient.ID}
	require.NoError(t, repository.NewProgramRepository(db).Create(ctx, program))

	return patient, program
}
