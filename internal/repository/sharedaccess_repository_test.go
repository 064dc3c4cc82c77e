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

func TestSharedAccessRepository_GrantUpdateRevoke(t *testing.T) {
	// Arrange
	db := testutil.NewDB(t)
	repo := repository.NewSharedAccessRepository(db)
	userRepo := repository.NewUserRepository(db)
	ctx := context.Background()

	patient, _ := seedPatient(t, db)
	colleague := &model.User{Username: "colleague", Password: "hash"}
	require.NoError(t, userRepo.Create(ctx, colleague))

	share := &model.SharedAccess{
		PatientID:   patient.ID,
		UserID:      colleague.ID,
		GrantedBy:   patient.UserID,
		AccessLevel: model.AccessRead,
	}

	// Act + Assert: grant
	assert.NoError(t, repo.Create(ctx, share))
	assert.NotZero(t, share.ID)

	byPatient, err := repo.GetByPatient(ctx, patient.ID)
	assert.NoError(t, err)
	require.Len(t, byPatient, 1)
	assert.Equal(t, model.AccessRead, byPatient[0].AccessLevel)

	// escalate
	assert.NoError(t, repo.UpdateLevel(ctx, share.ID, model.AccessFull))
	updated, err := repo.GetByID(ctx, share.ID)
	assert.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, model.AccessFull, updated.AccessLevel)
	assert.True(t, updated.CanWrite())
	assert.True(t, updated.CanShare())

	// revoke
	assert.NoError(t, repo.Delete(ctx, share.ID))
	gone, err := repo.GetByID(ctx, share.ID)
	assert.NoError(t, err)
	assert.Nil(t, gone)

	assert.ErrorIs(t, repo.Delete(ctx, share.ID), repository.ErrShareNotFound)
	assert.ErrorIs(t, repo.UpdateLevel(ctx, share.ID, model.AccessRead), repository.ErrShareNotFound)
}

func TestSharedAccess_Levels(t *testing.T) {
	read := model.SharedAccess{AccessLevel: model.AccessRead}
	write := model.SharedAccess{AccessLevel: model.AccessWrite}
	full := model.SharedAccess{AccessLevel: model.AccessFull}

	assert.False(t, read.CanWrite())
	assert.False(t, read.CanShare())
	assert.True(t, write.CanWrite())
	assert.False(t, write.CanShare())
	assert.True(t, full.CanWrite())
	assert.True(t, full.CanShare())
}
