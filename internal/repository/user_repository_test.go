package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"patientmanager/internal/model"
	"patientmanager/internal/repository"
	"patientmanager/internal/testutil"
)

func TestNewDB_SeedsAdminUser(t *testing.T) {
	// Arrange
	db := testutil.NewDB(t)
	repo := repository.NewUserRepository(db)

	// Act
	admin, err := repo.FindByUsername(context.Background(), repository.DefaultAdminUsername)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, admin)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword(
		[]byte(admin.Password), []byte(repository.DefaultAdminPassword)))
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	// Arrange
	db := testutil.NewDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	user := &model.User{
		Username: "drsmith",
		Password: "hash",
		Name:     "Dr. Smith",
		Role:     model.RoleProvider,
	}

	// Act
	err := repo.Create(ctx, user)

	// Assert
	assert.NoError(t, err)
	assert.NotZero(t, user.ID)

	found, err := repo.FindByUsername(ctx, "drsmith")
	assert.NoError(t, err)
	assert.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)

	byID, err := repo.GetByID(ctx, user.ID)
	assert.NoError(t, err)
	assert.NotNil(t, byID)
	assert.Equal(t, "drsmith", byID.Username)
}

func TestUserRepository_FindByUsername_Missing(t *testing.T) {
	// Arrange
	db := testutil.NewDB(t)
	repo := repository.NewUserRepository(db)

	// Act
	user, err := repo.FindByUsername(context.Background(), "nobody")

	// Assert
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserRepository_Update(t *testing.T) {
	// Arrange
	db := testutil.NewDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	user := &model.User{
		Username: "drsmith",
		Password: "hash",
		Name:     "Dr. Smith",
		Role:     model.RoleProvider,
	}
	assert.NoError(t, repo.Create(ctx, user))

	// Act
	user.Name = "Dr. Jane Smith"
	user.Email = "jsmith@clinic.example"
	user.Role = model.RoleAdmin
	user.Password = "newhash"
	err := repo.Update(ctx, user)

	// Assert
	assert.NoError(t, err)

	updated, err := repo.GetByID(ctx, user.ID)
	assert.NoError(t, err)
	assert.NotNil(t, updated)
	assert.Equal(t, "drsmith", updated.Username)
	assert.Equal(t, "Dr. Jane Smith", updated.Name)
	assert.Equal(t, "jsmith@clinic.example", updated.Email)
	assert.Equal(t, model.RoleAdmin, updated.Role)
	assert.Equal(t, "newhash", updated.Password)
}

func TestUserRepository_Update_Missing(t *testing.T) {
	// Arrange
	db := testutil.NewDB(t)
	repo := repository.NewUserRepository(db)

	// Act
	err := repo.Update(context.Background(), &model.User{ID: 9999, Name: "Ghost"})

	// Assert
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUserRepository_Delete(t *testing.T) {
	// Arrange
	db := testutil.NewDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	user := &model.User{Username: "shortlived", Password: "hash"}
	assert.NoError(t, repo.Create(ctx, user))

	// Act
	err := repo.Delete(ctx, user.ID)

	// Assert
	assert.NoError(t, err)

	gone, err := repo.GetByID(ctx, user.ID)
	assert.NoError(t, err)
	assert.Nil(t, gone)

	// A second delete finds nothing.
	assert.ErrorIs(t, repo.Delete(ctx, user.ID), repository.ErrUserNotFound)
}

func TestUserRepository_GetAll(t *testing.T) {
	// Arrange
	db := testutil.NewDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	assert.NoError(t, repo.Create(ctx, &model.User{Username: "one", Password: "x"}))
	assert.NoError(t, repo.Create(ctx, &model.User{Username: "two", Password: "x"}))

	// Act
	users, err := repo.GetAll(ctx)

	// Assert
	assert.NoError(t, err)
	// Seeded admin plus the two created above.
	assert.Len(t, users, 3)
}
