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

func columnSnapshot(t *testing.T, repo *repository.ColumnRepository, programID uint) []model.BoardColumn {
	t.Helper()
	columns, err := repo.GetByProgram(context.Background(), programID)
	require.NoError(t, err)
	return columns
}

func assertDensePositions(t *testing.T, columns []model.BoardColumn) {
	t.Helper()
	for i, column := range columns {
		assert.Equal(t, i, column.Position, "column %q out of place", column.Title)
	}
}

func TestProgramCreate_SeedsDefaultBoard(t *testing.T) {
	// Arrange
	db := testutil.NewDB(t)
	_, program := seedPatient(t, db)
	repo := repository.NewColumnRepository(db)

	// Act
	columns := columnSnapshot(t, repo, program.ID)

	// Assert
	require.Len(t, columns, len(model.DefaultColumnTitles))
	for i, title := range model.DefaultColumnTitles {
		assert.Equal(t, title, columns[i].Title)
	}
	assertDensePositions(t, columns)
}

func TestColumnAppend_UpToLimit(t *testing.T) {
	// Arrange
	db := testutil.NewDB(t)
	_, program := seedPatient(t, db)
	repo := repository.NewColumnRepository(db)
	ctx := context.Background()

	// Act: the default board has 3 columns, so 2 more fit.
	assert.NoError(t, repo.Append(ctx, &model.BoardColumn{ProgramID: program.ID, Title: "Review"}))
	assert.NoError(t, repo.Append(ctx, &model.BoardColumn{ProgramID: program.ID, Title: "Archive"}))

	// Assert
	columns := columnSnapshot(t, repo, program.ID)
	require.Len(t, columns, model.MaxColumns)
	assertDensePositions(t, columns)
}

func TestColumnAppend_RejectedWhenFull(t *testing.T) {
	// Arrange
	db := testutil.NewDB(t)
	_, program := seedPatient(t, db)
	repo := repository.NewColumnRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, &model.BoardColumn{ProgramID: program.ID, Title: "Review"}))
	require.NoError(t, repo.Append(ctx, &model.BoardColumn{ProgramID: program.ID, Title: "Archive"}))
	before := columnSnapshot(t, repo, program.ID)

	// Act
	err := repo.Append(ctx, &model.BoardColumn{ProgramID: program.ID, Title: "One Too Many"})

	// Assert: rejected and the board is untouched
	assert.ErrorIs(t, err, repository.ErrColumnLimit)
	assert.Equal(t, before, columnSnapshot(t, repo, program.ID))
}

func TestColumnDelete_RejectedAtMinimum(t *testing.T) {
	// Arrange
	db := testutil.NewDB(t)
	_, program := seedPatient(t, db)
	repo := repository.NewColumnRepository(db)

	before := columnSnapshot(t, repo, program.ID)
	require.Len(t, before, model.MinColumns)

	// Act
	err := repo.Delete(context.Background(), before[0].ID)

	// Assert
	assert.ErrorIs(t, err, repository.ErrColumnMinimum)
	assert.Equal(t, before, columnSnapshot(t, repo, program.ID))
}

func TestColumnDelete_ReassignsTasksAndClosesGap(t *testing.T) {
	// Arrange
	db := testutil.NewDB(t)
	_, program := seedPatient(t, db)
	repo := repository.NewColumnRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, &model.BoardColumn{ProgramID: program.ID, Title: "Review"}))
	columns := columnSnapshot(t, repo, program.ID)
	middle := columns[1]

	task := &model.Task{Name: "Stretching", ProgramID: program.ID, ColumnID: middle.ID}
	require.NoError(t, taskRepo.Create(ctx, task))

	// Act
	err := repo.Delete(ctx, middle.ID)

	// Assert
	assert.NoError(t, err)

	remaining := columnSnapshot(t, repo, program.ID)
	require.Len(t, remaining, len(columns)-1)
	assertDensePositions(t, remaining)

	moved, err := taskRepo.GetByID(ctx, task.ID)
	assert.NoError(t, err)
	require.NotNil(t, moved)
	assert.Equal(t, remaining[0].ID, moved.ColumnID, "orphaned task should land in the first column")
}

func TestColumnGetByID(t *testing.T) {
	// Arrange
	db := testutil.NewDB(t)
	_, program := seedPatient(t, db)
	repo := repository.NewColumnRepository(db)
	ctx := context.Background()

	columns := columnSnapshot(t, repo, program.ID)

	// Act
	found, err := repo.GetByID(ctx, columns[1].ID)

	// Assert
	assert.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, columns[1].Title, found.Title)
	assert.Equal(t, columns[1].Position, found.Position)

	missing, err := repo.GetByID(ctx, 9999)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestColumnRename(t *testing.T) {
	// Arrange
	db := testutil.NewDB(t)
	_, program := seedPatient(t, db)
	repo := repository.NewColumnRepository(db)

	columns := columnSnapshot(t, repo, program.ID)

	// Act
	renamed, err := repo.Rename(context.Background(), columns[0].ID, "Backlog")

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "Backlog", renamed.Title)
	assert.Equal(t, columns[0].Position, renamed.Position)

	_, err = repo.Rename(context.Background(), 9999, "Nope")
	assert.ErrorIs(t, err, repository.ErrColumnNotFound)
}

func TestColumnReorder_AppliesPermutation(t *testing.T) {
	// Arrange
	db := testutil.NewDB(t)
	_, program := seedPatient(t, db)
	repo := repository.NewColumnRepository(db)

	columns := columnSnapshot(t, repo, program.ID)
	order := []repository.ColumnPosition{
		{ID: columns[0].ID, Position: 2},
		{ID: columns[1].ID, Position: 0},
		{ID: columns[2].ID, Position: 1},
	}

	// Act
	err := repo.Reorder(context.Background(), program.ID, order)

	// Assert
	assert.NoError(t, err)

	reordered := columnSnapshot(t, repo, program.ID)
	assertDensePositions(t, reordered)
	assert.Equal(t, columns[1].ID, reordered[0].ID)
	assert.Equal(t, columns[2].ID, reordered[1].ID)
	assert.Equal(t, columns[0].ID, reordered[2].ID)
}

func TestColumnReorder_RejectsInvalidOrders(t *testing.T) {
	// Arrange
	db := testutil.NewDB(t)
	_, program := seedPatient(t, db)
	repo := repository.NewColumnRepository(db)
	ctx := context.Background()

	columns := columnSnapshot(t, repo, program.ID)
	before := columns

	cases := []struct {
		name  string
		order []repository.ColumnPosition
	}{
		{"too few entries", []repository.ColumnPosition{{ID: columns[0].ID, Position: 0}}},
		{"duplicate column", []repository.ColumnPosition{
			{ID: columns[0].ID, Position: 0},
			{ID: columns[0].ID, Position: 1},
			{ID: columns[2].ID, Position: 2},
		}},
		{"duplicate position", []repository.ColumnPosition{
			{ID: columns[0].ID, Position: 0},
			{ID: columns[1].ID, Position: 0},
			{ID: columns[2].ID, Position: 2},
		}},
		{"position out of range", []repository.ColumnPosition{
			{ID: columns[0].ID, Position: 0},
			{ID: columns[1].ID, Position: 1},
			{ID: columns[2].ID, Position: 5},
		}},
		{"foreign column", []repository.ColumnPosition{
			{ID: columns[0].ID, Position: 0},
			{ID: columns[1].ID, Position: 1},
			{ID: 9999, Position: 2},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			err := repo.Reorder(ctx, program.ID, tc.order)

			// Assert
			assert.ErrorIs(t, err, repository.ErrInvalidOrder)
			assert.Equal(t, before, columnSnapshot(t, repo, program.ID))
		})
	}
}

func TestColumnReorder_UnknownProgram(t *testing.T) {
	// Arrange
	db := testutil.NewDB(t)
	repo := repository.NewColumnRepository(db)

	// Act
	err := repo.Reorder(context.Background(), 9999, nil)

	// Assert
	assert.ErrorIs(t, err, repository.ErrProgramNotFound)
}
