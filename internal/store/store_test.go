package store_test

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patientmanager/internal/config"
	"patientmanager/internal/model"
	"patientmanager/internal/repository"
	"patientmanager/internal/server"
	"patientmanager/internal/store"
	"patientmanager/internal/testutil"
)

// boardState is a backend-independent snapshot used to compare the two
// store modes. Column references are projected onto board positions so
// differing row ids between databases cannot mask a real divergence.
type boardState struct {
	Patients []patientState
}

type patientState struct {
	FirstName   string
	LastName    string
	DateOfBirth string
	Programs    []programState
}

type programState struct {
	Name    string
	Columns []columnState
	Tasks   []taskState
}

type columnState struct {
	Title    string
	Position int
}

type taskState struct {
	Name           string
	Description    string
	ColumnPosition int
}

func snapshot(t *testing.T, s store.Store) boardState {
	t.Helper()
	ctx := context.Background()

	var state boardState
	patients, err := s.Patients(ctx)
	require.NoError(t, err)

	for _, patient := range patients {
		ps := patientState{
			FirstName:   patient.FirstName,
			LastName:    patient.LastName,
			DateOfBirth: patient.DateOfBirth,
		}

		programs, err := s.Programs(ctx, patient.ID)
		require.NoError(t, err)

		for _, program := range programs {
			columns, err := s.Columns(ctx, program.ID)
			require.NoError(t, err)

			positionOf := make(map[uint]int, len(columns))
			prs := programState{Name: program.Name}
			for _, column := range columns {
				positionOf[column.ID] = column.Position
				prs.Columns = append(prs.Columns, columnState{Title: column.Title, Position: column.Position})
			}

			tasks, err := s.Tasks(ctx, program.ID)
			require.NoError(t, err)
			for _, task := range tasks {
				prs.Tasks = append(prs.Tasks, taskState{
					Name:           task.Name,
					Description:    task.Description,
					ColumnPosition: positionOf[task.ColumnID],
				})
			}

			ps.Programs = append(ps.Programs, prs)
		}

		state.Patients = append(state.Patients, ps)
	}
	return state
}

// exercise drives one store through a representative session and
// returns the final snapshot.
func exercise(t *testing.T, s store.Store) boardState {
	t.Helper()
	ctx := context.Background()

	user, err := s.Login(ctx, repository.DefaultAdminUsername, repository.DefaultAdminPassword)
	require.NoError(t, err)
	require.Equal(t, repository.DefaultAdminUsername, user.Username)

	patient := &model.Patient{FirstName: "Jane", LastName: "Doe", DateOfBirth: "1990-04-12", UserID: user.ID}
	require.NoError(t, s.CreatePatient(ctx, patient))

	program := &model.Program{Name: "Physical Therapy", PatientID: patient.ID}
	require.NoError(t, s.CreateProgram(ctx, program))

	columns, err := s.Columns(ctx, program.ID)
	require.NoError(t, err)
	require.Len(t, columns, 3)

	// Tasks: one defaulted to the first column, one placed explicitly.
	taskA := &model.Task{Name: "Initial assessment", Description: "Week 1", ProgramID: program.ID}
	require.NoError(t, s.CreateTask(ctx, taskA))

	taskB := &model.Task{Name: "Home exercises", ProgramID: program.ID, ColumnID: columns[1].ID}
	require.NoError(t, s.CreateTask(ctx, taskB))

	// Board surgery: append, rename, reorder, delete.
	appended, err := s.AppendColumn(ctx, program.ID, "Review")
	require.NoError(t, err)

	_, err = s.RenameColumn(ctx, columns[0].ID, "Backlog")
	require.NoError(t, err)

	reordered, err := s.ReorderColumns(ctx, program.ID, []repository.ColumnPosition{
		{ID: columns[0].ID, Position: 1},
		{ID: columns[1].ID, Position: 0},
		{ID: columns[2].ID, Position: 3},
		{ID: appended.ID, Position: 2},
	})
	require.NoError(t, err)
	require.Len(t, reordered, 4)

	require.NoError(t, s.DeleteColumn(ctx, appended.ID))

	// Move a task and edit the other.
	_, err = s.MoveTask(ctx, taskA.ID, columns[2].ID)
	require.NoError(t, err)

	taskB.Description = "Twice daily"
	require.NoError(t, s.UpdateTask(ctx, taskB))

	// A second patient that gets removed again.
	doomed := &model.Patient{FirstName: "Temp", LastName: "Record", UserID: user.ID}
	require.NoError(t, s.CreatePatient(ctx, doomed))
	require.NoError(t, s.DeletePatient(ctx, doomed.ID))

	return snapshot(t, s)
}

func TestLocalAndRemoteStoresAgree(t *testing.T) {
	// Arrange: a local store over one database, a remote store talking
	// to a real server over a second database.
	gin.SetMode(gin.TestMode)

	localDB := testutil.NewNamedDB(t, "_local")
	local := store.NewLocal(localDB)

	serverDB := testutil.NewNamedDB(t, "_server")
	cfg := &config.Server{Port: "0", JWTSecret: "test-secret", JWTExpiry: time.Hour}
	ts := httptest.NewServer(server.NewEngine(serverDB, cfg))
	defer ts.Close()

	remoteCfg := config.Client{Mode: config.ModeRemote, RemoteURL: ts.URL + "/api"}
	remote, err := store.Open(remoteCfg)
	require.NoError(t, err)

	// Act
	localState := exercise(t, local)
	remoteState := exercise(t, remote)

	// Assert
	assert.Equal(t, localState, remoteState)
}

func TestOpen_LocalMode(t *testing.T) {
	// Arrange
	cfg := config.Client{Mode: config.ModeLocal, DBFile: filepath.Join(t.TempDir(), "test.db")}

	// Act
	s, err := store.Open(cfg)

	// Assert
	require.NoError(t, err)
	assert.IsType(t, &store.Local{}, s)

	// The fresh database carries the seeded admin account.
	user, err := s.Login(context.Background(), repository.DefaultAdminUsername, repository.DefaultAdminPassword)
	assert.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, user.Role)
	assert.Empty(t, user.Password)
}

func TestOpen_UnknownMode(t *testing.T) {
	_, err := store.Open(config.Client{Mode: "p2p"})
	assert.ErrorContains(t, err, `unknown mode "p2p"`)
}

func TestLocalLogin_RejectsBadCredentials(t *testing.T) {
	// Arrange
	local := store.NewLocal(testutil.NewDB(t))
	ctx := context.Background()

	// Act + Assert
	_, err := local.Login(ctx, repository.DefaultAdminUsername, "wrong")
	assert.ErrorIs(t, err, store.ErrInvalidCredentials)

	_, err = local.Login(ctx, "ghost", "whatever")
	assert.ErrorIs(t, err, store.ErrInvalidCredentials)
}

func TestRemoteLogin_RejectsBadCredentials(t *testing.T) {
	// Arrange
	gin.SetMode(gin.TestMode)
	serverDB := testutil.NewNamedDB(t, "_server")
	cfg := &config.Server{Port: "0", JWTSecret: "test-secret", JWTExpiry: time.Hour}
	ts := httptest.NewServer(server.NewEngine(serverDB, cfg))
	defer ts.Close()

	remote, err := store.Open(config.Client{Mode: config.ModeRemote, RemoteURL: ts.URL + "/api"})
	require.NoError(t, err)

	// Act
	_, err = remote.Login(context.Background(), repository.DefaultAdminUsername, "wrong")

	// Assert
	assert.ErrorIs(t, err, store.ErrInvalidCredentials)
}
