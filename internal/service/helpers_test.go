package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	_ "github.com/mattn/go-sqlite3"

	"github.com/gurkanbulca/boardmaster/internal/database"
	"github.com/gurkanbulca/boardmaster/internal/models"
	"github.com/gurkanbulca/boardmaster/internal/repository"
)

type testEnv struct {
	db       *sqlx.DB
	users    *UserService
	projects *ProjectService
	tasks    *TaskService

	userRepo    *repository.UserRepository
	projectRepo *repository.ProjectRepository
	taskRepo    *repository.TaskRepository
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(context.Background(), db))

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	projects := NewProjectService(projectRepo, taskRepo)

	return &testEnv{
		db:          db,
		users:       NewUserService(userRepo),
		projects:    projects,
		tasks:       NewTaskService(taskRepo, projects),
		userRepo:    userRepo,
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
	}
}

// seedUser inserts a user directly, skipping the bcrypt work that
// registration does. Tests that exercise credentials use Register instead.
func (e *testEnv) seedUser(t *testing.T, email string) *models.User {
	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: "not-a-real-hash",
		Name:         "Test",
		Surname:      "User",
		Roles:        "USER",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, e.userRepo.Create(context.Background(), user))
	return user
}

func (e *testEnv) seedProject(t *testing.T, ownerID, title string) *models.Project {
	project, err := e.projects.Create(context.Background(), ownerID, title, "")
	require.NoError(t, err)
	return project
}

func (e *testEnv) archiveProject(t *testing.T, ownerID, projectID string) {
	archived := models.ProjectStatusArchived
	_, err := e.projects.Update(context.Background(), ownerID, projectID, ProjectUpdate{Status: &archived})
	require.NoError(t, err)
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
