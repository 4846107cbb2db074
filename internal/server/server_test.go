package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/mattn/go-sqlite3"

	"github.com/gurkanbulca/boardmaster/internal/database"
	"github.com/gurkanbulca/boardmaster/internal/repository"
	"github.com/gurkanbulca/boardmaster/internal/service"
	"github.com/gurkanbulca/boardmaster/pkg/auth"
)

type serverEnv struct {
	srv    *Server
	tokens *auth.TokenManager
}

func newServerEnv(t *testing.T) *serverEnv {
	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db))

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	users := service.NewUserService(userRepo)
	projects := service.NewProjectService(projectRepo, taskRepo)
	tasks := service.NewTaskService(taskRepo, projects)

	tokens := auth.NewTokenManager("server-test-secret!", 15*time.Minute, 7*24*time.Hour)
	cookies := auth.NewCookieManager(15*time.Minute, 7*24*time.Hour, false)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &serverEnv{
		srv:    New(users, projects, tasks, tokens, cookies, logger),
		tokens: tokens,
	}
}

func (e *serverEnv) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	e.srv.Engine().ServeHTTP(rec, req)
	return rec
}

// signup registers and logs a user in, returning the session cookies.
func (e *serverEnv) signup(t *testing.T, email string) []*http.Cookie {
	rec := e.do(t, http.MethodPost, "/auth/register", map[string]string{
		"email":    email,
		"name":     "Test",
		"surname":  "User",
		"password": "password-123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = e.do(t, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": "password-123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return rec.Result().Cookies()
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuth_RegisterLoginMeRoundTrip(t *testing.T) {
	env := newServerEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/register", map[string]string{
		"email":    "me@example.com",
		"name":     "Mireille",
		"surname":  "Martin",
		"password": "password-123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	registered := decode[identityResponse](t, rec)
	assert.Equal(t, "me@example.com", registered.Email)
	assert.Equal(t, []string{"USER"}, registered.Roles)

	rec = env.do(t, http.MethodPost, "/auth/login", map[string]string{
		"email":    "me@example.com",
		"password": "password-123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	access := cookieByName(cookies, auth.AccessCookieName)
	refresh := cookieByName(cookies, auth.RefreshCookieName)
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	assert.Equal(t, "/", access.Path)
	assert.Equal(t, "/auth", refresh.Path)
	assert.True(t, access.HttpOnly)
	assert.True(t, refresh.HttpOnly)

	rec = env.do(t, http.MethodGet, "/auth/me", nil, access)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[identityResponse](t, rec)
	assert.Equal(t, registered.ID, me.ID)
}

func TestAuth_MeWithoutCookie(t *testing.T) {
	env := newServerEnv(t)

	rec := env.do(t, http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	payload := decode[errorPayload](t, rec)
	assert.Equal(t, "Unauthorized", string(payload.Error))
	assert.Equal(t, http.StatusUnauthorized, payload.Status)
}

func TestAuth_DuplicateRegistrationConflicts(t *testing.T) {
	env := newServerEnv(t)
	env.signup(t, "dup@example.com")

	rec := env.do(t, http.MethodPost, "/auth/register", map[string]string{
		"email":    "DUP@example.com",
		"name":     "Again",
		"surname":  "User",
		"password": "password-123",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAuth_ValidationFailures(t *testing.T) {
	env := newServerEnv(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"short password", map[string]string{"email": "a@b.com", "name": "A", "surname": "B", "password": "short"}},
		{"bad email", map[string]string{"email": "not-an-email", "name": "A", "surname": "B", "password": "password-123"}},
		{"missing name", map[string]string{"email": "a@b.com", "surname": "B", "password": "password-123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/auth/register", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			payload := decode[errorPayload](t, rec)
			assert.Equal(t, "ValidationError", string(payload.Error))
		})
	}
}

// A refresh token on an access position (and vice versa) is well-signed but
// must still be rejected by the type check at the caller.
func TestAuth_TokenTypeAsymmetry(t *testing.T) {
	env := newServerEnv(t)
	cookies := env.signup(t, "swap@example.com")
	access := cookieByName(cookies, auth.AccessCookieName)
	refresh := cookieByName(cookies, auth.RefreshCookieName)

	// Refresh token presented as the access cookie.
	rec := env.do(t, http.MethodGet, "/auth/me", nil,
		&http.Cookie{Name: auth.AccessCookieName, Value: refresh.Value})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Access token presented as the refresh cookie.
	rec = env.do(t, http.MethodPost, "/auth/refresh", nil,
		&http.Cookie{Name: auth.RefreshCookieName, Value: access.Value})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// The genuine refresh cookie rotates the pair.
	rec = env.do(t, http.MethodPost, "/auth/refresh", nil, refresh)
	require.Equal(t, http.StatusOK, rec.Code)
	rotated := rec.Result().Cookies()
	assert.NotNil(t, cookieByName(rotated, auth.AccessCookieName))
	assert.NotNil(t, cookieByName(rotated, auth.RefreshCookieName))
}

func TestAuth_LogoutClearsBothCookies(t *testing.T) {
	env := newServerEnv(t)
	env.signup(t, "out@example.com")

	rec := env.do(t, http.MethodPost, "/auth/logout", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	cleared := rec.Result().Cookies()
	for _, name := range []string{auth.AccessCookieName, auth.RefreshCookieName} {
		c := cookieByName(cleared, name)
		require.NotNil(t, c)
		assert.Empty(t, c.Value)
		assert.Negative(t, c.MaxAge)
	}
}

func TestProjects_DeleteRequiresForce(t *testing.T) {
	env := newServerEnv(t)
	cookies := env.signup(t, "boards@example.com")
	access := cookieByName(cookies, auth.AccessCookieName)

	rec := env.do(t, http.MethodPost, "/api/projects", map[string]string{"title": "Board"}, access)
	require.Equal(t, http.StatusCreated, rec.Code)
	project := decode[map[string]any](t, rec)
	projectID := project["id"].(string)

	rec = env.do(t, http.MethodPost, "/api/projects/"+projectID+"/tasks",
		map[string]string{"title": "Card"}, access)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Without force the delete is rejected and nothing changes.
	rec = env.do(t, http.MethodDelete, "/api/projects/"+projectID, nil, access)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/projects/"+projectID, nil, access)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/projects/"+projectID+"/tasks?status=TODO", nil, access)
	require.Equal(t, http.StatusOK, rec.Code)
	column := decode[map[string][]map[string]any](t, rec)
	assert.Len(t, column["tasks"], 1)

	// With force the project and its tasks are gone.
	rec = env.do(t, http.MethodDelete, "/api/projects/"+projectID+"?force=true", nil, access)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/projects/"+projectID, nil, access)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTasks_ListRequiresStatus(t *testing.T) {
	env := newServerEnv(t)
	cookies := env.signup(t, "columns@example.com")
	access := cookieByName(cookies, auth.AccessCookieName)

	rec := env.do(t, http.MethodPost, "/api/projects", map[string]string{"title": "Board"}, access)
	require.Equal(t, http.StatusCreated, rec.Code)
	project := decode[map[string]any](t, rec)
	projectID := project["id"].(string)

	rec = env.do(t, http.MethodGet, "/api/projects/"+projectID+"/tasks", nil, access)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/projects/"+projectID+"/tasks?status=SHIPPING", nil, access)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBoard_EndToEndColumnMove(t *testing.T) {
	env := newServerEnv(t)
	cookies := env.signup(t, "flow@example.com")
	access := cookieByName(cookies, auth.AccessCookieName)

	rec := env.do(t, http.MethodPost, "/api/projects", map[string]string{"title": "Sprint"}, access)
	require.Equal(t, http.StatusCreated, rec.Code)
	project := decode[map[string]any](t, rec)
	projectID := project["id"].(string)

	rec = env.do(t, http.MethodPost, "/api/projects/"+projectID+"/tasks",
		map[string]any{"title": "Write the docs", "priority": "HIGH"}, access)
	require.Equal(t, http.StatusCreated, rec.Code)
	task := decode[map[string]any](t, rec)
	assert.Equal(t, float64(100), task["order"])
	assert.Equal(t, "TODO", task["status"])
	taskID := task["id"].(string)

	rec = env.do(t, http.MethodPut, "/api/tasks/"+taskID,
		map[string]any{"status": "IN_PROGRESS"}, access)
	require.Equal(t, http.StatusOK, rec.Code)
	moved := decode[map[string]any](t, rec)
	assert.Equal(t, "IN_PROGRESS", moved["status"])
	assert.Equal(t, float64(100), moved["order"], "first task in the destination column")

	rec = env.do(t, http.MethodDelete, "/api/tasks/"+taskID, nil, access)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestProfile_UpdateAndChangePassword(t *testing.T) {
	env := newServerEnv(t)
	cookies := env.signup(t, "profile@example.com")
	access := cookieByName(cookies, auth.AccessCookieName)

	rec := env.do(t, http.MethodPut, "/api/me", map[string]string{"name": "Renamed"}, access)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[identityResponse](t, rec)
	assert.Equal(t, "Renamed", me.Name)
	assert.Equal(t, "User", me.Surname)

	rec = env.do(t, http.MethodPut, "/api/me/password", map[string]string{
		"currentPassword": "wrong-password",
		"newPassword":     "next-password-1",
	}, access)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/me/password", map[string]string{
		"currentPassword": "password-123",
		"newPassword":     "next-password-1",
	}, access)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodPost, "/auth/login", map[string]string{
		"email":    "profile@example.com",
		"password": "next-password-1",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProjects_BoardsAreIsolatedPerOwner(t *testing.T) {
	env := newServerEnv(t)
	ownerCookies := env.signup(t, "owner@example.com")
	intruderCookies := env.signup(t, "intruder@example.com")
	owner := cookieByName(ownerCookies, auth.AccessCookieName)
	intruder := cookieByName(intruderCookies, auth.AccessCookieName)

	rec := env.do(t, http.MethodPost, "/api/projects", map[string]string{"title": "Private"}, owner)
	require.Equal(t, http.StatusCreated, rec.Code)
	project := decode[map[string]any](t, rec)
	projectID := project["id"].(string)

	rec = env.do(t, http.MethodGet, "/api/projects/"+projectID, nil, intruder)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/projects", nil, intruder)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[map[string]any](t, rec)
	assert.Empty(t, page["projects"])
}
