//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-task-manager/internal/model"
)

func createTask(t *testing.T, env *testEnv, token string, title string, description string) model.Task {
	t.Helper()

	status, envelope := doJSON(t, http.MethodPost, env.server.URL+"/api/v1/tasks/", token,
		model.CreateTaskRequest{Title: title, Description: description})
	require.Equal(t, http.StatusCreated, status)

	var task model.Task
	decodeData(t, envelope, &task)
	return task
}

func TestTaskLifecycle(t *testing.T) {
	env := newTestServer(t, 15*time.Minute)
	alice := registerAndLogin(t, env, "alice", "Secret123!")

	task := createTask(t, env, alice, "Buy milk", "2 liters, oat")
	assert.Equal(t, "Buy milk", task.Title)
	assert.False(t, task.Completed)
	assert.NotZero(t, task.ID)

	t.Run("get returns the created task", func(t *testing.T) {
		status, envelope := doJSON(t, http.MethodGet,
			fmt.Sprintf("%s/api/v1/tasks/%d", env.server.URL, task.ID), alice, nil)
		require.Equal(t, http.StatusOK, status)

		var got model.Task
		decodeData(t, envelope, &got)
		assert.Equal(t, task.ID, got.ID)
		assert.Equal(t, "2 liters, oat", got.Description)
	})

	t.Run("update changes only supplied fields", func(t *testing.T) {
		status, envelope := doJSON(t, http.MethodPut,
			fmt.Sprintf("%s/api/v1/tasks/%d", env.server.URL, task.ID), alice,
			map[string]any{"title": "Buy oat milk"})
		require.Equal(t, http.StatusOK, status)

		var got model.Task
		decodeData(t, envelope, &got)
		assert.Equal(t, "Buy oat milk", got.Title)
		assert.Equal(t, "2 liters, oat", got.Description)
	})

	t.Run("complete then complete again is idempotent", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			status, envelope := doJSON(t, http.MethodPatch,
				fmt.Sprintf("%s/api/v1/tasks/%d/complete", env.server.URL, task.ID), alice, nil)
			require.Equal(t, http.StatusOK, status)

			var got model.Task
			decodeData(t, envelope, &got)
			assert.True(t, got.Completed)
		}
	})

	t.Run("incomplete reopens the task", func(t *testing.T) {
		status, envelope := doJSON(t, http.MethodPatch,
			fmt.Sprintf("%s/api/v1/tasks/%d/incomplete", env.server.URL, task.ID), alice, nil)
		require.Equal(t, http.StatusOK, status)

		var got model.Task
		decodeData(t, envelope, &got)
		assert.False(t, got.Completed)
	})

	t.Run("delete then delete again", func(t *testing.T) {
		status, _ := doJSON(t, http.MethodDelete,
			fmt.Sprintf("%s/api/v1/tasks/%d", env.server.URL, task.ID), alice, nil)
		require.Equal(t, http.StatusOK, status)

		status, envelope := doJSON(t, http.MethodDelete,
			fmt.Sprintf("%s/api/v1/tasks/%d", env.server.URL, task.ID), alice, nil)
		assert.Equal(t, http.StatusNotFound, status)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, "NOT_FOUND", envelope.Error.Code)
	})
}

func TestOwnershipIsolation(t *testing.T) {
	env := newTestServer(t, 15*time.Minute)
	alice := registerAndLogin(t, env, "alice", "Secret123!")
	bob := registerAndLogin(t, env, "bob", "Secret456!")

	task := createTask(t, env, alice, "Buy milk", "")

	t.Run("bob's list does not contain alice's task", func(t *testing.T) {
		status, envelope := doJSON(t, http.MethodGet, env.server.URL+"/api/v1/tasks/", bob, nil)
		require.Equal(t, http.StatusOK, status)

		var tasks []model.Task
		decodeData(t, envelope, &tasks)
		assert.Empty(t, tasks)
	})

	t.Run("bob gets not-found for alice's task", func(t *testing.T) {
		status, envelope := doJSON(t, http.MethodGet,
			fmt.Sprintf("%s/api/v1/tasks/%d", env.server.URL, task.ID), bob, nil)
		assert.Equal(t, http.StatusNotFound, status)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, "NOT_FOUND", envelope.Error.Code)
	})

	t.Run("bob cannot update or delete alice's task", func(t *testing.T) {
		status, _ := doJSON(t, http.MethodPut,
			fmt.Sprintf("%s/api/v1/tasks/%d", env.server.URL, task.ID), bob,
			map[string]any{"title": "hijacked"})
		assert.Equal(t, http.StatusNotFound, status)

		status, _ = doJSON(t, http.MethodDelete,
			fmt.Sprintf("%s/api/v1/tasks/%d", env.server.URL, task.ID), bob, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("alice still sees her task untouched", func(t *testing.T) {
		status, envelope := doJSON(t, http.MethodGet,
			fmt.Sprintf("%s/api/v1/tasks/%d", env.server.URL, task.ID), alice, nil)
		require.Equal(t, http.StatusOK, status)

		var got model.Task
		decodeData(t, envelope, &got)
		assert.Equal(t, "Buy milk", got.Title)
	})
}

func TestTaskValidationBoundaries(t *testing.T) {
	env := newTestServer(t, 15*time.Minute)
	alice := registerAndLogin(t, env, "alice", "Secret123!")

	t.Run("title of exactly 255 characters succeeds", func(t *testing.T) {
		status, _ := doJSON(t, http.MethodPost, env.server.URL+"/api/v1/tasks/", alice,
			model.CreateTaskRequest{Title: strings.Repeat("a", 255)})
		assert.Equal(t, http.StatusCreated, status)
	})

	t.Run("title of 256 characters fails", func(t *testing.T) {
		status, envelope := doJSON(t, http.MethodPost, env.server.URL+"/api/v1/tasks/", alice,
			model.CreateTaskRequest{Title: strings.Repeat("a", 256)})
		assert.Equal(t, http.StatusBadRequest, status)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)
	})

	t.Run("whitespace-only title fails", func(t *testing.T) {
		status, _ := doJSON(t, http.MethodPost, env.server.URL+"/api/v1/tasks/", alice,
			model.CreateTaskRequest{Title: "   "})
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestTaskListPaginationAndFilter(t *testing.T) {
	env := newTestServer(t, 15*time.Minute)
	alice := registerAndLogin(t, env, "alice", "Secret123!")

	for i := 0; i < 5; i++ {
		task := createTask(t, env, alice, fmt.Sprintf("task %d", i), "")
		if i%2 == 0 {
			status, _ := doJSON(t, http.MethodPatch,
				fmt.Sprintf("%s/api/v1/tasks/%d/complete", env.server.URL, task.ID), alice, nil)
			require.Equal(t, http.StatusOK, status)
		}
	}

	t.Run("skip and limit bound the page", func(t *testing.T) {
		status, envelope := doJSON(t, http.MethodGet,
			env.server.URL+"/api/v1/tasks/?skip=1&limit=2", alice, nil)
		require.Equal(t, http.StatusOK, status)

		var tasks []model.Task
		decodeData(t, envelope, &tasks)
		assert.Len(t, tasks, 2)
	})

	t.Run("completed filter", func(t *testing.T) {
		status, envelope := doJSON(t, http.MethodGet,
			env.server.URL+"/api/v1/tasks/?completed=true", alice, nil)
		require.Equal(t, http.StatusOK, status)

		var tasks []model.Task
		decodeData(t, envelope, &tasks)
		assert.Len(t, tasks, 3)
		for _, task := range tasks {
			assert.True(t, task.Completed)
		}
	})

	t.Run("statistics reflect completion state", func(t *testing.T) {
		status, envelope := doJSON(t, http.MethodGet,
			env.server.URL+"/api/v1/tasks/statistics", alice, nil)
		require.Equal(t, http.StatusOK, status)

		var stats model.TaskStatistics
		decodeData(t, envelope, &stats)
		assert.Equal(t, 5, stats.TotalTasks)
		assert.Equal(t, 3, stats.CompletedTasks)
		assert.Equal(t, 2, stats.PendingTasks)
		assert.InDelta(t, 60.0, stats.CompletionPercentage, 0.001)
	})
}
