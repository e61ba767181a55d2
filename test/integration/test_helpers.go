//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-task-manager/internal/config"
	"go-task-manager/internal/handler"
	"go-task-manager/internal/middleware"
	"go-task-manager/internal/model"
	"go-task-manager/internal/router"
	"go-task-manager/internal/service"
)

// memUserDirectory is an in-memory UserDirectory so the full HTTP stack
// can be exercised without PostgreSQL.
type memUserDirectory struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]model.User
}

func newMemUserDirectory() *memUserDirectory {
	return &memUserDirectory{nextID: 1, users: map[int64]model.User{}}
}

func (d *memUserDirectory) FindByUsername(_ context.Context, username string) (model.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, u := range d.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (d *memUserDirectory) FindByID(_ context.Context, id int64) (model.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	u, ok := d.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (d *memUserDirectory) Create(_ context.Context, username string, passwordHash string) (model.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, u := range d.users {
		if u.Username == username {
			return model.User{}, model.ErrDuplicateUsername
		}
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           d.nextID,
		Username:     username,
		PasswordHash: passwordHash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	d.users[user.ID] = user
	d.nextID++
	return user, nil
}

func (d *memUserDirectory) SetActive(_ context.Context, id int64, active bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	u, ok := d.users[id]
	if !ok {
		return model.ErrUserNotFound
	}
	u.Active = active
	u.UpdatedAt = time.Now().UTC()
	d.users[id] = u
	return nil
}

// memTaskStore is an in-memory TaskStore with last-write-wins updates.
type memTaskStore struct {
	mu     sync.Mutex
	nextID int64
	tasks  map[int64]model.Task
}

func newMemTaskStore() *memTaskStore {
	return &memTaskStore{nextID: 1, tasks: map[int64]model.Task{}}
}

func (s *memTaskStore) Create(_ context.Context, task model.Task) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	task.ID = s.nextID
	task.CreatedAt = now
	task.UpdatedAt = now
	s.tasks[task.ID] = task
	s.nextID++
	return task, nil
}

func (s *memTaskStore) FindByID(_ context.Context, id int64) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return model.Task{}, model.ErrTaskNotFound
	}
	return task, nil
}

func (s *memTaskStore) ListByOwner(_ context.Context, ownerID int64, page model.TaskPage) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	owned := make([]model.Task, 0)
	for _, task := range s.tasks {
		if task.OwnerID != ownerID {
			continue
		}
		if page.Completed != nil && task.Completed != *page.Completed {
			continue
		}
		owned = append(owned, task)
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].ID < owned[j].ID })

	if page.Skip >= len(owned) {
		return []model.Task{}, nil
	}
	owned = owned[page.Skip:]
	if page.Limit < len(owned) {
		owned = owned[:page.Limit]
	}
	return owned, nil
}

func (s *memTaskStore) Update(_ context.Context, task model.Task) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.tasks[task.ID]
	if !ok {
		return model.Task{}, model.ErrTaskNotFound
	}
	task.CreatedAt = existing.CreatedAt
	task.UpdatedAt = time.Now().UTC()
	s.tasks[task.ID] = task
	return task, nil
}

func (s *memTaskStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return model.ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *memTaskStore) CountByOwner(_ context.Context, ownerID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, task := range s.tasks {
		if task.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}

func (s *memTaskStore) CountCompletedByOwner(_ context.Context, ownerID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, task := range s.tasks {
		if task.OwnerID == ownerID && task.Completed {
			count++
		}
	}
	return count, nil
}

type testEnv struct {
	server *httptest.Server
	users  *memUserDirectory
	tasks  *memTaskStore
	auth   *service.AuthService
}

func newTestServer(t *testing.T, accessTTL time.Duration) *testEnv {
	t.Helper()

	users := newMemUserDirectory()
	tasks := newMemTaskStore()

	hasher, err := service.NewPasswordHasher(bcrypt.MinCost, 4)
	require.NoError(t, err)
	tokens, err := service.NewTokenService("integration-secret")
	require.NoError(t, err)
	authService, err := service.NewAuthService(users, hasher, tokens, accessTTL)
	require.NoError(t, err)
	taskService := service.NewTaskService(tasks, 100)

	cfg := &config.Config{
		ServerPort:       "8080",
		RequestTimeout:   30 * time.Second,
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     10_000,
		AuthRateLimitRPM: 10_000,
		TaskMaxPageSize:  100,
	}

	appRouter := router.New(cfg,
		middleware.NewAuthMiddleware(authService),
		handler.NewAuthHandler(authService),
		handler.NewTaskHandler(taskService))

	server := httptest.NewServer(appRouter)
	t.Cleanup(server.Close)

	return &testEnv{server: server, users: users, tasks: tasks, auth: authService}
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
	} `json:"error"`
	Meta *model.Meta `json:"meta"`
}

func doJSON(t *testing.T, method string, url string, token string, payload any) (int, apiEnvelope) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var envelope apiEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp.StatusCode, envelope
}

func decodeData(t *testing.T, envelope apiEnvelope, target any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(envelope.Data, target))
}

func registerAndLogin(t *testing.T, env *testEnv, username string, password string) string {
	t.Helper()

	status, _ := doJSON(t, http.MethodPost, env.server.URL+"/api/v1/auth/register", "",
		model.RegisterRequest{Username: username, Password: password})
	require.Equal(t, http.StatusCreated, status)

	status, envelope := doJSON(t, http.MethodPost, env.server.URL+"/api/v1/auth/login", "",
		model.LoginRequest{Username: username, Password: password})
	require.Equal(t, http.StatusOK, status)

	var result model.TokenResult
	decodeData(t, envelope, &result)
	require.NotEmpty(t, result.AccessToken)
	return result.AccessToken
}
