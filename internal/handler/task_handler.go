package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"go-task-manager/internal/middleware"
	"go-task-manager/internal/model"
	"go-task-manager/internal/service"
	"go-task-manager/pkg/apierror"
)

type TaskHandler struct {
	service *service.TaskService
}

func NewTaskHandler(service *service.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized))
		return
	}

	var payload model.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("VALIDATION_ERROR", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	task, err := h.service.Create(r.Context(), principal, payload.Title, payload.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, task, nil)
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized))
		return
	}

	page := model.TaskPage{
		Skip:  queryInt(r, "skip", 0),
		Limit: queryInt(r, "limit", 0),
	}
	if raw := r.URL.Query().Get("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, apierror.New("VALIDATION_ERROR", "completed must be a boolean", "completed", http.StatusBadRequest))
			return
		}
		page.Completed = &completed
	}

	tasks, err := h.service.List(r.Context(), principal, page)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, tasks, &model.Meta{
		Skip:  page.Skip,
		Limit: page.Limit,
		Count: len(tasks),
	})
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, taskID, ok := h.principalAndTaskID(w, r)
	if !ok {
		return
	}

	task, err := h.service.Get(r.Context(), principal, taskID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, task, nil)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	principal, taskID, ok := h.principalAndTaskID(w, r)
	if !ok {
		return
	}

	var payload model.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("VALIDATION_ERROR", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	task, err := h.service.Update(r.Context(), principal, taskID, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, task, nil)
}

func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.setCompletion(w, r, true)
}

func (h *TaskHandler) Incomplete(w http.ResponseWriter, r *http.Request) {
	h.setCompletion(w, r, false)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, taskID, ok := h.principalAndTaskID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), principal, taskID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true}, nil)
}

func (h *TaskHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized))
		return
	}

	stats, err := h.service.Statistics(r.Context(), principal)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, stats, nil)
}

func (h *TaskHandler) setCompletion(w http.ResponseWriter, r *http.Request, completed bool) {
	principal, taskID, ok := h.principalAndTaskID(w, r)
	if !ok {
		return
	}

	task, err := h.service.SetCompletion(r.Context(), principal, taskID, completed)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, task, nil)
}

func (h *TaskHandler) principalAndTaskID(w http.ResponseWriter, r *http.Request) (model.Principal, int64, bool) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized))
		return model.Principal{}, 0, false
	}

	taskID, err := strconv.ParseInt(chi.URLParam(r, "task_id"), 10, 64)
	if err != nil || taskID <= 0 {
		writeError(w, apierror.New("VALIDATION_ERROR", "task id must be a positive integer", "task_id", http.StatusBadRequest))
		return model.Principal{}, 0, false
	}

	return principal, taskID, true
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
