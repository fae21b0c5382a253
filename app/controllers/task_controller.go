package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"fiftytwo-go/app/services"
)

// TaskController handles HTTP requests for tasks and derived metrics.
type TaskController struct {
	Tasks   *services.TaskService
	Metrics *services.MetricsService
}

// NewTaskController creates a new TaskController.
func NewTaskController(tasks *services.TaskService, metrics *services.MetricsService) *TaskController {
	return &TaskController{Tasks: tasks, Metrics: metrics}
}

// GetTasks handles GET /tasks.
func (c *TaskController) GetTasks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, c.Tasks.Tasks())
}

// CreateTask handles POST /tasks.
func (c *TaskController) CreateTask(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	task, err := c.Tasks.AddTask(r.Context(), payload.Title)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

// ToggleTask handles POST /tasks/{taskID}/toggle.
func (c *TaskController) ToggleTask(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["taskID"]
	task, err := c.Tasks.ToggleTask(r.Context(), taskID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// DeleteTask handles DELETE /tasks/{taskID}.
func (c *TaskController) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["taskID"]
	if err := c.Tasks.DeleteTask(r.Context(), taskID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateSubtask handles POST /tasks/{taskID}/subtasks.
func (c *TaskController) CreateSubtask(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["taskID"]
	var payload struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	task, err := c.Tasks.AddSubtask(r.Context(), taskID, payload.Title)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

// ToggleSubtask handles POST /tasks/{taskID}/subtasks/{subtaskID}/toggle.
func (c *TaskController) ToggleSubtask(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	task, err := c.Tasks.ToggleSubtask(r.Context(), vars["taskID"], vars["subtaskID"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// DeleteSubtask handles DELETE /tasks/{taskID}/subtasks/{subtaskID}.
func (c *TaskController) DeleteSubtask(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	task, err := c.Tasks.DeleteSubtask(r.Context(), vars["taskID"], vars["subtaskID"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// GetMetrics handles GET /metrics.
func (c *TaskController) GetMetrics(w http.ResponseWriter, r *http.Request) {
	metrics := c.Metrics.Compute(c.Tasks.Tasks(), c.Tasks.JoinWeek())
	writeJSON(w, http.StatusOK, metrics)
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(value)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrEmptyTitle):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrTaskNotFound), errors.Is(err, services.ErrSubtaskNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
