package handler

import (
	"net/http"

	"project-service/internal/domain"
	"project-service/internal/usecase"
	"project-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type TaskHandler struct {
	tasks *usecase.TaskService
	log   *zap.Logger
}

func NewTaskHandler(tasks *usecase.TaskService, log *zap.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, log: log}
}

// Create godoc
// @Summary  Create a task in a project
// @Tags     tasks
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id   path string            true "project id"
// @Param    body body CreateTaskRequest true "task"
// @Success  201 {object} TaskResponse
// @Failure  400 {object} ErrorResponse
// @Failure  404 {object} ErrorResponse
// @Failure  422 {object} ErrorResponse
// @Router   /api/projects/{id}/tasks/ [post]
func (h *TaskHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	projectID, err := pathID(c, "id", "project")
	if err != nil {
		return err
	}

	var req CreateTaskRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		return badRequest(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	task, err := h.tasks.CreateTask(c.Request().Context(), user, projectID, usecase.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		AssigneeID:  req.AssigneeID,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return err
	}
	prometheus.RecordTaskOperation("create")
	return c.JSON(http.StatusCreated, toTaskResponse(task))
}

// List godoc
// @Summary  Tasks of a project
// @Tags     tasks
// @Produce  json
// @Security BearerAuth
// @Param    id     path  string true  "project id"
// @Param    status query string false "todo, in_progress, in_review or done"
// @Success  200 {array} TaskResponse
// @Failure  404 {object} ErrorResponse
// @Router   /api/projects/{id}/tasks/ [get]
func (h *TaskHandler) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	projectID, err := pathID(c, "id", "project")
	if err != nil {
		return err
	}

	tasks, err := h.tasks.ListTasks(c.Request().Context(), user, projectID, c.QueryParam("status"))
	if err != nil {
		return err
	}
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, toTaskResponse(&tasks[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// Get godoc
// @Summary  One task
// @Tags     tasks
// @Produce  json
// @Security BearerAuth
// @Param    id      path string true "project id"
// @Param    task_id path string true "task id"
// @Success  200 {object} TaskResponse
// @Failure  404 {object} ErrorResponse
// @Router   /api/projects/{id}/tasks/{task_id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	projectID, err := pathID(c, "id", "project")
	if err != nil {
		return err
	}
	taskID, err := pathID(c, "task_id", "task")
	if err != nil {
		return err
	}

	task, err := h.tasks.GetTask(c.Request().Context(), user, projectID, taskID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// Update godoc
// @Summary  Partially update a task; null unassigns or clears optional fields
// @Tags     tasks
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id      path string           true "project id"
// @Param    task_id path string           true "task id"
// @Param    body    body domain.TaskPatch true "fields to change"
// @Success  200 {object} TaskResponse
// @Failure  400 {object} ErrorResponse
// @Failure  404 {object} ErrorResponse
// @Failure  422 {object} ErrorResponse
// @Router   /api/projects/{id}/tasks/{task_id} [patch]
func (h *TaskHandler) Update(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	projectID, err := pathID(c, "id", "project")
	if err != nil {
		return err
	}
	taskID, err := pathID(c, "task_id", "task")
	if err != nil {
		return err
	}

	var patch domain.TaskPatch
	if err := (&echo.DefaultBinder{}).BindBody(c, &patch); err != nil {
		return badRequest(err)
	}

	task, err := h.tasks.UpdateTask(c.Request().Context(), user, projectID, taskID, patch)
	if err != nil {
		return err
	}
	prometheus.RecordTaskOperation("update")
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// Delete godoc
// @Summary  Delete a task
// @Tags     tasks
// @Produce  json
// @Security BearerAuth
// @Param    id      path string true "project id"
// @Param    task_id path string true "task id"
// @Success  200 {object} StatusResponse
// @Failure  404 {object} ErrorResponse
// @Router   /api/projects/{id}/tasks/{task_id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	projectID, err := pathID(c, "id", "project")
	if err != nil {
		return err
	}
	taskID, err := pathID(c, "task_id", "task")
	if err != nil {
		return err
	}

	deleted, err := h.tasks.DeleteTask(c.Request().Context(), user, projectID, taskID)
	if err != nil {
		return err
	}
	if !deleted {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "task not found"})
	}
	prometheus.RecordTaskOperation("delete")
	return c.JSON(http.StatusOK, StatusResponse{Status: "success", Message: "Task deleted successfully"})
}
