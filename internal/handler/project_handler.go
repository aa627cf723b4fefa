package handler

import (
	"net/http"

	"project-service/internal/domain"
	"project-service/internal/usecase"
	"project-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ProjectHandler struct {
	projects *usecase.ProjectService
	log      *zap.Logger
}

func NewProjectHandler(projects *usecase.ProjectService, log *zap.Logger) *ProjectHandler {
	return &ProjectHandler{projects: projects, log: log}
}

// Create godoc
// @Summary  Create a project owned by the caller
// @Tags     projects
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body CreateProjectRequest true "project"
// @Success  201 {object} ProjectResponse
// @Failure  422 {object} ErrorResponse
// @Router   /api/projects/ [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req CreateProjectRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	project, err := h.projects.CreateProject(c.Request().Context(), user, usecase.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	prometheus.RecordProjectOperation("create")
	return c.JSON(http.StatusCreated, toProjectResponse(project))
}

// List godoc
// @Summary  Projects of the caller's tenant
// @Tags     projects
// @Produce  json
// @Security BearerAuth
// @Success  200 {array} ProjectResponse
// @Router   /api/projects/ [get]
func (h *ProjectHandler) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	projects, err := h.projects.ListProjects(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProjectResponses(projects))
}

// Get godoc
// @Summary  One project
// @Tags     projects
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "project id"
// @Success  200 {object} ProjectResponse
// @Failure  404 {object} ErrorResponse
// @Router   /api/projects/{id} [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", "project")
	if err != nil {
		return err
	}
	project, err := h.projects.GetProject(c.Request().Context(), user, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProjectResponse(project))
}

// Update godoc
// @Summary  Partially update a project; null clears the description
// @Tags     projects
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id   path string              true "project id"
// @Param    body body domain.ProjectPatch true "fields to change"
// @Success  200 {object} ProjectResponse
// @Failure  404 {object} ErrorResponse
// @Failure  422 {object} ErrorResponse
// @Router   /api/projects/{id} [patch]
func (h *ProjectHandler) Update(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", "project")
	if err != nil {
		return err
	}

	var patch domain.ProjectPatch
	if err := (&echo.DefaultBinder{}).BindBody(c, &patch); err != nil {
		return badRequest(err)
	}

	project, err := h.projects.UpdateProject(c.Request().Context(), user, id, patch)
	if err != nil {
		return err
	}
	prometheus.RecordProjectOperation("update")
	return c.JSON(http.StatusOK, toProjectResponse(project))
}

// Delete godoc
// @Summary  Delete a project with its tasks and memberships
// @Tags     projects
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "project id"
// @Success  200 {object} StatusResponse
// @Failure  404 {object} ErrorResponse
// @Router   /api/projects/{id} [delete]
func (h *ProjectHandler) Delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", "project")
	if err != nil {
		return err
	}

	deleted, err := h.projects.DeleteProject(c.Request().Context(), user, id)
	if err != nil {
		return err
	}
	if !deleted {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "project not found"})
	}
	prometheus.RecordProjectOperation("delete")
	return c.JSON(http.StatusOK, StatusResponse{Status: "success", Message: "Project deleted successfully"})
}
