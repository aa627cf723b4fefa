package handler

import (
	"net/http"

	"project-service/internal/usecase"
	"project-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type MembershipHandler struct {
	memberships *usecase.MembershipService
	log         *zap.Logger
}

func NewMembershipHandler(memberships *usecase.MembershipService, log *zap.Logger) *MembershipHandler {
	return &MembershipHandler{memberships: memberships, log: log}
}

// ListUsers godoc
// @Summary  Members of a project within the caller's tenant
// @Tags     members
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "project id"
// @Success  200 {array} ProjectUserResponse
// @Failure  404 {object} ErrorResponse
// @Router   /api/projects/{id}/users [get]
func (h *MembershipHandler) ListUsers(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	projectID, err := pathID(c, "id", "project")
	if err != nil {
		return err
	}

	members, err := h.memberships.GetProjectUsers(c.Request().Context(), user, projectID)
	if err != nil {
		return err
	}
	out := make([]ProjectUserResponse, 0, len(members))
	for i := range members {
		out = append(out, toProjectUserResponse(&members[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// AddUser godoc
// @Summary  Add a tenant user to a project (owners only)
// @Tags     members
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id   path string           true "project id"
// @Param    body body AddMemberRequest true "member"
// @Success  201 {object} ProjectUserResponse
// @Failure  403 {object} ErrorResponse
// @Failure  404 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse
// @Router   /api/projects/{id}/users [post]
func (h *MembershipHandler) AddUser(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	projectID, err := pathID(c, "id", "project")
	if err != nil {
		return err
	}

	var req AddMemberRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		return badRequest(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	member, err := h.memberships.AddProjectMember(c.Request().Context(), user, projectID, usecase.AddMemberInput{
		UserID: *req.UserID,
		Role:   req.Role,
	})
	if err != nil {
		return err
	}
	prometheus.RecordProjectOperation("add_member")
	return c.JSON(http.StatusCreated, toProjectUserResponse(member))
}

// RemoveUser godoc
// @Summary  Remove a member from a project (owners only)
// @Tags     members
// @Produce  json
// @Security BearerAuth
// @Param    id      path string true "project id"
// @Param    user_id path string true "user id"
// @Success  200 {object} StatusResponse
// @Failure  403 {object} ErrorResponse
// @Failure  404 {object} ErrorResponse
// @Failure  422 {object} ErrorResponse
// @Router   /api/projects/{id}/users/{user_id} [delete]
func (h *MembershipHandler) RemoveUser(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	projectID, err := pathID(c, "id", "project")
	if err != nil {
		return err
	}
	userID, err := pathID(c, "user_id", "membership")
	if err != nil {
		return err
	}

	if err := h.memberships.RemoveProjectMember(c.Request().Context(), user, projectID, userID); err != nil {
		return err
	}
	prometheus.RecordProjectOperation("remove_member")
	return c.JSON(http.StatusOK, StatusResponse{Status: "success", Message: "Member removed successfully"})
}

// MyProjects godoc
// @Summary  Projects the caller is a member of
// @Tags     users
// @Produce  json
// @Security BearerAuth
// @Success  200 {array} ProjectResponse
// @Router   /api/users/me/projects [get]
func (h *MembershipHandler) MyProjects(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	projects, err := h.memberships.ListMyProjects(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProjectResponses(projects))
}
