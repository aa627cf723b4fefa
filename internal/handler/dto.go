package handler

import (
	"time"

	"project-service/internal/domain"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Username     string `json:"username" validate:"required,min=3,max=50"`
	Email        string `json:"email" validate:"required,email,max=100"`
	Password     string `json:"password" validate:"required,min=8,max=72,password"`
	TenantName   string `json:"tenant_name" validate:"required,max=100"`
	TenantDomain string `json:"tenant_domain" validate:"required,max=100,slug"`
}

// TokenRequest is the OAuth2 password grant; username carries the email
type TokenRequest struct {
	Username  string `json:"username" form:"username" validate:"required"`
	Password  string `json:"password" form:"password" validate:"required"`
	GrantType string `json:"grant_type" form:"grant_type"`
}

type CreateProjectRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description"`
}

type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description *string    `json:"description"`
	Status      string     `json:"status" validate:"omitempty,oneof=todo in_progress in_review done"`
	AssigneeID  *uuid.UUID `json:"assignee_id" swaggertype:"string" format:"uuid"`
	DueDate     *time.Time `json:"due_date"`
}

type AddMemberRequest struct {
	UserID *uuid.UUID `json:"user_id" validate:"required" swaggertype:"string" format:"uuid"`
	Role   string     `json:"role" validate:"omitempty,oneof=owner member"`
}

type UserResponse struct {
	ID       uuid.UUID `json:"id" swaggertype:"string" format:"uuid"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	TenantID uuid.UUID `json:"tenant_id" swaggertype:"string" format:"uuid"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type ProjectResponse struct {
	ID          uuid.UUID `json:"id" swaggertype:"string" format:"uuid"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	TenantID    uuid.UUID `json:"tenant_id" swaggertype:"string" format:"uuid"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AssigneeResponse struct {
	ID       uuid.UUID `json:"id" swaggertype:"string" format:"uuid"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

type TaskResponse struct {
	ID          uuid.UUID         `json:"id" swaggertype:"string" format:"uuid"`
	Title       string            `json:"title"`
	Description *string           `json:"description"`
	Status      string            `json:"status"`
	ProjectID   uuid.UUID         `json:"project_id" swaggertype:"string" format:"uuid"`
	AssigneeID  *uuid.UUID        `json:"assignee_id" swaggertype:"string" format:"uuid"`
	Assignee    *AssigneeResponse `json:"assignee"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	DueDate     *time.Time        `json:"due_date"`
}

// ProjectUserResponse is a project member; role is the project role and
// tenant_role the user's role in the tenant
type ProjectUserResponse struct {
	ID         uuid.UUID `json:"id" swaggertype:"string" format:"uuid"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	TenantRole string    `json:"tenant_role"`
	TenantID   uuid.UUID `json:"tenant_id" swaggertype:"string" format:"uuid"`
	JoinedAt   time.Time `json:"joined_at"`
}

type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role, TenantID: u.TenantID}
}

func toProjectResponse(p *domain.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		TenantID:    p.TenantID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProjectResponses(projects []domain.Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(projects))
	for i := range projects {
		out = append(out, toProjectResponse(&projects[i]))
	}
	return out
}

func toTaskResponse(t *domain.Task) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		ProjectID:   t.ProjectID,
		AssigneeID:  t.AssigneeID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		DueDate:     t.DueDate,
	}
	if t.Assignee != nil {
		resp.Assignee = &AssigneeResponse{ID: t.Assignee.ID, Username: t.Assignee.Username, Email: t.Assignee.Email}
	}
	return resp
}

func toProjectUserResponse(m *domain.ProjectMember) ProjectUserResponse {
	return ProjectUserResponse{
		ID:         m.User.ID,
		Username:   m.User.Username,
		Email:      m.User.Email,
		Role:       m.Role,
		TenantRole: m.User.Role,
		TenantID:   m.User.TenantID,
		JoinedAt:   m.JoinedAt,
	}
}
