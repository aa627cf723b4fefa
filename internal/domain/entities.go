package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tenant roles
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Project membership roles
const (
	ProjectRoleOwner  = "owner"
	ProjectRoleMember = "member"
)

// Column limits, in characters
const (
	MaxProjectNameLength = 100
	MaxTaskTitleLength   = 200
)

// Task statuses
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusInReview   = "in_review"
	StatusDone       = "done"
)

// ValidTaskStatus reports whether s is one of the task statuses
func ValidTaskStatus(s string) bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusInReview, StatusDone:
		return true
	}
	return false
}

// ValidProjectRole reports whether r is a project membership role
func ValidProjectRole(r string) bool {
	return r == ProjectRoleOwner || r == ProjectRoleMember
}

type Tenant struct {
	ID        uuid.UUID
	Name      string
	Domain    string
	CreatedAt time.Time
}

type User struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

type Project struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Assignee is the read-only snapshot of a task's assignee, joined on every read
type Assignee struct {
	ID       uuid.UUID
	Username string
	Email    string
}

type Task struct {
	ID          uuid.UUID
	ProjectID   uuid.UUID
	Title       string
	Description *string
	Status      string
	AssigneeID  *uuid.UUID
	Assignee    *Assignee
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Membership is a project-user link
type Membership struct {
	ProjectID uuid.UUID
	UserID    uuid.UUID
	Role      string
	JoinedAt  time.Time
}

// ProjectMember is a user together with their membership in one project
type ProjectMember struct {
	User     User
	Role     string
	JoinedAt time.Time
}
