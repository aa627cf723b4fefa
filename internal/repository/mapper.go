package repository

import (
	"project-service/internal/domain"
	"project-service/internal/model"
)

func toDomainTenant(m *model.Tenant) *domain.Tenant {
	return &domain.Tenant{ID: m.ID, Name: m.Name, Domain: m.Domain, CreatedAt: m.CreatedAt}
}

func toDomainUser(m *model.User) *domain.User {
	return &domain.User{
		ID:           m.ID,
		TenantID:     m.TenantID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         m.Role,
		CreatedAt:    m.CreatedAt,
	}
}

func toDomainProject(m *model.Project) *domain.Project {
	return &domain.Project{
		ID:          m.ID,
		TenantID:    m.TenantID,
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toDomainProjects(rows []model.Project) []domain.Project {
	projects := make([]domain.Project, 0, len(rows))
	for i := range rows {
		projects = append(projects, *toDomainProject(&rows[i]))
	}
	return projects
}

func toDomainTask(m *model.Task) *domain.Task {
	task := &domain.Task{
		ID:          m.ID,
		ProjectID:   m.ProjectID,
		Title:       m.Title,
		Description: m.Description,
		Status:      m.Status,
		AssigneeID:  m.AssigneeID,
		DueDate:     m.DueDate,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.Assignee != nil {
		task.Assignee = &domain.Assignee{ID: m.Assignee.ID, Username: m.Assignee.Username, Email: m.Assignee.Email}
	}
	return task
}

func toDomainMembership(m *model.ProjectMembership) *domain.Membership {
	return &domain.Membership{ProjectID: m.ProjectID, UserID: m.UserID, Role: m.Role, JoinedAt: m.JoinedAt}
}
