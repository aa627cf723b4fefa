package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project groups tasks inside a tenant
type Project struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID    uuid.UUID `json:"tenant_id" gorm:"type:uuid;index;not null"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null"`
	Description *string   `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Tenant *Tenant `json:"-" gorm:"foreignKey:TenantID"`
}

// BeforeCreate assigns a fresh id when none was set
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProjectMembership links a user to a project with a project-level role.
// The composite primary key makes a membership unique per (project, user).
type ProjectMembership struct {
	ProjectID uuid.UUID `json:"project_id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;primaryKey;index"`
	Role      string    `json:"role" gorm:"type:varchar(20);not null;default:'member'"`
	JoinedAt  time.Time `json:"joined_at" gorm:"autoCreateTime"`

	// Relations; a membership goes away with either parent
	Project *Project `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	User    *User    `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName keeps the historical table name
func (ProjectMembership) TableName() string {
	return "project_users"
}
