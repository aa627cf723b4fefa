package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task is a unit of work inside a project
type Task struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	ProjectID   uuid.UUID  `json:"project_id" gorm:"type:uuid;index;not null"`
	Title       string     `json:"title" gorm:"type:varchar(200);not null"`
	Description *string    `json:"description" gorm:"type:text"`
	Status      string     `json:"status" gorm:"type:varchar(20);index;not null;default:'todo'"`
	AssigneeID  *uuid.UUID `json:"assignee_id" gorm:"type:uuid;index"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations; Assignee is loaded on read, never written through
	Project  *Project `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Assignee *User    `json:"assignee,omitempty" gorm:"foreignKey:AssigneeID;constraint:OnDelete:SET NULL"`
}

// BeforeCreate assigns a fresh id when none was set
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
