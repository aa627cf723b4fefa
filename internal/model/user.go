package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents the user model stored in the database
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID     uuid.UUID `json:"tenant_id" gorm:"type:uuid;index;not null"`
	Username     string    `json:"username" gorm:"type:varchar(50);uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"`
	Role         string    `json:"role" gorm:"type:varchar(20);not null;default:'user'"`
	CreatedAt    time.Time `json:"created_at"`

	// Relations
	Tenant *Tenant `json:"-" gorm:"foreignKey:TenantID"`
}

// BeforeCreate assigns a fresh id when none was set
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
