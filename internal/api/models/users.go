package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        string     `gorm:"primaryKey;type:uuid" json:"id"`
	Username  string     `gorm:"uniqueIndex;not null" json:"username"`
	Email     *string    `gorm:"uniqueIndex" json:"email,omitempty"`  // nil, not "", when absent: the index must not collide on email-less accounts
	Password  string     `gorm:"column:password_hash" json:"-"`       // empty for Google-only accounts
	Role      string     `gorm:"default:'user';not null" json:"role"` // "user" or "admin"
	GoogleID  *string    `gorm:"uniqueIndex" json:"-"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

func (User) TableName() string {
	return "users"
}
