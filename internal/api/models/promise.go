package models

import "time"

// Promise status values
const (
	PromisePending    = "pending"
	PromiseInProgress = "in_progress"
	PromiseCompleted  = "completed"
	PromiseFailed     = "failed"
)

type Promise struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	PoliticianID int64     `json:"politician_id" gorm:"not null;index"`
	Title        string    `json:"title" gorm:"not null;size:255"`
	Description  string    `json:"description"`
	Status       string    `json:"status" gorm:"not null;default:'pending';check:status IN ('pending','in_progress','completed','failed')"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Politician Politician `json:"-" gorm:"foreignKey:PoliticianID;constraint:OnDelete:CASCADE;"`
}

func (Promise) TableName() string {
	return "promises"
}
