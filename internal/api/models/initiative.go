package models

import "time"

type Initiative struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	PoliticianID int64     `json:"politician_id" gorm:"not null;index"`
	Title        string    `json:"title" gorm:"not null;size:255"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Politician Politician `json:"-" gorm:"foreignKey:PoliticianID;constraint:OnDelete:CASCADE;"`
}

func (Initiative) TableName() string {
	return "initiatives"
}
