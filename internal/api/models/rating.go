package models

import "time"

type Rating struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	PoliticianID int64     `json:"politician_id" gorm:"not null;uniqueIndex:idx_ratings_politician_user"`
	UserID       string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_ratings_politician_user"`
	Score        int       `json:"score" gorm:"not null;check:score >= 1 AND score <= 5"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	User       User       `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Politician Politician `json:"politician,omitempty" gorm:"foreignKey:PoliticianID;constraint:OnDelete:CASCADE;"`
}

func (Rating) TableName() string {
	return "ratings"
}
