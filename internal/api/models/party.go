package models

import (
	"time"

	"gorm.io/gorm"
)

type Party struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null;size:255"`
	Slug      string    `json:"slug" gorm:"uniqueIndex;not null;size:255"`
	ShortName string    `json:"short_name" gorm:"size:50"`
	Flag      string    `json:"flag"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	Politicians []Politician `json:"politicians,omitempty" gorm:"foreignKey:PartyID;constraint:OnDelete:CASCADE;"`
}

// BeforeCreate derives the slug from the party name. The slug never changes
// after creation.
func (p *Party) BeforeCreate(tx *gorm.DB) error {
	if p.Slug == "" {
		slug, err := uniqueSlug(tx, p.TableName(), Slugify(p.Name))
		if err != nil {
			return err
		}
		p.Slug = slug
	}
	return nil
}

func (Party) TableName() string {
	return "parties"
}
