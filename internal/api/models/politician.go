package models

import (
	"time"

	"gorm.io/gorm"
)

type Politician struct {
	ID                   int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Slug                 string    `json:"slug" gorm:"uniqueIndex;not null;size:255"`
	Name                 string    `json:"name" gorm:"not null;size:255"`
	Photo                string    `json:"photo"`
	Age                  int       `json:"age" gorm:"not null;check:age >= 18 AND age <= 100"`
	Education            string    `json:"education"`
	CriminalRecord       string    `json:"criminal_record"`
	PartyID              int64     `json:"party_id" gorm:"not null;index"`
	PartyPosition        string    `json:"party_position" gorm:"size:255"`
	Criticism            string    `json:"criticism"`
	Location             string    `json:"location" gorm:"size:255;index"`
	Biography            string    `json:"biography"`
	PreviousPartyHistory string    `json:"previous_party_history"`
	IsActive             bool      `json:"is_active" gorm:"default:true;index"`
	Views                int64     `json:"views" gorm:"not null;default:0;check:views >= 0"`
	CreatedAt            time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt            time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	Party       Party        `json:"party,omitempty" gorm:"foreignKey:PartyID;constraint:OnDelete:CASCADE;"`
	Ratings     []Rating     `json:"ratings,omitempty" gorm:"foreignKey:PoliticianID;constraint:OnDelete:CASCADE;"`
	Initiatives []Initiative `json:"initiatives,omitempty" gorm:"foreignKey:PoliticianID;constraint:OnDelete:CASCADE;"`
	Promises    []Promise    `json:"promises,omitempty" gorm:"foreignKey:PoliticianID;constraint:OnDelete:CASCADE;"`
}

// BeforeCreate derives the slug from the politician's name. Views always
// start at zero regardless of input.
func (p *Politician) BeforeCreate(tx *gorm.DB) error {
	p.Views = 0
	if p.Slug == "" {
		slug, err := uniqueSlug(tx, p.TableName(), Slugify(p.Name))
		if err != nil {
			return err
		}
		p.Slug = slug
	}
	return nil
}

func (Politician) TableName() string {
	return "politicians"
}
