package dto

import (
	"time"

	"netabase/internal/api/models"
)

// CreatePartyDTO for admin party creation
type CreatePartyDTO struct {
	Name      string `json:"name" binding:"required,max=255"`
	ShortName string `json:"short_name" binding:"max=50"`
	Flag      string `json:"flag"`
}

// UpdatePartyDTO for admin party updates; the slug is immutable
type UpdatePartyDTO struct {
	Name      string `json:"name" binding:"required,max=255"`
	ShortName string `json:"short_name" binding:"max=50"`
	Flag      string `json:"flag"`
}

// PartyResponse for returning party information
type PartyResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	ShortName string    `json:"short_name"`
	Flag      string    `json:"flag"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromModelToPartyResponse converts a Party model to PartyResponse DTO
func FromModelToPartyResponse(party *models.Party) *PartyResponse {
	return &PartyResponse{
		ID:        party.ID,
		Name:      party.Name,
		Slug:      party.Slug,
		ShortName: party.ShortName,
		Flag:      party.Flag,
		CreatedAt: party.CreatedAt,
		UpdatedAt: party.UpdatedAt,
	}
}
