package dto

import (
	"time"

	"netabase/internal/api/models"
)

// CreatePoliticianDTO for admin politician creation
type CreatePoliticianDTO struct {
	Name                 string `json:"name" binding:"required,max=255"`
	Photo                string `json:"photo"`
	Age                  int    `json:"age" binding:"required,min=18,max=100"`
	Education            string `json:"education"`
	CriminalRecord       string `json:"criminal_record"`
	PartyID              int64  `json:"party_id" binding:"required"`
	PartyPosition        string `json:"party_position" binding:"max=255"`
	Criticism            string `json:"criticism"`
	Location             string `json:"location" binding:"max=255"`
	Biography            string `json:"biography"`
	PreviousPartyHistory string `json:"previous_party_history"`
	IsActive             *bool  `json:"is_active"`
}

// UpdatePoliticianDTO for admin politician updates; slug and views are not
// client-writable.
type UpdatePoliticianDTO struct {
	Name                 string `json:"name" binding:"required,max=255"`
	Photo                string `json:"photo"`
	Age                  int    `json:"age" binding:"required,min=18,max=100"`
	Education            string `json:"education"`
	CriminalRecord       string `json:"criminal_record"`
	PartyID              int64  `json:"party_id" binding:"required"`
	PartyPosition        string `json:"party_position" binding:"max=255"`
	Criticism            string `json:"criticism"`
	Location             string `json:"location" binding:"max=255"`
	Biography            string `json:"biography"`
	PreviousPartyHistory string `json:"previous_party_history"`
	IsActive             *bool  `json:"is_active"`
}

// PoliticianListItem is the compact shape used by list endpoints.
type PoliticianListItem struct {
	ID            int64   `json:"id"`
	Slug          string  `json:"slug"`
	Name          string  `json:"name"`
	Photo         string  `json:"photo"`
	Age           int     `json:"age"`
	PartyName     string  `json:"party_name"`
	Location      string  `json:"location"`
	IsActive      bool    `json:"is_active"`
	Views         int64   `json:"views"`
	AverageRating float64 `json:"average_rating"`
	RatedBy       int64   `json:"rated_by"`
}

// PoliticianDetailResponse is the full payload served (and cached) by the
// detail endpoint.
type PoliticianDetailResponse struct {
	ID                   int64             `json:"id"`
	Slug                 string            `json:"slug"`
	Name                 string            `json:"name"`
	Photo                string            `json:"photo"`
	Age                  int               `json:"age"`
	Education            string            `json:"education"`
	CriminalRecord       string            `json:"criminal_record"`
	PartyID              int64             `json:"party_id"`
	PartyName            string            `json:"party_name"`
	PartyPosition        string            `json:"party_position"`
	Criticism            string            `json:"criticism"`
	Location             string            `json:"location"`
	Biography            string            `json:"biography"`
	PreviousPartyHistory string            `json:"previous_party_history"`
	IsActive             bool              `json:"is_active"`
	Views                int64             `json:"views"`
	AverageRating        float64           `json:"average_rating"`
	RatedBy              int64             `json:"rated_by"`
	Initiatives          []RecordResponse  `json:"initiatives"`
	Promises             []PromiseResponse `json:"promises"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`
}

// RecordResponse is the shape shared by initiative entries.
type RecordResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type PromiseResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateInitiativeDTO for admin initiative creation
type CreateInitiativeDTO struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description"`
}

// CreatePromiseDTO for admin promise creation
type CreatePromiseDTO struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description"`
	Status      string `json:"status" binding:"omitempty,oneof=pending in_progress completed failed"`
}

// FromModelToDetailResponse assembles the detail payload from a preloaded
// politician plus its read-time aggregates.
func FromModelToDetailResponse(p *models.Politician, avg float64, ratedBy int64) *PoliticianDetailResponse {
	initiatives := make([]RecordResponse, 0, len(p.Initiatives))
	for _, in := range p.Initiatives {
		initiatives = append(initiatives, RecordResponse{
			ID:          in.ID,
			Title:       in.Title,
			Description: in.Description,
			CreatedAt:   in.CreatedAt,
		})
	}

	promises := make([]PromiseResponse, 0, len(p.Promises))
	for _, pr := range p.Promises {
		promises = append(promises, PromiseResponse{
			ID:          pr.ID,
			Title:       pr.Title,
			Description: pr.Description,
			Status:      pr.Status,
			CreatedAt:   pr.CreatedAt,
		})
	}

	return &PoliticianDetailResponse{
		ID:                   p.ID,
		Slug:                 p.Slug,
		Name:                 p.Name,
		Photo:                p.Photo,
		Age:                  p.Age,
		Education:            p.Education,
		CriminalRecord:       p.CriminalRecord,
		PartyID:              p.PartyID,
		PartyName:            p.Party.Name,
		PartyPosition:        p.PartyPosition,
		Criticism:            p.Criticism,
		Location:             p.Location,
		Biography:            p.Biography,
		PreviousPartyHistory: p.PreviousPartyHistory,
		IsActive:             p.IsActive,
		Views:                p.Views,
		AverageRating:        avg,
		RatedBy:              ratedBy,
		Initiatives:          initiatives,
		Promises:             promises,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}
