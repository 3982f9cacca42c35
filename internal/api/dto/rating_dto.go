package dto

import (
	"time"

	"netabase/internal/api/models"
)

// CreateRatingDTO for creating or updating the caller's rating
type CreateRatingDTO struct {
	Score   int    `json:"score" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// RatingResponse for returning rating information
type RatingResponse struct {
	ID             int64     `json:"id"`
	PoliticianID   int64     `json:"politician_id"`
	PoliticianName string    `json:"politician_name"`
	UserID         string    `json:"user_id"`
	Username       string    `json:"username"`
	Score          int       `json:"score"`
	Comment        string    `json:"comment"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FromModelToRatingResponse converts a Rating model to RatingResponse DTO
func FromModelToRatingResponse(rating *models.Rating) *RatingResponse {
	return &RatingResponse{
		ID:             rating.ID,
		PoliticianID:   rating.PoliticianID,
		PoliticianName: rating.Politician.Name,
		UserID:         rating.UserID,
		Username:       rating.User.Username,
		Score:          rating.Score,
		Comment:        rating.Comment,
		CreatedAt:      rating.CreatedAt,
		UpdatedAt:      rating.UpdatedAt,
	}
}
