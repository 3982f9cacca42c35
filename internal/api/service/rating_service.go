package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"netabase/internal/api/dto"
	"netabase/internal/api/models"
	"netabase/internal/api/repository"
	"netabase/internal/cache"
)

var (
	ErrPoliticianNotFound = errors.New("politician not found")
	ErrRatingNotFound     = errors.New("rating not found")
	ErrNotRatingOwner     = errors.New("you can only modify your own rating")
	ErrInvalidScore       = errors.New("score must be between 1 and 5")
)

// politicianCacheKey is the cache key scheme shared by every component that
// touches the detail cache.
func politicianCacheKey(slug string) string {
	return "politician:" + slug
}

type RatingService interface {
	// SubmitRating creates the caller's rating for a politician or
	// overwrites it in place. The returned bool is true when a new row was
	// created.
	SubmitRating(ctx context.Context, slug, userID string, score int, comment string) (*dto.RatingResponse, bool, error)
	GetRating(ctx context.Context, id int64) (*dto.RatingResponse, error)
	UpdateRating(ctx context.Context, id int64, actorID string, score int, comment string) (*dto.RatingResponse, error)
	DeleteRating(ctx context.Context, id int64, actorID string) error
	ListRatings(ctx context.Context, slug string, f repository.RatingListFilter) ([]dto.RatingResponse, int64, error)
	AverageRating(ctx context.Context, politicianID int64) (float64, int64, error)
}

type ratingService struct {
	ratingRepo     repository.RatingRepository
	politicianRepo repository.PoliticianRepository
	store          cache.Store
}

func NewRatingService(
	ratingRepo repository.RatingRepository,
	politicianRepo repository.PoliticianRepository,
	store cache.Store,
) RatingService {
	return &ratingService{
		ratingRepo:     ratingRepo,
		politicianRepo: politicianRepo,
		store:          store,
	}
}

// SubmitRating upserts the (politician, user) rating. The composite unique
// index is the arbiter of uniqueness: a concurrent duplicate insert loses at
// the database and is retried here as an update, so callers never see the
// conflict and never produce a second row.
func (s *ratingService) SubmitRating(ctx context.Context, slug, userID string, score int, comment string) (*dto.RatingResponse, bool, error) {
	if score < 1 || score > 5 {
		return nil, false, ErrInvalidScore
	}

	politician, err := s.politicianRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrPoliticianNotFound
		}
		return nil, false, err
	}

	existing, err := s.ratingRepo.GetByPoliticianAndUser(ctx, politician.ID, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	created := false
	var rating *models.Rating

	if existing != nil {
		if err := s.ratingRepo.UpdateScore(ctx, existing, score, comment); err != nil {
			return nil, false, err
		}
		rating = existing
	} else {
		newRating := &models.Rating{
			PoliticianID: politician.ID,
			UserID:       userID,
			Score:        score,
			Comment:      comment,
		}
		switch err := s.ratingRepo.Create(ctx, newRating); {
		case err == nil:
			created = true
		case repository.IsUniqueViolation(err):
			// Lost a race against our own concurrent submission; the row
			// exists now, so fall back to the update path.
			existing, err = s.ratingRepo.GetByPoliticianAndUser(ctx, politician.ID, userID)
			if err != nil {
				return nil, false, err
			}
			if err := s.ratingRepo.UpdateScore(ctx, existing, score, comment); err != nil {
				return nil, false, err
			}
		default:
			return nil, false, err
		}

		// Reload with user and politician attached for the response shape.
		rating, err = s.ratingRepo.GetByPoliticianAndUser(ctx, politician.ID, userID)
		if err != nil {
			return nil, false, err
		}
	}

	if err := s.store.Delete(ctx, politicianCacheKey(politician.Slug)); err != nil {
		return nil, false, err
	}

	return dto.FromModelToRatingResponse(rating), created, nil
}

func (s *ratingService) GetRating(ctx context.Context, id int64) (*dto.RatingResponse, error) {
	rating, err := s.ratingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}
	return dto.FromModelToRatingResponse(rating), nil
}

// UpdateRating overwrites a rating by id. Ownership is checked against the
// acting user, not a role.
func (s *ratingService) UpdateRating(ctx context.Context, id int64, actorID string, score int, comment string) (*dto.RatingResponse, error) {
	if score < 1 || score > 5 {
		return nil, ErrInvalidScore
	}

	rating, err := s.ratingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}

	if rating.UserID != actorID {
		return nil, ErrNotRatingOwner
	}

	if err := s.ratingRepo.UpdateScore(ctx, rating, score, comment); err != nil {
		return nil, err
	}

	if err := s.store.Delete(ctx, politicianCacheKey(rating.Politician.Slug)); err != nil {
		return nil, err
	}

	return dto.FromModelToRatingResponse(rating), nil
}

func (s *ratingService) DeleteRating(ctx context.Context, id int64, actorID string) error {
	rating, err := s.ratingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRatingNotFound
		}
		return err
	}

	if rating.UserID != actorID {
		return ErrNotRatingOwner
	}

	if err := s.ratingRepo.Delete(ctx, id); err != nil {
		return err
	}

	return s.store.Delete(ctx, politicianCacheKey(rating.Politician.Slug))
}

func (s *ratingService) ListRatings(ctx context.Context, slug string, f repository.RatingListFilter) ([]dto.RatingResponse, int64, error) {
	politician, err := s.politicianRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrPoliticianNotFound
		}
		return nil, 0, err
	}

	ratings, total, err := s.ratingRepo.ListByPolitician(ctx, politician.ID, f)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]dto.RatingResponse, 0, len(ratings))
	for i := range ratings {
		responses = append(responses, *dto.FromModelToRatingResponse(&ratings[i]))
	}
	return responses, total, nil
}

// AverageRating returns the mean score rounded to 2 decimals (0 with no
// ratings) and the rating count.
func (s *ratingService) AverageRating(ctx context.Context, politicianID int64) (float64, int64, error) {
	avg, err := s.ratingRepo.Average(ctx, politicianID)
	if err != nil {
		return 0, 0, err
	}
	count, err := s.ratingRepo.Count(ctx, politicianID)
	if err != nil {
		return 0, 0, err
	}
	return round2(avg), count, nil
}
