package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	"netabase/internal/api/dto"
	"netabase/internal/api/models"
	"netabase/internal/api/repository"
	"netabase/internal/cache"
)

var ErrPartyNotFound = errors.New("party not found")

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

type PoliticianService interface {
	// GetDetail serves the detail payload through the cache and increments
	// the view counter on every call, hit or miss.
	GetDetail(ctx context.Context, slug string) (*dto.PoliticianDetailResponse, error)
	List(ctx context.Context, f repository.PoliticianListFilter) ([]dto.PoliticianListItem, int64, error)
	Create(ctx context.Context, req *dto.CreatePoliticianDTO) (*models.Politician, error)
	Update(ctx context.Context, slug string, req *dto.UpdatePoliticianDTO) (*models.Politician, error)
	Delete(ctx context.Context, slug string) error
	AddInitiative(ctx context.Context, slug string, req *dto.CreateInitiativeDTO) (*models.Initiative, error)
	AddPromise(ctx context.Context, slug string, req *dto.CreatePromiseDTO) (*models.Promise, error)
}

type politicianService struct {
	politicianRepo repository.PoliticianRepository
	ratingRepo     repository.RatingRepository
	store          cache.Store
	cacheTTL       time.Duration
}

func NewPoliticianService(
	politicianRepo repository.PoliticianRepository,
	ratingRepo repository.RatingRepository,
	store cache.Store,
	cacheTTL time.Duration,
) PoliticianService {
	return &politicianService{
		politicianRepo: politicianRepo,
		ratingRepo:     ratingRepo,
		store:          store,
		cacheTTL:       cacheTTL,
	}
}

// GetDetail is a read-through cache over the serialized detail payload. The
// view counter increments at the store on every call regardless of cache
// state, so the served payload may be a pre-increment snapshot while the
// counter itself never loses a fetch.
func (s *politicianService) GetDetail(ctx context.Context, slug string) (*dto.PoliticianDetailResponse, error) {
	key := politicianCacheKey(slug)

	var payload *dto.PoliticianDetailResponse

	cached, err := s.store.Get(ctx, key)
	switch {
	case err == nil:
		payload = &dto.PoliticianDetailResponse{}
		if err := json.Unmarshal(cached, payload); err != nil {
			// Corrupt entry; recompute below as a miss.
			payload = nil
		}
	case !errors.Is(err, cache.ErrMiss):
		return nil, err
	}

	if payload == nil {
		politician, err := s.politicianRepo.GetBySlugWithRelations(ctx, slug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrPoliticianNotFound
			}
			return nil, err
		}

		avg, err := s.ratingRepo.Average(ctx, politician.ID)
		if err != nil {
			return nil, err
		}
		count, err := s.ratingRepo.Count(ctx, politician.ID)
		if err != nil {
			return nil, err
		}

		payload = dto.FromModelToDetailResponse(politician, round2(avg), count)

		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		if err := s.store.Set(ctx, key, raw, s.cacheTTL); err != nil {
			return nil, err
		}
	}

	if err := s.politicianRepo.IncrementViews(ctx, slug); err != nil {
		return nil, err
	}

	return payload, nil
}

func (s *politicianService) List(ctx context.Context, f repository.PoliticianListFilter) ([]dto.PoliticianListItem, int64, error) {
	rows, total, err := s.politicianRepo.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	items := make([]dto.PoliticianListItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.PoliticianListItem{
			ID:            row.ID,
			Slug:          row.Slug,
			Name:          row.Name,
			Photo:         row.Photo,
			Age:           row.Age,
			PartyName:     row.PartyName,
			Location:      row.Location,
			IsActive:      row.IsActive,
			Views:         row.Views,
			AverageRating: round2(row.AverageRating),
			RatedBy:       row.RatedBy,
		})
	}
	return items, total, nil
}

func (s *politicianService) Create(ctx context.Context, req *dto.CreatePoliticianDTO) (*models.Politician, error) {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	politician := &models.Politician{
		Name:                 req.Name,
		Photo:                req.Photo,
		Age:                  req.Age,
		Education:            req.Education,
		CriminalRecord:       req.CriminalRecord,
		PartyID:              req.PartyID,
		PartyPosition:        req.PartyPosition,
		Criticism:            req.Criticism,
		Location:             req.Location,
		Biography:            req.Biography,
		PreviousPartyHistory: req.PreviousPartyHistory,
		IsActive:             active,
	}

	if err := s.politicianRepo.Create(ctx, politician); err != nil {
		return nil, err
	}
	return politician, nil
}

// Update mutates every admin-editable field. The slug stays what creation
// derived, so the cache key for this politician is stable.
func (s *politicianService) Update(ctx context.Context, slug string, req *dto.UpdatePoliticianDTO) (*models.Politician, error) {
	politician, err := s.politicianRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPoliticianNotFound
		}
		return nil, err
	}

	politician.Name = req.Name
	politician.Photo = req.Photo
	politician.Age = req.Age
	politician.Education = req.Education
	politician.CriminalRecord = req.CriminalRecord
	politician.PartyID = req.PartyID
	politician.PartyPosition = req.PartyPosition
	politician.Criticism = req.Criticism
	politician.Location = req.Location
	politician.Biography = req.Biography
	politician.PreviousPartyHistory = req.PreviousPartyHistory
	if req.IsActive != nil {
		politician.IsActive = *req.IsActive
	}

	if err := s.politicianRepo.Update(ctx, politician); err != nil {
		return nil, err
	}

	if err := s.store.Delete(ctx, politicianCacheKey(slug)); err != nil {
		return nil, err
	}
	return politician, nil
}

func (s *politicianService) Delete(ctx context.Context, slug string) error {
	politician, err := s.politicianRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPoliticianNotFound
		}
		return err
	}

	if err := s.politicianRepo.Delete(ctx, politician.ID); err != nil {
		return err
	}
	return s.store.Delete(ctx, politicianCacheKey(slug))
}

// AddInitiative attaches an initiative; the detail payload embeds these, so
// the cache entry is invalidated.
func (s *politicianService) AddInitiative(ctx context.Context, slug string, req *dto.CreateInitiativeDTO) (*models.Initiative, error) {
	politician, err := s.politicianRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPoliticianNotFound
		}
		return nil, err
	}

	initiative := &models.Initiative{
		PoliticianID: politician.ID,
		Title:        req.Title,
		Description:  req.Description,
	}
	if err := s.politicianRepo.AddInitiative(ctx, initiative); err != nil {
		return nil, err
	}

	if err := s.store.Delete(ctx, politicianCacheKey(slug)); err != nil {
		return nil, err
	}
	return initiative, nil
}

func (s *politicianService) AddPromise(ctx context.Context, slug string, req *dto.CreatePromiseDTO) (*models.Promise, error) {
	politician, err := s.politicianRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPoliticianNotFound
		}
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.PromisePending
	}

	promise := &models.Promise{
		PoliticianID: politician.ID,
		Title:        req.Title,
		Description:  req.Description,
		Status:       status,
	}
	if err := s.politicianRepo.AddPromise(ctx, promise); err != nil {
		return nil, err
	}

	if err := s.store.Delete(ctx, politicianCacheKey(slug)); err != nil {
		return nil, err
	}
	return promise, nil
}
