package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"netabase/internal/api/dto"
	"netabase/internal/api/models"
	"netabase/internal/api/repository"
)

type PartyService interface {
	List(ctx context.Context, f repository.PartyListFilter) ([]dto.PartyResponse, int64, error)
	GetBySlug(ctx context.Context, slug string) (*dto.PartyResponse, error)
	Create(ctx context.Context, req *dto.CreatePartyDTO) (*models.Party, error)
	Update(ctx context.Context, slug string, req *dto.UpdatePartyDTO) (*models.Party, error)
	Delete(ctx context.Context, slug string) error
}

type partyService struct {
	partyRepo repository.PartyRepository
}

func NewPartyService(partyRepo repository.PartyRepository) PartyService {
	return &partyService{partyRepo: partyRepo}
}

func (s *partyService) List(ctx context.Context, f repository.PartyListFilter) ([]dto.PartyResponse, int64, error) {
	parties, total, err := s.partyRepo.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]dto.PartyResponse, 0, len(parties))
	for i := range parties {
		responses = append(responses, *dto.FromModelToPartyResponse(&parties[i]))
	}
	return responses, total, nil
}

func (s *partyService) GetBySlug(ctx context.Context, slug string) (*dto.PartyResponse, error) {
	party, err := s.partyRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartyNotFound
		}
		return nil, err
	}
	return dto.FromModelToPartyResponse(party), nil
}

func (s *partyService) Create(ctx context.Context, req *dto.CreatePartyDTO) (*models.Party, error) {
	party := &models.Party{
		Name:      req.Name,
		ShortName: req.ShortName,
		Flag:      req.Flag,
	}
	if err := s.partyRepo.Create(ctx, party); err != nil {
		return nil, err
	}
	return party, nil
}

func (s *partyService) Update(ctx context.Context, slug string, req *dto.UpdatePartyDTO) (*models.Party, error) {
	party, err := s.partyRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartyNotFound
		}
		return nil, err
	}

	party.Name = req.Name
	party.ShortName = req.ShortName
	party.Flag = req.Flag

	if err := s.partyRepo.Update(ctx, party); err != nil {
		return nil, err
	}
	return party, nil
}

// Delete removes the party and cascades to its politicians.
func (s *partyService) Delete(ctx context.Context, slug string) error {
	party, err := s.partyRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPartyNotFound
		}
		return err
	}
	return s.partyRepo.Delete(ctx, party.ID)
}
