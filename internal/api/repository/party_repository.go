package repository

import (
	"context"

	"gorm.io/gorm"

	"netabase/internal/api/models"
)

// PartyListFilter searches and orders the party listing.
type PartyListFilter struct {
	Search   string // case-insensitive substring over name, short name
	Ordering string // name, created_at
	Offset   int
	Limit    int
}

type PartyRepository interface {
	Create(ctx context.Context, party *models.Party) error
	Update(ctx context.Context, party *models.Party) error
	Delete(ctx context.Context, id int64) error
	GetBySlug(ctx context.Context, slug string) (*models.Party, error)
	List(ctx context.Context, f PartyListFilter) ([]models.Party, int64, error)
}

type partyRepository struct {
	db *gorm.DB
}

func NewPartyRepository(db *gorm.DB) PartyRepository {
	return &partyRepository{db: db}
}

func (r *partyRepository) Create(ctx context.Context, party *models.Party) error {
	return r.db.WithContext(ctx).Create(party).Error
}

func (r *partyRepository) Update(ctx context.Context, party *models.Party) error {
	return r.db.WithContext(ctx).Save(party).Error
}

// Delete removes the party and, through the FK cascade, its politicians.
func (r *partyRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Select("Politicians").Delete(&models.Party{ID: id})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *partyRepository) GetBySlug(ctx context.Context, slug string) (*models.Party, error) {
	var party models.Party
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&party).Error; err != nil {
		return nil, err
	}
	return &party, nil
}

var partyOrderings = map[string]string{
	"name":       "name",
	"created_at": "created_at",
}

func (r *partyRepository) List(ctx context.Context, f PartyListFilter) ([]models.Party, int64, error) {
	var parties []models.Party
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Party{})
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where("name ILIKE ? OR COALESCE(short_name,'') ILIKE ?", pattern, pattern)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.
		Order(orderClause(f.Ordering, partyOrderings, "name ASC")).
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&parties).Error
	if err != nil {
		return nil, 0, err
	}

	return parties, total, nil
}
