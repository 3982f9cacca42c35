package repository

import (
	"context"

	"gorm.io/gorm"

	"netabase/internal/api/models"
)

// PoliticianListFilter narrows, searches and orders the politician listing.
type PoliticianListFilter struct {
	PartySlug string
	IsActive  *bool
	Location  string
	Search    string // case-insensitive substring over name, party name, location
	Ordering  string // name, age, views, average_rating, rating_count
	Offset    int
	Limit     int
}

// PoliticianListRow is a listing row annotated with read-time aggregates.
type PoliticianListRow struct {
	ID            int64
	Slug          string
	Name          string
	Photo         string
	Age           int
	PartyName     string
	Location      string
	IsActive      bool
	Views         int64
	AverageRating float64
	RatedBy       int64
}

type PoliticianRepository interface {
	Create(ctx context.Context, p *models.Politician) error
	Update(ctx context.Context, p *models.Politician) error
	Delete(ctx context.Context, id int64) error
	GetBySlug(ctx context.Context, slug string) (*models.Politician, error)
	GetBySlugWithRelations(ctx context.Context, slug string) (*models.Politician, error)
	List(ctx context.Context, f PoliticianListFilter) ([]PoliticianListRow, int64, error)
	IncrementViews(ctx context.Context, slug string) error
	AddInitiative(ctx context.Context, in *models.Initiative) error
	AddPromise(ctx context.Context, pr *models.Promise) error
}

type politicianRepository struct {
	db *gorm.DB
}

func NewPoliticianRepository(db *gorm.DB) PoliticianRepository {
	return &politicianRepository{db: db}
}

func (r *politicianRepository) Create(ctx context.Context, p *models.Politician) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *politicianRepository) Update(ctx context.Context, p *models.Politician) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *politicianRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Select("Ratings", "Initiatives", "Promises").Delete(&models.Politician{ID: id})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *politicianRepository) GetBySlug(ctx context.Context, slug string) (*models.Politician, error) {
	var p models.Politician
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// GetBySlugWithRelations loads the politician plus everything the detail
// payload needs in one round of preloads.
func (r *politicianRepository) GetBySlugWithRelations(ctx context.Context, slug string) (*models.Politician, error) {
	var p models.Politician
	err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		Preload("Party").
		Preload("Initiatives").
		Preload("Promises").
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

var politicianOrderings = map[string]string{
	"name":           "politicians.name",
	"age":            "politicians.age",
	"views":          "politicians.views",
	"average_rating": "average_rating",
	"rating_count":   "rated_by",
}

// List runs a single grouped query joining parties and ratings so listing
// rows arrive with their aggregates already computed.
func (r *politicianRepository) List(ctx context.Context, f PoliticianListFilter) ([]PoliticianListRow, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Politician{}).
		Joins("JOIN parties ON parties.id = politicians.party_id")

	if f.PartySlug != "" {
		base = base.Where("parties.slug = ?", f.PartySlug)
	}
	if f.IsActive != nil {
		base = base.Where("politicians.is_active = ?", *f.IsActive)
	}
	if f.Location != "" {
		base = base.Where("politicians.location = ?", f.Location)
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		base = base.Where(
			"politicians.name ILIKE ? OR parties.name ILIKE ? OR COALESCE(politicians.location,'') ILIKE ?",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Distinct("politicians.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []PoliticianListRow
	err := base.
		Select(`politicians.id, politicians.slug, politicians.name, politicians.photo,
			politicians.age, parties.name AS party_name, politicians.location,
			politicians.is_active, politicians.views,
			COALESCE(AVG(ratings.score), 0) AS average_rating,
			COUNT(ratings.id) AS rated_by`).
		Joins("LEFT JOIN ratings ON ratings.politician_id = politicians.id").
		Group("politicians.id, parties.name").
		Order(orderClause(f.Ordering, politicianOrderings, "politicians.views DESC")).
		Limit(f.Limit).
		Offset(f.Offset).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

// IncrementViews bumps the view counter in place at the database, never via
// read-modify-write, so concurrent fetches each count.
func (r *politicianRepository) IncrementViews(ctx context.Context, slug string) error {
	return r.db.WithContext(ctx).Model(&models.Politician{}).
		Where("slug = ?", slug).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

func (r *politicianRepository) AddInitiative(ctx context.Context, in *models.Initiative) error {
	return r.db.WithContext(ctx).Create(in).Error
}

func (r *politicianRepository) AddPromise(ctx context.Context, pr *models.Promise) error {
	return r.db.WithContext(ctx).Create(pr).Error
}
