package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"netabase/internal/api/models"
)

// RatingStats carries the read-time aggregates for one politician.
type RatingStats struct {
	PoliticianID  int64
	AverageRating float64
	RatedBy       int64
}

// RatingListFilter narrows and orders a per-politician rating listing.
type RatingListFilter struct {
	Score    int    // 0 means no filter
	Ordering string // created_at, updated_at, score, optionally "-" prefixed
	Offset   int
	Limit    int
}

type RatingRepository interface {
	Create(ctx context.Context, rating *models.Rating) error
	UpdateScore(ctx context.Context, rating *models.Rating, score int, comment string) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Rating, error)
	GetByPoliticianAndUser(ctx context.Context, politicianID int64, userID string) (*models.Rating, error)
	ListByPolitician(ctx context.Context, politicianID int64, f RatingListFilter) ([]models.Rating, int64, error)
	Average(ctx context.Context, politicianID int64) (float64, error)
	Count(ctx context.Context, politicianID int64) (int64, error)
	StatsFor(ctx context.Context, politicianIDs []int64) (map[int64]RatingStats, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// IsUniqueViolation reports whether err is the database rejecting a write on
// a unique index. With TranslateError enabled GORM maps these to
// ErrDuplicatedKey; the pgconn check covers raw driver errors.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Create inserts a new rating. The composite unique index on
// (politician_id, user_id) rejects a concurrent duplicate; callers translate
// that into an update retry.
func (r *ratingRepository) Create(ctx context.Context, rating *models.Rating) error {
	return r.db.WithContext(ctx).Create(rating).Error
}

// UpdateScore overwrites score and comment in place; the row identity is
// unchanged and updated_at advances.
func (r *ratingRepository) UpdateScore(ctx context.Context, rating *models.Rating, score int, comment string) error {
	rating.Score = score
	rating.Comment = comment
	return r.db.WithContext(ctx).Model(rating).
		Select("score", "comment", "updated_at").
		Updates(map[string]any{"score": score, "comment": comment}).Error
}

func (r *ratingRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Rating{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ratingRepository) GetByID(ctx context.Context, id int64) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Politician").
		First(&rating, id).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) GetByPoliticianAndUser(ctx context.Context, politicianID int64, userID string) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).
		Where("politician_id = ? AND user_id = ?", politicianID, userID).
		Preload("User").
		Preload("Politician").
		First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

var ratingOrderings = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"score":      "score",
}

func (r *ratingRepository) ListByPolitician(ctx context.Context, politicianID int64, f RatingListFilter) ([]models.Rating, int64, error) {
	var ratings []models.Rating
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Rating{}).Where("politician_id = ?", politicianID)
	if f.Score != 0 {
		q = q.Where("score = ?", f.Score)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := orderClause(f.Ordering, ratingOrderings, "created_at DESC")
	err := q.
		Preload("User").
		Preload("Politician").
		Order(order).
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&ratings).Error
	if err != nil {
		return nil, 0, err
	}

	return ratings, total, nil
}

// Average returns the mean score, 0 when no ratings exist.
func (r *ratingRepository) Average(ctx context.Context, politicianID int64) (float64, error) {
	var avg struct {
		Average float64
	}

	err := r.db.WithContext(ctx).Model(&models.Rating{}).
		Select("COALESCE(AVG(score), 0) as average").
		Where("politician_id = ?", politicianID).
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}

	return avg.Average, nil
}

func (r *ratingRepository) Count(ctx context.Context, politicianID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Rating{}).
		Where("politician_id = ?", politicianID).
		Count(&count).Error
	return count, err
}

// StatsFor bulk-computes average and count for a set of politicians in one
// grouped query, for list views.
func (r *ratingRepository) StatsFor(ctx context.Context, politicianIDs []int64) (map[int64]RatingStats, error) {
	stats := make(map[int64]RatingStats, len(politicianIDs))
	if len(politicianIDs) == 0 {
		return stats, nil
	}

	var rows []RatingStats
	err := r.db.WithContext(ctx).Model(&models.Rating{}).
		Select("politician_id, COALESCE(AVG(score), 0) as average_rating, COUNT(id) as rated_by").
		Where("politician_id IN ?", politicianIDs).
		Group("politician_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		stats[row.PoliticianID] = row
	}
	return stats, nil
}

// orderClause maps a client ordering value ("-views" style) onto a SQL ORDER
// BY through a whitelist, falling back to def for unknown fields.
func orderClause(ordering string, allowed map[string]string, def string) string {
	if ordering == "" {
		return def
	}
	desc := strings.HasPrefix(ordering, "-")
	field := strings.TrimPrefix(ordering, "-")
	col, ok := allowed[field]
	if !ok {
		return def
	}
	if desc {
		return fmt.Sprintf("%s DESC", col)
	}
	return fmt.Sprintf("%s ASC", col)
}
