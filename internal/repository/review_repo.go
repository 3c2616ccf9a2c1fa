package repository

import (
	"context"
	"math"
	"strings"
	"time"

	"rentanything/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

type reviewModel struct {
	ID         string    `gorm:"column:id;primaryKey;size:36"`
	ListingID  string    `gorm:"column:listing_id;size:36;not null;uniqueIndex:idx_reviews_listing_reviewer"`
	ReviewerID string    `gorm:"column:reviewer_id;size:36;not null;uniqueIndex:idx_reviews_listing_reviewer"`
	Rating     int       `gorm:"column:rating;not null"`
	Comment    *string   `gorm:"column:comment;type:text"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`

	Reviewer *userModel `gorm:"foreignKey:ReviewerID;references:ID"`
}

func (reviewModel) TableName() string { return "reviews" }

func toDomainReview(m reviewModel) *domain.Review {
	var comment string
	if m.Comment != nil {
		comment = *m.Comment
	}
	rv := &domain.Review{
		ID:         m.ID,
		ListingID:  m.ListingID,
		ReviewerID: m.ReviewerID,
		Rating:     m.Rating,
		Comment:    comment,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.Reviewer != nil {
		rv.Reviewer = toDomainUser(*m.Reviewer)
	}
	return rv
}

func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	m := reviewModel{
		ID:         rv.ID,
		ListingID:  rv.ListingID,
		ReviewerID: rv.ReviewerID,
		Rating:     rv.Rating,
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if c := strings.TrimSpace(rv.Comment); c != "" {
		m.Comment = &c
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		return err
	}
	*rv = *toDomainReview(m)
	return nil
}

func (r *ReviewRepository) Exists(ctx context.Context, listingID, reviewerID string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&reviewModel{}).
		Where("listing_id = ? AND reviewer_id = ?", listingID, reviewerID).
		Count(&cnt).Error
	return cnt > 0, err
}

// ListByListing returns the reviews of listingID with their reviewer, newest first.
func (r *ReviewRepository) ListByListing(ctx context.Context, listingID string) ([]domain.Review, error) {
	var rows []reviewModel
	err := r.db.WithContext(ctx).
		Preload("Reviewer").
		Where("listing_id = ?", listingID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Review, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainReview(m))
	}
	return out, nil
}

func (r *ReviewRepository) Summary(ctx context.Context, listingID string) (domain.ReviewSummary, error) {
	var row struct {
		Count int64
		Avg   *float64
	}
	err := r.db.WithContext(ctx).
		Model(&reviewModel{}).
		Select("COUNT(*) AS count, CAST(AVG(rating) AS FLOAT) AS avg").
		Where("listing_id = ?", listingID).
		Scan(&row).Error
	if err != nil {
		return domain.ReviewSummary{}, err
	}
	s := domain.ReviewSummary{Count: int(row.Count)}
	if row.Avg != nil {
		s.AverageRating = math.Round(*row.Avg*10) / 10
	}
	return s, nil
}
