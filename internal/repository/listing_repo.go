package repository

import (
	"context"
	"strings"
	"time"

	"rentanything/internal/domain"
	"rentanything/internal/pkg/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ListingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

type listingModel struct {
	ID          string    `gorm:"column:id;primaryKey;size:36"`
	Title       string    `gorm:"column:title;not null"`
	Description string    `gorm:"column:description;type:text;not null"`
	Price       float64   `gorm:"column:price;not null"`
	CategoryID  string    `gorm:"column:category_id;size:36;not null;index"`
	Location    string    `gorm:"column:location;not null"`
	Latitude    *float64  `gorm:"column:latitude"`
	Longitude   *float64  `gorm:"column:longitude"`
	Images      string    `gorm:"column:images;type:text;not null"`
	IsAvailable bool      `gorm:"column:is_available;not null;default:true;index"`
	OwnerID     string    `gorm:"column:owner_id;size:36;not null;index"`
	CreatedAt   time.Time `gorm:"column:created_at;index"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`

	Owner    *userModel     `gorm:"foreignKey:OwnerID;references:ID"`
	Category *categoryModel `gorm:"foreignKey:CategoryID;references:ID"`
}

func (listingModel) TableName() string { return "listings" }

func toDomainListing(m listingModel) *domain.Listing {
	l := &domain.Listing{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Price:       m.Price,
		CategoryID:  m.CategoryID,
		Location:    m.Location,
		Latitude:    m.Latitude,
		Longitude:   m.Longitude,
		Images:      utils.StringToImages(m.Images),
		IsAvailable: m.IsAvailable,
		OwnerID:     m.OwnerID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.Owner != nil {
		l.Owner = toDomainUser(*m.Owner)
	}
	if m.Category != nil {
		l.Category = toDomainCategory(*m.Category)
	}
	return l
}

func toListingModel(l *domain.Listing) listingModel {
	return listingModel{
		ID:          l.ID,
		Title:       strings.TrimSpace(l.Title),
		Description: strings.TrimSpace(l.Description),
		Price:       l.Price,
		CategoryID:  l.CategoryID,
		Location:    strings.TrimSpace(l.Location),
		Latitude:    l.Latitude,
		Longitude:   l.Longitude,
		Images:      utils.ImagesToString(l.Images),
		IsAvailable: l.IsAvailable,
		OwnerID:     l.OwnerID,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func (r *ListingRepository) Create(ctx context.Context, l *domain.Listing) error {
	m := toListingModel(l)
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		return err
	}
	created, err := r.GetByID(ctx, m.ID)
	if err != nil {
		return err
	}
	*l = *created
	return nil
}

func (r *ListingRepository) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	var m listingModel
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Category").
		Where("listings.id = ?", id).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return toDomainListing(m), nil
}

// Update persists every mutable column. OwnerID is never written.
func (r *ListingRepository) Update(ctx context.Context, l *domain.Listing) error {
	m := toListingModel(l)
	tx := r.db.WithContext(ctx).
		Model(&listingModel{}).
		Where("id = ?", l.ID).
		Updates(map[string]any{
			"title":        m.Title,
			"description":  m.Description,
			"price":        m.Price,
			"category_id":  m.CategoryID,
			"location":     m.Location,
			"latitude":     m.Latitude,
			"longitude":    m.Longitude,
			"images":       m.Images,
			"is_available": m.IsAvailable,
			"updated_at":   time.Now().UTC(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	updated, err := r.GetByID(ctx, l.ID)
	if err != nil {
		return err
	}
	*l = *updated
	return nil
}

var listingOrder = map[domain.ListingSort]string{
	domain.SortNewest:    "listings.created_at DESC, listings.id DESC",
	domain.SortOldest:    "listings.created_at ASC, listings.id ASC",
	domain.SortPriceAsc:  "listings.price ASC, listings.id ASC",
	domain.SortPriceDesc: "listings.price DESC, listings.id DESC",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern using '\' as the escape.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Search returns available listings matching f together with the total match count.
func (r *ListingRepository) Search(ctx context.Context, f domain.ListingFilters) ([]domain.Listing, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&listingModel{}).
		Where("listings.is_available = ?", true)

	if f.CategorySlug != "" {
		q = q.Where("listings.category_id IN (?)",
			r.db.Model(&categoryModel{}).Select("id").Where("slug = ?", f.CategorySlug))
	}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		q = q.Where(`LOWER(listings.location) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(loc))+"%")
	}
	if f.MinPrice != nil {
		q = q.Where("listings.price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("listings.price <= ?", *f.MaxPrice)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order, ok := listingOrder[f.SortBy]
	if !ok {
		order = listingOrder[domain.SortNewest]
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var rows []listingModel
	err := q.
		Preload("Owner").
		Preload("Category").
		Order(order).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]domain.Listing, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainListing(m))
	}
	return out, total, nil
}

// ListByOwner returns every listing of ownerID, newest first, regardless of availability.
func (r *ListingRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Listing, error) {
	var rows []listingModel
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Listing, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainListing(m))
	}
	return out, nil
}
