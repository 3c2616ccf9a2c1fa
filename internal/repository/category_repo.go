package repository

import (
	"context"
	"time"

	"rentanything/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

type categoryModel struct {
	ID          string    `gorm:"column:id;primaryKey;size:36"`
	Name        string    `gorm:"column:name;not null;uniqueIndex"`
	Slug        string    `gorm:"column:slug;not null;uniqueIndex"`
	Description *string   `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (categoryModel) TableName() string { return "categories" }

func toDomainCategory(m categoryModel) *domain.Category {
	var desc string
	if m.Description != nil {
		desc = *m.Description
	}
	return &domain.Category{ID: m.ID, Name: m.Name, Slug: m.Slug, Description: desc}
}

func (r *CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	var rows []categoryModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Category, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainCategory(m))
	}
	return out, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	var m categoryModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return toDomainCategory(m), nil
}

func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	var m categoryModel
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&m).Error; err != nil {
		return nil, err
	}
	return toDomainCategory(m), nil
}

// Upsert inserts categories whose name and slug are not taken yet. Existing rows are left alone.
func (r *CategoryRepository) Upsert(ctx context.Context, cats []domain.Category) error {
	if len(cats) == 0 {
		return nil
	}
	rows := make([]categoryModel, 0, len(cats))
	for _, c := range cats {
		id := c.ID
		if id == "" {
			id = uuid.NewString()
		}
		var desc *string
		if c.Description != "" {
			v := c.Description
			desc = &v
		}
		rows = append(rows, categoryModel{ID: id, Name: c.Name, Slug: c.Slug, Description: desc})
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}
