package repository

import (
	"context"
	"fmt"

	"rentanything/internal/domain"

	"gorm.io/gorm"
)

// Migrate creates or updates the schema for every row model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&userModel{},
		&categoryModel{},
		&listingModel{},
		&bookingModel{},
		&reviewModel{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

var DefaultCategories = []domain.Category{
	{Name: "Cars", Slug: "cars", Description: "Cars, vans and other passenger vehicles"},
	{Name: "Motorcycles", Slug: "motorcycles", Description: "Motorbikes and scooters"},
	{Name: "Bicycles", Slug: "bicycles", Description: "Road, mountain and electric bikes"},
	{Name: "Boats", Slug: "boats", Description: "Boats, kayaks and paddle boards"},
	{Name: "Camping Gear", Slug: "camping-gear", Description: "Tents, sleeping bags and outdoor equipment"},
	{Name: "Tools", Slug: "tools", Description: "Power tools and hand tools"},
	{Name: "Electronics", Slug: "electronics", Description: "Cameras, drones and audio equipment"},
	{Name: "Sports Equipment", Slug: "sports-equipment", Description: "Gear for sports and fitness"},
}

// SeedCategories inserts the default categories that are not present yet.
func SeedCategories(ctx context.Context, db *gorm.DB) error {
	return NewCategoryRepository(db).Upsert(ctx, DefaultCategories)
}
