package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"rentanything/internal/config"
	"rentanything/internal/database"
	"rentanything/internal/domain"
	"rentanything/internal/modules/booking"
	"rentanything/internal/pkg/logger"
	"rentanything/internal/repository"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const demoPassword = "password123"

type demoListing struct {
	owner    int
	category string
	title    string
	desc     string
	price    float64
	location string
	image    string
}

var demoListings = []demoListing{
	{0, "cars", "Compact city car", "Economical five door hatchback, perfect for short trips around town.", 45, "Berlin", "https://images.unsplash.com/photo-1549317661-bd32c8ce0db2"},
	{0, "camping-gear", "Four person tent", "Waterproof family tent with vestibule, pegs and a ground sheet included.", 18, "Munich", "https://images.unsplash.com/photo-1504280390367-361c6d9f38f4"},
	{1, "bicycles", "Carbon road bike", "Lightweight road bike in size 56 with clipless pedals and a saddle bag.", 25, "Hamburg", "https://images.unsplash.com/photo-1485965120184-e220f721d03e"},
	{1, "tools", "Cordless drill set", "18V drill driver with two batteries, charger and a full bit set.", 9.5, "Hamburg", "https://images.unsplash.com/photo-1504148455328-c376907d081c"},
	{2, "boats", "Touring kayak", "Stable two seat touring kayak with paddles and life vests for both.", 35, "Cologne", "https://images.unsplash.com/photo-1472745942893-4b9f730c7668"},
	{2, "electronics", "Mirrorless camera kit", "Full frame mirrorless body with a 24-70mm lens, two batteries and a bag.", 60, "Cologne", "https://images.unsplash.com/photo-1516035069371-29a1b244cc32"},
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.AppEnv, cfg.LogLevel)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Error("db connection failed", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	if err := seed(context.Background(), db, log); err != nil {
		log.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func seed(ctx context.Context, db *gorm.DB, log *slog.Logger) error {
	if err := repository.Migrate(db); err != nil {
		return err
	}
	if err := repository.SeedCategories(ctx, db); err != nil {
		return err
	}

	// Clean old demo data in foreign key order
	log.Info("cleaning old data")
	for _, table := range []string{"reviews", "bookings", "listings", "users"} {
		if err := db.WithContext(ctx).Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}

	users := repository.NewUserRepository(db)
	categories := repository.NewCategoryRepository(db)
	listings := repository.NewListingRepository(db)
	bookings := repository.NewBookingRepository(db)
	reviews := repository.NewReviewRepository(db)

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	people := []domain.User{
		{Name: "Anna Schmidt", Email: "anna@example.com"},
		{Name: "Jonas Weber", Email: "jonas@example.com"},
		{Name: "Mira Keller", Email: "mira@example.com"},
		{Name: "Leo Fischer", Email: "leo@example.com"},
	}
	for i := range people {
		people[i].PasswordHash = string(hash)
		if err := users.Create(ctx, &people[i]); err != nil {
			return err
		}
		log.Info("user created", "email", people[i].Email, "password", demoPassword)
	}

	created := make([]domain.Listing, 0, len(demoListings))
	for _, d := range demoListings {
		cat, err := categories.GetBySlug(ctx, d.category)
		if err != nil {
			return err
		}
		l := domain.Listing{
			Title:       d.title,
			Description: d.desc,
			Price:       d.price,
			CategoryID:  cat.ID,
			Location:    d.location,
			Images:      []string{d.image},
			IsAvailable: true,
			OwnerID:     people[d.owner].ID,
		}
		if err := listings.Create(ctx, &l); err != nil {
			return err
		}
		created = append(created, l)
	}
	log.Info("listings created", "count", len(created))

	today := time.Now().UTC().Truncate(24 * time.Hour)
	plan := []struct {
		listing, renter int
		from, to        int
		status          domain.BookingStatus
	}{
		{0, 3, 3, 6, domain.BookingConfirmed},
		{0, 2, 10, 12, domain.BookingPending},
		{2, 0, 1, 2, domain.BookingPending},
		{4, 1, -20, -18, domain.BookingCompleted},
		{5, 3, 7, 9, domain.BookingCancelled},
	}
	for _, p := range plan {
		l := created[p.listing]
		r := booking.DateRange{Start: today.AddDate(0, 0, p.from), End: today.AddDate(0, 0, p.to)}
		b := domain.Booking{
			ListingID:  l.ID,
			RenterID:   people[p.renter].ID,
			OwnerID:    l.OwnerID,
			StartDate:  r.Start,
			EndDate:    r.End,
			TotalPrice: booking.QuotePrice(l.Price, r),
			Status:     p.status,
		}
		if err := bookings.CreateIfNoConflict(ctx, &b); err != nil {
			return err
		}
	}
	log.Info("bookings created", "count", len(plan))

	rv := domain.Review{
		ListingID:  created[4].ID,
		ReviewerID: people[1].ID,
		Rating:     5,
		Comment:    "Kayak was in great shape and easy to pick up.",
	}
	if err := reviews.Create(ctx, &rv); err != nil {
		return err
	}

	log.Info("seed completed")
	return nil
}
