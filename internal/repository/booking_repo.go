package repository

import (
	"context"
	"time"

	"rentanything/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID         string    `gorm:"column:id;primaryKey;size:36"`
	ListingID  string    `gorm:"column:listing_id;size:36;not null;index:idx_bookings_listing_status"`
	RenterID   string    `gorm:"column:renter_id;size:36;not null;index"`
	OwnerID    string    `gorm:"column:owner_id;size:36;not null;index"`
	StartDate  time.Time `gorm:"column:start_date;not null"`
	EndDate    time.Time `gorm:"column:end_date;not null"`
	TotalPrice float64   `gorm:"column:total_price;not null"`
	Status     string    `gorm:"column:status;size:20;not null;default:pending;index:idx_bookings_listing_status"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`

	Listing *listingModel `gorm:"foreignKey:ListingID;references:ID"`
	Renter  *userModel    `gorm:"foreignKey:RenterID;references:ID"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	b := &domain.Booking{
		ID:         m.ID,
		ListingID:  m.ListingID,
		RenterID:   m.RenterID,
		OwnerID:    m.OwnerID,
		StartDate:  m.StartDate.UTC(),
		EndDate:    m.EndDate.UTC(),
		TotalPrice: m.TotalPrice,
		Status:     domain.BookingStatus(m.Status),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.Listing != nil {
		b.Listing = toDomainListing(*m.Listing)
	}
	if m.Renter != nil {
		b.Renter = toDomainUser(*m.Renter)
	}
	return b
}

func toBookingModel(b *domain.Booking) bookingModel {
	return bookingModel{
		ID:         b.ID,
		ListingID:  b.ListingID,
		RenterID:   b.RenterID,
		OwnerID:    b.OwnerID,
		StartDate:  b.StartDate.UTC(),
		EndDate:    b.EndDate.UTC(),
		TotalPrice: b.TotalPrice,
		Status:     string(b.Status),
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

func blockingStatusValues() []string {
	out := make([]string, 0, len(domain.BlockingStatuses))
	for _, s := range domain.BlockingStatuses {
		out = append(out, string(s))
	}
	return out
}

// overlapping narrows q to blocking bookings of listingID whose inclusive
// [start_date, end_date] range intersects [start, end].
func overlapping(q *gorm.DB, listingID string, start, end time.Time) *gorm.DB {
	start, end = start.UTC(), end.UTC()
	return q.
		Where("listing_id = ?", listingID).
		Where("status IN ?", blockingStatusValues()).
		Where(
			"((start_date <= ? AND ? <= end_date) OR (start_date <= ? AND ? <= end_date) OR (? <= start_date AND end_date <= ?))",
			start, start, end, end, start, end,
		)
}

// HasConflict reports whether a blocking booking of listingID overlaps [start, end].
func (r *BookingRepository) HasConflict(ctx context.Context, listingID string, start, end time.Time) (bool, error) {
	var cnt int64
	err := overlapping(r.db.WithContext(ctx).Model(&bookingModel{}), listingID, start, end).
		Count(&cnt).Error
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// CreateIfNoConflict inserts b unless a blocking booking overlaps it, returning
// ErrBookingConflict in that case. The check and the insert share one
// transaction; on PostgreSQL the listing row is locked first so concurrent
// requests for the same listing are serialized.
func (r *BookingRepository) CreateIfNoConflict(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			var locked listingModel
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Select("id").
				Where("id = ?", m.ListingID).
				First(&locked).Error
			if err != nil {
				return err
			}
		}

		var cnt int64
		err := overlapping(tx.Model(&bookingModel{}), m.ListingID, m.StartDate, m.EndDate).
			Count(&cnt).Error
		if err != nil {
			return err
		}
		if cnt > 0 {
			return ErrBookingConflict
		}

		return tx.Omit(clause.Associations).Create(&m).Error
	})
	if err != nil {
		return err
	}

	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	var m bookingModel
	err := r.db.WithContext(ctx).
		Preload("Listing").
		Preload("Listing.Owner").
		Preload("Listing.Category").
		Preload("Renter").
		Where("bookings.id = ?", id).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return toDomainBooking(m), nil
}

// ListByRenter returns the bookings placed by renterID, newest first.
func (r *BookingRepository) ListByRenter(ctx context.Context, renterID string) ([]domain.Booking, error) {
	var rows []bookingModel
	err := r.db.WithContext(ctx).
		Preload("Listing").
		Preload("Listing.Owner").
		Preload("Listing.Category").
		Where("renter_id = ?", renterID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainBookings(rows), nil
}

// ListByOwner returns the bookings made on ownerID's listings, newest first.
func (r *BookingRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Booking, error) {
	var rows []bookingModel
	err := r.db.WithContext(ctx).
		Preload("Listing").
		Preload("Renter").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainBookings(rows), nil
}

// ListBlockingForListing returns the bookings that occupy listingID's calendar, by start date.
func (r *BookingRepository) ListBlockingForListing(ctx context.Context, listingID string) ([]domain.Booking, error) {
	var rows []bookingModel
	err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Where("status IN ?", blockingStatusValues()).
		Order("start_date ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainBookings(rows), nil
}

// UpdateStatus moves booking id from one status to another. It returns
// ErrStatusChanged when the stored status is no longer from.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) error {
	tx := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]any{
			"status":     string(to),
			"updated_at": time.Now().UTC(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrStatusChanged
	}
	return nil
}

func toDomainBookings(rows []bookingModel) []domain.Booking {
	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out
}
