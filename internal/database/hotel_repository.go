package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/airplanned/booking-backend/internal/models"
)

const hotelColumns = `hotel_id, hotel_name, location, star_rating, amenities,
	contact_info, price_per_night, availability`

// HotelSearchColumns are the columns a hotel filter may reference
var HotelSearchColumns = []string{
	"hotel_name", "location", "star_rating", "amenities", "price_per_night", "availability",
}

// HotelTextColumns are matched by the admin free-text search
var HotelTextColumns = []string{"hotel_name", "location", "amenities"}

// HotelRepository handles hotel inventory operations
type HotelRepository struct {
	db DB
}

// NewHotelRepository creates a new hotel repository
func NewHotelRepository(db DB) *HotelRepository {
	return &HotelRepository{db: db}
}

// NewFilter returns a filter restricted to hotel columns
func (r *HotelRepository) NewFilter() *Filter {
	return NewFilter(HotelSearchColumns...)
}

// GetByID retrieves a hotel by ID
func (r *HotelRepository) GetByID(ctx context.Context, id int64) (*models.Hotel, error) {
	var hotel models.Hotel
	query := `SELECT ` + hotelColumns + ` FROM hotels WHERE hotel_id = $1`

	if err := r.db.GetContext(ctx, &hotel, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get hotel: %w", err)
	}
	return &hotel, nil
}

// Search lists hotels matching filter, best rated and cheapest first
func (r *HotelRepository) Search(ctx context.Context, filter *Filter, limit int) ([]models.Hotel, error) {
	hotels := []models.Hotel{}
	q := listQuery{
		base:    `SELECT ` + hotelColumns + ` FROM hotels`,
		filter:  filter,
		orderBy: "star_rating DESC, price_per_night ASC",
		limit:   limit,
	}
	if err := q.run(ctx, r.db, &hotels); err != nil {
		return nil, fmt.Errorf("failed to search hotels: %w", err)
	}
	return hotels, nil
}

// Create inserts a hotel and sets its ID
func (r *HotelRepository) Create(ctx context.Context, h *models.Hotel) error {
	query := `
		INSERT INTO hotels (
			hotel_name, location, star_rating, amenities,
			contact_info, price_per_night, availability
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING hotel_id`

	err := r.db.QueryRowxContext(ctx, query,
		h.Name, h.Location, h.StarRating, h.Amenities,
		h.ContactInfo, h.PricePerNight, h.Availability,
	).Scan(&h.ID)
	if err != nil {
		return fmt.Errorf("failed to create hotel: %w", err)
	}
	return nil
}

// Update overwrites every editable column of a hotel
func (r *HotelRepository) Update(ctx context.Context, h *models.Hotel) error {
	query := `
		UPDATE hotels SET
			hotel_name = $1, location = $2, star_rating = $3, amenities = $4,
			contact_info = $5, price_per_night = $6, availability = $7
		WHERE hotel_id = $8`

	result, err := r.db.ExecContext(ctx, query,
		h.Name, h.Location, h.StarRating, h.Amenities,
		h.ContactInfo, h.PricePerNight, h.Availability, h.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update hotel: %w", err)
	}
	return expectOneRow(result)
}

// Delete removes a hotel
func (r *HotelRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM hotels WHERE hotel_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete hotel: %w", err)
	}
	return expectOneRow(result)
}
