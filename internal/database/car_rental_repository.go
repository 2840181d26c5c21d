package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/airplanned/booking-backend/internal/models"
)

const carRentalColumns = `rental_id, company_name, location, car_types,
	availability, contact_info, price_per_day`

// CarRentalSearchColumns are the columns a car rental filter may reference
var CarRentalSearchColumns = []string{
	"company_name", "location", "car_types", "availability", "price_per_day",
}

// CarRentalTextColumns are matched by the admin free-text search
var CarRentalTextColumns = []string{"company_name", "location", "car_types"}

// CarRentalRepository handles car rental inventory operations
type CarRentalRepository struct {
	db DB
}

// NewCarRentalRepository creates a new car rental repository
func NewCarRentalRepository(db DB) *CarRentalRepository {
	return &CarRentalRepository{db: db}
}

// NewFilter returns a filter restricted to car rental columns
func (r *CarRentalRepository) NewFilter() *Filter {
	return NewFilter(CarRentalSearchColumns...)
}

// GetByID retrieves a car rental location by ID
func (r *CarRentalRepository) GetByID(ctx context.Context, id int64) (*models.CarRental, error) {
	var rental models.CarRental
	query := `SELECT ` + carRentalColumns + ` FROM car_rentals WHERE rental_id = $1`

	if err := r.db.GetContext(ctx, &rental, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get car rental: %w", err)
	}
	return &rental, nil
}

// Search lists car rentals matching filter, cheapest first
func (r *CarRentalRepository) Search(ctx context.Context, filter *Filter, limit int) ([]models.CarRental, error) {
	rentals := []models.CarRental{}
	q := listQuery{
		base:    `SELECT ` + carRentalColumns + ` FROM car_rentals`,
		filter:  filter,
		orderBy: "price_per_day ASC",
		limit:   limit,
	}
	if err := q.run(ctx, r.db, &rentals); err != nil {
		return nil, fmt.Errorf("failed to search car rentals: %w", err)
	}
	return rentals, nil
}

// Create inserts a car rental location and sets its ID
func (r *CarRentalRepository) Create(ctx context.Context, c *models.CarRental) error {
	query := `
		INSERT INTO car_rentals (
			company_name, location, car_types, availability, contact_info, price_per_day
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING rental_id`

	err := r.db.QueryRowxContext(ctx, query,
		c.CompanyName, c.Location, c.CarTypes, c.Availability, c.ContactInfo, c.PricePerDay,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("failed to create car rental: %w", err)
	}
	return nil
}

// Update overwrites every editable column of a car rental location
func (r *CarRentalRepository) Update(ctx context.Context, c *models.CarRental) error {
	query := `
		UPDATE car_rentals SET
			company_name = $1, location = $2, car_types = $3,
			availability = $4, contact_info = $5, price_per_day = $6
		WHERE rental_id = $7`

	result, err := r.db.ExecContext(ctx, query,
		c.CompanyName, c.Location, c.CarTypes, c.Availability, c.ContactInfo, c.PricePerDay, c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update car rental: %w", err)
	}
	return expectOneRow(result)
}

// Delete removes a car rental location
func (r *CarRentalRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM car_rentals WHERE rental_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete car rental: %w", err)
	}
	return expectOneRow(result)
}
