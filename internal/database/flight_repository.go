package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/airplanned/booking-backend/internal/models"
)

const flightColumns = `flight_id, flight_number, origin_country, destination_country,
	origin_airport, destination_airport, departure_date, departure_time,
	arrival_time, aircraft_type, total_seats, available_seats, price, airline`

// FlightSearchColumns are the columns a flight filter may reference
var FlightSearchColumns = []string{
	"flight_number", "origin_country", "destination_country", "origin_airport",
	"destination_airport", "departure_date", "aircraft_type", "available_seats",
	"price", "airline",
}

// FlightTextColumns are matched by the admin free-text search
var FlightTextColumns = []string{
	"flight_number", "origin_country", "destination_country",
	"origin_airport", "destination_airport", "airline", "aircraft_type",
}

// Location is a country/airport pair offered in the search form
type Location struct {
	Country string `db:"country"`
	Airport string `db:"airport"`
}

// FlightRepository handles flight inventory operations
type FlightRepository struct {
	db DB
}

// NewFlightRepository creates a new flight repository
func NewFlightRepository(db DB) *FlightRepository {
	return &FlightRepository{db: db}
}

// NewFilter returns a filter restricted to flight columns
func (r *FlightRepository) NewFilter() *Filter {
	return NewFilter(FlightSearchColumns...)
}

// GetByID retrieves a flight by ID
func (r *FlightRepository) GetByID(ctx context.Context, id int64) (*models.Flight, error) {
	var flight models.Flight
	query := `SELECT ` + flightColumns + ` FROM flights WHERE flight_id = $1`

	if err := r.db.GetContext(ctx, &flight, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get flight: %w", err)
	}
	return &flight, nil
}

// Search lists flights matching filter ordered by departure
func (r *FlightRepository) Search(ctx context.Context, filter *Filter, limit int) ([]models.Flight, error) {
	flights := []models.Flight{}
	q := listQuery{
		base:    `SELECT ` + flightColumns + ` FROM flights`,
		filter:  filter,
		orderBy: "departure_date, departure_time",
		limit:   limit,
	}
	if err := q.run(ctx, r.db, &flights); err != nil {
		return nil, fmt.Errorf("failed to search flights: %w", err)
	}
	return flights, nil
}

// Locations returns the distinct origins and destinations of upcoming flights with free seats
func (r *FlightRepository) Locations(ctx context.Context, today time.Time) (origins, destinations []Location, err error) {
	origins = []Location{}
	destinations = []Location{}

	err = r.db.SelectContext(ctx, &origins, `
		SELECT DISTINCT origin_country AS country, origin_airport AS airport
		FROM flights
		WHERE available_seats > 0 AND departure_date >= $1
		ORDER BY origin_country`, today)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list origins: %w", err)
	}

	err = r.db.SelectContext(ctx, &destinations, `
		SELECT DISTINCT destination_country AS country, destination_airport AS airport
		FROM flights
		WHERE available_seats > 0 AND departure_date >= $1
		ORDER BY destination_country`, today)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list destinations: %w", err)
	}

	return origins, destinations, nil
}

// BookedSeats lists seat numbers held by confirmed bookings on a flight
func (r *FlightRepository) BookedSeats(ctx context.Context, flightID int64) ([]string, error) {
	seats := []string{}
	query := `
		SELECT seat_number FROM flight_bookings
		WHERE flight_id = $1 AND booking_status = 'Confirmed'
		ORDER BY seat_number`

	if err := r.db.SelectContext(ctx, &seats, query, flightID); err != nil {
		return nil, fmt.Errorf("failed to list booked seats: %w", err)
	}
	return seats, nil
}

// ============================================================================
// ADMIN OPERATIONS
// ============================================================================

// Create inserts a flight and sets its ID
func (r *FlightRepository) Create(ctx context.Context, f *models.Flight) error {
	query := `
		INSERT INTO flights (
			flight_number, origin_country, destination_country, origin_airport,
			destination_airport, departure_date, departure_time, arrival_time,
			aircraft_type, total_seats, available_seats, price, airline
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING flight_id`

	err := r.db.QueryRowxContext(ctx, query,
		f.FlightNumber, f.OriginCountry, f.DestinationCountry, f.OriginAirport,
		f.DestinationAirport, f.DepartureDate, f.DepartureTime, f.ArrivalTime,
		f.AircraftType, f.TotalSeats, f.AvailableSeats, f.Price, f.Airline,
	).Scan(&f.ID)
	if err != nil {
		return fmt.Errorf("failed to create flight: %w", err)
	}
	return nil
}

// Update overwrites every editable column of a flight
func (r *FlightRepository) Update(ctx context.Context, f *models.Flight) error {
	query := `
		UPDATE flights SET
			flight_number = $1, origin_country = $2, destination_country = $3,
			origin_airport = $4, destination_airport = $5, departure_date = $6,
			departure_time = $7, arrival_time = $8, aircraft_type = $9,
			total_seats = $10, available_seats = $11, price = $12, airline = $13
		WHERE flight_id = $14`

	result, err := r.db.ExecContext(ctx, query,
		f.FlightNumber, f.OriginCountry, f.DestinationCountry, f.OriginAirport,
		f.DestinationAirport, f.DepartureDate, f.DepartureTime, f.ArrivalTime,
		f.AircraftType, f.TotalSeats, f.AvailableSeats, f.Price, f.Airline, f.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update flight: %w", err)
	}
	return expectOneRow(result)
}

// Delete removes a flight
func (r *FlightRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM flights WHERE flight_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete flight: %w", err)
	}
	return expectOneRow(result)
}

func expectOneRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
