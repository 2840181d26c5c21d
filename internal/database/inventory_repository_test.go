package database

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/airplanned/booking-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var flightRowColumns = []string{
	"flight_id", "flight_number", "origin_country", "destination_country",
	"origin_airport", "destination_airport", "departure_date", "departure_time",
	"arrival_time", "aircraft_type", "total_seats", "available_seats", "price", "airline",
}

func TestFlightRepository_Search(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFlightRepository(db)
	day := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM flights WHERE available_seats >= \$1 AND origin_country = \$2 ORDER BY departure_date, departure_time LIMIT \$3`).
		WithArgs(2, "France", 12).
		WillReturnRows(sqlmock.NewRows(flightRowColumns).AddRow(
			int64(10), "AP100", "France", "Japan", "CDG", "HND", day, "09:30", "05:10",
			"A350", 300, 12, 640.0, "Airplanned",
		))

	filter := repo.NewFilter().
		Where("available_seats", OpGte, 2).
		Where("origin_country", OpEq, "France")

	flights, err := repo.Search(context.Background(), filter, 12)
	require.NoError(t, err)
	require.Len(t, flights, 1)
	assert.Equal(t, "AP100", flights[0].FlightNumber)
	assert.Equal(t, "09:30", flights[0].DepartureTime)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlightRepository_SearchRejectsColumn(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFlightRepository(db)

	_, err := repo.Search(context.Background(), repo.NewFilter().Where("password", OpEq, "x"), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not allowed")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlightRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFlightRepository(db)

	mock.ExpectQuery(`FROM flights WHERE flight_id = \$1`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlightRepository_BookedSeats(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFlightRepository(db)

	mock.ExpectQuery(`SELECT seat_number FROM flight_bookings`).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"seat_number"}).AddRow("1A").AddRow("3C"))

	seats, err := repo.BookedSeats(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"1A", "3C"}, seats)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHotelRepository_Search(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewHotelRepository(db)

	mock.ExpectQuery(`FROM hotels WHERE availability > \$1 AND location ILIKE \$2 ORDER BY star_rating DESC, price_per_night ASC LIMIT \$3`).
		WithArgs(0, "%Lisbon%", 20).
		WillReturnRows(sqlmock.NewRows([]string{
			"hotel_id", "hotel_name", "location", "star_rating", "amenities",
			"contact_info", "price_per_night", "availability",
		}).AddRow(int64(3), "Alfama", "Lisbon", 4, "WiFi, Pool", "+351", 100.0, 5))

	hotels, err := repo.Search(context.Background(), repo.NewFilter().
		Where("availability", OpGt, 0).
		Where("location", OpContains, "Lisbon"), 20)
	require.NoError(t, err)
	require.Len(t, hotels, 1)
	assert.Equal(t, []string{"WiFi", "Pool"}, hotels[0].AmenityList())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHotelRepository_UpdateMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewHotelRepository(db)

	mock.ExpectExec(`UPDATE hotels SET`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Hotel{ID: 42, Name: "Gone", StarRating: 3})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCarRentalRepository_CreateAndDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCarRentalRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`INSERT INTO car_rentals`).
		WithArgs("Hertz", "Porto", "Economy, SUV", 4, "+351", 45.0).
		WillReturnRows(sqlmock.NewRows([]string{"rental_id"}).AddRow(int64(4)))
	mock.ExpectExec(`DELETE FROM car_rentals WHERE rental_id = \$1`).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rental := &models.CarRental{
		CompanyName: "Hertz", Location: "Porto", CarTypes: "Economy, SUV",
		Availability: 4, ContactInfo: "+351", PricePerDay: 45,
	}
	require.NoError(t, repo.Create(ctx, rental))
	assert.Equal(t, int64(4), rental.ID)
	assert.Equal(t, []string{"Economy", "SUV"}, rental.CarTypeList())

	require.NoError(t, repo.Delete(ctx, 4))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepository_Stats(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAdminRepository(db)

	mock.ExpectQuery(`SELECT\s+\(SELECT COUNT\(\*\) FROM flights`).
		WillReturnRows(sqlmock.NewRows([]string{
			"active_flights", "active_hotels", "active_cars", "total_users",
			"confirmed_flight_bookings", "confirmed_hotel_bookings", "confirmed_car_bookings",
			"flight_revenue_30d",
		}).AddRow(4, 3, 2, 10, 7, 2, 1, 1520.5))

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.ActiveFlights)
	assert.Equal(t, 1520.5, stats.FlightRevenueLast30d)

	assert.NoError(t, mock.ExpectationsWereMet())
}
