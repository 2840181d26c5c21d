package services

import (
	"io"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/airplanned/booking-backend/internal/database"
	"github.com/airplanned/booking-backend/internal/telemetry"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func setupMockDB(t *testing.T) (*database.PostgresDB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &database.PostgresDB{DB: sqlx.NewDb(db, "sqlmock")}, mock
}

func setupBookingService(t *testing.T) (*BookingService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := setupMockDB(t)

	metrics, err := telemetry.DefaultMetrics()
	require.NoError(t, err)

	service := NewBookingService(
		database.NewFlightRepository(db),
		database.NewHotelRepository(db),
		database.NewCarRentalRepository(db),
		database.NewBookingRepository(db),
		metrics,
		testLogger(),
	)
	return service, mock
}

var (
	flightColumns = []string{
		"flight_id", "flight_number", "origin_country", "destination_country",
		"origin_airport", "destination_airport", "departure_date", "departure_time",
		"arrival_time", "aircraft_type", "total_seats", "available_seats", "price", "airline",
	}
	hotelColumns = []string{
		"hotel_id", "hotel_name", "location", "star_rating", "amenities",
		"contact_info", "price_per_night", "availability",
	}
	carRentalColumns = []string{
		"rental_id", "company_name", "location", "car_types",
		"availability", "contact_info", "price_per_day",
	}
)
