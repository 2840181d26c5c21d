package services

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/airplanned/booking-backend/internal/database"
	"github.com/airplanned/booking-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAdminService(t *testing.T) (*AdminService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := setupMockDB(t)

	service := NewAdminService(
		database.NewFlightRepository(db),
		database.NewHotelRepository(db),
		database.NewCarRentalRepository(db),
		database.NewBookingRepository(db),
		database.NewAdminRepository(db),
		testLogger(),
	)
	return service, mock
}

func TestAdminDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("Refused while bookings are active", func(t *testing.T) {
		service, mock := setupAdminService(t)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM hotel_bookings WHERE hotel_id = \$1 AND booking_status = 'Confirmed'`).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		err := service.DeleteHotel(ctx, 3)
		var conflict *ConflictError
		require.True(t, errors.As(err, &conflict))
		assert.Equal(t, "Cannot delete hotel with 2 active bookings", conflict.Message)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Removes an idle car rental", func(t *testing.T) {
		service, mock := setupAdminService(t)

		mock.ExpectQuery(`FROM car_bookings WHERE rental_id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(`DELETE FROM car_rentals WHERE rental_id = \$1`).
			WithArgs(int64(4)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, service.DeleteCarRental(ctx, 4))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing flight", func(t *testing.T) {
		service, mock := setupAdminService(t)

		mock.ExpectQuery(`FROM flight_bookings WHERE flight_id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(`DELETE FROM flights`).WillReturnResult(sqlmock.NewResult(0, 0))

		err := service.DeleteFlight(ctx, 99)
		var missing *NotFoundError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, "Flight not found", missing.Message)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSaveFlight_SeatBounds(t *testing.T) {
	service, mock := setupAdminService(t)

	err := service.SaveFlight(context.Background(), &models.Flight{TotalSeats: 100, AvailableSeats: 120})
	var validation *ValidationError
	require.True(t, errors.As(err, &validation))

	assert.NoError(t, mock.ExpectationsWereMet())
}
