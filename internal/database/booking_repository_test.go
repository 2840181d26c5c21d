package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/airplanned/booking-backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passengers(n int) []models.PartyMember {
	out := make([]models.PartyMember, n)
	for i := range out {
		out[i] = models.PartyMember{Name: "P", Email: "p@example.com", Phone: "+15550100"}
	}
	return out
}

func TestCreateFlightBookings(t *testing.T) {
	ctx := context.Background()

	t.Run("One way two passengers", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE flights SET available_seats = available_seats - \$1 WHERE flight_id = \$2 AND available_seats >= \$1`).
			WithArgs(2, int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		for i, seat := range []string{"1A", "1B"} {
			mock.ExpectQuery(`SELECT COUNT\(\*\) FROM flight_bookings`).
				WithArgs(int64(10), seat).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
			mock.ExpectQuery(`INSERT INTO flight_bookings`).
				WithArgs(sqlmock.AnyArg(), int64(5), int64(10), "P", "p@example.com", "+15550100", seat, 120.0).
				WillReturnRows(sqlmock.NewRows([]string{"booking_id"}).AddRow(int64(100 + i)))
		}
		mock.ExpectCommit()

		ids, err := repo.CreateFlightBookings(ctx, &FlightBookingBatch{
			ReservationRef: uuid.New(),
			UserID:         5,
			Legs:           []FlightLeg{{FlightID: 10, Fare: 120, Seats: []string{"1A", "1B"}}},
			Passengers:     passengers(2),
		})
		require.NoError(t, err)
		assert.Equal(t, []int64{100, 101}, ids)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Round trip interleaves legs per passenger", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE flights`).WithArgs(2, int64(10)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE flights`).WithArgs(2, int64(20)).WillReturnResult(sqlmock.NewResult(0, 1))

		expected := []struct {
			flight int64
			seat   string
			fare   float64
		}{
			{10, "1A", 100}, {20, "7C", 80},
			{10, "1B", 100}, {20, "7D", 80},
		}
		for i, e := range expected {
			mock.ExpectQuery(`SELECT COUNT`).WithArgs(e.flight, e.seat).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
			mock.ExpectQuery(`INSERT INTO flight_bookings`).
				WithArgs(sqlmock.AnyArg(), int64(5), e.flight, "P", "p@example.com", "+15550100", e.seat, e.fare).
				WillReturnRows(sqlmock.NewRows([]string{"booking_id"}).AddRow(int64(200 + i)))
		}
		mock.ExpectCommit()

		ids, err := repo.CreateFlightBookings(ctx, &FlightBookingBatch{
			ReservationRef: uuid.New(),
			UserID:         5,
			Legs: []FlightLeg{
				{FlightID: 10, Fare: 100, Seats: []string{"1A", "1B"}},
				{FlightID: 20, Fare: 80, Seats: []string{"7C", "7D"}},
			},
			Passengers: passengers(2),
		})
		require.NoError(t, err)
		assert.Equal(t, []int64{200, 201, 202, 203}, ids)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("More passengers than seats writes nothing", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE flights`).WithArgs(2, int64(10)).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		ids, err := repo.CreateFlightBookings(ctx, &FlightBookingBatch{
			ReservationRef: uuid.New(),
			UserID:         5,
			Legs:           []FlightLeg{{FlightID: 10, Fare: 120, Seats: []string{"1A", "1B"}}},
			Passengers:     passengers(2),
		})
		assert.ErrorIs(t, err, ErrInsufficientInventory)
		assert.Nil(t, ids)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Held seat rolls back", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE flights`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT COUNT`).WithArgs(int64(10), "1A").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectRollback()

		_, err := repo.CreateFlightBookings(ctx, &FlightBookingBatch{
			UserID:     5,
			Legs:       []FlightLeg{{FlightID: 10, Fare: 120, Seats: []string{"1A"}}},
			Passengers: passengers(1),
		})
		var conflict *SeatConflictError
		require.True(t, errors.As(err, &conflict))
		assert.Equal(t, "1A", conflict.Seat)
		assert.ErrorIs(t, err, ErrSeatTaken)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unique violation on insert is a seat conflict", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE flights`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT COUNT`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`INSERT INTO flight_bookings`).WillReturnError(&pgconn.PgError{Code: "23505"})
		mock.ExpectRollback()

		_, err := repo.CreateFlightBookings(ctx, &FlightBookingBatch{
			UserID:     5,
			Legs:       []FlightLeg{{FlightID: 10, Fare: 120, Seats: []string{"2F"}}},
			Passengers: passengers(1),
		})
		assert.ErrorIs(t, err, ErrSeatTaken)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreateHotelBooking(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)
	checkIn := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	checkOut := checkIn.AddDate(0, 0, 3)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE hotels SET availability = availability - \$1 WHERE hotel_id = \$2`).
		WithArgs(1, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO hotel_bookings`).
		WithArgs(sqlmock.AnyArg(), int64(5), int64(3), "deluxe", checkIn, checkOut,
			"P", "p@example.com", "+15550100", 390.0).
		WillReturnRows(sqlmock.NewRows([]string{"booking_id"}).AddRow(int64(9)))
	mock.ExpectCommit()

	id, err := repo.CreateHotelBooking(context.Background(), &UnitBooking{
		ReservationRef: uuid.New(),
		UserID:         5,
		ResourceID:     3,
		UnitType:       "deluxe",
		StartDate:      checkIn,
		EndDate:        checkOut,
		Contact:        passengers(1)[0],
		Amount:         390,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), id)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCarBooking_SoldOut(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE car_rentals SET availability`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.CreateCarBooking(context.Background(), &UnitBooking{ResourceID: 4, UnitType: "SUV"})
	assert.ErrorIs(t, err, ErrInsufficientInventory)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPaid(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	mock.ExpectExec(`UPDATE flight_bookings SET payment_status = 'Paid', payment_date = NOW\(\)`).
		WithArgs(int64(100), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE car_bookings SET payment_status = 'Paid'\s+WHERE`).
		WithArgs(int64(8), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rows, err := repo.MarkPaid(ctx, models.CategoryFlight, 100, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rows)

	rows, err = repo.MarkPaid(ctx, models.CategoryCar, 8, 5)
	require.NoError(t, err)
	assert.Zero(t, rows)

	_, err = repo.MarkPaid(ctx, models.Category("boat"), 1, 5)
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPaid_RequiresPayablePrimary(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	// row 100 was cancelled; its sibling 101 is still pending
	mock.ExpectExec(`UPDATE flight_bookings SET payment_status = 'Paid'.*` +
		`SELECT reservation_ref FROM flight_bookings\s+` +
		`WHERE booking_id = \$1 AND user_id = \$2\s+` +
		`AND booking_status = 'Confirmed' AND payment_status = 'Pending'\s+\)\s+` +
		`AND user_id = \$2\s+AND booking_status = 'Confirmed'\s+AND payment_status = 'Pending'`).
		WithArgs(int64(100), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rows, err := repo.MarkPaid(context.Background(), models.CategoryFlight, 100, 5)
	require.NoError(t, err)
	assert.Zero(t, rows)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancel(t *testing.T) {
	ctx := context.Background()
	lockColumns := []string{"booking_status", "payment_status", "resource_id"}

	t.Run("Paid booking restores one unit", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT booking_status, payment_status, flight_id AS resource_id\s+FROM flight_bookings (.+) FOR UPDATE`).
			WithArgs(int64(100), int64(5)).
			WillReturnRows(sqlmock.NewRows(lockColumns).AddRow("Confirmed", "Paid", int64(10)))
		mock.ExpectExec(`UPDATE flight_bookings SET booking_status = 'Cancelled'`).
			WithArgs(int64(100)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE flights SET available_seats = available_seats \+ 1 WHERE flight_id = \$1`).
			WithArgs(int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		outcome, err := repo.Cancel(ctx, models.CategoryFlight, 100, 5)
		require.NoError(t, err)
		assert.False(t, outcome.AlreadyCancelled)
		assert.True(t, outcome.InventoryRestored)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Pending booking keeps inventory", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`FROM hotel_bookings`).
			WillReturnRows(sqlmock.NewRows(lockColumns).AddRow("Confirmed", "Pending", int64(3)))
		mock.ExpectExec(`UPDATE hotel_bookings SET booking_status = 'Cancelled'`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		outcome, err := repo.Cancel(ctx, models.CategoryHotel, 9, 5)
		require.NoError(t, err)
		assert.False(t, outcome.InventoryRestored)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Second cancel is a no-op", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`FROM car_bookings`).
			WillReturnRows(sqlmock.NewRows(lockColumns).AddRow("Cancelled", "Paid", int64(4)))
		mock.ExpectCommit()

		outcome, err := repo.Cancel(ctx, models.CategoryCar, 8, 5)
		require.NoError(t, err)
		assert.True(t, outcome.AlreadyCancelled)
		assert.False(t, outcome.InventoryRestored)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown booking", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`FROM flight_bookings`).WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, err := repo.Cancel(ctx, models.CategoryFlight, 1, 5)
		assert.ErrorIs(t, err, ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetBooking(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)
	ref := uuid.New()
	start := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)

	columns := []string{
		"booking_id", "category", "reservation_ref", "user_id", "resource_id", "resource_name",
		"contact_name", "contact_email", "contact_phone", "seat_number", "unit_type",
		"start_date", "end_date", "total_amount", "booking_status", "payment_status",
		"booking_date", "payment_date",
	}

	mock.ExpectQuery(`FROM car_bookings b\s+JOIN car_rentals c (.+) WHERE b.booking_id = \$1 AND b.user_id = \$2`).
		WithArgs(int64(8), int64(5)).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(
			int64(8), "car", ref.String(), int64(5), int64(4), "Hertz",
			"P", "p@example.com", "+15550100", nil, "SUV",
			start, start.AddDate(0, 0, 2), 180.0, "Confirmed", "Pending",
			time.Now(), nil,
		))
	mock.ExpectQuery(`FROM hotel_bookings`).WillReturnError(sql.ErrNoRows)

	booking, err := repo.GetBooking(context.Background(), models.CategoryCar, 8, 5)
	require.NoError(t, err)
	assert.Equal(t, models.CategoryCar, booking.Category)
	assert.Equal(t, ref, booking.ReservationRef)
	assert.Equal(t, "SUV", booking.UnitType.String)
	assert.False(t, booking.SeatNumber.Valid)
	assert.True(t, booking.Payable())

	_, err = repo.GetBooking(context.Background(), models.CategoryHotel, 1, 5)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountConfirmed(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM hotel_bookings WHERE hotel_id = \$1 AND booking_status = 'Confirmed'`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	n, err := repo.CountConfirmed(context.Background(), models.CategoryHotel, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.NoError(t, mock.ExpectationsWereMet())
}
