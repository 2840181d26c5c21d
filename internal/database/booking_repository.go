package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/airplanned/booking-backend/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// bookingTable describes how one category stores its bookings
type bookingTable struct {
	table         string // booking table
	resourceTable string // inventory table
	resourceKey   string // FK column shared by both tables
	availability  string // inventory counter column
	paidSet       string // SET clause of the payment transition
	selectSQL     string // SELECT aliased onto models.Booking, "b" is the booking table
}

var bookingTables = map[models.Category]bookingTable{
	models.CategoryFlight: {
		table:         "flight_bookings",
		resourceTable: "flights",
		resourceKey:   "flight_id",
		availability:  "available_seats",
		paidSet:       "payment_status = 'Paid', payment_date = NOW()",
		selectSQL: `
			SELECT b.booking_id, 'flight' AS category, b.reservation_ref, b.user_id,
				b.flight_id AS resource_id,
				f.flight_number || ' ' || f.origin_airport || ' - ' || f.destination_airport AS resource_name,
				b.passenger_name AS contact_name, b.passenger_email AS contact_email,
				b.passenger_phone AS contact_phone, b.seat_number, NULL AS unit_type,
				f.departure_date AS start_date, NULL AS end_date, b.total_amount,
				b.booking_status, b.payment_status, b.booking_date, b.payment_date
			FROM flight_bookings b
			JOIN flights f ON f.flight_id = b.flight_id`,
	},
	models.CategoryHotel: {
		table:         "hotel_bookings",
		resourceTable: "hotels",
		resourceKey:   "hotel_id",
		availability:  "availability",
		paidSet:       "payment_status = 'Paid'",
		selectSQL: `
			SELECT b.booking_id, 'hotel' AS category, b.reservation_ref, b.user_id,
				b.hotel_id AS resource_id, h.hotel_name AS resource_name,
				b.guest_name AS contact_name, b.guest_email AS contact_email,
				b.guest_phone AS contact_phone, NULL AS seat_number, b.room_type AS unit_type,
				b.check_in_date AS start_date, b.check_out_date AS end_date, b.total_amount,
				b.booking_status, b.payment_status, b.booking_date, NULL AS payment_date
			FROM hotel_bookings b
			JOIN hotels h ON h.hotel_id = b.hotel_id`,
	},
	models.CategoryCar: {
		table:         "car_bookings",
		resourceTable: "car_rentals",
		resourceKey:   "rental_id",
		availability:  "availability",
		paidSet:       "payment_status = 'Paid'",
		selectSQL: `
			SELECT b.booking_id, 'car' AS category, b.reservation_ref, b.user_id,
				b.rental_id AS resource_id, c.company_name AS resource_name,
				b.renter_name AS contact_name, b.renter_email AS contact_email,
				b.renter_phone AS contact_phone, NULL AS seat_number, b.car_type AS unit_type,
				b.pickup_date AS start_date, b.return_date AS end_date, b.total_amount,
				b.booking_status, b.payment_status, b.booking_date, NULL AS payment_date
			FROM car_bookings b
			JOIN car_rentals c ON c.rental_id = b.rental_id`,
	},
}

func tableFor(category models.Category) (bookingTable, error) {
	t, ok := bookingTables[category]
	if !ok {
		return bookingTable{}, fmt.Errorf("unknown booking category %q", category)
	}
	return t, nil
}

// FlightLeg is one flight of a reservation with the seats requested on it.
// Seats are assigned to passengers by position.
type FlightLeg struct {
	FlightID int64
	Fare     float64
	Seats    []string
}

// FlightBookingBatch is every row written by one flight reservation
type FlightBookingBatch struct {
	ReservationRef uuid.UUID
	UserID         int64
	Legs           []FlightLeg
	Passengers     []models.PartyMember
}

// UnitBooking is a single hotel room or rental car booking
type UnitBooking struct {
	ReservationRef uuid.UUID
	UserID         int64
	ResourceID     int64
	UnitType       string
	StartDate      time.Time
	EndDate        time.Time
	Contact        models.PartyMember
	Amount         float64
}

// BookingRepository writes and reads bookings for every category
type BookingRepository struct {
	db DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// ============================================================================
// RESERVATION WRITES
// ============================================================================

// decrement takes n units from a resource. It matches no row when fewer than n remain.
func decrement(ctx context.Context, tx *sqlx.Tx, t bookingTable, resourceID int64, n int) error {
	query := fmt.Sprintf(
		`UPDATE %s SET %s = %s - $1 WHERE %s = $2 AND %s >= $1`,
		t.resourceTable, t.availability, t.availability, t.resourceKey, t.availability,
	)
	result, err := tx.ExecContext(ctx, query, n, resourceID)
	if err != nil {
		return fmt.Errorf("failed to reserve inventory: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return ErrInsufficientInventory
	}
	return nil
}

// CreateFlightBookings writes one booking per passenger per leg in a single
// transaction. Seats are decremented before any row is inserted, and rows are
// written passenger by passenger, outbound before return. Any failure leaves
// no rows and no decrement behind.
func (r *BookingRepository) CreateFlightBookings(ctx context.Context, batch *FlightBookingBatch) ([]int64, error) {
	t := bookingTables[models.CategoryFlight]
	ids := make([]int64, 0, len(batch.Passengers)*len(batch.Legs))

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		for _, leg := range batch.Legs {
			if len(leg.Seats) != len(batch.Passengers) {
				return fmt.Errorf("flight %d: %d seats for %d passengers", leg.FlightID, len(leg.Seats), len(batch.Passengers))
			}
			if err := decrement(ctx, tx, t, leg.FlightID, len(batch.Passengers)); err != nil {
				return err
			}
		}

		for i, p := range batch.Passengers {
			for _, leg := range batch.Legs {
				seat := leg.Seats[i]

				var held int
				err := tx.GetContext(ctx, &held, `
					SELECT COUNT(*) FROM flight_bookings
					WHERE flight_id = $1 AND seat_number = $2 AND booking_status = 'Confirmed'`,
					leg.FlightID, seat)
				if err != nil {
					return fmt.Errorf("failed to check seat: %w", err)
				}
				if held > 0 {
					return &SeatConflictError{FlightID: leg.FlightID, Seat: seat}
				}

				var id int64
				err = tx.QueryRowxContext(ctx, `
					INSERT INTO flight_bookings (
						reservation_ref, user_id, flight_id, passenger_name,
						passenger_email, passenger_phone, seat_number, total_amount,
						booking_status, payment_status
					) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'Confirmed', 'Pending')
					RETURNING booking_id`,
					batch.ReservationRef, batch.UserID, leg.FlightID, p.Name,
					p.Email, p.Phone, seat, leg.Fare,
				).Scan(&id)
				if err != nil {
					if IsUniqueViolation(err) {
						return &SeatConflictError{FlightID: leg.FlightID, Seat: seat}
					}
					return fmt.Errorf("failed to create flight booking: %w", err)
				}
				ids = append(ids, id)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// CreateHotelBooking takes one room and writes the stay in one transaction
func (r *BookingRepository) CreateHotelBooking(ctx context.Context, b *UnitBooking) (int64, error) {
	return r.createUnitBooking(ctx, models.CategoryHotel, `
		INSERT INTO hotel_bookings (
			reservation_ref, user_id, hotel_id, room_type, check_in_date, check_out_date,
			guest_name, guest_email, guest_phone, total_amount, booking_status, payment_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 'Confirmed', 'Pending')
		RETURNING booking_id`, b)
}

// CreateCarBooking takes one car and writes the rental in one transaction
func (r *BookingRepository) CreateCarBooking(ctx context.Context, b *UnitBooking) (int64, error) {
	return r.createUnitBooking(ctx, models.CategoryCar, `
		INSERT INTO car_bookings (
			reservation_ref, user_id, rental_id, car_type, pickup_date, return_date,
			renter_name, renter_email, renter_phone, total_amount, booking_status, payment_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 'Confirmed', 'Pending')
		RETURNING booking_id`, b)
}

func (r *BookingRepository) createUnitBooking(ctx context.Context, category models.Category, insert string, b *UnitBooking) (int64, error) {
	t := bookingTables[category]
	var id int64

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := decrement(ctx, tx, t, b.ResourceID, 1); err != nil {
			return err
		}
		err := tx.QueryRowxContext(ctx, insert,
			b.ReservationRef, b.UserID, b.ResourceID, b.UnitType, b.StartDate, b.EndDate,
			b.Contact.Name, b.Contact.Email, b.Contact.Phone, b.Amount,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to create %s booking: %w", category, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// ============================================================================
// READS
// ============================================================================

// GetBooking retrieves a booking owned by userID
func (r *BookingRepository) GetBooking(ctx context.Context, category models.Category, id, userID int64) (*models.Booking, error) {
	t, err := tableFor(category)
	if err != nil {
		return nil, err
	}

	var booking models.Booking
	query := t.selectSQL + ` WHERE b.booking_id = $1 AND b.user_id = $2`
	if err := r.db.GetContext(ctx, &booking, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

// ListByUser returns a user's bookings of one category, newest first
func (r *BookingRepository) ListByUser(ctx context.Context, category models.Category, userID int64) ([]models.Booking, error) {
	t, err := tableFor(category)
	if err != nil {
		return nil, err
	}

	bookings := []models.Booking{}
	query := t.selectSQL + ` WHERE b.user_id = $1 ORDER BY b.booking_date DESC, b.booking_id DESC`
	if err := r.db.SelectContext(ctx, &bookings, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// ListByReservation returns the rows written by one reservation in insertion order
func (r *BookingRepository) ListByReservation(ctx context.Context, category models.Category, ref uuid.UUID, userID int64) ([]models.Booking, error) {
	t, err := tableFor(category)
	if err != nil {
		return nil, err
	}

	bookings := []models.Booking{}
	query := t.selectSQL + ` WHERE b.reservation_ref = $1 AND b.user_id = $2 ORDER BY b.booking_id`
	if err := r.db.SelectContext(ctx, &bookings, query, ref, userID); err != nil {
		return nil, fmt.Errorf("failed to list reservation bookings: %w", err)
	}
	return bookings, nil
}

// CountConfirmed counts confirmed bookings that still hold a resource
func (r *BookingRepository) CountConfirmed(ctx context.Context, category models.Category, resourceID int64) (int, error) {
	t, err := tableFor(category)
	if err != nil {
		return 0, err
	}

	var count int
	query := fmt.Sprintf(
		`SELECT COUNT(*) FROM %s WHERE %s = $1 AND booking_status = 'Confirmed'`,
		t.table, t.resourceKey,
	)
	if err := r.db.GetContext(ctx, &count, query, resourceID); err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

// ============================================================================
// STATE TRANSITIONS
// ============================================================================

// MarkPaid moves every Confirmed+Pending row of the reservation containing
// bookingID to Paid. bookingID itself must be Confirmed+Pending. It returns
// how many rows changed; zero means the booking does not belong to userID or
// nothing was payable.
func (r *BookingRepository) MarkPaid(ctx context.Context, category models.Category, bookingID, userID int64) (int64, error) {
	t, err := tableFor(category)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`
		UPDATE %[1]s SET %[2]s
		WHERE reservation_ref = (
			SELECT reservation_ref FROM %[1]s
			WHERE booking_id = $1 AND user_id = $2
			AND booking_status = 'Confirmed' AND payment_status = 'Pending'
		)
		AND user_id = $2
		AND booking_status = 'Confirmed'
		AND payment_status = 'Pending'`, t.table, t.paidSet)

	result, err := r.db.ExecContext(ctx, query, bookingID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark booking paid: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return rows, nil
}

type cancelTarget struct {
	BookingStatus models.BookingStatus `db:"booking_status"`
	PaymentStatus models.PaymentStatus `db:"payment_status"`
	ResourceID    int64                `db:"resource_id"`
}

// Cancel moves one booking to Cancelled. A paid booking returns its unit to
// inventory; an unpaid one does not. Cancelling twice changes nothing.
func (r *BookingRepository) Cancel(ctx context.Context, category models.Category, bookingID, userID int64) (*models.CancelOutcome, error) {
	t, err := tableFor(category)
	if err != nil {
		return nil, err
	}
	outcome := &models.CancelOutcome{BookingID: bookingID}

	err = withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var target cancelTarget
		lock := fmt.Sprintf(`
			SELECT booking_status, payment_status, %s AS resource_id
			FROM %s WHERE booking_id = $1 AND user_id = $2
			FOR UPDATE`, t.resourceKey, t.table)
		if err := tx.GetContext(ctx, &target, lock, bookingID, userID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to lock booking: %w", err)
		}

		if target.BookingStatus == models.BookingStatusCancelled {
			outcome.AlreadyCancelled = true
			return nil
		}

		update := fmt.Sprintf(`UPDATE %s SET booking_status = 'Cancelled' WHERE booking_id = $1`, t.table)
		if _, err := tx.ExecContext(ctx, update, bookingID); err != nil {
			return fmt.Errorf("failed to cancel booking: %w", err)
		}

		if target.PaymentStatus == models.PaymentStatusPaid {
			restore := fmt.Sprintf(`UPDATE %s SET %s = %s + 1 WHERE %s = $1`,
				t.resourceTable, t.availability, t.availability, t.resourceKey)
			if _, err := tx.ExecContext(ctx, restore, target.ResourceID); err != nil {
				return fmt.Errorf("failed to restore inventory: %w", err)
			}
			outcome.InventoryRestored = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}
