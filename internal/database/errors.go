package database

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a row does not exist or is not in the state the statement requires
	ErrNotFound = errors.New("record not found")

	// ErrInsufficientInventory is returned when a guarded decrement matches no row
	ErrInsufficientInventory = errors.New("insufficient inventory")

	// ErrSeatTaken is returned when a seat already belongs to a confirmed booking
	ErrSeatTaken = errors.New("seat already taken")
)

const uniqueViolation = "23505"

// SeatConflictError names the seat that could not be assigned
type SeatConflictError struct {
	FlightID int64
	Seat     string
}

func (e *SeatConflictError) Error() string {
	return "seat " + e.Seat + " is no longer available"
}

// Unwrap lets errors.Is match ErrSeatTaken
func (e *SeatConflictError) Unwrap() error {
	return ErrSeatTaken
}

// IsUniqueViolation reports whether err is a unique constraint violation from either driver
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	return false
}

// IsConnectionError reports whether err means the datastore could not be reached
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var connectErr *pgconn.ConnectError
	return errors.As(err, &connectErr)
}
