package services

import (
	"errors"
	"fmt"

	"github.com/airplanned/booking-backend/internal/database"
	"github.com/airplanned/booking-backend/pkg/validator"
)

// ValidationError reports malformed or missing input. The request is re-rendered.
type ValidationError struct {
	Message string
	Fields  validator.FieldErrors
}

func (e *ValidationError) Error() string {
	if e.Message == "" && len(e.Fields) > 0 {
		return e.Fields.Error()
	}
	return e.Message
}

// NotFoundError reports a resource or booking that is absent or in the wrong state
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// ConflictError reports a seat already held by a confirmed booking
type ConflictError struct {
	Message  string
	FlightID int64
	Seat     string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// AlreadyProcessedError reports a repeated payment or cancellation
type AlreadyProcessedError struct {
	Message string
}

func (e *AlreadyProcessedError) Error() string {
	return e.Message
}

// ConnectionError reports that the datastore could not be reached
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return "database connection error"
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func notFound(message string) error {
	return &NotFoundError{Message: message}
}

// classify maps a repository error onto the service taxonomy.
// notFoundMessage is used for missing rows and exhausted inventory.
func classify(err error, notFoundMessage string) error {
	if err == nil {
		return nil
	}

	var seatErr *database.SeatConflictError
	switch {
	case database.IsConnectionError(err):
		return &ConnectionError{Err: err}
	case errors.As(err, &seatErr):
		return &ConflictError{
			Message:  fmt.Sprintf("Seat %s is no longer available. Please choose another seat.", seatErr.Seat),
			FlightID: seatErr.FlightID,
			Seat:     seatErr.Seat,
		}
	case errors.Is(err, database.ErrNotFound), errors.Is(err, database.ErrInsufficientInventory):
		return notFound(notFoundMessage)
	}
	return err
}
