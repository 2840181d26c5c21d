package telemetry

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// InstrumentationName names the tracer and meter used by the booking core
const InstrumentationName = "github.com/airplanned/booking-backend"

// Metrics are the booking counters. Each is labelled with a category attribute.
type Metrics struct {
	Reservations  metric.Int64Counter // reservations committed
	BookingRows   metric.Int64Counter // booking rows written
	SeatConflicts metric.Int64Counter
	SoldOut       metric.Int64Counter // reservations refused for lack of inventory
	Payments      metric.Int64Counter
	Cancellations metric.Int64Counter
}

// NewMetrics registers the counters on meter
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&m.Reservations, "booking.reservations", "Reservations committed"},
		{&m.BookingRows, "booking.rows", "Booking rows written"},
		{&m.SeatConflicts, "booking.seat_conflicts", "Reservations refused because a seat was taken"},
		{&m.SoldOut, "booking.sold_out", "Reservations refused for lack of inventory"},
		{&m.Payments, "booking.payments", "Payment transitions"},
		{&m.Cancellations, "booking.cancellations", "Cancellation transitions"},
	}

	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return nil, fmt.Errorf("failed to create counter %s: %w", c.name, err)
		}
		*c.dst = counter
	}
	return m, nil
}

// DefaultMetrics registers the counters on the global meter provider
func DefaultMetrics() (*Metrics, error) {
	return NewMetrics(otel.Meter(InstrumentationName))
}
