package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/airplanned/booking-backend/internal/database"
	"github.com/airplanned/booking-backend/internal/models"
	"github.com/airplanned/booking-backend/internal/telemetry"
	"github.com/airplanned/booking-backend/pkg/validator"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	msgBookingNotFound      = "Booking not found"
	msgAlreadyPaid          = "Booking not found or payment already processed"
	msgPaymentNotAvailable  = "Booking not found or payment already completed"
	msgFlightUnavailable    = "Flight not found or insufficient seats available"
	msgHotelUnavailable     = "Hotel not found or no longer available"
	msgCarRentalUnavailable = "Car rental not found or no longer available"
)

// BookingService creates, prices, pays and cancels reservations against the
// shared inventory counters of flights, hotels and car rentals.
type BookingService struct {
	flights  *database.FlightRepository
	hotels   *database.HotelRepository
	cars     *database.CarRentalRepository
	bookings *database.BookingRepository
	prices   *PriceCalculator
	contacts *validator.StructValidator
	phones   *validator.PhoneValidator
	cards    *validator.CardValidator
	metrics  *telemetry.Metrics
	tracer   trace.Tracer
	logger   *logrus.Logger
}

// NewBookingService creates a new booking service
func NewBookingService(
	flights *database.FlightRepository,
	hotels *database.HotelRepository,
	cars *database.CarRentalRepository,
	bookings *database.BookingRepository,
	metrics *telemetry.Metrics,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		flights:  flights,
		hotels:   hotels,
		cars:     cars,
		bookings: bookings,
		prices:   NewPriceCalculator(),
		contacts: validator.NewStructValidator(),
		phones:   validator.NewPhoneValidator(),
		cards:    validator.NewCardValidator(),
		metrics:  metrics,
		tracer:   otel.Tracer(telemetry.InstrumentationName),
		logger:   logger,
	}
}

// Prices exposes the calculator for booking pages
func (s *BookingService) Prices() *PriceCalculator {
	return s.prices
}

func (s *BookingService) start(ctx context.Context, name string, category models.Category, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("booking.category", string(category)))
	return s.tracer.Start(ctx, "BookingService."+name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func categoryAttr(category models.Category) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("category", string(category)))
}

// ============================================================================
// AVAILABILITY LOOKUP
// ============================================================================

// Availability reports whether a resource has at least quantity units left.
// For flights it also lists seats already held by confirmed bookings.
// The read is not locked; reservations re-check atomically.
func (s *BookingService) Availability(ctx context.Context, category models.Category, resourceID int64, quantity int) (result *models.AvailabilityResult, err error) {
	ctx, span := s.start(ctx, "Availability", category, attribute.Int64("resource.id", resourceID))
	defer func() { endSpan(span, err) }()

	if quantity < 1 {
		quantity = 1
	}
	result = &models.AvailabilityResult{Category: category, ResourceID: resourceID, Requested: quantity}

	switch category {
	case models.CategoryFlight:
		flight, err := s.flights.GetByID(ctx, resourceID)
		if err != nil {
			return nil, classify(err, "Flight not found")
		}
		seats, err := s.flights.BookedSeats(ctx, resourceID)
		if err != nil {
			return nil, classify(err, "Flight not found")
		}
		result.Count = flight.AvailableSeats
		result.BookedSeats = seats
	case models.CategoryHotel:
		hotel, err := s.hotels.GetByID(ctx, resourceID)
		if err != nil {
			return nil, classify(err, "Hotel not found")
		}
		result.Count = hotel.Availability
	case models.CategoryCar:
		rental, err := s.cars.GetByID(ctx, resourceID)
		if err != nil {
			return nil, classify(err, "Car rental not found")
		}
		result.Count = rental.Availability
	default:
		return nil, validationf("Unknown booking category")
	}

	result.Available = result.Count >= quantity
	return result, nil
}

// ============================================================================
// RESERVATION WRITER
// ============================================================================

// ReserveFlight books one seat per passenger on the outbound flight and, for a
// round trip, on the return flight. Every row is written in one transaction;
// each row carries the fare of its own leg.
func (s *BookingService) ReserveFlight(ctx context.Context, r *models.FlightReservation) (result *models.ReservationResult, err error) {
	ctx, span := s.start(ctx, "ReserveFlight", models.CategoryFlight,
		attribute.Int64("flight.id", r.FlightID),
		attribute.Int64("flight.return_id", r.ReturnFlightID),
		attribute.Int("passengers", len(r.Passengers)),
	)
	defer func() { endSpan(span, err) }()

	if err := s.validateFlightReservation(r); err != nil {
		return nil, err
	}

	outbound, err := s.flights.GetByID(ctx, r.FlightID)
	if err != nil {
		return nil, classify(err, "Flight not found")
	}
	legs := []database.FlightLeg{{FlightID: outbound.ID, Fare: outbound.Price, Seats: r.Seats}}
	fares := []float64{outbound.Price}

	if r.RoundTrip() {
		ret, err := s.flights.GetByID(ctx, r.ReturnFlightID)
		if err != nil {
			return nil, classify(err, "Return flight not found")
		}
		legs = append(legs, database.FlightLeg{FlightID: ret.ID, Fare: ret.Price, Seats: r.ReturnSeats})
		fares = append(fares, ret.Price)
	}

	batch := &database.FlightBookingBatch{
		ReservationRef: uuid.New(),
		UserID:         r.UserID,
		Legs:           legs,
		Passengers:     r.Passengers,
	}

	ids, err := s.bookings.CreateFlightBookings(ctx, batch)
	if err != nil {
		return nil, s.reservationFailed(ctx, models.CategoryFlight, err, msgFlightUnavailable, logrus.Fields{
			"user_id":          r.UserID,
			"flight_id":        r.FlightID,
			"return_flight_id": r.ReturnFlightID,
			"passengers":       len(r.Passengers),
		})
	}

	result = &models.ReservationResult{
		Category:       models.CategoryFlight,
		BookingIDs:     ids,
		ReservationRef: batch.ReservationRef,
		TotalAmount:    s.prices.QuoteFlight(len(r.Passengers), fares...),
	}
	s.reserved(ctx, result, r.UserID)
	return result, nil
}

func (s *BookingService) validateFlightReservation(r *models.FlightReservation) error {
	if len(r.Passengers) == 0 {
		return validationf("At least one passenger is required")
	}
	for i := range r.Passengers {
		if err := s.validateParty(&r.Passengers[i]); err != nil {
			return err
		}
	}
	if len(r.Seats) != len(r.Passengers) {
		return validationf("Number of seats must match number of passengers")
	}
	if err := checkSeats(r.Seats); err != nil {
		return err
	}
	if r.RoundTrip() {
		if r.ReturnFlightID == r.FlightID {
			return validationf("Return flight must differ from the outbound flight")
		}
		if len(r.ReturnSeats) != len(r.Passengers) {
			return validationf("Number of return seats must match number of passengers")
		}
		if err := checkSeats(r.ReturnSeats); err != nil {
			return err
		}
	}
	return nil
}

// seat_number column width
const maxSeatLength = 10

func checkSeats(seats []string) error {
	seen := make(map[string]struct{}, len(seats))
	for _, seat := range seats {
		if seat == "" {
			return validationf("Every passenger needs a seat")
		}
		if len(seat) > maxSeatLength {
			return validationf("Seat %s is not a valid seat", seat)
		}
		if _, dup := seen[seat]; dup {
			return validationf("Seat %s was selected more than once", seat)
		}
		seen[seat] = struct{}{}
	}
	return nil
}

// validateParty trims the contact fields in place and checks them. The phone
// is stored without separators.
func (s *BookingService) validateParty(p *models.PartyMember) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	p.Phone = strings.TrimSpace(p.Phone)

	if p.Name == "" || p.Email == "" || p.Phone == "" {
		return validationf("All fields are required")
	}
	if err := s.contacts.Struct(p); err != nil {
		var fields validator.FieldErrors
		if errors.As(err, &fields) {
			return &ValidationError{Message: "Please check the contact details: " + fields.Error(), Fields: fields}
		}
		return err
	}
	p.Phone = s.phones.Sanitize(p.Phone)
	return nil
}

// ReserveHotel books one room for the stay. Quantity is always one unit of
// inventory regardless of the number of nights.
func (s *BookingService) ReserveHotel(ctx context.Context, r *models.StayReservation) (result *models.ReservationResult, err error) {
	ctx, span := s.start(ctx, "ReserveHotel", models.CategoryHotel, attribute.Int64("hotel.id", r.HotelID))
	defer func() { endSpan(span, err) }()

	if err := s.validateParty(&r.Guest); err != nil {
		return nil, err
	}
	if strings.TrimSpace(r.RoomType) == "" {
		return nil, validationf("All fields are required")
	}

	hotel, err := s.hotels.GetByID(ctx, r.HotelID)
	if err != nil {
		return nil, classify(err, "Hotel not found")
	}

	amount, err := s.prices.QuoteStay(hotel.PricePerNight, r.RoomType, r.CheckIn, r.CheckOut)
	if err != nil {
		return nil, err
	}

	booking := &database.UnitBooking{
		ReservationRef: uuid.New(),
		UserID:         r.UserID,
		ResourceID:     hotel.ID,
		UnitType:       r.RoomType,
		StartDate:      r.CheckIn,
		EndDate:        r.CheckOut,
		Contact:        r.Guest,
		Amount:         amount,
	}

	id, err := s.bookings.CreateHotelBooking(ctx, booking)
	if err != nil {
		return nil, s.reservationFailed(ctx, models.CategoryHotel, err, msgHotelUnavailable, logrus.Fields{
			"user_id":   r.UserID,
			"hotel_id":  r.HotelID,
			"room_type": r.RoomType,
		})
	}

	result = &models.ReservationResult{
		Category:       models.CategoryHotel,
		BookingIDs:     []int64{id},
		ReservationRef: booking.ReservationRef,
		TotalAmount:    amount,
	}
	s.reserved(ctx, result, r.UserID)
	return result, nil
}

// ReserveCar books one car for the rental period
func (s *BookingService) ReserveCar(ctx context.Context, r *models.RentalReservation) (result *models.ReservationResult, err error) {
	ctx, span := s.start(ctx, "ReserveCar", models.CategoryCar, attribute.Int64("rental.id", r.RentalID))
	defer func() { endSpan(span, err) }()

	if err := s.validateParty(&r.Renter); err != nil {
		return nil, err
	}
	if strings.TrimSpace(r.CarType) == "" {
		return nil, validationf("All fields are required")
	}

	rental, err := s.cars.GetByID(ctx, r.RentalID)
	if err != nil {
		return nil, classify(err, "Car rental not found")
	}

	amount, err := s.prices.QuoteRental(rental.PricePerDay, r.CarType, r.PickupDate, r.ReturnDate)
	if err != nil {
		return nil, err
	}

	booking := &database.UnitBooking{
		ReservationRef: uuid.New(),
		UserID:         r.UserID,
		ResourceID:     rental.ID,
		UnitType:       r.CarType,
		StartDate:      r.PickupDate,
		EndDate:        r.ReturnDate,
		Contact:        r.Renter,
		Amount:         amount,
	}

	id, err := s.bookings.CreateCarBooking(ctx, booking)
	if err != nil {
		return nil, s.reservationFailed(ctx, models.CategoryCar, err, msgCarRentalUnavailable, logrus.Fields{
			"user_id":   r.UserID,
			"rental_id": r.RentalID,
			"car_type":  r.CarType,
		})
	}

	result = &models.ReservationResult{
		Category:       models.CategoryCar,
		BookingIDs:     []int64{id},
		ReservationRef: booking.ReservationRef,
		TotalAmount:    amount,
	}
	s.reserved(ctx, result, r.UserID)
	return result, nil
}

func (s *BookingService) reserved(ctx context.Context, result *models.ReservationResult, userID int64) {
	s.metrics.Reservations.Add(ctx, 1, categoryAttr(result.Category))
	s.metrics.BookingRows.Add(ctx, int64(len(result.BookingIDs)), categoryAttr(result.Category))

	s.logger.WithFields(logrus.Fields{
		"category":        result.Category,
		"user_id":         userID,
		"booking_ids":     result.BookingIDs,
		"reservation_ref": result.ReservationRef,
		"total_amount":    result.TotalAmount,
	}).Info("Reservation created")
}

func (s *BookingService) reservationFailed(ctx context.Context, category models.Category, err error, unavailable string, fields logrus.Fields) error {
	classified := classify(err, unavailable)
	fields["category"] = category

	var conflict *ConflictError
	var missing *NotFoundError
	switch {
	case errors.As(classified, &conflict):
		s.metrics.SeatConflicts.Add(ctx, 1, categoryAttr(category))
		fields["seat"] = conflict.Seat
		s.logger.WithFields(fields).Warn("Reservation refused: seat taken")
	case errors.As(classified, &missing):
		s.metrics.SoldOut.Add(ctx, 1, categoryAttr(category))
		s.logger.WithFields(fields).Warn("Reservation refused: no inventory")
	default:
		fields["error"] = err.Error()
		s.logger.WithFields(fields).Error("Reservation failed")
	}

	if classified == err {
		return fmt.Errorf("failed to create %s reservation: %w", category.Label(), err)
	}
	return classified
}

// ============================================================================
// PAYMENT FINALIZER
// ============================================================================

// PaymentResult describes a completed payment transition
type PaymentResult struct {
	BookingID  int64
	RowsPaid   int64
	MaskedCard string
}

// Pay checks the card format and moves the reservation containing bookingID
// from Pending to Paid. No card is authorized or stored. Paying twice fails.
func (s *BookingService) Pay(ctx context.Context, category models.Category, bookingID, userID int64, card models.CardSubmission) (result *PaymentResult, err error) {
	ctx, span := s.start(ctx, "Pay", category, attribute.Int64("booking.id", bookingID))
	defer func() { endSpan(span, err) }()

	input := validator.CardInput{
		Number:     card.CardNumber,
		Expiry:     card.ExpiryDate,
		CVV:        card.CVV,
		HolderName: card.CardholderName,
	}
	if err := s.cards.Validate(input); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	rows, err := s.bookings.MarkPaid(ctx, category, bookingID, userID)
	if err != nil {
		return nil, classify(err, msgAlreadyPaid)
	}
	if rows == 0 {
		s.logger.WithFields(logrus.Fields{
			"category":   category,
			"booking_id": bookingID,
			"user_id":    userID,
		}).Warn("Payment refused: nothing payable")
		return nil, &AlreadyProcessedError{Message: msgAlreadyPaid}
	}

	s.metrics.Payments.Add(ctx, rows, categoryAttr(category))
	result = &PaymentResult{
		BookingID:  bookingID,
		RowsPaid:   rows,
		MaskedCard: s.cards.Mask(card.CardNumber),
	}

	s.logger.WithFields(logrus.Fields{
		"category":   category,
		"booking_id": bookingID,
		"user_id":    userID,
		"rows_paid":  rows,
		"card":       result.MaskedCard,
	}).Info("Payment finalized")

	return result, nil
}

// ============================================================================
// CANCELLATION HANDLER
// ============================================================================

// Cancel moves a booking to Cancelled. A paid booking returns one unit to
// inventory; an unpaid booking does not. Cancelling a cancelled booking is
// reported in the outcome, not as an error.
func (s *BookingService) Cancel(ctx context.Context, category models.Category, bookingID, userID int64) (outcome *models.CancelOutcome, err error) {
	ctx, span := s.start(ctx, "Cancel", category, attribute.Int64("booking.id", bookingID))
	defer func() { endSpan(span, err) }()

	outcome, err = s.bookings.Cancel(ctx, category, bookingID, userID)
	if err != nil {
		return nil, classify(err, msgBookingNotFound)
	}

	fields := logrus.Fields{
		"category":           category,
		"booking_id":         bookingID,
		"user_id":            userID,
		"inventory_restored": outcome.InventoryRestored,
	}
	if outcome.AlreadyCancelled {
		s.logger.WithFields(fields).Info("Cancellation ignored: already cancelled")
		return outcome, nil
	}

	s.metrics.Cancellations.Add(ctx, 1, categoryAttr(category),
		metric.WithAttributes(attribute.Bool("inventory_restored", outcome.InventoryRestored)))
	s.logger.WithFields(fields).Info("Booking cancelled")
	return outcome, nil
}

// ============================================================================
// READS
// ============================================================================

// GetFlight loads a flight for its booking page
func (s *BookingService) GetFlight(ctx context.Context, id int64) (*models.Flight, error) {
	flight, err := s.flights.GetByID(ctx, id)
	if err != nil {
		return nil, classify(err, "Flight not found")
	}
	return flight, nil
}

// GetHotel loads a hotel for its booking page
func (s *BookingService) GetHotel(ctx context.Context, id int64) (*models.Hotel, error) {
	hotel, err := s.hotels.GetByID(ctx, id)
	if err != nil {
		return nil, classify(err, "Hotel not found")
	}
	return hotel, nil
}

// GetCarRental loads a car rental location for its booking page
func (s *BookingService) GetCarRental(ctx context.Context, id int64) (*models.CarRental, error) {
	rental, err := s.cars.GetByID(ctx, id)
	if err != nil {
		return nil, classify(err, "Car rental not found")
	}
	return rental, nil
}

// GetBooking returns a booking owned by userID
func (s *BookingService) GetBooking(ctx context.Context, category models.Category, bookingID, userID int64) (*models.Booking, error) {
	booking, err := s.bookings.GetBooking(ctx, category, bookingID, userID)
	if err != nil {
		return nil, classify(err, msgBookingNotFound)
	}
	return booking, nil
}

// PaymentSummary is what the payment page shows for one reservation
type PaymentSummary struct {
	Primary     *models.Booking
	Rows        []models.Booking
	TotalAmount float64
}

// PaymentDetails loads the payable rows of the reservation containing bookingID.
// It fails when the booking is not payable any more.
func (s *BookingService) PaymentDetails(ctx context.Context, category models.Category, bookingID, userID int64) (*PaymentSummary, error) {
	primary, err := s.bookings.GetBooking(ctx, category, bookingID, userID)
	if err != nil {
		return nil, classify(err, msgPaymentNotAvailable)
	}
	if !primary.Payable() {
		return nil, notFound(msgPaymentNotAvailable)
	}

	rows, err := s.bookings.ListByReservation(ctx, category, primary.ReservationRef, userID)
	if err != nil {
		return nil, classify(err, msgPaymentNotAvailable)
	}

	summary := &PaymentSummary{Primary: primary}
	for _, b := range rows {
		if b.Payable() {
			summary.Rows = append(summary.Rows, b)
			summary.TotalAmount += b.TotalAmount
		}
	}
	summary.TotalAmount = RoundCurrency(summary.TotalAmount)
	return summary, nil
}

// ListUserBookings groups a customer's bookings by category for the dashboard
func (s *BookingService) ListUserBookings(ctx context.Context, userID int64) (*models.UserBookings, error) {
	out := &models.UserBookings{}
	targets := map[models.Category]*[]models.Booking{
		models.CategoryFlight: &out.Flights,
		models.CategoryHotel:  &out.Hotels,
		models.CategoryCar:    &out.Cars,
	}

	for _, category := range models.Categories {
		rows, err := s.bookings.ListByUser(ctx, category, userID)
		if err != nil {
			return nil, classify(err, msgBookingNotFound)
		}
		*targets[category] = rows
	}
	return out, nil
}
