package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/airplanned/booking-backend/internal/middleware"
	"github.com/airplanned/booking-backend/internal/models"
	"github.com/airplanned/booking-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const maxPassengers = 9

// BookingHandler serves booking pages, payments, the customer dashboard and cancellations
type BookingHandler struct {
	auditor
	bookings *services.BookingService
	logger   *logrus.Logger
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookings *services.BookingService, auditService *services.AuditService, logger *logrus.Logger) *BookingHandler {
	return &BookingHandler{
		auditor:  auditor{audit: auditService, logger: logger},
		bookings: bookings,
		logger:   logger,
	}
}

// ============================================================================
// FLIGHTS
// ============================================================================

// BookFlightPage handles GET /book/:flight_id
func (h *BookingHandler) BookFlightPage(c *gin.Context) {
	ctx := c.Request.Context()

	flightID, ok := pathID(c, "flight_id")
	if !ok {
		redirectWithFlash(c, middleware.FlashError, "Flight not found", "/search_flights")
		return
	}

	passengers, _ := strconv.Atoi(c.Query("passengers"))
	if passengers < 1 {
		passengers = 1
	}
	if passengers > maxPassengers {
		passengers = maxPassengers
	}
	tripType := c.DefaultQuery("trip_type", "one-way")
	returnID, _ := strconv.ParseInt(c.Query("return_flight_id"), 10, 64)
	if tripType == "round-trip" && returnID <= 0 {
		redirectWithFlash(c, middleware.FlashError, "Please select a return flight", "/search_flights")
		return
	}

	flight, err := h.bookings.GetFlight(ctx, flightID)
	if err != nil {
		handleError(c, h.logger, err, "/search_flights")
		return
	}
	seats, err := h.bookings.Availability(ctx, models.CategoryFlight, flightID, passengers)
	if err != nil {
		handleError(c, h.logger, err, "/search_flights")
		return
	}
	if !seats.Available {
		redirectWithFlash(c, middleware.FlashError, "Not enough seats available on this flight", "/search_flights")
		return
	}

	data := gin.H{
		"Title":    "Book flight",
		"Flight":   flight,
		"Seats":    seats,
		"TripType": tripType,
	}
	fares := []float64{flight.Price}

	if tripType == "round-trip" {
		ret, err := h.bookings.GetFlight(ctx, returnID)
		if err != nil {
			handleError(c, h.logger, err, "/search_flights")
			return
		}
		returnSeats, err := h.bookings.Availability(ctx, models.CategoryFlight, returnID, passengers)
		if err != nil {
			handleError(c, h.logger, err, "/search_flights")
			return
		}
		if !returnSeats.Available {
			redirectWithFlash(c, middleware.FlashError, "Not enough seats available on the return flight", "/search_flights")
			return
		}
		data["Return"], data["ReturnSeats"] = ret, returnSeats
		fares = append(fares, ret.Price)
	}

	slots := make([]int, passengers)
	for i := range slots {
		slots[i] = i
	}
	data["PassengerSlots"] = slots
	data["Total"] = h.bookings.Prices().QuoteFlight(passengers, fares...)

	render(c, http.StatusOK, "book_flight.html", data)
}

// ConfirmFlight handles POST /confirm_booking
func (h *BookingHandler) ConfirmFlight(c *gin.Context) {
	ctx := c.Request.Context()
	session := middleware.GetSession(c)

	var form models.FlightBookingForm
	if err := c.ShouldBind(&form); err != nil {
		redirectWithFlash(c, middleware.FlashError, bindingMessage(err), "/search_flights")
		return
	}
	back := flightFormPath(&form)

	reservation, err := services.FlightReservationFromForm(session.UserID, &form)
	if err != nil {
		handleError(c, h.logger, err, back)
		return
	}

	result, err := h.bookings.ReserveFlight(ctx, reservation)
	if err != nil {
		handleError(c, h.logger, err, back)
		return
	}

	h.reserved(c, session.UserID, result)
}

func flightFormPath(form *models.FlightBookingForm) string {
	if form.FlightID == 0 {
		return "/search_flights"
	}
	q := url.Values{}
	q.Set("passengers", strconv.Itoa(len(form.PassengerNames)))
	if form.TripType != "" {
		q.Set("trip_type", form.TripType)
	}
	if form.ReturnFlightID != 0 {
		q.Set("return_flight_id", strconv.FormatInt(form.ReturnFlightID, 10))
	}
	return fmt.Sprintf("/book/%d?%s", form.FlightID, q.Encode())
}

// ============================================================================
// HOTELS
// ============================================================================

// BookHotelPage handles GET /book_hotel/:hotel_id
func (h *BookingHandler) BookHotelPage(c *gin.Context) {
	hotelID, ok := pathID(c, "hotel_id")
	if !ok {
		redirectWithFlash(c, middleware.FlashError, "Hotel not found", "/hotels")
		return
	}

	hotel, err := h.bookings.GetHotel(c.Request.Context(), hotelID)
	if err != nil {
		handleError(c, h.logger, err, "/hotels")
		return
	}
	if hotel.Availability < 1 {
		redirectWithFlash(c, middleware.FlashError, "No rooms available at this hotel", "/hotels")
		return
	}

	render(c, http.StatusOK, "book_hotel.html", gin.H{
		"Title":  "Book hotel",
		"Hotel":  hotel,
		"Prices": h.bookings.Prices().RoomPrices(hotel.PricePerNight),
	})
}

// ConfirmHotel handles POST /confirm_hotel_booking
func (h *BookingHandler) ConfirmHotel(c *gin.Context) {
	session := middleware.GetSession(c)

	var form models.HotelBookingForm
	if err := c.ShouldBind(&form); err != nil {
		redirectWithFlash(c, middleware.FlashError, bindingMessage(err), "/hotels")
		return
	}
	back := fmt.Sprintf("/book_hotel/%d", form.HotelID)

	reservation, err := services.StayReservationFromForm(session.UserID, &form)
	if err != nil {
		handleError(c, h.logger, err, back)
		return
	}

	result, err := h.bookings.ReserveHotel(c.Request.Context(), reservation)
	if err != nil {
		handleError(c, h.logger, err, back)
		return
	}

	h.reserved(c, session.UserID, result)
}

// ============================================================================
// CARS
// ============================================================================

// BookCarPage handles GET /book_car/:rental_id
func (h *BookingHandler) BookCarPage(c *gin.Context) {
	rentalID, ok := pathID(c, "rental_id")
	if !ok {
		redirectWithFlash(c, middleware.FlashError, "Car rental not found", "/cars")
		return
	}

	rental, err := h.bookings.GetCarRental(c.Request.Context(), rentalID)
	if err != nil {
		handleError(c, h.logger, err, "/cars")
		return
	}
	if rental.Availability < 1 {
		redirectWithFlash(c, middleware.FlashError, "No cars available at this location", "/cars")
		return
	}

	render(c, http.StatusOK, "book_car.html", gin.H{
		"Title":  "Rent a car",
		"Rental": rental,
		"Prices": h.bookings.Prices().CarPrices(rental.PricePerDay, rental.CarTypeList()),
	})
}

// ConfirmCar handles POST /confirm_car_booking
func (h *BookingHandler) ConfirmCar(c *gin.Context) {
	session := middleware.GetSession(c)

	var form models.CarBookingForm
	if err := c.ShouldBind(&form); err != nil {
		redirectWithFlash(c, middleware.FlashError, bindingMessage(err), "/cars")
		return
	}
	back := fmt.Sprintf("/book_car/%d", form.RentalID)

	reservation, err := services.RentalReservationFromForm(session.UserID, &form)
	if err != nil {
		handleError(c, h.logger, err, back)
		return
	}

	result, err := h.bookings.ReserveCar(c.Request.Context(), reservation)
	if err != nil {
		handleError(c, h.logger, err, back)
		return
	}

	h.reserved(c, session.UserID, result)
}

func (h *BookingHandler) reserved(c *gin.Context, userID int64, result *models.ReservationResult) {
	h.safeLogReservation(c.Request.Context(), userID, result, requestMeta(c))
	redirectWithFlash(c, middleware.FlashSuccess,
		fmt.Sprintf("Booking confirmed! Total %s. Please complete payment.", formatMoney(result.TotalAmount)),
		fmt.Sprintf("/payment/%s/%d", result.Category, result.PrimaryID()))
}

// ============================================================================
// PAYMENT
// ============================================================================

// PaymentPage handles GET /payment/:category/:id
func (h *BookingHandler) PaymentPage(c *gin.Context) {
	category, bookingID, ok := h.bookingPath(c)
	if !ok {
		return
	}

	summary, err := h.bookings.PaymentDetails(c.Request.Context(), category, bookingID, middleware.GetSession(c).UserID)
	if err != nil {
		handleError(c, h.logger, err, "/dashboard")
		return
	}

	render(c, http.StatusOK, "payment.html", gin.H{
		"Title":    "Payment",
		"Category": category,
		"Summary":  summary,
	})
}

// ProcessPayment handles POST /payment/:category/:id
func (h *BookingHandler) ProcessPayment(c *gin.Context) {
	category, bookingID, ok := h.bookingPath(c)
	if !ok {
		return
	}
	userID := middleware.GetSession(c).UserID
	back := fmt.Sprintf("/payment/%s/%d", category, bookingID)

	var card models.CardSubmission
	if err := c.ShouldBind(&card); err != nil {
		redirectWithFlash(c, middleware.FlashError, bindingMessage(err), back)
		return
	}

	result, err := h.bookings.Pay(c.Request.Context(), category, bookingID, userID, card)
	if err != nil {
		fallback := back
		var processed *services.AlreadyProcessedError
		if errors.As(err, &processed) {
			fallback = "/dashboard"
		}
		handleError(c, h.logger, err, fallback)
		return
	}

	h.safeLogPayment(c.Request.Context(), userID, category, result, requestMeta(c))
	redirectWithFlash(c, middleware.FlashSuccess, "Payment successful!",
		fmt.Sprintf("/payment_success/%s/%d", category, bookingID))
}

// PaymentSuccess handles GET /payment_success/:category/:id
func (h *BookingHandler) PaymentSuccess(c *gin.Context) {
	category, bookingID, ok := h.bookingPath(c)
	if !ok {
		return
	}

	booking, err := h.bookings.GetBooking(c.Request.Context(), category, bookingID, middleware.GetSession(c).UserID)
	if err != nil {
		handleError(c, h.logger, err, "/dashboard")
		return
	}

	render(c, http.StatusOK, "payment_success.html", gin.H{
		"Title":   "Payment received",
		"Booking": booking,
	})
}

// ============================================================================
// DASHBOARD & CANCELLATION
// ============================================================================

type bookingSection struct {
	Title    string
	Bookings []models.Booking
}

// Dashboard handles GET /dashboard
func (h *BookingHandler) Dashboard(c *gin.Context) {
	bookings, err := h.bookings.ListUserBookings(c.Request.Context(), middleware.GetSession(c).UserID)
	if err != nil {
		handleError(c, h.logger, err, "/")
		return
	}

	render(c, http.StatusOK, "dashboard.html", gin.H{
		"Title": "My bookings",
		"Sections": []bookingSection{
			{Title: "Flights", Bookings: bookings.Flights},
			{Title: "Hotels", Bookings: bookings.Hotels},
			{Title: "Car rentals", Bookings: bookings.Cars},
		},
	})
}

// CancelBooking handles POST /cancel_booking/:category/:id
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	category, bookingID, ok := h.bookingPath(c)
	if !ok {
		return
	}
	userID := middleware.GetSession(c).UserID

	outcome, err := h.bookings.Cancel(c.Request.Context(), category, bookingID, userID)
	if err != nil {
		handleError(c, h.logger, err, "/dashboard")
		return
	}

	if outcome.AlreadyCancelled {
		redirectWithFlash(c, middleware.FlashInfo, "Booking is already cancelled", "/dashboard")
		return
	}

	h.safeLogCancellation(c.Request.Context(), userID, category, outcome, requestMeta(c))
	redirectWithFlash(c, middleware.FlashSuccess, "Booking cancelled successfully", "/dashboard")
}

// bookingPath reads :category and :id, redirecting to the dashboard when either is malformed
func (h *BookingHandler) bookingPath(c *gin.Context) (models.Category, int64, bool) {
	category, ok := pathCategory(c)
	if !ok {
		redirectWithFlash(c, middleware.FlashError, "Booking not found", "/dashboard")
		return "", 0, false
	}
	id, ok := pathID(c, "id")
	if !ok {
		redirectWithFlash(c, middleware.FlashError, "Booking not found", "/dashboard")
		return "", 0, false
	}
	return category, id, true
}
