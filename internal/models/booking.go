package models

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the lifecycle status of a booking
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "Confirmed"
	BookingStatusCancelled BookingStatus = "Cancelled"
)

// PaymentStatus represents the payment status of a booking
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "Pending"
	PaymentStatusPaid    PaymentStatus = "Paid"
)

// Booking is one reserved unit of inventory: a seat on a flight, a hotel room
// for a date range, or a rental car for a date range.
type Booking struct {
	ID             int64         `json:"booking_id" db:"booking_id"`
	Category       Category      `json:"category" db:"category"`
	ReservationRef uuid.UUID     `json:"reservation_ref" db:"reservation_ref"`
	UserID         int64         `json:"user_id" db:"user_id"`
	ResourceID     int64         `json:"resource_id" db:"resource_id"`
	ResourceName   string        `json:"resource_name" db:"resource_name"`
	ContactName    string        `json:"contact_name" db:"contact_name"`
	ContactEmail   string        `json:"contact_email" db:"contact_email"`
	ContactPhone   string        `json:"contact_phone" db:"contact_phone"`
	SeatNumber     NullString    `json:"seat_number" db:"seat_number"`
	UnitType       NullString    `json:"unit_type" db:"unit_type"` // room type or car type
	StartDate      NullTime      `json:"start_date" db:"start_date"`
	EndDate        NullTime      `json:"end_date" db:"end_date"`
	TotalAmount    float64       `json:"total_amount" db:"total_amount"`
	BookingStatus  BookingStatus `json:"booking_status" db:"booking_status"`
	PaymentStatus  PaymentStatus `json:"payment_status" db:"payment_status"`
	BookingDate    time.Time     `json:"booking_date" db:"booking_date"`
	PaymentDate    NullTime      `json:"payment_date" db:"payment_date"`
}

// IsCancelled reports whether the booking has reached a terminal state
func (b *Booking) IsCancelled() bool {
	return b.BookingStatus == BookingStatusCancelled
}

// IsPaid reports whether the payment transition has happened
func (b *Booking) IsPaid() bool {
	return b.PaymentStatus == PaymentStatusPaid
}

// Payable reports whether the booking can still be paid
func (b *Booking) Payable() bool {
	return b.BookingStatus == BookingStatusConfirmed && b.PaymentStatus == PaymentStatusPending
}

// PartyMember holds the contact details of one traveller, guest or renter
type PartyMember struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"required,email,max=254"`
	Phone string `json:"phone" validate:"required,contact_phone"`
}

// FlightReservation requests one seat per passenger on one or two legs.
// ReturnFlightID is zero for a one-way trip.
type FlightReservation struct {
	UserID         int64
	FlightID       int64
	ReturnFlightID int64
	Seats          []string
	ReturnSeats    []string
	Passengers     []PartyMember
}

// RoundTrip reports whether a return leg was requested
func (r *FlightReservation) RoundTrip() bool {
	return r.ReturnFlightID != 0
}

// StayReservation requests one hotel room for a date range
type StayReservation struct {
	UserID   int64
	HotelID  int64
	CheckIn  time.Time
	CheckOut time.Time
	RoomType string
	Guest    PartyMember
}

// RentalReservation requests one rental car for a date range
type RentalReservation struct {
	UserID     int64
	RentalID   int64
	PickupDate time.Time
	ReturnDate time.Time
	CarType    string
	Renter     PartyMember
}

// ReservationResult lists the bookings written by one reservation request, in insertion order
type ReservationResult struct {
	Category       Category  `json:"category"`
	BookingIDs     []int64   `json:"booking_ids"`
	ReservationRef uuid.UUID `json:"reservation_ref"`
	TotalAmount    float64   `json:"total_amount"`
}

// PrimaryID is the booking the customer is routed to for payment
func (r *ReservationResult) PrimaryID() int64 {
	if len(r.BookingIDs) == 0 {
		return 0
	}
	return r.BookingIDs[0]
}

// CardSubmission is the payment form. Card data is format checked and never stored.
type CardSubmission struct {
	CardNumber     string `form:"card_number"`
	ExpiryDate     string `form:"expiry_date"`
	CVV            string `form:"cvv"`
	CardholderName string `form:"cardholder_name"`
}

// CancelOutcome describes the effect of a cancellation request
type CancelOutcome struct {
	BookingID         int64 `json:"booking_id"`
	AlreadyCancelled  bool  `json:"already_cancelled"`
	InventoryRestored bool  `json:"inventory_restored"`
}

// UserBookings groups a customer's bookings for the dashboard
type UserBookings struct {
	Flights []Booking `json:"flights"`
	Hotels  []Booking `json:"hotels"`
	Cars    []Booking `json:"cars"`
}

// FlightBookingForm is the posted flight booking form. Seat lists are comma separated.
type FlightBookingForm struct {
	TripType        string   `form:"trip_type"`
	FlightID        int64    `form:"flight_id"`
	ReturnFlightID  int64    `form:"return_flight_id"`
	Seats           string   `form:"selected_seats"`
	ReturnSeats     string   `form:"return_selected_seats"`
	PassengerNames  []string `form:"passenger_name[]"`
	PassengerEmails []string `form:"passenger_email[]"`
	PassengerPhones []string `form:"passenger_phone[]"`
}

// HotelBookingForm is the posted hotel booking form
type HotelBookingForm struct {
	HotelID      int64  `form:"hotel_id"`
	CheckInDate  string `form:"check_in_date"`
	CheckOutDate string `form:"check_out_date"`
	RoomType     string `form:"room_type"`
	GuestName    string `form:"guest_name"`
	GuestEmail   string `form:"guest_email"`
	GuestPhone   string `form:"guest_phone"`
}

// CarBookingForm is the posted car booking form
type CarBookingForm struct {
	RentalID    int64  `form:"rental_id"`
	PickupDate  string `form:"pickup_date"`
	ReturnDate  string `form:"return_date"`
	CarType     string `form:"car_type"`
	RenterName  string `form:"renter_name"`
	RenterEmail string `form:"renter_email"`
	RenterPhone string `form:"renter_phone"`
}
