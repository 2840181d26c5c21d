package services

import (
	"strings"
	"time"

	"github.com/airplanned/booking-backend/internal/models"
)

// DateLayout is the HTML date input format
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD form value
func ParseDate(value, field string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, validationf("All fields are required")
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, validationf("Invalid %s", field)
	}
	return t, nil
}

// SplitSeats turns "1A, 1B" into ["1A", "1B"]
func SplitSeats(value string) []string {
	var seats []string
	for _, s := range strings.Split(value, ",") {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			seats = append(seats, s)
		}
	}
	return seats
}

// FlightReservationFromForm builds a flight reservation from the booking form.
// Passenger rows that are entirely blank are skipped.
func FlightReservationFromForm(userID int64, form *models.FlightBookingForm) (*models.FlightReservation, error) {
	if form.FlightID == 0 {
		return nil, validationf("All fields are required")
	}

	r := &models.FlightReservation{
		UserID:   userID,
		FlightID: form.FlightID,
		Seats:    SplitSeats(form.Seats),
	}
	if form.TripType == "round-trip" {
		if form.ReturnFlightID == 0 {
			return nil, validationf("Please select a return flight")
		}
		r.ReturnFlightID = form.ReturnFlightID
		r.ReturnSeats = SplitSeats(form.ReturnSeats)
	}

	n := len(form.PassengerNames)
	if len(form.PassengerEmails) != n || len(form.PassengerPhones) != n {
		return nil, validationf("All fields are required")
	}
	for i := 0; i < n; i++ {
		p := models.PartyMember{
			Name:  strings.TrimSpace(form.PassengerNames[i]),
			Email: strings.TrimSpace(form.PassengerEmails[i]),
			Phone: strings.TrimSpace(form.PassengerPhones[i]),
		}
		if p.Name == "" && p.Email == "" && p.Phone == "" {
			continue
		}
		r.Passengers = append(r.Passengers, p)
	}
	if len(r.Passengers) == 0 {
		return nil, validationf("All fields are required")
	}
	return r, nil
}

// StayReservationFromForm builds a hotel reservation from the booking form
func StayReservationFromForm(userID int64, form *models.HotelBookingForm) (*models.StayReservation, error) {
	checkIn, err := ParseDate(form.CheckInDate, "check-in date")
	if err != nil {
		return nil, err
	}
	checkOut, err := ParseDate(form.CheckOutDate, "check-out date")
	if err != nil {
		return nil, err
	}
	return &models.StayReservation{
		UserID:   userID,
		HotelID:  form.HotelID,
		CheckIn:  checkIn,
		CheckOut: checkOut,
		RoomType: strings.TrimSpace(form.RoomType),
		Guest: models.PartyMember{
			Name:  form.GuestName,
			Email: form.GuestEmail,
			Phone: form.GuestPhone,
		},
	}, nil
}

// RentalReservationFromForm builds a car reservation from the booking form
func RentalReservationFromForm(userID int64, form *models.CarBookingForm) (*models.RentalReservation, error) {
	pickup, err := ParseDate(form.PickupDate, "pickup date")
	if err != nil {
		return nil, err
	}
	dropoff, err := ParseDate(form.ReturnDate, "return date")
	if err != nil {
		return nil, err
	}
	return &models.RentalReservation{
		UserID:     userID,
		RentalID:   form.RentalID,
		PickupDate: pickup,
		ReturnDate: dropoff,
		CarType:    strings.TrimSpace(form.CarType),
		Renter: models.PartyMember{
			Name:  form.RenterName,
			Email: form.RenterEmail,
			Phone: form.RenterPhone,
		},
	}, nil
}
