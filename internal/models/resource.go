package models

import (
	"fmt"
	"strings"
	"time"
)

// Category identifies an inventory resource variant
type Category string

const (
	CategoryFlight Category = "flight"
	CategoryHotel  Category = "hotel"
	CategoryCar    Category = "car"
)

// Categories lists every resource category in display order
var Categories = []Category{CategoryFlight, CategoryHotel, CategoryCar}

// ParseCategory converts a path segment into a Category
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown category: %q", s)
	}
	return c, nil
}

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	switch c {
	case CategoryFlight, CategoryHotel, CategoryCar:
		return true
	}
	return false
}

// Label returns the human readable name used in messages
func (c Category) Label() string {
	switch c {
	case CategoryFlight:
		return "flight"
	case CategoryHotel:
		return "hotel"
	case CategoryCar:
		return "car rental"
	}
	return string(c)
}

// Flight is a scheduled flight with a seat inventory
type Flight struct {
	ID                 int64     `json:"flight_id" db:"flight_id"`
	FlightNumber       string    `json:"flight_number" db:"flight_number"`
	OriginCountry      string    `json:"origin_country" db:"origin_country"`
	DestinationCountry string    `json:"destination_country" db:"destination_country"`
	OriginAirport      string    `json:"origin_airport" db:"origin_airport"`
	DestinationAirport string    `json:"destination_airport" db:"destination_airport"`
	DepartureDate      time.Time `json:"departure_date" db:"departure_date"`
	DepartureTime      string    `json:"departure_time" db:"departure_time"` // HH:MM
	ArrivalTime        string    `json:"arrival_time" db:"arrival_time"`     // HH:MM
	AircraftType       string    `json:"aircraft_type" db:"aircraft_type"`
	TotalSeats         int       `json:"total_seats" db:"total_seats"`
	AvailableSeats     int       `json:"available_seats" db:"available_seats"`
	Price              float64   `json:"price" db:"price"`
	Airline            string    `json:"airline" db:"airline"`
}

// Hotel is a hotel with a room inventory
type Hotel struct {
	ID            int64   `json:"hotel_id" db:"hotel_id"`
	Name          string  `json:"hotel_name" db:"hotel_name"`
	Location      string  `json:"location" db:"location"`
	StarRating    int     `json:"star_rating" db:"star_rating"`
	Amenities     string  `json:"amenities" db:"amenities"`
	ContactInfo   string  `json:"contact_info" db:"contact_info"`
	PricePerNight float64 `json:"price_per_night" db:"price_per_night"`
	Availability  int     `json:"availability" db:"availability"`
}

// AmenityList splits the comma separated amenities column
func (h Hotel) AmenityList() []string {
	return splitList(h.Amenities)
}

// CarRental is a rental company location with a car inventory
type CarRental struct {
	ID           int64   `json:"rental_id" db:"rental_id"`
	CompanyName  string  `json:"company_name" db:"company_name"`
	Location     string  `json:"location" db:"location"`
	CarTypes     string  `json:"car_types" db:"car_types"`
	Availability int     `json:"availability" db:"availability"`
	ContactInfo  string  `json:"contact_info" db:"contact_info"`
	PricePerDay  float64 `json:"price_per_day" db:"price_per_day"`
}

// CarTypeList splits the comma separated car_types column
func (c CarRental) CarTypeList() []string {
	return splitList(c.CarTypes)
}

// AvailabilityResult answers whether a resource can take a reservation of the requested size
type AvailabilityResult struct {
	Category    Category `json:"category"`
	ResourceID  int64    `json:"resource_id"`
	Requested   int      `json:"requested"`
	Count       int      `json:"count"`
	Available   bool     `json:"available"`
	BookedSeats []string `json:"booked_seats,omitempty"`
}

// SeatTaken reports whether seat is held by a confirmed booking
func (a *AvailabilityResult) SeatTaken(seat string) bool {
	for _, s := range a.BookedSeats {
		if s == seat {
			return true
		}
	}
	return false
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
