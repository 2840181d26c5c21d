package models

import "time"

// FlightSearch holds the optional flight search filters.
// Zero values mean "not filtered".
type FlightSearch struct {
	TripType           string `form:"trip_type"`
	OriginCountry      string `form:"origin"`
	DestinationCountry string `form:"destination"`
	DepartureDate      string `form:"departure_date"` // YYYY-MM-DD
	ReturnDate         string `form:"return_date"`    // YYYY-MM-DD, round-trip only
	Passengers         int    `form:"passengers"`
	MinPrice           string `form:"min_price"`
	MaxPrice           string `form:"max_price"`
}

// RoundTrip reports whether return flights should be searched
func (s *FlightSearch) RoundTrip() bool {
	return s.TripType == "round-trip"
}

// HotelSearch holds the optional hotel search filters
type HotelSearch struct {
	Location   string `form:"location"`
	StarRating int    `form:"star_rating"`
	MinPrice   string `form:"min_price"`
	MaxPrice   string `form:"max_price"`
}

// CarSearch holds the optional car rental search filters
type CarSearch struct {
	Location string `form:"location"`
	CarType  string `form:"car_type"`
}

// FlightSearchResult carries outbound and, for round trips, return flights
type FlightSearchResult struct {
	Outbound []Flight `json:"outbound"`
	Return   []Flight `json:"return,omitempty"`
}

// GlobalSearchResult is the admin cross-table search result
type GlobalSearchResult struct {
	Query   string      `json:"query"`
	Flights []Flight    `json:"flights"`
	Hotels  []Hotel     `json:"hotels"`
	Cars    []CarRental `json:"cars"`
}

// Total returns the number of matches across all tables
func (r *GlobalSearchResult) Total() int {
	return len(r.Flights) + len(r.Hotels) + len(r.Cars)
}

// DashboardStats are the admin dashboard counters
type DashboardStats struct {
	ActiveFlights        int     `json:"active_flights" db:"active_flights"`
	ActiveHotels         int     `json:"active_hotels" db:"active_hotels"`
	ActiveCars           int     `json:"active_cars" db:"active_cars"`
	TotalUsers           int     `json:"total_users" db:"total_users"`
	ConfirmedFlightBooks int     `json:"confirmed_flight_bookings" db:"confirmed_flight_bookings"`
	ConfirmedHotelBooks  int     `json:"confirmed_hotel_bookings" db:"confirmed_hotel_bookings"`
	ConfirmedCarBooks    int     `json:"confirmed_car_bookings" db:"confirmed_car_bookings"`
	FlightRevenueLast30d float64 `json:"flight_revenue_30d" db:"flight_revenue_30d"`
}

// FlightForm is the admin add/edit flight form
type FlightForm struct {
	FlightNumber       string  `form:"flight_number" binding:"required,max=20"`
	OriginCountry      string  `form:"origin_country" binding:"required"`
	DestinationCountry string  `form:"destination_country" binding:"required"`
	OriginAirport      string  `form:"origin_airport" binding:"required"`
	DestinationAirport string  `form:"destination_airport" binding:"required"`
	DepartureDate      string  `form:"departure_date" binding:"required,datetime=2006-01-02"`
	DepartureTime      string  `form:"departure_time" binding:"required,datetime=15:04"`
	ArrivalTime        string  `form:"arrival_time" binding:"required,datetime=15:04"`
	AircraftType       string  `form:"aircraft_type" binding:"required"`
	TotalSeats         int     `form:"total_seats" binding:"required,gt=0"`
	AvailableSeats     int     `form:"available_seats" binding:"gte=0,ltefield=TotalSeats"`
	Price              float64 `form:"price" binding:"gte=0"`
	Airline            string  `form:"airline" binding:"required"`
}

// ToFlight converts the form into a Flight record
func (f *FlightForm) ToFlight() (*Flight, error) {
	date, err := time.Parse("2006-01-02", f.DepartureDate)
	if err != nil {
		return nil, err
	}
	return &Flight{
		FlightNumber:       f.FlightNumber,
		OriginCountry:      f.OriginCountry,
		DestinationCountry: f.DestinationCountry,
		OriginAirport:      f.OriginAirport,
		DestinationAirport: f.DestinationAirport,
		DepartureDate:      date,
		DepartureTime:      f.DepartureTime,
		ArrivalTime:        f.ArrivalTime,
		AircraftType:       f.AircraftType,
		TotalSeats:         f.TotalSeats,
		AvailableSeats:     f.AvailableSeats,
		Price:              f.Price,
		Airline:            f.Airline,
	}, nil
}

// HotelForm is the admin add/edit hotel form
type HotelForm struct {
	Name          string  `form:"hotel_name" binding:"required,max=100"`
	Location      string  `form:"location" binding:"required"`
	StarRating    int     `form:"star_rating" binding:"gte=1,lte=5"`
	Amenities     string  `form:"amenities"`
	ContactInfo   string  `form:"contact_info"`
	PricePerNight float64 `form:"price_per_night" binding:"gte=0"`
	Availability  int     `form:"availability" binding:"gte=0"`
}

// ToHotel converts the form into a Hotel record
func (f *HotelForm) ToHotel() *Hotel {
	return &Hotel{
		Name:          f.Name,
		Location:      f.Location,
		StarRating:    f.StarRating,
		Amenities:     f.Amenities,
		ContactInfo:   f.ContactInfo,
		PricePerNight: f.PricePerNight,
		Availability:  f.Availability,
	}
}

// CarRentalForm is the admin add/edit car rental form
type CarRentalForm struct {
	CompanyName  string  `form:"company_name" binding:"required,max=100"`
	Location     string  `form:"location" binding:"required"`
	CarTypes     string  `form:"car_types" binding:"required"`
	Availability int     `form:"availability" binding:"gte=0"`
	ContactInfo  string  `form:"contact_info"`
	PricePerDay  float64 `form:"price_per_day" binding:"gte=0"`
}

// ToCarRental converts the form into a CarRental record
func (f *CarRentalForm) ToCarRental() *CarRental {
	return &CarRental{
		CompanyName:  f.CompanyName,
		Location:     f.Location,
		CarTypes:     f.CarTypes,
		Availability: f.Availability,
		ContactInfo:  f.ContactInfo,
		PricePerDay:  f.PricePerDay,
	}
}
