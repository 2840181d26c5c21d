package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/airplanned/booking-backend/internal/database"
	"github.com/airplanned/booking-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// AdminService maintains the inventory tables for the back office
type AdminService struct {
	flights  *database.FlightRepository
	hotels   *database.HotelRepository
	cars     *database.CarRentalRepository
	bookings *database.BookingRepository
	stats    *database.AdminRepository
	logger   *logrus.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(
	flights *database.FlightRepository,
	hotels *database.HotelRepository,
	cars *database.CarRentalRepository,
	bookings *database.BookingRepository,
	stats *database.AdminRepository,
	logger *logrus.Logger,
) *AdminService {
	return &AdminService{
		flights:  flights,
		hotels:   hotels,
		cars:     cars,
		bookings: bookings,
		stats:    stats,
		logger:   logger,
	}
}

// Stats returns the dashboard counters
func (s *AdminService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	stats, err := s.stats.Stats(ctx)
	if err != nil {
		return nil, classify(err, "")
	}
	return stats, nil
}

// ============================================================================
// FLIGHTS
// ============================================================================

// GetFlight loads a flight for the edit form
func (s *AdminService) GetFlight(ctx context.Context, id int64) (*models.Flight, error) {
	flight, err := s.flights.GetByID(ctx, id)
	if err != nil {
		return nil, classify(err, "Flight not found")
	}
	return flight, nil
}

// SaveFlight creates the flight when its ID is zero and updates it otherwise
func (s *AdminService) SaveFlight(ctx context.Context, flight *models.Flight) error {
	if flight.AvailableSeats > flight.TotalSeats {
		return validationf("Available seats cannot exceed total seats")
	}

	var err error
	action := "created"
	if flight.ID == 0 {
		err = s.flights.Create(ctx, flight)
	} else {
		action = "updated"
		err = s.flights.Update(ctx, flight)
	}
	if err != nil {
		return classify(err, "Flight not found")
	}

	s.logChange("flight", action, flight.ID)
	return nil
}

// DeleteFlight removes a flight that no confirmed booking holds
func (s *AdminService) DeleteFlight(ctx context.Context, id int64) error {
	return s.delete(ctx, models.CategoryFlight, id, s.flights.Delete)
}

// ============================================================================
// HOTELS
// ============================================================================

// GetHotel loads a hotel for the edit form
func (s *AdminService) GetHotel(ctx context.Context, id int64) (*models.Hotel, error) {
	hotel, err := s.hotels.GetByID(ctx, id)
	if err != nil {
		return nil, classify(err, "Hotel not found")
	}
	return hotel, nil
}

// SaveHotel creates the hotel when its ID is zero and updates it otherwise
func (s *AdminService) SaveHotel(ctx context.Context, hotel *models.Hotel) error {
	var err error
	action := "created"
	if hotel.ID == 0 {
		err = s.hotels.Create(ctx, hotel)
	} else {
		action = "updated"
		err = s.hotels.Update(ctx, hotel)
	}
	if err != nil {
		return classify(err, "Hotel not found")
	}

	s.logChange("hotel", action, hotel.ID)
	return nil
}

// DeleteHotel removes a hotel that no confirmed booking holds
func (s *AdminService) DeleteHotel(ctx context.Context, id int64) error {
	return s.delete(ctx, models.CategoryHotel, id, s.hotels.Delete)
}

// ============================================================================
// CAR RENTALS
// ============================================================================

// GetCarRental loads a car rental location for the edit form
func (s *AdminService) GetCarRental(ctx context.Context, id int64) (*models.CarRental, error) {
	rental, err := s.cars.GetByID(ctx, id)
	if err != nil {
		return nil, classify(err, "Car rental not found")
	}
	return rental, nil
}

// SaveCarRental creates the location when its ID is zero and updates it otherwise
func (s *AdminService) SaveCarRental(ctx context.Context, rental *models.CarRental) error {
	var err error
	action := "created"
	if rental.ID == 0 {
		err = s.cars.Create(ctx, rental)
	} else {
		action = "updated"
		err = s.cars.Update(ctx, rental)
	}
	if err != nil {
		return classify(err, "Car rental not found")
	}

	s.logChange("car rental", action, rental.ID)
	return nil
}

// DeleteCarRental removes a location that no confirmed booking holds
func (s *AdminService) DeleteCarRental(ctx context.Context, id int64) error {
	return s.delete(ctx, models.CategoryCar, id, s.cars.Delete)
}

func (s *AdminService) delete(ctx context.Context, category models.Category, id int64, remove func(context.Context, int64) error) error {
	label := category.Label()

	active, err := s.bookings.CountConfirmed(ctx, category, id)
	if err != nil {
		return classify(err, "")
	}
	if active > 0 {
		return &ConflictError{Message: fmt.Sprintf("Cannot delete %s with %d active bookings", label, active)}
	}

	if err := remove(ctx, id); err != nil {
		return classify(err, capitalize(label)+" not found")
	}

	s.logChange(label, "deleted", id)
	return nil
}

func (s *AdminService) logChange(entity, action string, id int64) {
	s.logger.WithFields(logrus.Fields{
		"entity": entity,
		"id":     id,
	}).Infof("Admin %s %s", action, entity)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
