package database

import (
	"context"
	"fmt"

	"github.com/airplanned/booking-backend/internal/models"
)

// AdminRepository serves the back-office dashboard
type AdminRepository struct {
	db DB
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// Stats collects the dashboard counters in one round trip
func (r *AdminRepository) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	query := `
		SELECT
			(SELECT COUNT(*) FROM flights WHERE departure_date >= CURRENT_DATE) AS active_flights,
			(SELECT COUNT(*) FROM hotels WHERE availability > 0) AS active_hotels,
			(SELECT COUNT(*) FROM car_rentals WHERE availability > 0) AS active_cars,
			(SELECT COUNT(*) FROM users) AS total_users,
			(SELECT COUNT(*) FROM flight_bookings WHERE booking_status = 'Confirmed') AS confirmed_flight_bookings,
			(SELECT COUNT(*) FROM hotel_bookings WHERE booking_status = 'Confirmed') AS confirmed_hotel_bookings,
			(SELECT COUNT(*) FROM car_bookings WHERE booking_status = 'Confirmed') AS confirmed_car_bookings,
			(SELECT COALESCE(SUM(total_amount), 0) FROM flight_bookings
				WHERE payment_status = 'Paid'
				AND booking_date >= NOW() - INTERVAL '30 days') AS flight_revenue_30d
	`

	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("failed to load dashboard stats: %w", err)
	}
	return &stats, nil
}
