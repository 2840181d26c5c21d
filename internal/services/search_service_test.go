package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/airplanned/booking-backend/internal/database"
	"github.com/airplanned/booking-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSearchService(t *testing.T) (*SearchService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := setupMockDB(t)

	service := NewSearchService(
		database.NewFlightRepository(db),
		database.NewHotelRepository(db),
		database.NewCarRentalRepository(db),
		testLogger(),
	)
	service.now = func() time.Time { return time.Date(2026, 11, 1, 15, 4, 5, 0, time.UTC) }
	return service, mock
}

func TestSearchFlights_RoundTrip(t *testing.T) {
	service, mock := setupSearchService(t)

	mock.ExpectQuery(`FROM flights WHERE available_seats >= \$1 AND departure_date >= \$2 AND origin_country = \$3 AND destination_country = \$4 AND price >= \$5 AND price <= \$6 ORDER BY departure_date, departure_time$`).
		WithArgs(2, sqlmock.AnyArg(), "France", "Japan", 100.0, 500.0).
		WillReturnRows(sqlmock.NewRows(flightColumns).AddRow(
			int64(10), "AP1", "France", "Japan", "CDG", "HND", date("2026-11-20"), "09:30", "05:10",
			"A350", 300, 40, 450.0, "Airplanned",
		))
	mock.ExpectQuery(`FROM flights WHERE available_seats >= \$1 AND departure_date = \$2 AND origin_country = \$3 AND destination_country = \$4 AND price >= \$5 AND price <= \$6`).
		WithArgs(2, sqlmock.AnyArg(), "Japan", "France", 100.0, 500.0).
		WillReturnRows(sqlmock.NewRows(flightColumns))

	result, err := service.SearchFlights(context.Background(), &models.FlightSearch{
		TripType:           "round-trip",
		OriginCountry:      "France",
		DestinationCountry: "Japan",
		ReturnDate:         "2026-11-27",
		Passengers:         2,
		MinPrice:           "100",
		MaxPrice:           "500",
	})
	require.NoError(t, err)
	require.Len(t, result.Outbound, 1)
	assert.Equal(t, "AP1", result.Outbound[0].FlightNumber)
	assert.Empty(t, result.Return)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchFlights_OneWaySkipsReturn(t *testing.T) {
	service, mock := setupSearchService(t)

	mock.ExpectQuery(`FROM flights WHERE available_seats >= \$1 AND departure_date >= \$2 ORDER BY`).
		WithArgs(1, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(flightColumns))

	result, err := service.SearchFlights(context.Background(), &models.FlightSearch{
		TripType:   "one-way",
		ReturnDate: "2026-11-27",
	})
	require.NoError(t, err)
	assert.Empty(t, result.Outbound)
	assert.Nil(t, result.Return)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchFlights_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		query   models.FlightSearch
		message string
	}{
		{"Minimum not a number", models.FlightSearch{MinPrice: "cheap"}, "Invalid minimum price format"},
		{"Negative maximum", models.FlightSearch{MaxPrice: "-5"}, "Invalid maximum price format"},
		{"Bad departure date", models.FlightSearch{DepartureDate: "20/11/2026"}, "Invalid departure date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, mock := setupSearchService(t)

			_, err := service.SearchFlights(context.Background(), &tt.query)
			var validation *ValidationError
			require.True(t, errors.As(err, &validation))
			assert.Equal(t, tt.message, validation.Message)

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSearchHotels(t *testing.T) {
	ctx := context.Background()

	t.Run("Default listing", func(t *testing.T) {
		service, mock := setupSearchService(t)

		mock.ExpectQuery(`FROM hotels WHERE availability > \$1 ORDER BY star_rating DESC, price_per_night ASC LIMIT \$2`).
			WithArgs(0, 12).
			WillReturnRows(sqlmock.NewRows(hotelColumns).AddRow(int64(1), "Alfama", "Lisbon", 4, "Pool", "", 100.0, 5))

		hotels, err := service.SearchHotels(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, hotels, 1)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Filtered", func(t *testing.T) {
		service, mock := setupSearchService(t)

		mock.ExpectQuery(`FROM hotels WHERE availability > \$1 AND location ILIKE \$2 AND star_rating >= \$3 AND price_per_night <= \$4 ORDER BY .* LIMIT \$5`).
			WithArgs(0, "%Lisbon%", 4, 150.0, 20).
			WillReturnRows(sqlmock.NewRows(hotelColumns))

		hotels, err := service.SearchHotels(ctx, &models.HotelSearch{Location: " Lisbon ", StarRating: 4, MaxPrice: "150"})
		require.NoError(t, err)
		assert.Empty(t, hotels)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSearchCars(t *testing.T) {
	service, mock := setupSearchService(t)

	mock.ExpectQuery(`FROM car_rentals WHERE availability > \$1 AND car_types ILIKE \$2 ORDER BY price_per_day ASC LIMIT \$3`).
		WithArgs(0, "%SUV%", 20).
		WillReturnRows(sqlmock.NewRows(carRentalColumns).AddRow(int64(2), "Hertz", "Porto", "Economy,SUV", 3, "", 40.0))

	rentals, err := service.SearchCars(context.Background(), &models.CarSearch{CarType: "SUV"})
	require.NoError(t, err)
	require.Len(t, rentals, 1)
	assert.Equal(t, []string{"Economy", "SUV"}, rentals[0].CarTypeList())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGlobalSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("Blank query touches nothing", func(t *testing.T) {
		service, mock := setupSearchService(t)

		result, err := service.GlobalSearch(ctx, "   ")
		require.NoError(t, err)
		assert.Equal(t, 0, result.Total())
		assert.NotNil(t, result.Flights)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Every table is searched", func(t *testing.T) {
		service, mock := setupSearchService(t)

		mock.ExpectQuery(`FROM flights WHERE \(flight_number ILIKE \$1 OR .* LIMIT \$8`).
			WillReturnRows(sqlmock.NewRows(flightColumns))
		mock.ExpectQuery(`FROM hotels WHERE \(hotel_name ILIKE \$1 OR location ILIKE \$2 OR amenities ILIKE \$3\) .* LIMIT \$4`).
			WithArgs("%Lisbon%", "%Lisbon%", "%Lisbon%", 5).
			WillReturnRows(sqlmock.NewRows(hotelColumns).AddRow(int64(1), "Alfama", "Lisbon", 4, "", "", 100.0, 5))
		mock.ExpectQuery(`FROM car_rentals WHERE \(company_name ILIKE \$1`).
			WillReturnRows(sqlmock.NewRows(carRentalColumns))

		result, err := service.GlobalSearch(ctx, "Lisbon")
		require.NoError(t, err)
		assert.Equal(t, 1, result.Total())
		assert.Equal(t, "Lisbon", result.Query)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
