package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/airplanned/booking-backend/internal/database"
	"github.com/airplanned/booking-backend/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	defaultListingLimit  = 12 // unfiltered home and listing pages
	filteredListingLimit = 20 // hotel and car search results
	globalSearchLimit    = 5  // per table in the admin search
)

// SearchService answers inventory listing and search queries
type SearchService struct {
	flights *database.FlightRepository
	hotels  *database.HotelRepository
	cars    *database.CarRentalRepository
	logger  *logrus.Logger
	now     func() time.Time
}

// NewSearchService creates a new search service
func NewSearchService(
	flights *database.FlightRepository,
	hotels *database.HotelRepository,
	cars *database.CarRentalRepository,
	logger *logrus.Logger,
) *SearchService {
	return &SearchService{
		flights: flights,
		hotels:  hotels,
		cars:    cars,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *SearchService) today() time.Time {
	return dateOnly(s.now())
}

// HomePage is the landing page content
type HomePage struct {
	Flights      []models.Flight
	Origins      []database.Location
	Destinations []database.Location
}

// Home lists upcoming flights with free seats and the locations they serve
func (s *SearchService) Home(ctx context.Context) (*HomePage, error) {
	today := s.today()

	filter := s.flights.NewFilter().
		Where("available_seats", database.OpGt, 0).
		Where("departure_date", database.OpGte, today)

	flights, err := s.flights.Search(ctx, filter, defaultListingLimit)
	if err != nil {
		return nil, classify(err, "")
	}

	origins, destinations, err := s.flights.Locations(ctx, today)
	if err != nil {
		return nil, classify(err, "")
	}

	return &HomePage{Flights: flights, Origins: origins, Destinations: destinations}, nil
}

// Locations lists the origins and destinations offered by the search form
func (s *SearchService) Locations(ctx context.Context) (origins, destinations []database.Location, err error) {
	origins, destinations, err = s.flights.Locations(ctx, s.today())
	if err != nil {
		return nil, nil, classify(err, "")
	}
	return origins, destinations, nil
}

// parsePrice reads an optional price bound. Blank means unbounded.
func parsePrice(value, label string) (*float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	price, err := strconv.ParseFloat(value, 64)
	if err != nil || price < 0 {
		return nil, validationf("Invalid %s price format", label)
	}
	return &price, nil
}

func priceBounds(minPrice, maxPrice string) (lo, hi *float64, err error) {
	if lo, err = parsePrice(minPrice, "minimum"); err != nil {
		return nil, nil, err
	}
	if hi, err = parsePrice(maxPrice, "maximum"); err != nil {
		return nil, nil, err
	}
	return lo, hi, nil
}

func wherePrice(f *database.Filter, column string, lo, hi *float64) {
	if lo != nil {
		f.Where(column, database.OpGte, *lo)
	}
	if hi != nil {
		f.Where(column, database.OpLte, *hi)
	}
}

// SearchFlights finds outbound flights and, for a round trip with a return
// date and both endpoints, return flights on the swapped route.
func (s *SearchService) SearchFlights(ctx context.Context, q *models.FlightSearch) (*models.FlightSearchResult, error) {
	passengers := q.Passengers
	if passengers < 1 {
		passengers = 1
	}

	lo, hi, err := priceBounds(q.MinPrice, q.MaxPrice)
	if err != nil {
		return nil, err
	}

	outbound := s.flights.NewFilter().
		Where("available_seats", database.OpGte, passengers).
		Where("departure_date", database.OpGte, s.today())
	if q.OriginCountry != "" {
		outbound.Where("origin_country", database.OpEq, q.OriginCountry)
	}
	if q.DestinationCountry != "" {
		outbound.Where("destination_country", database.OpEq, q.DestinationCountry)
	}
	if q.DepartureDate != "" {
		date, err := ParseDate(q.DepartureDate, "departure date")
		if err != nil {
			return nil, err
		}
		outbound.Where("departure_date", database.OpEq, date)
	}
	wherePrice(outbound, "price", lo, hi)

	result := &models.FlightSearchResult{}
	if result.Outbound, err = s.flights.Search(ctx, outbound, 0); err != nil {
		return nil, classify(err, "")
	}

	if q.RoundTrip() && q.ReturnDate != "" && q.OriginCountry != "" && q.DestinationCountry != "" {
		date, err := ParseDate(q.ReturnDate, "return date")
		if err != nil {
			return nil, err
		}
		ret := s.flights.NewFilter().
			Where("available_seats", database.OpGte, passengers).
			Where("departure_date", database.OpEq, date).
			Where("origin_country", database.OpEq, q.DestinationCountry).
			Where("destination_country", database.OpEq, q.OriginCountry)
		wherePrice(ret, "price", lo, hi)

		if result.Return, err = s.flights.Search(ctx, ret, 0); err != nil {
			return nil, classify(err, "")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"origin":      q.OriginCountry,
		"destination": q.DestinationCountry,
		"passengers":  passengers,
		"outbound":    len(result.Outbound),
		"return":      len(result.Return),
	}).Debug("Flight search")

	return result, nil
}

// SearchHotels lists hotels with rooms left. A nil query returns the default listing.
func (s *SearchService) SearchHotels(ctx context.Context, q *models.HotelSearch) ([]models.Hotel, error) {
	filter := s.hotels.NewFilter().Where("availability", database.OpGt, 0)
	limit := defaultListingLimit

	if q != nil {
		limit = filteredListingLimit
		lo, hi, err := priceBounds(q.MinPrice, q.MaxPrice)
		if err != nil {
			return nil, err
		}
		if loc := strings.TrimSpace(q.Location); loc != "" {
			filter.Where("location", database.OpContains, loc)
		}
		if q.StarRating > 0 {
			filter.Where("star_rating", database.OpGte, q.StarRating)
		}
		wherePrice(filter, "price_per_night", lo, hi)
	}

	hotels, err := s.hotels.Search(ctx, filter, limit)
	if err != nil {
		return nil, classify(err, "")
	}
	return hotels, nil
}

// SearchCars lists car rentals with cars left. A nil query returns the default listing.
func (s *SearchService) SearchCars(ctx context.Context, q *models.CarSearch) ([]models.CarRental, error) {
	filter := s.cars.NewFilter().Where("availability", database.OpGt, 0)
	limit := defaultListingLimit

	if q != nil {
		limit = filteredListingLimit
		if loc := strings.TrimSpace(q.Location); loc != "" {
			filter.Where("location", database.OpContains, loc)
		}
		if carType := strings.TrimSpace(q.CarType); carType != "" {
			filter.Where("car_types", database.OpContains, carType)
		}
	}

	rentals, err := s.cars.Search(ctx, filter, limit)
	if err != nil {
		return nil, classify(err, "")
	}
	return rentals, nil
}

// ============================================================================
// ADMIN SEARCH
// ============================================================================

// GlobalSearch matches q as a substring across the text columns of every
// inventory table, a few rows per table.
func (s *SearchService) GlobalSearch(ctx context.Context, q string) (*models.GlobalSearchResult, error) {
	q = strings.TrimSpace(q)
	result := &models.GlobalSearchResult{
		Query:   q,
		Flights: []models.Flight{},
		Hotels:  []models.Hotel{},
		Cars:    []models.CarRental{},
	}
	if q == "" {
		return result, nil
	}

	var err error
	if result.Flights, err = s.AdminFlights(ctx, q, globalSearchLimit); err != nil {
		return nil, err
	}
	if result.Hotels, err = s.AdminHotels(ctx, q, globalSearchLimit); err != nil {
		return nil, err
	}
	if result.Cars, err = s.AdminCars(ctx, q, globalSearchLimit); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"query":   q,
		"matches": result.Total(),
	}).Info("Admin global search")

	return result, nil
}

// AdminFlights lists flights, optionally matching q, for the back office
func (s *SearchService) AdminFlights(ctx context.Context, q string, limit int) ([]models.Flight, error) {
	filter := s.flights.NewFilter()
	if q = strings.TrimSpace(q); q != "" {
		filter.WhereAny(database.OpContains, q, database.FlightTextColumns...)
	}
	flights, err := s.flights.Search(ctx, filter, limit)
	if err != nil {
		return nil, classify(err, "")
	}
	return flights, nil
}

// AdminHotels lists hotels, optionally matching q, for the back office
func (s *SearchService) AdminHotels(ctx context.Context, q string, limit int) ([]models.Hotel, error) {
	filter := s.hotels.NewFilter()
	if q = strings.TrimSpace(q); q != "" {
		filter.WhereAny(database.OpContains, q, database.HotelTextColumns...)
	}
	hotels, err := s.hotels.Search(ctx, filter, limit)
	if err != nil {
		return nil, classify(err, "")
	}
	return hotels, nil
}

// AdminCars lists car rentals, optionally matching q, for the back office
func (s *SearchService) AdminCars(ctx context.Context, q string, limit int) ([]models.CarRental, error) {
	filter := s.cars.NewFilter()
	if q = strings.TrimSpace(q); q != "" {
		filter.WhereAny(database.OpContains, q, database.CarRentalTextColumns...)
	}
	rentals, err := s.cars.Search(ctx, filter, limit)
	if err != nil {
		return nil, classify(err, "")
	}
	return rentals, nil
}
