package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/airplanned/booking-backend/internal/config"
	"github.com/airplanned/booking-backend/internal/database"
	"github.com/airplanned/booking-backend/internal/models"
	"github.com/joho/godotenv"
)

func main() {
	var (
		dbURLFlag  string
		driverFlag string
		seed       bool
		printOnly  bool
	)
	flag.StringVar(&dbURLFlag, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	flag.StringVar(&driverFlag, "driver", "", "postgres or pgx (overrides DATABASE_DRIVER)")
	flag.BoolVar(&seed, "seed", false, "insert a small demo inventory after migrating")
	flag.BoolVar(&printOnly, "print", false, "print the schema and exit")
	flag.Parse()

	if printOnly {
		fmt.Print(database.Schema())
		return
	}

	// .env is optional; it keeps secrets off the command line
	_ = godotenv.Load()

	dbURL := dbURLFlag
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set and -database-url was not provided")
	}

	driver := driverFlag
	if driver == "" {
		driver = os.Getenv("DATABASE_DRIVER")
	}
	if driver == "" {
		driver = "postgres"
	}

	db, err := database.NewConnection(config.DatabaseConfig{
		URL:                dbURL,
		Driver:             driver,
		MaxConnections:     2,
		MaxIdleConnections: 1,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	fmt.Println("Schema applied.")

	if !seed {
		return
	}
	if err := seedInventory(ctx, db); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	fmt.Println("Demo inventory inserted.")
}

func seedInventory(ctx context.Context, db database.DB) error {
	flights := database.NewFlightRepository(db)
	hotels := database.NewHotelRepository(db)
	cars := database.NewCarRentalRepository(db)

	departure := time.Now().AddDate(0, 1, 0).Truncate(24 * time.Hour)
	for _, f := range []models.Flight{
		{
			FlightNumber: "AP101", OriginCountry: "France", DestinationCountry: "Japan",
			OriginAirport: "CDG", DestinationAirport: "HND", DepartureDate: departure,
			DepartureTime: "09:30", ArrivalTime: "05:10", AircraftType: "A350",
			TotalSeats: 30, AvailableSeats: 30, Price: 640, Airline: "Airplanned",
		},
		{
			FlightNumber: "AP102", OriginCountry: "Japan", DestinationCountry: "France",
			OriginAirport: "HND", DestinationAirport: "CDG", DepartureDate: departure.AddDate(0, 0, 7),
			DepartureTime: "11:00", ArrivalTime: "17:40", AircraftType: "A350",
			TotalSeats: 30, AvailableSeats: 30, Price: 610, Airline: "Airplanned",
		},
		{
			FlightNumber: "AP220", OriginCountry: "Portugal", DestinationCountry: "Brazil",
			OriginAirport: "LIS", DestinationAirport: "GRU", DepartureDate: departure.AddDate(0, 0, 3),
			DepartureTime: "22:15", ArrivalTime: "05:30", AircraftType: "B787",
			TotalSeats: 24, AvailableSeats: 24, Price: 520, Airline: "Airplanned",
		},
	} {
		flight := f
		if err := flights.Create(ctx, &flight); err != nil {
			return err
		}
	}

	for _, h := range []models.Hotel{
		{Name: "Alfama Courtyard", Location: "Lisbon", StarRating: 4, Amenities: "WiFi,Breakfast,Terrace", ContactInfo: "+351 21 000 0000", PricePerNight: 100, Availability: 12},
		{Name: "Shinjuku Lights", Location: "Tokyo", StarRating: 5, Amenities: "WiFi,Spa,Pool", ContactInfo: "+81 3 0000 0000", PricePerNight: 240, Availability: 8},
	} {
		hotel := h
		if err := hotels.Create(ctx, &hotel); err != nil {
			return err
		}
	}

	for _, c := range []models.CarRental{
		{CompanyName: "Tejo Rentals", Location: "Lisbon", CarTypes: "Economy,Compact,SUV", Availability: 10, ContactInfo: "+351 21 111 1111", PricePerDay: 45},
		{CompanyName: "Kanto Drive", Location: "Tokyo", CarTypes: "Compact,Luxury", Availability: 6, ContactInfo: "+81 3 1111 1111", PricePerDay: 70},
	} {
		rental := c
		if err := cars.Create(ctx, &rental); err != nil {
			return err
		}
	}
	return nil
}
