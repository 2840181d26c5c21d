package services

import (
	"math"
	"time"
)

// roomMultipliers scale a hotel's nightly rate by room type
var roomMultipliers = map[string]float64{
	"standard":  1.0,
	"deluxe":    1.3,
	"suite":     1.8,
	"penthouse": 2.5,
}

// carMultipliers scale a rental's daily rate by car category
var carMultipliers = map[string]float64{
	"Economy":  1.0,
	"Compact":  1.2,
	"Mid-size": 1.4,
	"SUV":      1.8,
	"Luxury":   2.5,
	"Van":      2.0,
}

// RoomTypes lists the bookable room types in display order
var RoomTypes = []string{"standard", "deluxe", "suite", "penthouse"}

// CarTypes lists the bookable car categories in display order
var CarTypes = []string{"Economy", "Compact", "Mid-size", "SUV", "Luxury", "Van"}

// UnitPrice is a rate after its multiplier, for booking pages
type UnitPrice struct {
	Type  string
	Price float64
}

// PriceCalculator computes booking totals. It holds no state.
type PriceCalculator struct{}

// NewPriceCalculator creates a new price calculator
func NewPriceCalculator() *PriceCalculator {
	return &PriceCalculator{}
}

// RoomMultiplier returns the multiplier for roomType, 1.0 when unknown
func (p *PriceCalculator) RoomMultiplier(roomType string) float64 {
	if m, ok := roomMultipliers[roomType]; ok {
		return m
	}
	return 1.0
}

// CarMultiplier returns the multiplier for carType, 1.0 when unknown
func (p *PriceCalculator) CarMultiplier(carType string) float64 {
	if m, ok := carMultipliers[carType]; ok {
		return m
	}
	return 1.0
}

// Days returns the whole days between start and end. A reversed range is rejected.
func (p *PriceCalculator) Days(start, end time.Time) (int, error) {
	days := int(math.Round(dateOnly(end).Sub(dateOnly(start)).Hours() / 24))
	if days < 0 {
		return 0, validationf("End date must not be before start date")
	}
	return days, nil
}

// QuoteStay prices a hotel stay: rate × room multiplier × nights
func (p *PriceCalculator) QuoteStay(pricePerNight float64, roomType string, checkIn, checkOut time.Time) (float64, error) {
	nights, err := p.Days(checkIn, checkOut)
	if err != nil {
		return 0, err
	}
	return RoundCurrency(pricePerNight * p.RoomMultiplier(roomType) * float64(nights)), nil
}

// QuoteRental prices a car rental: rate × car multiplier × days
func (p *PriceCalculator) QuoteRental(pricePerDay float64, carType string, pickup, dropoff time.Time) (float64, error) {
	days, err := p.Days(pickup, dropoff)
	if err != nil {
		return 0, err
	}
	return RoundCurrency(pricePerDay * p.CarMultiplier(carType) * float64(days)), nil
}

// QuoteFlight sums the leg fares for the given number of passengers
func (p *PriceCalculator) QuoteFlight(passengers int, fares ...float64) float64 {
	var perPassenger float64
	for _, f := range fares {
		perPassenger += f
	}
	return RoundCurrency(perPassenger * float64(passengers))
}

// RoomPrices lists the nightly price of every room type
func (p *PriceCalculator) RoomPrices(pricePerNight float64) []UnitPrice {
	out := make([]UnitPrice, 0, len(RoomTypes))
	for _, t := range RoomTypes {
		out = append(out, UnitPrice{Type: t, Price: RoundCurrency(pricePerNight * roomMultipliers[t])})
	}
	return out
}

// CarPrices lists the daily price of every car type the location offers
func (p *PriceCalculator) CarPrices(pricePerDay float64, offered []string) []UnitPrice {
	out := make([]UnitPrice, 0, len(offered))
	for _, t := range offered {
		out = append(out, UnitPrice{Type: t, Price: RoundCurrency(pricePerDay * p.CarMultiplier(t))})
	}
	return out
}

// RoundCurrency rounds to the two decimal places stored by NUMERIC(10,2)
func RoundCurrency(amount float64) float64 {
	return math.Round(amount*100) / 100
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
