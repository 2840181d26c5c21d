package handlers

import (
	"net/http"

	"github.com/airplanned/booking-backend/internal/middleware"
	"github.com/airplanned/booking-backend/internal/models"
	"github.com/airplanned/booking-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SearchHandler serves the home page and the public inventory listings
type SearchHandler struct {
	service *services.SearchService
	logger  *logrus.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(service *services.SearchService, logger *logrus.Logger) *SearchHandler {
	return &SearchHandler{
		service: service,
		logger:  logger,
	}
}

// Home handles GET /
func (h *SearchHandler) Home(c *gin.Context) {
	ctx := c.Request.Context()
	data := gin.H{"Title": "Home"}

	home, err := h.service.Home(ctx)
	if err == nil {
		data["Flights"], data["Origins"], data["Destinations"] = home.Flights, home.Origins, home.Destinations
		data["Hotels"], err = h.service.SearchHotels(ctx, nil)
	}
	if err == nil {
		data["Cars"], err = h.service.SearchCars(ctx, nil)
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to load home page")
		middleware.FlashNow(c, middleware.FlashError, inlineMessage(err))
		render(c, errorStatus(err), "index.html", gin.H{"Title": "Home"})
		return
	}

	render(c, http.StatusOK, "index.html", data)
}

// SearchFlights handles GET and POST /search_flights
func (h *SearchHandler) SearchFlights(c *gin.Context) {
	ctx := c.Request.Context()
	query := &models.FlightSearch{}
	data := gin.H{"Title": "Flights", "Query": query}

	origins, destinations, err := h.service.Locations(ctx)
	if err != nil {
		h.renderInlineError(c, "flights.html", data, err)
		return
	}
	data["Origins"], data["Destinations"] = origins, destinations

	if c.Request.Method == http.MethodGet && c.Request.URL.RawQuery == "" {
		render(c, http.StatusOK, "flights.html", data)
		return
	}

	if err := c.ShouldBind(query); err != nil {
		middleware.FlashNow(c, middleware.FlashError, bindingMessage(err))
		render(c, http.StatusBadRequest, "flights.html", data)
		return
	}

	result, err := h.service.SearchFlights(ctx, query)
	if err != nil {
		h.renderInlineError(c, "flights.html", data, err)
		return
	}

	passengers := query.Passengers
	if passengers < 1 {
		passengers = 1
	}
	data["Result"] = result
	data["Passengers"] = passengers
	render(c, http.StatusOK, "flights.html", data)
}

// Hotels handles GET and POST /hotels
func (h *SearchHandler) Hotels(c *gin.Context) {
	query := &models.HotelSearch{}
	data := gin.H{"Title": "Hotels", "Query": query}

	var filter *models.HotelSearch
	if c.Request.Method == http.MethodPost {
		if err := c.ShouldBind(query); err != nil {
			middleware.FlashNow(c, middleware.FlashError, bindingMessage(err))
			render(c, http.StatusBadRequest, "hotels.html", data)
			return
		}
		filter = query
	}

	hotels, err := h.service.SearchHotels(c.Request.Context(), filter)
	if err != nil {
		h.renderInlineError(c, "hotels.html", data, err)
		return
	}

	data["Hotels"] = hotels
	render(c, http.StatusOK, "hotels.html", data)
}

// Cars handles GET and POST /cars
func (h *SearchHandler) Cars(c *gin.Context) {
	query := &models.CarSearch{}
	data := gin.H{"Title": "Car rentals", "Query": query}

	var filter *models.CarSearch
	if c.Request.Method == http.MethodPost {
		if err := c.ShouldBind(query); err != nil {
			middleware.FlashNow(c, middleware.FlashError, bindingMessage(err))
			render(c, http.StatusBadRequest, "cars.html", data)
			return
		}
		filter = query
	}

	cars, err := h.service.SearchCars(c.Request.Context(), filter)
	if err != nil {
		h.renderInlineError(c, "cars.html", data, err)
		return
	}

	data["Cars"] = cars
	render(c, http.StatusOK, "cars.html", data)
}

func (h *SearchHandler) renderInlineError(c *gin.Context, page string, data gin.H, err error) {
	if status := errorStatus(err); status >= http.StatusInternalServerError {
		h.logger.WithFields(logrus.Fields{
			"path":  c.Request.URL.Path,
			"error": err.Error(),
		}).Error("Search failed")
	}
	middleware.FlashNow(c, middleware.FlashError, inlineMessage(err))
	render(c, errorStatus(err), page, data)
}
