package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/airplanned/booking-backend/internal/middleware"
	"github.com/airplanned/booking-backend/internal/models"
	"github.com/airplanned/booking-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AdminHandler serves the back office: dashboard, inventory maintenance and search
type AdminHandler struct {
	auditor
	admin  *services.AdminService
	search *services.SearchService
	logger *logrus.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	admin *services.AdminService,
	search *services.SearchService,
	auditService *services.AuditService,
	logger *logrus.Logger,
) *AdminHandler {
	return &AdminHandler{
		auditor: auditor{audit: auditService, logger: logger},
		admin:   admin,
		search:  search,
		logger:  logger,
	}
}

// Dashboard handles GET /admin/dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.admin.Stats(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load dashboard stats")
		middleware.FlashNow(c, middleware.FlashError, inlineMessage(err))
		render(c, errorStatus(err), "admin_dashboard.html", gin.H{"Title": "Admin", "Stats": &models.DashboardStats{}})
		return
	}

	render(c, http.StatusOK, "admin_dashboard.html", gin.H{"Title": "Admin", "Stats": stats})
}

// Search handles GET /admin/search?q=
func (h *AdminHandler) Search(c *gin.Context) {
	result, err := h.search.GlobalSearch(c.Request.Context(), c.Query("q"))
	if err != nil {
		handleError(c, h.logger, err, "/admin/dashboard")
		return
	}

	render(c, http.StatusOK, "admin_search.html", gin.H{"Title": "Search", "Result": result})
}

// ============================================================================
// FLIGHTS
// ============================================================================

// ListFlights handles GET /admin/flights
func (h *AdminHandler) ListFlights(c *gin.Context) {
	q := c.Query("q")
	flights, err := h.search.AdminFlights(c.Request.Context(), q, 0)
	if err != nil {
		handleError(c, h.logger, err, "/admin/dashboard")
		return
	}
	render(c, http.StatusOK, "admin_flights.html", gin.H{"Title": "Flights", "Query": q, "Flights": flights})
}

// NewFlight handles GET /admin/flights/new
func (h *AdminHandler) NewFlight(c *gin.Context) {
	render(c, http.StatusOK, "admin_flight_form.html", gin.H{
		"Title":  "Add flight",
		"Flight": &models.Flight{},
		"Action": "/admin/flights/new",
	})
}

// EditFlight handles GET /admin/flights/:id/edit
func (h *AdminHandler) EditFlight(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		redirectWithFlash(c, middleware.FlashError, "Flight not found", "/admin/flights")
		return
	}
	flight, err := h.admin.GetFlight(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.logger, err, "/admin/flights")
		return
	}
	render(c, http.StatusOK, "admin_flight_form.html", gin.H{
		"Title":  "Edit flight",
		"Flight": flight,
		"Action": fmt.Sprintf("/admin/flights/%d/edit", id),
	})
}

// SaveFlight handles POST /admin/flights/new and POST /admin/flights/:id/edit
func (h *AdminHandler) SaveFlight(c *gin.Context) {
	id, back := h.formTarget(c, "flights")

	var form models.FlightForm
	if err := c.ShouldBind(&form); err != nil {
		redirectWithFlash(c, middleware.FlashError, bindingMessage(err), back)
		return
	}
	flight, err := form.ToFlight()
	if err != nil {
		redirectWithFlash(c, middleware.FlashError, "Invalid departure date", back)
		return
	}
	flight.ID = id

	if err := h.admin.SaveFlight(c.Request.Context(), flight); err != nil {
		handleError(c, h.logger, err, back)
		return
	}
	h.saved(c, "flight", id, flight.ID, "/admin/flights")
}

// DeleteFlight handles POST /admin/flights/:id/delete
func (h *AdminHandler) DeleteFlight(c *gin.Context) {
	h.remove(c, "flight", "/admin/flights", h.admin.DeleteFlight)
}

// ============================================================================
// HOTELS
// ============================================================================

// ListHotels handles GET /admin/hotels
func (h *AdminHandler) ListHotels(c *gin.Context) {
	q := c.Query("q")
	hotels, err := h.search.AdminHotels(c.Request.Context(), q, 0)
	if err != nil {
		handleError(c, h.logger, err, "/admin/dashboard")
		return
	}
	render(c, http.StatusOK, "admin_hotels.html", gin.H{"Title": "Hotels", "Query": q, "Hotels": hotels})
}

// NewHotel handles GET /admin/hotels/new
func (h *AdminHandler) NewHotel(c *gin.Context) {
	render(c, http.StatusOK, "admin_hotel_form.html", gin.H{
		"Title":  "Add hotel",
		"Hotel":  &models.Hotel{StarRating: 3},
		"Action": "/admin/hotels/new",
	})
}

// EditHotel handles GET /admin/hotels/:id/edit
func (h *AdminHandler) EditHotel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		redirectWithFlash(c, middleware.FlashError, "Hotel not found", "/admin/hotels")
		return
	}
	hotel, err := h.admin.GetHotel(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.logger, err, "/admin/hotels")
		return
	}
	render(c, http.StatusOK, "admin_hotel_form.html", gin.H{
		"Title":  "Edit hotel",
		"Hotel":  hotel,
		"Action": fmt.Sprintf("/admin/hotels/%d/edit", id),
	})
}

// SaveHotel handles POST /admin/hotels/new and POST /admin/hotels/:id/edit
func (h *AdminHandler) SaveHotel(c *gin.Context) {
	id, back := h.formTarget(c, "hotels")

	var form models.HotelForm
	if err := c.ShouldBind(&form); err != nil {
		redirectWithFlash(c, middleware.FlashError, bindingMessage(err), back)
		return
	}
	hotel := form.ToHotel()
	hotel.ID = id

	if err := h.admin.SaveHotel(c.Request.Context(), hotel); err != nil {
		handleError(c, h.logger, err, back)
		return
	}
	h.saved(c, "hotel", id, hotel.ID, "/admin/hotels")
}

// DeleteHotel handles POST /admin/hotels/:id/delete
func (h *AdminHandler) DeleteHotel(c *gin.Context) {
	h.remove(c, "hotel", "/admin/hotels", h.admin.DeleteHotel)
}

// ============================================================================
// CAR RENTALS
// ============================================================================

// ListCars handles GET /admin/cars
func (h *AdminHandler) ListCars(c *gin.Context) {
	q := c.Query("q")
	cars, err := h.search.AdminCars(c.Request.Context(), q, 0)
	if err != nil {
		handleError(c, h.logger, err, "/admin/dashboard")
		return
	}
	render(c, http.StatusOK, "admin_cars.html", gin.H{"Title": "Car rentals", "Query": q, "Cars": cars})
}

// NewCar handles GET /admin/cars/new
func (h *AdminHandler) NewCar(c *gin.Context) {
	render(c, http.StatusOK, "admin_car_form.html", gin.H{
		"Title":  "Add rental location",
		"Rental": &models.CarRental{},
		"Action": "/admin/cars/new",
	})
}

// EditCar handles GET /admin/cars/:id/edit
func (h *AdminHandler) EditCar(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		redirectWithFlash(c, middleware.FlashError, "Car rental not found", "/admin/cars")
		return
	}
	rental, err := h.admin.GetCarRental(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.logger, err, "/admin/cars")
		return
	}
	render(c, http.StatusOK, "admin_car_form.html", gin.H{
		"Title":  "Edit rental location",
		"Rental": rental,
		"Action": fmt.Sprintf("/admin/cars/%d/edit", id),
	})
}

// SaveCar handles POST /admin/cars/new and POST /admin/cars/:id/edit
func (h *AdminHandler) SaveCar(c *gin.Context) {
	id, back := h.formTarget(c, "cars")

	var form models.CarRentalForm
	if err := c.ShouldBind(&form); err != nil {
		redirectWithFlash(c, middleware.FlashError, bindingMessage(err), back)
		return
	}
	rental := form.ToCarRental()
	rental.ID = id

	if err := h.admin.SaveCarRental(c.Request.Context(), rental); err != nil {
		handleError(c, h.logger, err, back)
		return
	}
	h.saved(c, "car rental", id, rental.ID, "/admin/cars")
}

// DeleteCar handles POST /admin/cars/:id/delete
func (h *AdminHandler) DeleteCar(c *gin.Context) {
	h.remove(c, "car rental", "/admin/cars", h.admin.DeleteCarRental)
}

// ============================================================================
// HELPERS
// ============================================================================

// formTarget returns the edited id (zero when adding) and the form path to return to
func (h *AdminHandler) formTarget(c *gin.Context, section string) (int64, string) {
	if id, ok := pathID(c, "id"); ok {
		return id, fmt.Sprintf("/admin/%s/%d/edit", section, id)
	}
	return 0, fmt.Sprintf("/admin/%s/new", section)
}

func (h *AdminHandler) saved(c *gin.Context, label string, requestedID, savedID int64, list string) {
	action, verb := "create", "added"
	if requestedID != 0 {
		action, verb = "update", "updated"
	}
	h.safeLogAdminChange(c.Request.Context(), action, label, savedID, requestMeta(c))
	redirectWithFlash(c, middleware.FlashSuccess, fmt.Sprintf("%s %s successfully", capitalize(label), verb), list)
}

func (h *AdminHandler) remove(c *gin.Context, label, list string, del func(context.Context, int64) error) {
	id, ok := pathID(c, "id")
	if !ok {
		redirectWithFlash(c, middleware.FlashError, capitalize(label)+" not found", list)
		return
	}
	if err := del(c.Request.Context(), id); err != nil {
		handleError(c, h.logger, err, list)
		return
	}
	h.safeLogAdminChange(c.Request.Context(), "delete", label, id, requestMeta(c))
	redirectWithFlash(c, middleware.FlashSuccess, capitalize(label)+" deleted successfully", list)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
