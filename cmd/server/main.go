package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/airplanned/booking-backend/internal/config"
	"github.com/airplanned/booking-backend/internal/database"
	"github.com/airplanned/booking-backend/internal/handlers"
	"github.com/airplanned/booking-backend/internal/middleware"
	"github.com/airplanned/booking-backend/internal/services"
	"github.com/airplanned/booking-backend/internal/telemetry"
	"github.com/airplanned/booking-backend/pkg/jwt"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting Airplanned booking service")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telemetry
	shutdownTelemetry, err := telemetry.Setup(ctx, cfg.Telemetry, version)
	if err != nil {
		logger.Fatalf("Failed to set up telemetry: %v", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(flushCtx); err != nil {
			logger.WithError(err).Warn("Telemetry shutdown failed")
		}
	}()
	metrics, err := telemetry.DefaultMetrics()
	if err != nil {
		logger.Fatalf("Failed to create metrics: %v", err)
	}

	// Database
	logger.WithField("driver", cfg.Database.Driver).Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	if err := db.PingContext(pingCtx); err != nil {
		cancelPing()
		logger.Fatalf("Failed to ping database: %v", err)
	}
	cancelPing()
	logger.Info("Database connection established")

	// Repositories
	flightRepository := database.NewFlightRepository(db)
	hotelRepository := database.NewHotelRepository(db)
	carRentalRepository := database.NewCarRentalRepository(db)
	bookingRepository := database.NewBookingRepository(db)
	userRepository := database.NewUserRepository(db)

	// Services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.SessionTTL)
	auditService := services.NewAuditService(database.NewAuditRepository(db), cfg.Security.EnableAuditLog, logger)
	throttleService := services.NewLoginThrottleService(db, cfg.Security.MaxLoginFailures, cfg.Security.LoginFailureWindow, logger)
	authService := services.NewAuthService(userRepository, jwtService, cfg.Security.BcryptCost, logger)
	adminAuthService := services.NewAdminAuthService(cfg.Admin, jwtService)
	bookingService := services.NewBookingService(
		flightRepository,
		hotelRepository,
		carRentalRepository,
		bookingRepository,
		metrics,
		logger,
	)
	searchService := services.NewSearchService(flightRepository, hotelRepository, carRentalRepository, logger)
	adminService := services.NewAdminService(
		flightRepository,
		hotelRepository,
		carRentalRepository,
		bookingRepository,
		database.NewAdminRepository(db),
		logger,
	)

	if !cfg.AdminEnabled() {
		logger.Warn("ADMIN_PASSWORD_HASH is not set, admin login is disabled")
	}

	// Handlers
	healthHandler := handlers.NewHealthHandler(db, version)
	searchHandler := handlers.NewSearchHandler(searchService, logger)
	authHandler := handlers.NewAuthHandler(authService, auditService, throttleService, jwtService, cfg.Security.SecureCookies, logger)
	adminAuthHandler := handlers.NewAdminAuthHandler(adminAuthService, auditService, throttleService, jwtService, cfg.Security.SecureCookies, logger)
	bookingHandler := handlers.NewBookingHandler(bookingService, auditService, logger)
	adminHandler := handlers.NewAdminHandler(adminService, searchService, auditService, logger)

	templates, err := handlers.LoadTemplates()
	if err != nil {
		logger.Fatalf("Failed to parse templates: %v", err)
	}

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.SetHTMLTemplate(templates)
	router.Use(middleware.Flash())
	router.Use(middleware.Session(jwtService, cfg.Security.SecureCookies))

	router.GET("/health", healthHandler.Check)

	// Public pages
	router.GET("/", searchHandler.Home)
	router.GET("/search_flights", searchHandler.SearchFlights)
	router.POST("/search_flights", searchHandler.SearchFlights)
	router.GET("/hotels", searchHandler.Hotels)
	router.POST("/hotels", searchHandler.Hotels)
	router.GET("/cars", searchHandler.Cars)
	router.POST("/cars", searchHandler.Cars)

	router.GET("/signup", authHandler.SignupPage)
	router.POST("/signup", authHandler.Signup)
	router.GET("/login", authHandler.LoginPage)
	router.POST("/login", authHandler.Login)
	router.POST("/logout", authHandler.Logout)

	// Customer pages
	customer := router.Group("/", middleware.RequireUser())
	{
		customer.GET("/book/:flight_id", bookingHandler.BookFlightPage)
		customer.POST("/confirm_booking", bookingHandler.ConfirmFlight)
		customer.GET("/book_hotel/:hotel_id", bookingHandler.BookHotelPage)
		customer.POST("/confirm_hotel_booking", bookingHandler.ConfirmHotel)
		customer.GET("/book_car/:rental_id", bookingHandler.BookCarPage)
		customer.POST("/confirm_car_booking", bookingHandler.ConfirmCar)

		customer.GET("/payment/:category/:id", bookingHandler.PaymentPage)
		customer.POST("/payment/:category/:id", bookingHandler.ProcessPayment)
		customer.GET("/payment_success/:category/:id", bookingHandler.PaymentSuccess)

		customer.GET("/dashboard", bookingHandler.Dashboard)
		customer.POST("/cancel_booking/:category/:id", bookingHandler.CancelBooking)
	}

	// Back office
	router.GET("/admin", adminAuthHandler.LoginPage)
	router.POST("/admin/login", adminAuthHandler.Login)

	admin := router.Group("/admin", middleware.RequireAdmin())
	{
		admin.POST("/logout", adminAuthHandler.Logout)
		admin.GET("/dashboard", adminHandler.Dashboard)
		admin.GET("/search", adminHandler.Search)

		admin.GET("/flights", adminHandler.ListFlights)
		admin.GET("/flights/new", adminHandler.NewFlight)
		admin.POST("/flights/new", adminHandler.SaveFlight)
		admin.GET("/flights/:id/edit", adminHandler.EditFlight)
		admin.POST("/flights/:id/edit", adminHandler.SaveFlight)
		admin.POST("/flights/:id/delete", adminHandler.DeleteFlight)

		admin.GET("/hotels", adminHandler.ListHotels)
		admin.GET("/hotels/new", adminHandler.NewHotel)
		admin.POST("/hotels/new", adminHandler.SaveHotel)
		admin.GET("/hotels/:id/edit", adminHandler.EditHotel)
		admin.POST("/hotels/:id/edit", adminHandler.SaveHotel)
		admin.POST("/hotels/:id/delete", adminHandler.DeleteHotel)

		admin.GET("/cars", adminHandler.ListCars)
		admin.GET("/cars/new", adminHandler.NewCar)
		admin.POST("/cars/new", adminHandler.SaveCar)
		admin.GET("/cars/:id/edit", adminHandler.EditCar)
		admin.POST("/cars/:id/edit", adminHandler.SaveCar)
		admin.POST("/cars/:id/delete", adminHandler.DeleteCar)
	}

	cronService := services.NewCronService(throttleService, logger)
	if err := cronService.Start(); err != nil {
		logger.Fatalf("Failed to start cron service: %v", err)
	}
	defer cronService.Stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Infof("Server listening on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server exited")
}
