package main

import (
	"log"
	"os"
	"time"

	"github.com/ankitgade/greenfleet-backend/internal/database"
	"github.com/ankitgade/greenfleet-backend/internal/emissions"
	"github.com/ankitgade/greenfleet-backend/internal/handlers"
	"github.com/ankitgade/greenfleet-backend/internal/middleware"
	"github.com/ankitgade/greenfleet-backend/internal/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Get underlying SQL DB instance
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Emission factor overrides from config file and environment
	overrides := emissions.FactorTable{}
	if err := overrides.LoadFactorFile(os.Getenv("EMISSION_FACTORS_FILE")); err != nil {
		log.Printf("Emission factor config warning: %v", err)
	}
	if len(overrides) > 0 {
		if err := database.ApplyFactorOverrides(db, overrides); err != nil {
			log.Fatalf("Failed to apply emission factor overrides: %v", err)
		}
	}

	// Initialize Redis
	if err := services.InitRedis(); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}

	// Initialize Firebase (optional - will log warning if not configured)
	if err := services.InitFirebase(); err != nil {
		log.Printf("Firebase initialization warning: %v", err)
	}

	// Initialize Storage (S3 or local fallback)
	if err := services.InitStorage(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Initialize Razorpay (optional - will log warning if not configured)
	if err := services.InitPayments(); err != nil {
		log.Printf("Payments initialization warning: %v", err)
	}

	// Initialize Gemini assistant (optional - will log warning if not configured)
	if err := services.InitAssistant(); err != nil {
		log.Printf("Assistant initialization warning: %v", err)
	}

	// Initialize WebSocket hub
	hub := services.NewHub()
	go hub.Run()

	// Initialize router
	r := gin.Default()

	// Configure CORS
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	// Serve locally stored uploads
	if !services.UsingS3() {
		r.Static("/uploads", services.UploadsDir())
	}

	// Routes
	api := r.Group("/api")
	{
		// Public routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db))
			auth.POST("/login", handlers.Login(db))
			auth.POST("/verify-email", handlers.VerifyEmail(db))
			auth.POST("/forgot-password", handlers.RequestPasswordReset(db))
			auth.POST("/verify-otp", handlers.VerifyOTP(db))
			auth.POST("/reset-password", handlers.ResetPassword(db))
		}

		// Public shipment tracking by code
		api.GET("/shipments/track/:code", handlers.TrackShipment(db))

		// WebSocket connection
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocketHandler(hub))

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			// User routes
			users := protected.Group("/users")
			{
				users.GET("/profile", handlers.GetProfile(db))
				users.PUT("/profile", handlers.UpdateProfile(db))
			}

			// Driver routes
			driver := protected.Group("/driver")
			{
				driver.POST("/apply", handlers.ApplyAsDriver(db))
				driver.POST("/location", handlers.UpdateDriverLocation(db, hub))
				driver.POST("/availability", handlers.UpdateDriverAvailability(db))
				driver.GET("/assigned-shipments", handlers.ListDriverShipments(db))
				driver.GET("/:id/location", handlers.GetDriverLocation(db))
			}

			// Admin driver review routes
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/drivers/pending", handlers.ListPendingDrivers(db))
				admin.POST("/drivers/:id/approve", handlers.ApproveDriver(db))
				admin.POST("/drivers/:id/reject", handlers.RejectDriver(db))
			}

			// Fleet vehicle routes
			vehicles := protected.Group("/vehicles")
			{
				vehicles.GET("", handlers.ListVehicles(db))
				vehicles.POST("", middleware.RequireAdmin(), handlers.CreateVehicle(db))
				vehicles.GET("/:id", handlers.GetVehicle(db))
				vehicles.PUT("/:id", middleware.RequireAdmin(), handlers.UpdateVehicle(db))
				vehicles.DELETE("/:id", middleware.RequireAdmin(), handlers.DeleteVehicle(db))
				vehicles.POST("/:id/assign-driver", middleware.RequireAdmin(), handlers.AssignDriver(db))
				vehicles.POST("/:id/unassign-driver", middleware.RequireAdmin(), handlers.UnassignDriver(db))
				vehicles.GET("/:id/fuel-entries", handlers.ListVehicleFuelEntries(db))
			}

			// Shipment routes
			shipments := protected.Group("/shipments")
			{
				shipments.POST("/quote", handlers.GetShipmentQuote())
				shipments.POST("", handlers.CreateShipment(db, hub))
				shipments.GET("", handlers.ListMyShipments(db))
				shipments.GET("/client", handlers.ListClientShipments(db))
				shipments.GET("/driver", handlers.ListDriverShipments(db))
				shipments.GET("/available", handlers.ListAvailableShipments(db))
				shipments.GET("/:id", handlers.GetShipment(db))
				shipments.POST("/:id/accept", handlers.AcceptShipment(db, hub))
				shipments.POST("/:id/cancel", handlers.CancelShipment(db, hub))
				shipments.POST("/:id/confirm-pickup", handlers.ConfirmPickup(db, hub))
				shipments.POST("/:id/confirm-delivery", handlers.ConfirmDelivery(db, hub))
				shipments.POST("/:id/proof", handlers.UploadDeliveryProof(db))
			}

			// Fuel entry routes
			fuelEntries := protected.Group("/fuel-entries")
			{
				fuelEntries.POST("", handlers.CreateFuelEntry(db))
				fuelEntries.GET("/vehicle/:id", handlers.ListVehicleFuelEntries(db))
				fuelEntries.PATCH("/:id/correct", handlers.CorrectFuelEntry(db))
			}

			// Emissions analytics routes
			emissionsGroup := protected.Group("/emissions")
			{
				emissionsGroup.GET("/summary", handlers.GetEmissionsSummary(db))
				emissionsGroup.GET("/vehicles", handlers.GetVehicleEmissions(db))
				emissionsGroup.GET("/fuel-types", handlers.GetFuelTypeEmissions(db))
				emissionsGroup.GET("/trend", handlers.GetEmissionsTrend(db))
				emissionsGroup.GET("/insights", handlers.GetEmissionsInsights(db))
				emissionsGroup.GET("/leaderboard", handlers.GetEcoLeaderboard(db))
				emissionsGroup.GET("/drivers/:id/eco-score", handlers.GetDriverEcoScore(db))
			}

			// Payment routes
			payments := protected.Group("/payments")
			{
				payments.POST("/order", handlers.CreatePaymentOrder(db))
				payments.POST("/verify", handlers.VerifyPayment(db))
			}

			// Geocoding routes
			geocode := protected.Group("/geocode")
			{
				geocode.GET("/search", handlers.SearchAddress())
				geocode.GET("/reverse", handlers.ReverseGeocode())
			}

			// Dashboard assistant
			protected.POST("/chat", handlers.DashboardChat(db))

			// Notification routes
			notifications := protected.Group("/notifications")
			{
				notifications.POST("/register-token", handlers.RegisterFCMToken(db))
				notifications.DELETE("/remove-token", handlers.RemoveFCMToken(db))
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
