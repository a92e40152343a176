package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"mutualaid_app/internal/handlers"
	appMiddleware "mutualaid_app/internal/middleware"
	"mutualaid_app/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Initialize Firebase
	credPath := os.Getenv("FIREBASE_CREDENTIALS_PATH")
	if credPath == "" {
		credPath = "./firebase-service-account.json"
	}

	authClient, err := services.InitFirebase(credPath)
	if err != nil {
		log.Printf("Warning: Firebase initialization failed: %v", err)
		log.Println("Auth features will not work until valid credentials are provided")
	}

	// Initialize Database
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	db, err := services.InitDB(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migration
	if err := services.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Initialize Redis
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}
	cache, err := services.NewRedisCache(redisURL)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}

	// Initialize services
	midtransService := services.NewMidtransService()
	membershipStore := services.NewGormMembershipStore(db)
	membershipService := services.NewMembershipService(membershipStore, services.DefaultClassTariffs())
	paymentService := services.NewPaymentService(db, cache, midtransService, membershipService, services.DefaultClassTariffs())
	statisticsService := services.NewStatisticsService(db, cache)

	// Create Echo instance
	e := echo.New()
	e.HTTPErrorHandler = appMiddleware.CustomErrorHandler

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Initialize handlers
	profileHandler := handlers.NewProfileHandler(db)
	membershipHandler := handlers.NewMembershipHandler(db, membershipService)
	requestHandler := handlers.NewRequestHandler(db, membershipService)
	repaymentHandler := handlers.NewRepaymentHandler(db)
	paymentHandler := handlers.NewPaymentHandler(db, paymentService)
	adminHandler := handlers.NewAdminHandler(db, statisticsService)
	storyHandler := handlers.NewSuccessStoryHandler(db)

	api := e.Group("/api/v1")

	// Public routes
	api.GET("/stories", storyHandler.ListPublished)
	api.POST("/payments/midtrans/callback", paymentHandler.MidtransCallback)

	// Member routes
	member := api.Group("")
	member.Use(appMiddleware.RequireAuth(authClient))

	member.GET("/profile", profileHandler.GetMyProfile)
	member.POST("/profile", profileHandler.CreateMyProfile)

	member.GET("/membership/eligibility", membershipHandler.CheckEligibility)
	member.POST("/membership/upgrades", membershipHandler.RequestUpgrade)
	member.GET("/membership/upgrades", membershipHandler.ListMyUpgrades)

	member.POST("/requests", requestHandler.CreateRequest)
	member.GET("/requests", requestHandler.ListMyRequests)

	member.GET("/repayments", repaymentHandler.ListMyRepayments)
	member.GET("/repayments/:id/overdue", repaymentHandler.OverdueReport)

	member.POST("/payments", paymentHandler.InitiatePayment)

	member.POST("/stories", storyHandler.SubmitStory)
	member.GET("/stories/mine", storyHandler.ListMyStories)

	// Admin routes
	admin := api.Group("/admin")
	admin.Use(appMiddleware.RequireAuth(authClient))
	admin.Use(appMiddleware.RequireAdmin(db))

	admin.GET("/access", adminHandler.VerifyAccess)
	admin.GET("/statistics", adminHandler.DashboardStatistics)
	admin.GET("/members", adminHandler.ListMembers)
	admin.GET("/requests/pending", adminHandler.PendingRequests)
	admin.POST("/requests/:id/approve", adminHandler.ApproveRequest)
	admin.POST("/requests/:id/reject", adminHandler.RejectRequest)
	admin.GET("/payments", adminHandler.PaymentHistory)
	admin.POST("/stories/:id/publish", adminHandler.PublishStory)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	e.Logger.Fatal(e.Start(":" + port))
}
