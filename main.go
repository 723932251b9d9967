package main

import (
	"log"
	"net/http"

	"coupleswipe_server/auth"
	"coupleswipe_server/config"
	"coupleswipe_server/controllers"
	"coupleswipe_server/middleware"
	"coupleswipe_server/routes"
	"coupleswipe_server/services"
	"coupleswipe_server/socket"
	"coupleswipe_server/store"
	"coupleswipe_server/utils"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	cfg := config.Load()

	// Initialize the document store
	log.Println("Initializing DynamoDB client...")
	dynamoClient := store.InitializeDynamoDBClient()
	documents := store.NewDynamo(dynamoClient, cfg.TableName, cfg.StorePollInterval)
	log.Println("DynamoDB client initialized.")

	tokenService := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)

	emailService, err := services.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	// Initialize Services
	invitationService := &services.InvitationService{
		Store: documents,
		TTL:   cfg.InvitationTTL,
		Email: emailService,
	}
	swipeService := &services.SwipeService{Store: documents}
	sessionService := &services.GameSessionService{
		Store:         documents,
		Movies:        services.NewTMDBService(cfg.TMDBBaseURL, cfg.TMDBImageBaseURL, cfg.TMDBAPIKey),
		Swipes:        swipeService,
		ConvertFilter: utils.ConvertFiltersToTMDBParams,
	}
	categoryService := &services.CategoryService{Store: documents}
	notificationService := &services.NotificationService{Store: documents}

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMin, cfg.RateLimitBurst)

	// Initialize the router
	r := mux.NewRouter()
	r.HandleFunc("/", controllers.WelcomeHandler).Methods("GET")
	r.HandleFunc("/health", controllers.HealthCheckHandler).Methods("GET")

	// Register routes
	routes.RegisterAuthRoutes(r, tokenService)
	routes.RegisterInvitationRoutes(r, invitationService, tokenService, limiter)
	routes.RegisterGameSessionRoutes(r, sessionService, swipeService, tokenService, limiter)
	routes.RegisterCategoryRoutes(r, categoryService, tokenService)

	if cfg.S3Bucket != "" {
		imageService, err := services.NewImageService(cfg.AWSRegion, cfg.S3Bucket)
		if err != nil {
			log.Fatalf("Failed to initialize image service: %v", err)
		}
		routes.RegisterImageRoutes(r, imageService, tokenService)
	}

	// Realtime notification hub
	hub := socket.NewHub(tokenService, notificationService)
	go func() {
		if err := hub.Server.Serve(); err != nil {
			log.Fatalf("Socket server error: %v", err)
		}
	}()
	defer hub.Close()
	r.Handle("/socket.io/", hub.Server)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", cfg.ServerPort)
	log.Fatal(http.ListenAndServe(":"+cfg.ServerPort, corsHandler))
}
