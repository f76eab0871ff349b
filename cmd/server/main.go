package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"nanitech-backend/internal/config"
	"nanitech-backend/internal/database"
	"nanitech-backend/internal/handlers"
	"nanitech-backend/internal/middleware"
	"nanitech-backend/internal/supabase"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Run migrations before serving traffic.
	migrator, err := database.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize migrator: %v", err)
	}
	if err := migrator.Run(); err != nil {
		migrator.Close()
		log.Fatalf("Migration failed: %v", err)
	}
	migrator.Close()
	log.Println("Migrations completed successfully")

	// Initialize Supabase clients
	supabaseClient, err := supabase.NewClient(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Supabase client: %v", err)
	}

	storageClient, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseStorageBucket)
	if err != nil {
		log.Fatalf("Failed to initialize storage client: %v", err)
	}

	realtimeClient := supabase.NewRealtimeClient(supabaseClient.Supabase)

	dbClient, err := supabase.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database client: %v", err)
	}
	defer dbClient.Close()

	// Initialize handlers
	projectsHandler := handlers.NewProjectsHandler(dbClient, storageClient, realtimeClient)
	imagesHandler := handlers.NewImagesHandler(dbClient, storageClient)
	settingsHandler := handlers.NewSettingsHandler(dbClient)
	iamHandler := handlers.NewIAMHandler(dbClient)

	// Setup router
	router := gin.Default()

	router.Use(middleware.RequestID())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
	}))

	// Health check (no auth)
	router.GET("/health", handlers.HealthHandler)

	// Public settings read: anonymous callers see public rows only.
	router.GET("/api/v1/settings",
		middleware.OptionalAuthMiddleware(cfg, dbClient),
		settingsHandler.GetSettings)

	// Authenticated API routes
	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg, dbClient))

	// Project lifecycle
	api.GET("/projects", projectsHandler.ListProjects)
	api.POST("/projects", projectsHandler.CreateProject)
	api.GET("/projects/:project_id", projectsHandler.GetProject)
	api.PUT("/projects/:project_id", projectsHandler.UpdateProject)
	api.DELETE("/projects/:project_id", projectsHandler.DeleteProject)

	// Image management
	api.GET("/projects/:project_id/images", imagesHandler.ListImages)
	api.POST("/projects/:project_id/images", imagesHandler.HandleImageAction)
	api.DELETE("/projects/:project_id/images/:image_id", imagesHandler.DeleteImage)

	// Settings writes (admin)
	api.POST("/settings", settingsHandler.CreateSetting)
	api.PUT("/settings/:key", settingsHandler.UpdateSetting)
	api.PATCH("/settings", settingsHandler.BulkUpdateSettings)
	api.DELETE("/settings/:key", settingsHandler.DeleteSetting)

	// IAM (admin)
	api.GET("/iam/users", iamHandler.ListUsers)
	api.POST("/iam/users", iamHandler.ProvisionUser)
	api.PUT("/iam/users/:user_id/role", iamHandler.UpdateUserRole)
	api.PATCH("/iam/users/:user_id", iamHandler.SetUserActive)
	api.DELETE("/iam/users/:user_id", iamHandler.DeactivateUser)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
