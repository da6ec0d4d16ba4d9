package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/wingfest/backend/internal/database"
	"github.com/wingfest/backend/internal/handlers"
	"github.com/wingfest/backend/internal/media"
	"github.com/wingfest/backend/internal/middleware"
)

type Server struct {
	db       database.Service
	handler  *handlers.Handler
	isJudge  middleware.JudgeCheck
	mediaDir string
}

// NewServer creates and configures a new server
func NewServer() *http.Server {
	// Initialize database
	bootstrap, err := database.NewDatabase()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := bootstrap.Initialize(); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}
	bootstrap.Close()

	dbService := database.New()

	mediaDir := os.Getenv("MEDIA_DIR")
	if mediaDir == "" {
		mediaDir = "media"
	}
	mediaStore, err := media.NewStore(mediaDir)
	if err != nil {
		log.Fatalf("Failed to initialize media store: %v", err)
	}

	// Create unified handler
	handler := handlers.NewHandler(dbService.GetDB(), mediaStore)

	// Create server instance
	newServer := &Server{
		db:       dbService,
		handler:  handler,
		isJudge:  middleware.JudgeRoleCheck(dbService.GetDB()),
		mediaDir: mediaDir,
	}

	// Configure Gin router
	router := newServer.RegisterRoutes()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // local dev fallback
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("🚀 Server starting on port %s\n", port)
	fmt.Println("📝 Press Ctrl+C to stop the server")

	return server
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	// Uploaded bird photos and thumbnails
	r.Static("/media", s.mediaDir)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", s.handler.Auth.Register)
		api.POST("/login", s.handler.Auth.Login)

		// Category routes (public reads)
		api.GET("/categories", s.handler.Category.GetCategories)
		api.GET("/categories/:id", s.handler.Category.GetCategory)

		// Bird detail personalizes can_vote/has_voted when a token is present
		api.GET("/birds/:id", middleware.OptionalAuth(), s.handler.Bird.GetBird)

		// Rankings (public reads)
		api.GET("/results", s.handler.Results.Results)
		api.GET("/home", s.handler.Results.Home)

		// User routes (public reads)
		api.GET("/users/:id", s.handler.User.GetUserProfile)

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// Auth protected routes
			protected.GET("/me", s.handler.Auth.GetMe)

			// Category protected routes
			protected.POST("/categories", s.handler.Category.CreateCategory)

			// Bird protected routes
			protected.POST("/birds", s.handler.Bird.UploadBird)
			protected.POST("/birds/:id/vote", s.handler.Bird.VoteBird)

			// Judge-only routes
			judge := protected.Group("")
			judge.Use(middleware.RequireJudge(s.isJudge))
			{
				judge.PUT("/birds/:id/evaluation", s.handler.Judge.SubmitEvaluation)
				judge.GET("/judge/worklist", s.handler.Judge.Worklist)
			}
		}
	}

	return r
}
