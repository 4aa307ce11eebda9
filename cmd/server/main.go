package main

import (
	"coachplan/fitness-app/internal/api"
	"coachplan/fitness-app/internal/config"
	"coachplan/fitness-app/internal/events"
	"coachplan/fitness-app/internal/generation"
	"coachplan/fitness-app/internal/repository/mongo"
	"coachplan/fitness-app/internal/service"
	"coachplan/fitness-app/internal/storage"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting CoachPlan server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	log.Println("Ensuring database indexes...")
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureQuestionIndexes(ctx, appDB.Collection("interview_questions"))
		mongo.EnsureResponseIndexes(ctx, appDB.Collection("interview_responses"))
		mongo.EnsurePlanIndexes(ctx, appDB.Collection("workout_plans"))
		mongo.EnsureTemplateIndexes(ctx, appDB.Collection("workout_templates"))
		mongo.EnsureSessionIndexes(ctx, appDB.Collection("workout_sessions"))
		mongo.EnsureShareTokenIndexes(ctx, appDB.Collection("workout_share_tokens"))
		mongo.EnsureMediaIndexes(ctx, appDB.Collection("exercise_media"))
		mongo.EnsureEventIndexes(ctx, appDB.Collection("event_logs"))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	log.Println("Initializing file storage service...")
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongo.NewMongoUserRepository(appDB)
	questionRepo := mongo.NewMongoQuestionRepository(appDB)
	responseRepo := mongo.NewMongoResponseRepository(appDB)
	planRepo := mongo.NewMongoPlanRepository(appDB)
	templateRepo := mongo.NewMongoTemplateRepository(appDB)
	sessionRepo := mongo.NewMongoSessionRepository(appDB)
	shareTokenRepo := mongo.NewMongoShareTokenRepository(appDB)
	mediaRepo := mongo.NewMongoMediaRepository(appDB)
	eventRepo := mongo.NewMongoEventRepository(appDB)

	audit := events.NewLogger(eventRepo)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	genClient := generation.NewOpenAIClient(cfg.Generation)

	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	questionService := service.NewQuestionService(questionRepo)
	interviewService := service.NewInterviewService(questionRepo, responseRepo, audit)
	planService := service.NewPlanService(responseRepo, planRepo, genClient, cfg.Generation.Timeout, audit)
	workoutService := service.NewWorkoutService(templateRepo, sessionRepo, audit)
	shareService := service.NewShareService(shareTokenRepo, sessionRepo, cfg.Share.TTL, audit)
	mediaService := service.NewMediaService(mediaRepo, templateRepo, fileStorage)

	// --- Background Token Cleanup ---
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			removed, err := shareService.CleanupExpired(ctx)
			cancel()
			if err != nil {
				log.Printf("ERROR: Share token cleanup failed: %v", err)
			} else if removed > 0 {
				log.Printf("Share token cleanup removed %d expired tokens", removed)
			}
		}
	}()

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(
		router,
		cfg.JWT.Secret,
		cfg.Share.BaseURL,
		authService,
		questionService,
		interviewService,
		planService,
		workoutService,
		shareService,
		mediaService,
	)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
