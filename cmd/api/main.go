// Mindtriage API
//
// REST API for self-reported wellbeing check-ins and risk analytics.
//
//	@title			Mindtriage API
//	@version		1.0
//	@description	Collect daily and micro check-ins, score rapid assessments, compute per-signal baselines and daily drift reports, and surface safety events.
//
//	@BasePath	/v1
//
//	@tag.name			users
//	@tag.description	User management endpoints
//
//	@tag.name			checkins
//	@tag.description	Check-in submission and answer history
//
//	@tag.name			questions
//	@tag.description	Question rotation and batteries
//
//	@tag.name			rapid
//	@tag.description	Timed rapid assessment flow
//
//	@tag.name			insights
//	@tag.description	Baselines, drift reports and engagement
//
//	@tag.name			safety
//	@tag.description	Recorded safety events
package main

import (
	"context"
	"log"
	"net/http"

	"github.com/mindtriage/mindtriage-api/internal/api"
	"github.com/mindtriage/mindtriage-api/internal/api/handler"
	"github.com/mindtriage/mindtriage-api/internal/cache"
	"github.com/mindtriage/mindtriage-api/internal/config"
	"github.com/mindtriage/mindtriage-api/internal/domain"
	"github.com/mindtriage/mindtriage-api/internal/llm"
	"github.com/mindtriage/mindtriage-api/internal/repository"
	"github.com/mindtriage/mindtriage-api/internal/seed"
	"github.com/mindtriage/mindtriage-api/internal/service"
	"github.com/mindtriage/mindtriage-api/internal/telemetry"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg := config.Load()

	// Initialize tracing (no-op when Langfuse is not configured)
	shutdownTracer, err := telemetry.InitTracer(ctx, cfg, "mindtriage-api")
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := shutdownTracer(ctx); err != nil {
			log.Printf("Tracer shutdown error: %v", err)
		}
	}()

	// Connect to database
	db, err := config.NewDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database schema
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.QuestionRecord{},
		&domain.Answer{},
		&domain.RapidSession{},
		&domain.RapidEvaluation{},
		&domain.CrisisEvent{},
		&domain.BaselineRecord{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	answerRepo := repository.NewAnswerRepository(db)
	rapidRepo := repository.NewRapidRepository(db)
	crisisRepo := repository.NewCrisisRepository(db)
	baselineRepo := repository.NewBaselineRepository(db)

	// Sync the question catalog
	if err := questionRepo.UpsertAll(ctx, domain.AllQuestions()); err != nil {
		log.Fatalf("Failed to sync question catalog: %v", err)
	}

	if cfg.Seed {
		log.Println("Seeding database with sample data (SEED=true)...")
		if err := seed.Run(db); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	}

	// Connect to Redis (optional, quality scoring falls back to history)
	var submissionCache cache.SubmissionCache
	redisClient, err := config.NewRedis(cfg)
	if err != nil {
		log.Fatalf("Failed to configure Redis: %v", err)
	}
	if redisClient != nil {
		submissionCache = cache.NewSubmissionCache(redisClient)
	} else {
		log.Println("Warning: REDIS_URL not configured, duplicate detection uses stored history only")
	}

	// Initialize OpenAI client (may be nil if not configured)
	openaiClient := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAINarrativeModel)
	if openaiClient == nil {
		log.Println("Warning: OpenAI API key not configured, insight narratives will be unavailable")
	}

	// Initialize services
	userService := service.NewUserService(userRepo)
	safetyService := service.NewSafetyService(crisisRepo, userRepo)
	checkinService := service.NewCheckinService(answerRepo, questionRepo, userRepo, submissionCache, safetyService)
	rotationService := service.NewRotationService(questionRepo, answerRepo, userRepo, cfg.RotationSalt)
	rapidService := service.NewRapidService(rapidRepo, answerRepo, userRepo, rotationService, safetyService)
	baselineService := service.NewBaselineService(baselineRepo, answerRepo, userRepo)
	var narrativeLLM llm.NarrativeLLM
	if openaiClient != nil {
		narrativeLLM = openaiClient
	}
	insightService := service.NewInsightService(baselineService, answerRepo, userRepo, narrativeLLM)

	// Initialize handlers
	userHandler := handler.NewUserHandler(userService)
	checkinHandler := handler.NewCheckinHandler(checkinService)
	rapidHandler := handler.NewRapidHandler(rapidService)
	insightHandler := handler.NewInsightHandler(insightService, baselineService, safetyService)
	questionHandler := handler.NewQuestionHandler(rotationService)

	// Setup router
	router := api.NewRouter(userHandler, checkinHandler, rapidHandler, insightHandler, questionHandler)
	routerHandler := router.Setup()

	// Start server
	addr := ":" + cfg.Port
	log.Printf("Starting server on %s", addr)
	if err := http.ListenAndServe(addr, routerHandler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
