package main

import (
	"log"
	"time"

	"github.com/bankportal/portal-backend/config"
	"github.com/bankportal/portal-backend/database"
	"github.com/bankportal/portal-backend/handlers"
	"github.com/bankportal/portal-backend/jobs"
	"github.com/bankportal/portal-backend/services"
	"github.com/bankportal/portal-backend/shared"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load config
	cfg := config.LoadConfig()
	cfg.ConfigureLogging()

	// Open the device-local state store (sqlite file by default, Postgres
	// when DATABASE_URL is set)
	store, err := database.Open(cfg.DataPath, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open state store: %v", err)
	}
	defer store.Close()

	// Outbound HTTP client for the analysis upstream
	clientFactory := shared.NewHTTPClientFactory(60 * time.Second)

	// The analysis upstream is optional: without a credential the gateway
	// degrades to a fixed configuration error without calling out.
	var chatClient services.ChatCompleter
	if cfg.OpenAIAPIKey != "" {
		openaiConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
		openaiConfig.HTTPClient = clientFactory.CreateOptimizedHTTPClient(60 * time.Second)
		chatClient = openai.NewClientWithConfig(openaiConfig)
	} else {
		logrus.Warn("OPENAI_API_KEY not set, risk analysis endpoint will return configuration errors")
	}

	// Initialize services
	classifier := services.NewTeamClassifier()
	extractor := services.DefaultExtractor()
	submissionService := services.NewSubmissionService(store)
	analysisService := services.NewAnalysisService(chatClient, cfg.OpenAIModel, cfg.MaxDocumentChars)
	sessionService := services.NewSessionService(store, cfg.DemoEmail, cfg.DemoPassword)

	// Metrics registry feeds both the metrics endpoint and the report job
	metricsRegistry := shared.NewMetricsRegistry()
	metricsRegistry.Register(extractor.Metrics())
	metricsRegistry.Register(submissionService.Metrics())
	metricsRegistry.Register(analysisService.Metrics())

	logrus.WithFields(logrus.Fields{
		"model":              cfg.OpenAIModel,
		"max_document_chars": cfg.MaxDocumentChars,
		"upstream_enabled":   chatClient != nil,
	}).Info("Portal backend services initialized")

	// Initialize handlers
	analysisHandler := handlers.NewAnalysisHandler(analysisService)
	submissionHandler := handlers.NewSubmissionHandler(submissionService)
	teamHandler := handlers.NewTeamHandler(classifier)
	documentHandler := handlers.NewDocumentHandler(extractor)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	metricsHandler := handlers.NewMetricsHandler(metricsRegistry)

	// Periodic metrics summary
	reportJob := jobs.NewMetricsReportJob(metricsRegistry)
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			reportJob.Run()
		}
	}()

	// Setup Fiber
	app := fiber.New()

	// Middleware
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(cors.New())

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"timestamp": time.Now().Unix(),
		})
	})

	// Risk analysis gateway keeps its legacy path
	app.Post("/api/analyze-pdf", analysisHandler.AnalyzePDF)

	// Routes
	api := app.Group("/api/v1")

	// Session Routes
	api.Post("/auth/login", sessionHandler.Login)
	api.Post("/auth/logout", sessionHandler.Logout)
	api.Put("/auth/role", sessionHandler.SwitchRole)
	api.Get("/auth/session", sessionHandler.GetSession)

	// Team Routes
	api.Get("/teams", teamHandler.ListTeams)
	api.Post("/teams/suggest", teamHandler.SuggestTeams)

	// Task Submission Routes
	api.Get("/tasks", submissionHandler.ListTasks)
	api.Post("/tasks", submissionHandler.CreateTask)
	api.Patch("/tasks/:id/status", submissionHandler.UpdateTaskStatus)

	// Meeting Submission Routes
	api.Get("/meetings", submissionHandler.ListMeetings)
	api.Post("/meetings", submissionHandler.CreateMeeting)
	api.Patch("/meetings/:id/status", submissionHandler.UpdateMeetingStatus)

	// Document Routes
	api.Post("/documents/extract", documentHandler.ExtractDocuments)

	// Metrics Routes
	api.Get("/metrics", metricsHandler.GetMetrics)

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
