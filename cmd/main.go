package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"news-trust/internal/auth"
	"news-trust/internal/config"
	"news-trust/internal/feeds"
	"news-trust/internal/handlers"
	"news-trust/internal/ingest"
	"news-trust/internal/scoring"
	"news-trust/internal/store"
	"news-trust/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	// Assemble the ingestion pipeline
	fetcher := feeds.NewFetcher(cfg.RelayURLs, nil)
	scorer := scoring.NewClient(cfg.ScorerURL, cfg.ScorerTimeout, cfg.ScorerCompat)
	pipeline := ingest.NewPipeline(ingest.Deps{
		Source:     fetcher,
		Scorer:     scorer,
		Feeds:      cfg.FeedSources,
		PerFeedCap: cfg.PerFeedCap,
		Workers:    cfg.ScoreWorkers,
	})

	snapshots := store.New()
	liveHandler := handlers.NewLiveHandler()

	// Initialize and start the background refresh loop
	refreshService := worker.NewRefreshService(pipeline, snapshots, liveHandler, cfg.RefreshInterval)
	refreshService.Start()

	// Setup graceful shutdown
	setupGracefulShutdown(refreshService, liveHandler)

	// Setup HTTP server
	setupServer(cfg, snapshots, refreshService, liveHandler)
}

func setupGracefulShutdown(refreshService *worker.RefreshService, liveHandler *handlers.LiveHandler) {
	// Setup signal handling for graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Received shutdown signal, gracefully shutting down...")

		refreshService.Stop()
		liveHandler.Close()

		log.Println("Shutdown complete")
		os.Exit(0)
	}()
}

func setupServer(cfg config.Config, snapshots *store.Store, refreshService *worker.RefreshService, liveHandler *handlers.LiveHandler) {
	// Set Gin mode based on environment
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Initialize handlers
	dashboardHandler := handlers.NewDashboardHandler(snapshots, refreshService, cfg.FeedSources)
	docsHandler := handlers.NewDocsHandler()

	// Health check
	r.GET("/health", dashboardHandler.HealthCheck)

	// Live snapshot notifications
	r.GET("/ws", liveHandler.Serve)

	// Serve Markdown documentation as HTML
	r.GET("/doc/:doc", docsHandler.ServeMarkdownAsHTML)

	// API routes
	api := r.Group("/api")
	{
		api.GET("/articles", dashboardHandler.GetArticles)
		api.GET("/stats", dashboardHandler.GetStats)
		api.GET("/publishers", dashboardHandler.GetPublishers)
		api.GET("/authors", dashboardHandler.GetAuthors)
		api.GET("/filters", dashboardHandler.GetFilters)
		api.GET("/status", dashboardHandler.GetStatus)

		// Manual refresh is open unless an admin secret is configured.
		if cfg.AdminSecret != "" {
			verifier := auth.NewJWTVerifier(cfg.AdminSecret)
			api.POST("/refresh", auth.Middleware(verifier), dashboardHandler.TriggerRefresh)
		} else {
			api.POST("/refresh", dashboardHandler.TriggerRefresh)
		}
	}

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
