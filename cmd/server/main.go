package main

import (
	"context"
	"log"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"jewel-market-backend/internal/config"
	"jewel-market-backend/internal/handlers"
	"jewel-market-backend/internal/metrics"
	"jewel-market-backend/internal/middleware"
	"jewel-market-backend/internal/settings"
	"jewel-market-backend/internal/sheet"
	"jewel-market-backend/internal/store"
	"jewel-market-backend/internal/summary"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Sheet client and the persisted endpoint lifecycle
	sheetClient := sheet.NewClient()
	settingsSvc := settings.NewService(filepath.Join(cfg.DataDir, "settings.json"), sheetClient)

	// Metrics and the order store
	registry := metrics.NewRegistry()
	orderStore := store.New(sheetClient, settingsSvc, registry)

	// AI summarizer (optional)
	summarizer, err := summary.New(context.Background(), cfg.GeminiAPIKey)
	if err != nil {
		log.Fatalf("Failed to initialize summarizer: %v", err)
	}
	if !summarizer.Enabled() {
		log.Println("Warning: GEMINI_API_KEY not set. AI summaries will be disabled.")
	}

	// Load the collection once at startup when an endpoint is already
	// configured, mirroring the dashboard's fetch-on-mount.
	if settingsSvc.Configured() {
		if err := orderStore.Refresh(); err != nil {
			log.Printf("Warning: initial refresh failed: %v", err)
		}
	}

	// Initialize handlers
	settingsHandler := handlers.NewSettingsHandler(settingsSvc, orderStore)
	ordersHandler := handlers.NewOrdersHandler(orderStore)
	summaryHandler := handlers.NewSummaryHandler(orderStore, summarizer)

	// Setup router
	router := gin.Default()

	// Health check and metrics (no endpoint gating)
	router.GET("/health", handlers.HealthHandler)
	router.GET("/metrics", gin.WrapH(registry.Handler()))

	// API routes
	api := router.Group("/api/v1")

	// Settings routes stay reachable while unconfigured - they ARE the
	// setup flow.
	api.GET("/settings", settingsHandler.GetSettings)
	api.POST("/settings", settingsHandler.SaveSettings)
	api.DELETE("/settings", settingsHandler.ClearSettings)

	// Data routes
	data := api.Group("")
	data.Use(middleware.RequireEndpoint(settingsSvc))

	data.GET("/orders", ordersHandler.ListOrders)
	data.POST("/orders", ordersHandler.CreateOrder)
	data.POST("/orders/refresh", ordersHandler.RefreshOrders)
	data.GET("/orders/export", ordersHandler.ExportOrders)
	data.GET("/orders/summary", summaryHandler.GetSummary)
	data.PUT("/orders/:order_id", ordersHandler.UpdateOrder)
	data.PATCH("/orders/:order_id/status", ordersHandler.ChangeStatus)
	data.DELETE("/orders/:order_id", ordersHandler.DeleteOrder)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
