package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/Cesarb72/waypoint-sub001/internal/clients/places"
	"github.com/Cesarb72/waypoint-sub001/internal/db"
	"github.com/Cesarb72/waypoint-sub001/internal/handlers"
	"github.com/Cesarb72/waypoint-sub001/internal/logger"
	"github.com/Cesarb72/waypoint-sub001/internal/middleware"
	"github.com/Cesarb72/waypoint-sub001/internal/repos"
	"github.com/Cesarb72/waypoint-sub001/internal/resolution"
	"github.com/Cesarb72/waypoint-sub001/internal/server"
	"github.com/Cesarb72/waypoint-sub001/internal/services"
	"github.com/Cesarb72/waypoint-sub001/internal/sse"
	"github.com/Cesarb72/waypoint-sub001/internal/toolkit"
	"github.com/Cesarb72/waypoint-sub001/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Database
	dbService, err := db.New(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err = dbService.AutoMigrateAll(); err != nil {
		log.Error("Auto migration failed", "error", err)
		os.Exit(1)
	}
	theDB := dbService.DB()

	// Toolkits
	log.Info("Loading toolkit registry from main...")
	toolkits := toolkit.Builtin()
	if path := utils.GetEnv("TOOLKITS_PATH", "", log); path != "" {
		toolkits, err = toolkit.Load(path)
		if err != nil {
			log.Error("Toolkit registry failed to load", "path", path, "error", err)
			os.Exit(1)
		}
	}

	// SSE
	log.Info("Setting up SSE hub now...")
	hub := sse.NewHub(log)
	busCtx, busCancel := context.WithCancel(context.Background())
	defer busCancel()
	if os.Getenv("REDIS_ADDR") != "" {
		bus, err := sse.NewRedisBus(log)
		if err != nil {
			log.Warn("Redis SSE bus unavailable, staying in-process", "error", err)
		} else if err := hub.AttachBus(busCtx, bus); err != nil {
			log.Warn("Redis SSE forwarder failed, staying in-process", "error", err)
		}
	}

	// Repos
	log.Info("Setting up Repos from main...")
	eventRepo := repos.NewSignalEventRepo(theDB, log)
	planRepo := repos.NewPlanRepo(theDB, log)

	// Services
	log.Info("Setting up Services from main...")
	store := services.NewSignalStore(theDB, log, eventRepo, planRepo)
	eventService := services.NewEventService(theDB, log, eventRepo)
	heatmapService := services.NewHeatmapService(log, store)
	packService := services.NewExperiencePackService(log, store)
	seasonalService := services.NewSeasonalService(log, store)
	comparisonsService := services.NewComparisonsService(log, store, toolkits)
	reflectionService := services.NewReflectionService(log, store)
	insightsService := services.NewInsightsService(log, packService, seasonalService, comparisonsService, toolkits)
	planService := services.NewPlanService(theDB, log, planRepo, hub)

	// Resolution
	log.Info("Setting up resolution queues from main...")
	var placeClient resolution.PlaceClient
	placeClient, err = places.NewGoogleClient(log)
	if err != nil {
		// Everything but place lookup stays usable without a key; resolves
		// fail fast and stops keep their unresolved state.
		log.Warn("Place lookup disabled", "error", err)
		placeClient = disabledPlaceClient{}
	}
	// Successful resolves chain straight into detail hydration so the editor
	// gets the display payload without a second client round trip.
	var queues *resolution.Queues
	queues = resolution.NewQueues(log, placeClient,
		func(target resolution.Target, placeID string) {
			planService.ApplyResolvedPlace(target, placeID)
			queues.EnqueueDetails(target.PlanID, placeID)
		},
		func(planID uuid.UUID, placeID string, details resolution.PlaceDetails) {
			planService.ApplyPlaceDetails(planID, placeID, details)
		},
	)
	defer queues.Close()

	// Handlers
	log.Info("Setting up handlers from main...")
	eventHandler := handlers.NewEventHandler(log, eventService, hub)
	insightsHandler := handlers.NewInsightsHandler(log, heatmapService, packService, seasonalService, comparisonsService, reflectionService, insightsService, toolkits)
	coachHandler := handlers.NewCoachHandler(log, insightsService)
	planHandler := handlers.NewPlanHandler(log, planService)
	resolutionHandler := handlers.NewResolutionHandler(log, queues)
	sseHandler := handlers.NewSSEHandler(log, hub)

	// Middleware
	log.Info("Setting up middleware from main...")
	actorMiddleware := middleware.NewActorMiddleware(log)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		ActorMiddleware:   actorMiddleware,
		EventHandler:      eventHandler,
		InsightsHandler:   insightsHandler,
		CoachHandler:      coachHandler,
		PlanHandler:       planHandler,
		ResolutionHandler: resolutionHandler,
		SSEHandler:        sseHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Warn("Server failed", "error", err)
	}
}

type disabledPlaceClient struct{}

func (disabledPlaceClient) Resolve(context.Context, string, string) (string, error) {
	return "", fmt.Errorf("place lookup not configured")
}

func (disabledPlaceClient) Details(context.Context, string) (*resolution.PlaceDetails, error) {
	return nil, fmt.Errorf("place lookup not configured")
}
