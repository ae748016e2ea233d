package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Cesarb72/waypoint-sub001/internal/handlers"
	"github.com/Cesarb72/waypoint-sub001/internal/middleware"
)

type RouterConfig struct {
	ActorMiddleware   *middleware.ActorMiddleware
	EventHandler      *handlers.EventHandler
	InsightsHandler   *handlers.InsightsHandler
	CoachHandler      *handlers.CoachHandler
	PlanHandler       *handlers.PlanHandler
	ResolutionHandler *handlers.ResolutionHandler
	SSEHandler        *handlers.SSEHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "X-Actor-ID", "X-Session-ID"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	api.Use(cfg.ActorMiddleware.OptionalActor())
	{
		api.POST("/events", cfg.EventHandler.Ingest)

		api.GET("/insights/heatmap", cfg.InsightsHandler.GetHeatmap)
		api.GET("/insights/experience-pack", cfg.InsightsHandler.GetExperiencePack)
		api.GET("/insights/seasonal", cfg.InsightsHandler.GetSeasonal)
		api.POST("/insights/comparisons", cfg.InsightsHandler.GetComparisons)
		api.GET("/insights/reflection/chosen-not-completed", cfg.InsightsHandler.GetChosenNotCompleted)
		api.GET("/insights/reflection/most-revisited", cfg.InsightsHandler.GetMostRevisited)
		api.POST("/insights/editor", cfg.InsightsHandler.GetEditorInsights)

		api.POST("/coach/suggestions", cfg.CoachHandler.GetSuggestions)

		api.POST("/resolution/resolve", cfg.ResolutionHandler.EnqueueResolve)
		api.POST("/resolution/details", cfg.ResolutionHandler.EnqueueDetails)

		api.GET("/sse/stream", cfg.SSEHandler.Stream)
	}

	// Plan reads and saves need a real actor.
	plansGroup := router.Group("/api/plans")
	plansGroup.Use(cfg.ActorMiddleware.RequireActor())
	{
		plansGroup.POST("/draft", cfg.PlanHandler.SaveDraft)
		plansGroup.GET("/:id", cfg.PlanHandler.GetPlan)
		plansGroup.GET("", cfg.PlanHandler.ListPlans)
	}

	return router
}
