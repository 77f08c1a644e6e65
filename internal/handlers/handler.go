package handlers

import (
	"aquarium_control/internal/logger"
	"aquarium_control/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Versioned API endpoints
	h.registerAPIRoutes(router)

	// Minimal WebSocket connection (HTTP upgrade) on the same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		h.registerFeedingRoutes(api)
		h.registerLightRoutes(api)
		h.registerSensorRoutes(api)
		h.registerScheduleRoutes(api)
		h.registerPreferenceRoutes(api)

		api.GET("/report", h.getReport)
		api.POST("/tokens", h.registerToken)
	}
}

func (h *Handler) registerFeedingRoutes(api *gin.RouterGroup) {
	feeding := api.Group("/feeding")
	{
		// Body example: {"action":"Schedule","workingTime":"18:30","freq":"Everyday"}
		feeding.POST("", h.postFeeding)
		feeding.GET("", h.getLatestFeeding)
	}
}

func (h *Handler) registerLightRoutes(api *gin.RouterGroup) {
	light := api.Group("/light")
	{
		light.POST("", h.postLight)
		light.GET("", h.getLatestLight)
		light.PUT("", h.putLightColor)
	}
}

func (h *Handler) registerSensorRoutes(api *gin.RouterGroup) {
	sensors := api.Group("/sensors")
	{
		sensors.POST("", h.postReading)
		sensors.GET("", h.getOverview)
	}
}

func (h *Handler) registerScheduleRoutes(api *gin.RouterGroup) {
	schedules := api.Group("/schedules")
	{
		schedules.GET("", h.getUpcomingSchedules)
		schedules.DELETE("", h.cancelSchedule)
	}
}

func (h *Handler) registerPreferenceRoutes(api *gin.RouterGroup) {
	preferences := api.Group("/preferences")
	{
		preferences.GET("", h.getPreferences)
		preferences.PUT("", h.putPreferences)
	}
}
