package handlers

import (
	"errors"
	"net/http"

	"aquarium_control/internal/models"
	"aquarium_control/internal/repository"
	"aquarium_control/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK        = "ok"
	statusFed       = "fed"
	statusScheduled = "scheduled"
	statusFired     = "fired"

	actionSchedule = "Schedule"
	actionInstant  = "Instant"

	errFeedCommand     = "failed to feed"
	errCreateSchedule  = "failed to create schedule"
	errLatestFeed      = "failed to load latest feeding"
	errInvalidBodyPref = "invalid body: "
	errInvalidAction   = "invalid action: must be Schedule or Instant"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// Request DTO shared by the feeding and light POST endpoints.
type actionRequest struct {
	Action      string `json:"action" binding:"required"` // Schedule | Instant
	WorkingTime string `json:"workingTime,omitempty"`     // required if action=Schedule, HH:MM
	Freq        string `json:"freq,omitempty"`            // Today | Everyday
	Switch      string `json:"switch,omitempty"`          // light only: ON | OFF
	Color       string `json:"color,omitempty"`           // light only
}

// ActionRequest is an exported model for Swagger docs of the action payload.
type ActionRequest struct {
	// Action to perform. Allowed: Schedule, Instant
	Action string `json:"action" example:"Schedule"`
	// Trigger time (required when action=Schedule)
	WorkingTime string `json:"workingTime,omitempty" example:"18:30"`
	// Recurrence (required when action=Schedule). Allowed: Today, Everyday
	Freq string `json:"freq,omitempty" example:"Everyday"`
	// Light switch state (light endpoint only). Allowed: ON, OFF
	Switch string `json:"switch,omitempty" example:"ON"`
	// Light color (light endpoint only)
	Color string `json:"color,omitempty" example:"rgb(245, 255, 197)"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Feed now or schedule a feeding
// @Description  Instant publishes the feed command and waits for the device ack. Schedule creates a Pending entry; an entry for the current minute fires immediately.
// @Tags         feeding
// @Accept       json
// @Produce      json
// @Param        body  body   ActionRequest  true  "Action payload"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/feeding [post]
func (h *Handler) postFeeding(c *gin.Context) {
	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	ctx := c.Request.Context()

	switch req.Action {
	case actionInstant:
		ack, err := h.services.Gateway.FeedInstant(ctx)
		if err != nil {
			h.logAndJSONError(c, http.StatusInternalServerError, errFeedCommand, "feed_instant_failed", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": statusFed, "ack": ack})

	case actionSchedule:
		h.createSchedule(c, service.ScheduleParams{
			WorkingTime: req.WorkingTime,
			Description: models.DescFeedOn,
			Frequency:   req.Freq,
		})

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidAction})
	}
}

// createSchedule is shared by the feeding and light POST paths.
func (h *Handler) createSchedule(c *gin.Context, params service.ScheduleParams) {
	ctx := c.Request.Context()
	entry, fired, err := h.services.Schedules.Create(ctx, params)
	if err != nil {
		if service.IsInvalidInput(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errCreateSchedule, "schedule_create_failed", err, "desc", params.Description)
		return
	}

	status := statusScheduled
	if fired {
		status = statusFired
	}
	c.JSON(http.StatusOK, gin.H{"status": status, "schedule": entry})
}

// @Summary      Latest feeding
// @Tags         feeding
// @Produce      json
// @Success      200  {object}  models.FeedEvent
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/feeding [get]
func (h *Handler) getLatestFeeding(c *gin.Context) {
	ctx := c.Request.Context()
	feed, err := h.services.Feedings.LatestFeed(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNoFeedings) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no feedings recorded"})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errLatestFeed, "latest_feed_failed", err)
		return
	}
	c.JSON(http.StatusOK, feed)
}
