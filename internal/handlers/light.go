package handlers

import (
	"errors"
	"net/http"

	"aquarium_control/internal/models"
	"aquarium_control/internal/repository"
	"aquarium_control/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusSwitched     = "switched"
	statusColorChanged = "color_changed"

	errLightCommand = "failed to switch light"
	errLatestLight  = "failed to load latest light state"
	errChangeColor  = "failed to change color"
	errInvalidLight = "invalid switch: must be ON or OFF"
)

type colorRequest struct {
	Color string `json:"color" binding:"required"` // rgb(...) string
}

// ColorRequest is an exported model for Swagger docs of the color payload.
type ColorRequest struct {
	// New light color
	Color string `json:"color" example:"rgb(120, 200, 255)"`
}

// @Summary      Switch light now or schedule a switch
// @Description  Instant sends SWITCH/COLOR and waits for the device ack. Schedule creates a Pending entry keyed on the switch state.
// @Tags         light
// @Accept       json
// @Produce      json
// @Param        body  body   ActionRequest  true  "Action payload"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/light [post]
func (h *Handler) postLight(c *gin.Context) {
	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	if req.Switch != models.LightOn && req.Switch != models.LightOff {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidLight})
		return
	}
	ctx := c.Request.Context()

	switch req.Action {
	case actionInstant:
		if err := h.services.Lights.RecordLight(ctx, req.Switch, req.Color); err != nil {
			h.logAndJSONError(c, http.StatusInternalServerError, errLightCommand, "light_instant_failed", err, "switch", req.Switch)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": statusSwitched, "switch": req.Switch})

	case actionSchedule:
		desc := models.DescLightOn
		if req.Switch == models.LightOff {
			desc = models.DescLightOff
		}
		h.createSchedule(c, service.ScheduleParams{
			WorkingTime: req.WorkingTime,
			Description: desc,
			Frequency:   req.Freq,
		})

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidAction})
	}
}

// @Summary      Latest light state
// @Tags         light
// @Produce      json
// @Success      200  {object}  models.LightEvent
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/light [get]
func (h *Handler) getLatestLight(c *gin.Context) {
	ctx := c.Request.Context()
	light, err := h.services.Lights.LatestLight(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNoLights) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no light events recorded"})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errLatestLight, "latest_light_failed", err)
		return
	}
	c.JSON(http.StatusOK, light)
}

// @Summary      Change light color
// @Description  Re-sends the light command with the current switch state and the new color, then records it.
// @Tags         light
// @Accept       json
// @Produce      json
// @Param        body  body   ColorRequest  true  "Color payload"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/light [put]
func (h *Handler) putLightColor(c *gin.Context) {
	var req colorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	ctx := c.Request.Context()

	event, err := h.services.Lights.ChangeColor(ctx, req.Color)
	if err != nil {
		if service.IsInvalidInput(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errChangeColor, "light_color_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusColorChanged, "light": event})
}
