package handlers

import (
	"errors"
	"net/http"

	"aquarium_control/internal/repository"
	"aquarium_control/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errStoreReading = "failed to store reading"
	errGetOverview  = "failed to load latest reading"
	errNoPrefsMsg   = "preferences not configured"
)

// readingRequest uses pointers so a present zero value (temp=0 is a real
// reading) passes the required check while an absent field does not.
type readingRequest struct {
	Temp    *float64 `json:"temp" binding:"required"`
	PH      *float64 `json:"ph" binding:"required"`
	TDS     *float64 `json:"tds" binding:"required"`
	WaterLv *float64 `json:"waterLv" binding:"required"`
}

// ReadingRequest is an exported model for Swagger docs of the reading payload.
type ReadingRequest struct {
	// Water temperature in Celsius
	Temp float64 `json:"temp" example:"25.5"`
	// Acidity
	PH float64 `json:"ph" example:"7.2"`
	// Total dissolved solids in ppm
	TDS float64 `json:"tds" example:"320"`
	// Water level as a percentage of the tank height
	WaterLv float64 `json:"waterLv" example:"95"`
}

// @Summary      Store a sensor reading
// @Description  Classifies the reading against the configured bands and persists it with its severity.
// @Tags         sensors
// @Accept       json
// @Produce      json
// @Param        body  body   ReadingRequest  true  "Reading payload"
// @Success      200   {object}  models.SensorReading
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/sensors [post]
func (h *Handler) postReading(c *gin.Context) {
	var req readingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	ctx := c.Request.Context()

	reading, err := h.services.Sensors.Store(ctx, service.SensorSample{
		Temp:    *req.Temp,
		PH:      *req.PH,
		TDS:     *req.TDS,
		WaterLv: *req.WaterLv,
	})
	if err != nil {
		if errors.Is(err, service.ErrPreferencesMissing) {
			c.JSON(http.StatusConflict, gin.H{"error": errNoPrefsMsg})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errStoreReading, "reading_store_failed", err)
		return
	}
	c.JSON(http.StatusOK, reading)
}

// @Summary      Latest reading with deviations
// @Description  Returns the latest reading and its per-metric deviations; Orange/Red overviews also push an alert and the quality payload to the device display.
// @Tags         sensors
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "reading, deviations"
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/sensors [get]
func (h *Handler) getOverview(c *gin.Context) {
	ctx := c.Request.Context()
	overview, err := h.services.Sensors.LatestOverview(ctx)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNoReadings):
			c.JSON(http.StatusNotFound, gin.H{"error": "no readings recorded"})
		case errors.Is(err, service.ErrPreferencesMissing):
			c.JSON(http.StatusConflict, gin.H{"error": errNoPrefsMsg})
		default:
			h.logAndJSONError(c, http.StatusInternalServerError, errGetOverview, "overview_failed", err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reading":    overview.Reading,
		"deviations": overview.Deviations,
	})
}
