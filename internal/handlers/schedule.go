package handlers

import (
	"errors"
	"net/http"

	"aquarium_control/internal/repository"
	"aquarium_control/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusCanceled = "canceled"

	errListSchedules  = "failed to load schedules"
	errCancelSchedule = "failed to cancel schedule"
)

type cancelRequest struct {
	ID   int64  `json:"id" binding:"required"`
	Type string `json:"type" binding:"required"` // Permanent | Today
}

// CancelRequest is an exported model for Swagger docs of the cancel payload.
type CancelRequest struct {
	// Schedule entry id
	ID int64 `json:"id" example:"3"`
	// Cancellation kind. Permanent deletes; Today defers a recurring entry to tomorrow.
	Type string `json:"type" example:"Permanent"`
}

// @Summary      Upcoming schedules
// @Description  Today's entries plus recurring entries already advanced to tomorrow.
// @Tags         schedules
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, schedules"
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/schedules [get]
func (h *Handler) getUpcomingSchedules(c *gin.Context) {
	ctx := c.Request.Context()
	entries, err := h.services.Schedules.ListUpcoming(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListSchedules, "schedules_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":     len(entries),
		"schedules": entries,
	})
}

// @Summary      Cancel a schedule
// @Description  Permanent deletes the entry; Today moves a recurring entry's date to tomorrow so it skips one occurrence.
// @Tags         schedules
// @Accept       json
// @Produce      json
// @Param        body  body   CancelRequest  true  "Cancel payload"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/schedules [delete]
func (h *Handler) cancelSchedule(c *gin.Context) {
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	ctx := c.Request.Context()

	if err := h.services.Schedules.Cancel(ctx, req.ID, req.Type); err != nil {
		switch {
		case service.IsInvalidInput(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrScheduleNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "schedule not found"})
		default:
			h.logAndJSONError(c, http.StatusInternalServerError, errCancelSchedule, "schedule_cancel_failed", err, "id", req.ID)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusCanceled})
}
