package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	statusPrefsSaved = "saved"

	errGetPreferences  = "failed to load preferences"
	errSavePreferences = "failed to save preferences"
)

// @Summary      Get preferences
// @Description  Returns the stored threshold bands, or the factory defaults when none were saved yet.
// @Tags         preferences
// @Produce      json
// @Success      200  {object}  models.UserPreferences
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/preferences [get]
func (h *Handler) getPreferences(c *gin.Context) {
	ctx := c.Request.Context()
	prefs, err := h.services.Preferences.Get(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetPreferences, "preferences_get_failed", err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// @Summary      Update preferences
// @Description  Partial updates merge over the current values: omitted fields keep what is stored. Saving re-evaluates the latest reading and pushes the tank height to the device.
// @Tags         preferences
// @Accept       json
// @Produce      json
// @Param        body  body   models.UserPreferences  true  "Preference fields to change"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/preferences [put]
func (h *Handler) putPreferences(c *gin.Context) {
	ctx := c.Request.Context()

	// Bind over the current values so a partial body only changes the
	// fields it names.
	prefs, err := h.services.Preferences.Get(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetPreferences, "preferences_get_failed", err)
		return
	}
	if err := c.ShouldBindJSON(&prefs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	if err := h.services.Preferences.Update(ctx, prefs); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errSavePreferences, "preferences_save_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusPrefsSaved, "preferences": prefs})
}
