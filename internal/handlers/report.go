package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const errBuildReport = "failed to build report"

// @Summary      Full history report
// @Description  Complete sensor, feeding and light histories in chronological order.
// @Tags         report
// @Produce      json
// @Success      200  {object}  service.Report
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/report [get]
func (h *Handler) getReport(c *gin.Context) {
	ctx := c.Request.Context()
	report, err := h.services.Reports.Build(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errBuildReport, "report_build_failed", err)
		return
	}
	c.JSON(http.StatusOK, report)
}
