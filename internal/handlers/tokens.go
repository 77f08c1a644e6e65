package handlers

import (
	"net/http"

	"aquarium_control/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusTokenCreated = "registered"
	statusTokenKnown   = "already_registered"

	errRegisterToken = "failed to register token"
)

type tokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// TokenRequest is an exported model for Swagger docs of the token payload.
type TokenRequest struct {
	// FCM device token
	Token string `json:"token" example:"fYx3...:APA91b..."`
}

// @Summary      Register a push token
// @Tags         tokens
// @Accept       json
// @Produce      json
// @Param        body  body   TokenRequest  true  "Token payload"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/tokens [post]
func (h *Handler) registerToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	ctx := c.Request.Context()

	created, err := h.services.Tokens.Register(ctx, req.Token)
	if err != nil {
		if service.IsInvalidInput(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errRegisterToken, "token_register_failed", err)
		return
	}

	status := statusTokenCreated
	if !created {
		status = statusTokenKnown
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}
