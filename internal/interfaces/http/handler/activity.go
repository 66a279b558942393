package handler

import (
	"github.com/docfiling/backend/internal/infrastructure/activity"
	"github.com/docfiling/backend/internal/infrastructure/logger"
	"github.com/docfiling/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ActivityHandler upgrades clients onto the live audit feed
type ActivityHandler struct {
	hub      *activity.Hub
	upgrader *websocket.Upgrader
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(hub *activity.Hub, allowedOrigins []string) *ActivityHandler {
	return &ActivityHandler{hub: hub, upgrader: activity.Upgrader(allowedOrigins)}
}

// Stream godoc
// @ID           streamActivity
// @Summary      Live audit feed
// @Description  Websocket streaming each committed audit entry as JSON. Browsers may pass the token as access_token.
// @Tags         audit
// @Param        access_token query string false "Access token"
// @Success      101
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ws/activity [get]
func (h *ActivityHandler) Stream(c *gin.Context) {
	userID := middleware.GetJWTUserID(c)
	// The upgrader has already answered the client when this fails
	if err := h.hub.Serve(h.upgrader, c.Writer, c.Request, userID); err != nil {
		logger.GetGinLogger(c).Warn("Activity feed upgrade failed", zap.Error(err))
	}
}
