package handler

import (
	"strconv"

	filingapp "github.com/docfiling/backend/internal/application/filing"
	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the folder listing
type DashboardHandler struct {
	BaseHandler
	dashboard *filingapp.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboard *filingapp.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Get godoc
// @ID           getDashboard
// @Summary      Folder dashboard
// @Description  Lists folders newest notarization first with regions, document types, door numbers and recent activity
// @Tags         dashboard
// @Produce      json
// @Param        region query int false "Region ID"
// @Param        q query string false "Search across titles, documents and metadata"
// @Success      200 {object} APIResponse[filingapp.DashboardResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dashboard [get]
func (h *DashboardHandler) Get(c *gin.Context) {
	query := filingapp.DashboardQuery{Q: c.Query("q")}
	// A region that is not a number filters nothing
	if raw := c.Query("region"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 0); err == nil {
			regionID := uint(id)
			query.RegionID = &regionID
		}
	}

	resp, err := h.dashboard.Load(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithTotal(c, resp, int64(len(resp.Envelopes)))
}
