package handler

import (
	filingapp "github.com/docfiling/backend/internal/application/filing"
	"github.com/docfiling/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// RegionRequest names a region
type RegionRequest struct {
	Name string `json:"name" form:"name" binding:"max=100"`
}

// RegionHandler manages regions
type RegionHandler struct {
	BaseHandler
	regions *filingapp.RegionService
}

// NewRegionHandler creates a new RegionHandler
func NewRegionHandler(regions *filingapp.RegionService) *RegionHandler {
	return &RegionHandler{regions: regions}
}

// List godoc
// @ID           listRegions
// @Summary      List regions
// @Description  Regions in natural order
// @Tags         regions
// @Produce      json
// @Success      200 {object} APIResponse[[]filingapp.RegionResponse]
// @Security     BearerAuth
// @Router       /regions [get]
func (h *RegionHandler) List(c *gin.Context) {
	regions, err := h.regions.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithTotal(c, regions, int64(len(regions)))
}

// Create godoc
// @ID           createRegion
// @Summary      Create region
// @Description  Returns the existing region when the name is taken
// @Tags         regions
// @Accept       json
// @Produce      json
// @Param        request body RegionRequest true "Region"
// @Param        Idempotency-Key header string false "Token that makes a repeated submission a no-op"
// @Success      200 {object} APIResponse[filingapp.RegionResult]
// @Success      201 {object} APIResponse[filingapp.RegionResult]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /regions [post]
func (h *RegionHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req RegionRequest
	if err := c.ShouldBind(&req); err != nil {
		middleware.HandleBindError(c, err)
		return
	}

	result, err := h.regions.Create(c.Request.Context(), actor, req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.Created {
		h.Created(c, result)
		return
	}
	h.Success(c, result)
}

// Rename godoc
// @ID           renameRegion
// @Summary      Rename region
// @Description  An empty name leaves the region unchanged
// @Tags         regions
// @Accept       json
// @Produce      json
// @Param        id path int true "Region ID"
// @Param        request body RegionRequest true "Region"
// @Success      200 {object} APIResponse[filingapp.RegionResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /regions/{id} [put]
func (h *RegionHandler) Rename(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uintParam(c, "id", "Region")
	if !ok {
		return
	}
	var req RegionRequest
	if err := c.ShouldBind(&req); err != nil {
		middleware.HandleBindError(c, err)
		return
	}

	region, err := h.regions.Rename(c.Request.Context(), actor, id, req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, region)
}

// Delete godoc
// @ID           deleteRegion
// @Summary      Delete region
// @Description  Deletes the region with all of its folders
// @Tags         regions
// @Produce      json
// @Param        id path int true "Region ID"
// @Success      200 {object} APIResponse[MessageData]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /regions/{id} [delete]
func (h *RegionHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uintParam(c, "id", "Region")
	if !ok {
		return
	}

	if err := h.regions.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MessageData{Message: "Region deleted"})
}
