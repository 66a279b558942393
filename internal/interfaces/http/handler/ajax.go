package handler

import (
	"errors"
	"net/http"
	"strconv"

	filingapp "github.com/docfiling/backend/internal/application/filing"
	"github.com/docfiling/backend/internal/domain/audit"
	"github.com/docfiling/backend/internal/domain/shared"
	"github.com/docfiling/backend/internal/infrastructure/logger"
	"github.com/docfiling/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

// AddDocumentTypeRequest names a document type suggestion
type AddDocumentTypeRequest struct {
	Name string `json:"name" form:"name"`
}

// DeleteDocumentTypeRequest selects a document type
type DeleteDocumentTypeRequest struct {
	ID uint `json:"id" form:"id"`
}

// PrintStatusRequest flags folders as printed or not printed.
// Form bodies may send ids as ids or ids[].
type PrintStatusRequest struct {
	IDs    []uint `json:"ids" form:"ids"`
	Status bool   `json:"status" form:"status"`
}

// BulkDoorRequest renames a door number across all folders.
// old_door "__EMPTY__" matches rows with no door number.
type BulkDoorRequest struct {
	OldDoor string `json:"old_door" form:"old_door"`
	NewDoor string `json:"new_door" form:"new_door"`
}

// DeletedData reports a deleted row
type DeletedData struct {
	ID uint `json:"id"`
}

// AjaxHandler serves the in-page bulk operations. Every outcome is HTTP 200
// with success true or false.
type AjaxHandler struct {
	bulk *filingapp.BulkService
}

// NewAjaxHandler creates a new AjaxHandler
func NewAjaxHandler(bulk *filingapp.BulkService) *AjaxHandler {
	return &AjaxHandler{bulk: bulk}
}

// AddDocumentType godoc
// @ID           ajaxAddDocumentType
// @Summary      Add document type
// @Description  Upper-cases the name and returns the existing type when present
// @Tags         ajax
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        request body AddDocumentTypeRequest true "Document type"
// @Success      200 {object} AjaxResponse
// @Security     BearerAuth
// @Router       /ajax/document-types/add [post]
func (h *AjaxHandler) AddDocumentType(c *gin.Context) {
	var req AddDocumentTypeRequest
	if !h.bind(c, &req) {
		return
	}
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	result, err := h.bulk.AddDocumentType(c.Request.Context(), actor, req.Name)
	h.respond(c, result, err)
}

// DeleteDocumentType godoc
// @ID           ajaxDeleteDocumentType
// @Summary      Delete document type
// @Tags         ajax
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        request body DeleteDocumentTypeRequest true "Document type"
// @Success      200 {object} AjaxResponse
// @Security     BearerAuth
// @Router       /ajax/document-types/delete [post]
func (h *AjaxHandler) DeleteDocumentType(c *gin.Context) {
	var req DeleteDocumentTypeRequest
	if !h.bind(c, &req) {
		return
	}
	if req.ID == 0 {
		h.fail(c, "Missing document type id")
		return
	}
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	err := h.bulk.DeleteDocumentType(c.Request.Context(), actor, req.ID)
	h.respond(c, DeletedData{ID: req.ID}, err)
}

// UpdatePrintStatus godoc
// @ID           ajaxUpdatePrintStatus
// @Summary      Mark folders printed
// @Tags         ajax
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        request body PrintStatusRequest true "Folders and status"
// @Success      200 {object} AjaxResponse
// @Security     BearerAuth
// @Router       /ajax/print-status [post]
func (h *AjaxHandler) UpdatePrintStatus(c *gin.Context) {
	var req PrintStatusRequest
	if !h.bind(c, &req) {
		return
	}
	if len(req.IDs) == 0 && c.ContentType() != binding.MIMEJSON {
		ids, ok := parseIDs(c.PostFormArray("ids[]"))
		if !ok {
			h.fail(c, "Folder ids must be numbers")
			return
		}
		req.IDs = ids
	}
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	result, err := h.bulk.UpdatePrintStatus(c.Request.Context(), actor, req.IDs, req.Status)
	h.respond(c, result, err)
}

// BulkUpdateDoor godoc
// @ID           ajaxBulkUpdateDoor
// @Summary      Rename a door number everywhere
// @Tags         ajax
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        request body BulkDoorRequest true "Old and new door number"
// @Success      200 {object} AjaxResponse
// @Security     BearerAuth
// @Router       /ajax/bulk-door [post]
func (h *AjaxHandler) BulkUpdateDoor(c *gin.Context) {
	var req BulkDoorRequest
	if !h.bind(c, &req) {
		return
	}
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	result, err := h.bulk.BulkUpdateDoor(c.Request.Context(), actor, req.OldDoor, req.NewDoor)
	h.respond(c, result, err)
}

// bind rejects anything but POST and decodes the body by content type
func (h *AjaxHandler) bind(c *gin.Context, obj any) bool {
	if c.Request.Method != http.MethodPost {
		h.fail(c, "Method not allowed")
		return false
	}
	if err := c.ShouldBind(obj); err != nil {
		h.fail(c, "Invalid request body")
		return false
	}
	return true
}

func (h *AjaxHandler) actor(c *gin.Context) (audit.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		h.fail(c, "Authentication required")
	}
	return actor, ok
}

func (h *AjaxHandler) respond(c *gin.Context, data any, err error) {
	if err == nil {
		c.JSON(http.StatusOK, AjaxResponse{Success: true, Data: data})
		return
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.fail(c, domainErr.Message)
		return
	}
	logger.GetGinLogger(c).Error("AJAX operation failed", zap.Error(err))
	_ = c.Error(err)
	h.fail(c, "An unexpected error occurred")
}

func (h *AjaxHandler) fail(c *gin.Context, message string) {
	c.JSON(http.StatusOK, AjaxResponse{Success: false, Error: message})
}

func parseIDs(raw []string) ([]uint, bool) {
	ids := make([]uint, 0, len(raw))
	for _, s := range raw {
		id, err := strconv.ParseUint(s, 10, 0)
		if err != nil {
			return nil, false
		}
		ids = append(ids, uint(id))
	}
	return ids, true
}
