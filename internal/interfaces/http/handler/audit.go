package handler

import (
	"strconv"

	filingapp "github.com/docfiling/backend/internal/application/filing"
	"github.com/gin-gonic/gin"
)

// AuditHandler exposes the audit trail
type AuditHandler struct {
	BaseHandler
	audits *filingapp.AuditService
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(audits *filingapp.AuditService) *AuditHandler {
	return &AuditHandler{audits: audits}
}

// Recent godoc
// @ID           listAuditLogs
// @Summary      Recent audit entries
// @Description  Newest first; limit defaults to 10 and is capped at 200
// @Tags         audit
// @Produce      json
// @Param        limit query int false "Number of entries"
// @Success      200 {object} APIResponse[[]filingapp.AuditEntryResponse]
// @Security     BearerAuth
// @Router       /audit-logs [get]
func (h *AuditHandler) Recent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	entries, err := h.audits.Recent(c.Request.Context(), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithTotal(c, entries, int64(len(entries)))
}
