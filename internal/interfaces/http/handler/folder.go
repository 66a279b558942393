package handler

import (
	filingapp "github.com/docfiling/backend/internal/application/filing"
	"github.com/docfiling/backend/internal/infrastructure/logger"
	"github.com/docfiling/backend/internal/interfaces/http/dto"
	"github.com/docfiling/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

// multipartMemory is the part of a multipart body kept in memory before spilling to disk
const multipartMemory = 8 << 20

// FolderHandler manages folders and their document files
type FolderHandler struct {
	BaseHandler
	folders *filingapp.FolderService
}

// NewFolderHandler creates a new FolderHandler
func NewFolderHandler(folders *filingapp.FolderService) *FolderHandler {
	return &FolderHandler{folders: folders}
}

// Get godoc
// @ID           getFolder
// @Summary      Folder detail
// @Tags         folders
// @Produce      json
// @Param        id path int true "Folder ID"
// @Success      200 {object} APIResponse[filingapp.FolderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /folders/{id} [get]
func (h *FolderHandler) Get(c *gin.Context) {
	id, ok := h.uintParam(c, "id", "Folder")
	if !ok {
		return
	}
	folder, err := h.folders.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, folder)
}

// Create godoc
// @ID           createFolder
// @Summary      Create folder
// @Description  Accepts a JSON body or the parallel-array form (project_entity[], context[], ...)
// @Tags         folders
// @Accept       json,x-www-form-urlencoded,mpfd
// @Produce      json
// @Param        request body dto.FolderRequest true "Folder"
// @Param        Idempotency-Key header string false "Token that makes a repeated submission a no-op"
// @Success      201 {object} APIResponse[filingapp.FolderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /folders [post]
func (h *FolderHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	in, ok := h.bindFolder(c)
	if !ok {
		return
	}

	folder, err := h.folders.Create(c.Request.Context(), actor, in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, folder)
}

// Update godoc
// @ID           updateFolder
// @Summary      Edit folder
// @Description  Replaces the title, region and every metadata and document row.
// @Description  Documents are recreated, so files attached to the old rows are deleted.
// @Tags         folders
// @Accept       json,x-www-form-urlencoded,mpfd
// @Produce      json
// @Param        id path int true "Folder ID"
// @Param        request body dto.FolderRequest true "Folder"
// @Success      200 {object} APIResponse[filingapp.FolderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /folders/{id} [put]
func (h *FolderHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uintParam(c, "id", "Folder")
	if !ok {
		return
	}
	in, ok := h.bindFolder(c)
	if !ok {
		return
	}

	folder, err := h.folders.Update(c.Request.Context(), actor, id, in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, folder)
}

// Delete godoc
// @ID           deleteFolder
// @Summary      Delete folder
// @Tags         folders
// @Produce      json
// @Param        id path int true "Folder ID"
// @Success      200 {object} APIResponse[MessageData]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /folders/{id} [delete]
func (h *FolderHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uintParam(c, "id", "Folder")
	if !ok {
		return
	}

	if err := h.folders.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MessageData{Message: "Folder deleted"})
}

// UploadDocumentFile godoc
// @ID           uploadDocumentFile
// @Summary      Attach a file to a document
// @Description  Replaces any file already attached
// @Tags         folders
// @Accept       mpfd
// @Produce      json
// @Param        id path int true "Folder ID"
// @Param        docId path int true "Document ID"
// @Param        file formData file true "Document file"
// @Success      200 {object} APIResponse[filingapp.DocumentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /folders/{id}/documents/{docId}/file [put]
func (h *FolderHandler) UploadDocumentFile(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	envelopeID, ok := h.uintParam(c, "id", "Folder")
	if !ok {
		return
	}
	documentID, ok := h.uintParam(c, "docId", "Document")
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "A file is required in the 'file' field")
		return
	}
	file, err := header.Open()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			logger.GetGinLogger(c).Debug("Closing uploaded file", zap.Error(cerr))
		}
	}()

	doc, err := h.folders.AttachDocumentFile(c.Request.Context(), actor, envelopeID, documentID, filingapp.FileUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

// DocumentFileURL godoc
// @ID           getDocumentFileURL
// @Summary      Download link for a document file
// @Tags         folders
// @Produce      json
// @Param        id path int true "Folder ID"
// @Param        docId path int true "Document ID"
// @Success      200 {object} APIResponse[filingapp.FileURLResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /folders/{id}/documents/{docId}/file [get]
func (h *FolderHandler) DocumentFileURL(c *gin.Context) {
	envelopeID, ok := h.uintParam(c, "id", "Folder")
	if !ok {
		return
	}
	documentID, ok := h.uintParam(c, "docId", "Document")
	if !ok {
		return
	}

	link, err := h.folders.DocumentFileURL(c.Request.Context(), envelopeID, documentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, link)
}

// bindFolder decodes a JSON folder body, or the parallel-array form for any
// other content type
func (h *FolderHandler) bindFolder(c *gin.Context) (filingapp.FolderInput, bool) {
	var err error
	switch c.ContentType() {
	case binding.MIMEJSON:
		var req dto.FolderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleBindError(c, err)
			return filingapp.FolderInput{}, false
		}
		return req.ToInput(), true
	case binding.MIMEMultipartPOSTForm:
		err = c.Request.ParseMultipartForm(multipartMemory)
	default:
		err = c.Request.ParseForm()
	}
	if err != nil {
		h.BadRequest(c, "Malformed form body")
		return filingapp.FolderInput{}, false
	}
	return dto.ParseFolderForm(c.Request.PostForm), true
}
