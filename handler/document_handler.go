package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/docchat/docchat-be/middleware"
	"github.com/docchat/docchat-be/service"
	"github.com/docchat/docchat-be/types"
	"github.com/gin-gonic/gin"
)

type DocumentHandler struct {
	documentService service.DocumentService
	extraction      service.ExtractionService
	activeDocument  service.ActiveDocumentService
	maxUploadSize   int64
}

func NewDocumentHandler(
	documentService service.DocumentService,
	extraction service.ExtractionService,
	activeDocument service.ActiveDocumentService,
	maxUploadSize int64,
) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		extraction:      extraction,
		activeDocument:  activeDocument,
		maxUploadSize:   maxUploadSize,
	}
}

func (h *DocumentHandler) HandleUpload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid file",
		})
		return
	}
	defer file.Close()

	if header.Size > h.maxUploadSize {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "File too large",
		})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "pdf") {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Only PDF files are allowed",
		})
		return
	}

	title := c.Request.FormValue("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Title is required",
		})
		return
	}

	var tags []string
	if raw := c.Request.FormValue("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}

	req := types.UploadDocumentRequest{
		Title:       title,
		Description: c.Request.FormValue("description"),
		Tags:        tags,
		Filename:    header.Filename,
		ContentType: contentType,
	}
	userID := c.GetString(middleware.ContextUserID)

	doc, err := h.documentService.Store(c.Request.Context(), file, req, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.DataResponse{
		Status: true,
		Data:   doc,
	})
}

func (h *DocumentHandler) HandleList(c *gin.Context) {
	skip, _ := strconv.ParseInt(c.DefaultQuery("skip", "0"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	userID := c.GetString(middleware.ContextUserID)
	docs, err := h.documentService.List(c.Request.Context(), userID, skip, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if docs == nil {
		docs = []*types.DocumentMetadata{}
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   docs,
	})
}

func (h *DocumentHandler) HandleGet(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	doc, err := h.documentService.Fetch(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   doc,
	})
}

func (h *DocumentHandler) HandleDownload(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	doc, stream, err := h.documentService.Download(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	defer stream.Close()

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%s", doc.Filename))
	c.DataFromReader(http.StatusOK, doc.FileSize, doc.ContentType, stream, nil)
}

func (h *DocumentHandler) HandleDelete(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	if err := h.documentService.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status:  true,
		Message: "Document deleted",
	})
}

func (h *DocumentHandler) HandleParse(c *gin.Context) {
	var req types.DocumentIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}

	userID := c.GetString(middleware.ContextUserID)
	text, err := h.extraction.Extract(c.Request.Context(), req.DocumentID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	doc, err := h.documentService.Fetch(c.Request.Context(), req.DocumentID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data: types.ParseResponse{
			DocumentID:  req.DocumentID,
			PageCount:   doc.PageCount,
			TextLength:  len(text.Content),
			ExtractedAt: text.ExtractedAt,
		},
	})
}

func (h *DocumentHandler) HandleSelect(c *gin.Context) {
	var req types.DocumentIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}

	userID := c.GetString(middleware.ContextUserID)
	selection, err := h.activeDocument.Select(c.Request.Context(), req.DocumentID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   selection,
	})
}

func (h *DocumentHandler) HandleGetSelected(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	selection, err := h.activeDocument.GetSelected(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   selection,
	})
}
