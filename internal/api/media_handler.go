package api

import (
	"coachplan/fitness-app/internal/service"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// MediaHandler serves exercise demo media endpoints.
type MediaHandler struct {
	mediaService service.MediaService
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(mediaService service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// --- Request/Response Structs ---

type RequestUploadRequest struct {
	TemplateID  string `json:"templateId" binding:"required"`
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	Size        int64  `json:"size" binding:"required,min=1"`
}

type DownloadURLResponse struct {
	DownloadURL string `json:"downloadUrl"`
}

// --- Handler Methods ---

// RequestUpload reserves a media record and returns a presigned PUT URL.
// The client uploads the file directly to object storage.
func (h *MediaHandler) RequestUpload(c *gin.Context) {
	userID, ok := requestingUserID(c)
	if !ok {
		return
	}

	var req RequestUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	templateID, err := parseHexID(req.TemplateID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid templateId format")
		return
	}

	ticket, err := h.mediaService.RequestUpload(c.Request.Context(), userID, templateID, req.FileName, req.ContentType, req.Size)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

// GetDownloadURL returns a presigned GET URL for a media record.
func (h *MediaHandler) GetDownloadURL(c *gin.Context) {
	userID, ok := requestingUserID(c)
	if !ok {
		return
	}
	mediaID, ok := pathObjectID(c, "mediaId")
	if !ok {
		return
	}

	downloadURL, err := h.mediaService.GetDownloadURL(c.Request.Context(), userID, mediaID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, DownloadURLResponse{DownloadURL: downloadURL})
}
