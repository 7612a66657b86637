package handlers

import (
	"net/http"

	"novamailer/services/mailer/csvimport"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
)

const csvPreviewRows = 5

// UploadHandler handles file inspection endpoints that are not tied to a campaign
type UploadHandler struct{}

// NewUploadHandler creates a new upload handler
func NewUploadHandler() *UploadHandler {
	return &UploadHandler{}
}

// PreviewCSV parses an uploaded CSV and returns its columns and leading rows
func (h *UploadHandler) PreviewCSV(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return
	}

	opened, err := file.Open()
	if err != nil {
		respondError(c, err, "Failed to read uploaded file")
		return
	}
	defer opened.Close()

	rows, err := csvimport.Parse(opened)
	if err != nil {
		respondError(c, err, "Failed to parse CSV")
		return
	}

	preview := rows
	if len(preview) > csvPreviewRows {
		preview = preview[:csvPreviewRows]
	}

	c.JSON(http.StatusOK, gin.H{
		"count":      len(rows),
		"columns":    csvimport.Columns(rows),
		"preview":    preview,
		"request_id": requestid.Get(c),
	})
}
