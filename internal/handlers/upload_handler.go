package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	maxImageBytes = 5 << 20
	maxVideoBytes = 50 << 20
)

var uploadKinds = map[string]string{
	".jpg":  "image",
	".jpeg": "image",
	".png":  "image",
	".webp": "image",
	".gif":  "image",
	".mp4":  "video",
	".webm": "video",
	".mov":  "video",
}

// UploadFile handles POST /v1/admin/upload
// It saves a product image or video to the upload folder and returns the
// public URL to put in a product's images or videos list.
func (h *Handlers) UploadFile(c *gin.Context) {
	// 1. Get the file from the request
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	// 2. Check type and size
	ext := strings.ToLower(filepath.Ext(file.Filename))
	kind, ok := uploadKinds[ext]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type " + ext})
		return
	}
	limit := int64(maxImageBytes)
	if kind == "video" {
		limit = maxVideoBytes
	}
	if file.Size > limit {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("File is too large (max %d MB)", limit>>20)})
		return
	}

	// 3. Create the upload directory if it doesn't exist
	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		h.respondError(c, fmt.Errorf("create upload dir: %w", err))
		return
	}

	// 4. Save under a unique name (uuid + extension)
	newFilename := uuid.NewString() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(h.UploadDir, newFilename)); err != nil {
		h.respondError(c, fmt.Errorf("save upload: %w", err))
		return
	}

	// 5. Return the public URL
	c.JSON(http.StatusCreated, gin.H{
		"url":  fmt.Sprintf("%s/uploads/%s", h.PublicBaseURL, newFilename),
		"kind": kind,
	})
}
