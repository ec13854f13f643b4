package handler

import (
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// saveTempFile spools an uploaded form file to the local disk so the media
// uploader can stream it out. Callers remove the file when done.
func saveTempFile(c *gin.Context, field string) (string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return "", err
	}

	path := filepath.Join(os.TempDir(), uuid.New().String()+filepath.Ext(fileHeader.Filename))
	if err := c.SaveUploadedFile(fileHeader, path); err != nil {
		return "", err
	}
	return path, nil
}

func removeTempFile(path string) {
	if path != "" {
		_ = os.Remove(path)
	}
}
