package devserver

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/vitatrack/vitatrack/internal/logger"
)

var imageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".heic": true}

func (s *Server) uploadFoodImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("foodImage")
	if err != nil {
		writeError(w, http.StatusBadRequest, "foodImage file is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	if !imageExtensions[ext] {
		writeError(w, http.StatusBadRequest, "unsupported image type "+ext)
		return
	}

	name := uuid.NewString() + ext
	dst, err := os.OpenFile(filepath.Join(s.uploadDir, name), os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
	if err != nil {
		logger.Error("Failed to create upload file", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to store image")
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		_ = os.Remove(dst.Name())
		logger.Error("Failed to write upload file", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to store image")
		return
	}
	if err := dst.Close(); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store image")
		return
	}

	logger.Info("Stored food image", "file", name, "user_id", r.FormValue("user_id"))
	writeJSON(w, http.StatusOK, map[string]string{"imageUrl": "/uploads/" + name})
}
