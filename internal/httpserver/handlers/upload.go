package handlers

import (
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/folio/internal/httpserver/deps"
	"github.com/MrSnakeDoc/folio/internal/logger"
	"github.com/MrSnakeDoc/folio/internal/upload"
)

type uploadResponse struct {
	Success bool   `json:"success"`
	Path    string `json:"path"`
}

// Upload stores the multipart "file" field under the public directory.
func Upload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, d.UploadMaxBytes)

		file, header, err := r.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, "File too large")
				return
			}
			writeError(w, http.StatusBadRequest, "No file uploaded")
			return
		}
		defer func() { _ = file.Close() }()

		path, err := d.Uploads.Save(header.Filename, header.Header.Get("Content-Type"), file)
		if err != nil {
			if errors.Is(err, upload.ErrEmptyName) {
				writeError(w, http.StatusBadRequest, "No file uploaded")
				return
			}
			d.Logger.Error("failed to store upload",
				logger.String("name", header.Filename),
				logger.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to upload file")
			return
		}

		d.Logger.Info("file uploaded",
			logger.String("path", path),
			logger.Int("bytes", int(header.Size)))
		writeJSON(w, http.StatusOK, uploadResponse{Success: true, Path: path})
	}
}
