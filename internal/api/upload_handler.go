package api

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/dewabisma/parfum-api/internal/domain"
)

const maxUploadBytes = 10 << 20

var allowedUploadExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".svg":  true,
}

// handleUpload stores an image under the upload directory and returns the
// public path clients embed in catalog records.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.renderError(w, r, domain.NewBadRequest("multipart form with a file field is required"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.renderError(w, r, domain.NewBadRequest("file field is required"))
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedUploadExts[ext] {
		s.renderError(w, r, domain.NewBadRequest("file type is not supported"))
		return
	}

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.deps.UploadDir, name))
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		s.renderError(w, r, err)
		return
	}

	s.renderData(w, http.StatusCreated, map[string]string{"path": "/images/" + name})
}
