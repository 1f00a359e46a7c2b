package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/resume-reviewer/internal/logger"
	"github.com/spigell/resume-reviewer/internal/review"
)

const uploadField = "file"

type uploadRequest struct {
	JobDescription string `mapstructure:"job_description"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	limit := s.cfg.MaxUploadMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d MB", s.cfg.MaxUploadMB))
			return
		}
		s.writeError(w, http.StatusBadRequest, "expected a multipart form")
		return
	}

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "no file part in the request")
		return
	}
	defer file.Close()

	req, err := decodeUploadRequest(r.MultipartForm)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		req.JobDescription = s.cfg.JobDescription
	}

	path, err := s.store(file, header.Filename)
	if err != nil {
		s.logger.Error("storing upload", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "could not store the upload")
		return
	}

	log := logger.WithReviewFields(s.logger, path, "")
	log.Info("reviewing upload", zap.Int64("size", header.Size))

	result, err := s.reviewer.Review(r.Context(), path, req.JobDescription)
	switch {
	case errors.Is(err, review.ErrUnreadable):
		log.Warn("unreadable upload", zap.Error(err))
		s.writeError(w, http.StatusUnprocessableEntity, "could not extract text from the PDF")
		return
	case err != nil:
		log.Error("review failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "review failed")
		return
	}

	log.Info("review finished", logger.ScoreFields(result.Score, result.Len())...)
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleStored(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}

	path := filepath.Join(s.cfg.UploadDir, name)
	if _, err := os.Stat(path); err != nil {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}

	http.ServeFile(w, r, path)
}

// store copies the upload into the upload dir under a unique name. A partially
// written file is removed.
func (s *Server) store(src io.Reader, filename string) (_ string, err error) {
	name := uuid.NewString() + "_" + sanitizeFilename(filename)
	path := filepath.Join(s.cfg.UploadDir, name)

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("creating %q: %w", path, err)
	}

	defer func() {
		if closeErr := dst.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing %q: %w", path, closeErr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("writing %q: %w", path, err)
	}

	return path, nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)

	name = strings.TrimLeft(name, ".")
	if name == "" {
		return "resume.pdf"
	}
	return name
}

// decodeUploadRequest maps the first value of every form field onto uploadRequest.
func decodeUploadRequest(form *multipart.Form) (*uploadRequest, error) {
	values := make(map[string]any)
	if form != nil {
		for key, vals := range form.Value {
			if len(vals) > 0 {
				values[key] = vals[0]
			}
		}
	}

	var req uploadRequest
	if err := mapstructure.Decode(values, &req); err != nil {
		return nil, fmt.Errorf("decoding form: %w", err)
	}
	return &req, nil
}
