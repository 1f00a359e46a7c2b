package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/resume-reviewer/internal/feedback"
	"github.com/spigell/resume-reviewer/internal/review"
)

type stubReviewer struct {
	result *feedback.Result
	err    error

	path    string
	jobDesc string
}

func (s *stubReviewer) Review(_ context.Context, path, jobDesc string) (*feedback.Result, error) {
	s.path = path
	s.jobDesc = jobDesc
	return s.result, s.err
}

func newTestServer(t *testing.T, reviewer Reviewer, cfg Config) (*Server, http.Handler) {
	t.Helper()

	cfg.UploadDir = t.TempDir()
	srv, err := New(cfg, reviewer, nil)
	require.NoError(t, err)
	return srv, srv.Routes()
}

func uploadBody(t *testing.T, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	if filename != "" {
		part, err := w.CreateFormFile(uploadField, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	for key, value := range fields {
		require.NoError(t, w.WriteField(key, value))
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func doUpload(t *testing.T, h http.Handler, filename string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := uploadBody(t, filename, []byte("%PDF-1.4 fake"), fields)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	t.Parallel()

	_, h := newTestServer(t, &stubReviewer{}, Config{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestUploadReviewsStoredFile(t *testing.T) {
	t.Parallel()

	reviewer := &stubReviewer{result: feedback.NewResult([]feedback.Item{
		feedback.New(feedback.TagCritical, "Contact information is missing"),
	})}
	srv, h := newTestServer(t, reviewer, Config{})

	rec := doUpload(t, h, "My CV.pdf", map[string]string{"job_description": "Go developer"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"score":85,"results":["🔴 Contact information is missing"]}`, rec.Body.String())

	assert.Equal(t, "Go developer", reviewer.jobDesc)
	assert.Equal(t, srv.cfg.UploadDir, filepath.Dir(reviewer.path))
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f-]{36}_My_CV\.pdf$`), filepath.Base(reviewer.path))

	stored, err := os.ReadFile(reviewer.path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 fake", string(stored))
}

func TestUploadFallsBackToConfiguredJobDescription(t *testing.T) {
	t.Parallel()

	reviewer := &stubReviewer{result: feedback.NewResult(nil)}
	_, h := newTestServer(t, reviewer, Config{JobDescription: "SRE"})

	rec := doUpload(t, h, "cv.pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "SRE", reviewer.jobDesc)
}

func TestUploadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		filename string
		err      error
		status   int
	}{
		{name: "missing file", status: http.StatusBadRequest},
		{name: "unreadable pdf", filename: "scan.pdf", err: review.ErrUnreadable, status: http.StatusUnprocessableEntity},
		{name: "review failure", filename: "cv.pdf", err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, h := newTestServer(t, &stubReviewer{err: tt.err}, Config{})
			rec := doUpload(t, h, tt.filename, nil)

			assert.Equal(t, tt.status, rec.Code)

			var body errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestUploadRejectsNonMultipart(t *testing.T) {
	t.Parallel()

	_, h := newTestServer(t, &stubReviewer{}, Config{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/upload", bytes.NewBufferString("{}")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStoredUploads(t *testing.T) {
	t.Parallel()

	srv, h := newTestServer(t, &stubReviewer{}, Config{})
	require.NoError(t, os.WriteFile(filepath.Join(srv.cfg.UploadDir, "abc_cv.pdf"), []byte("pdf"), 0o600))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/abc_cv.pdf", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pdf", rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/missing.pdf", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewDefaults(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	srv, err := New(Config{UploadDir: dir}, &stubReviewer{}, nil)
	require.NoError(t, err)

	assert.Equal(t, defaultPort, srv.cfg.Port)
	assert.EqualValues(t, defaultMaxUploadMB, srv.cfg.MaxUploadMB)
	assert.DirExists(t, dir)
	assert.False(t, srv.cfg.TLS())
	assert.True(t, Config{SSLCert: "c", SSLKey: "k"}.TLS())

	_, err = New(Config{}, nil, nil)
	require.Error(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"resume.pdf":           "resume.pdf",
		"My CV (final).pdf":    "My_CV__final_.pdf",
		"../../etc/passwd":     "passwd",
		`C:\Users\jane\cv.pdf`: "cv.pdf",
		"..":                   "resume.pdf",
		"":                     "resume.pdf",
	}

	for in, want := range tests {
		assert.Equal(t, want, sanitizeFilename(in), in)
	}
}

func TestStoreRemovesPartialUpload(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, &stubReviewer{}, Config{})

	src := io.MultiReader(strings.NewReader("%PDF-1.4 partial"), iotest.ErrReader(errors.New("connection reset")))
	path, err := srv.store(src, "cv.pdf")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Empty(t, path)

	entries, err := os.ReadDir(srv.cfg.UploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStoreKeepsCompleteUpload(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, &stubReviewer{}, Config{})

	path, err := srv.store(strings.NewReader("%PDF-1.4 full"), "cv.pdf")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 full", string(data))
}
