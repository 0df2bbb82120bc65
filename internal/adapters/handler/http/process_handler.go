package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/vncsmyrnk/meetmind/internal/core/domain"
	"github.com/vncsmyrnk/meetmind/internal/core/ports"
	"github.com/vncsmyrnk/meetmind/internal/logger"
)

const (
	taskTranscribe = "transcribe"
	taskSummarize  = "summarize"

	// Room for multipart framing and other form fields around the file.
	multipartOverhead int64 = 1 << 20
	formMemory        int64 = 8 << 20
)

type ProcessHandler struct {
	service        ports.ProcessingService
	maxUploadBytes int64
}

func NewProcessHandler(service ports.ProcessingService, maxUploadBytes int64) *ProcessHandler {
	return &ProcessHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
	}
}

type processErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details"`
}

// Process runs a single AI task chosen by the "task" form field.
func (h *ProcessHandler) Process(w http.ResponseWriter, r *http.Request) {
	if err := parseUploadForm(w, r, h.maxUploadBytes); err != nil {
		h.writeProcessError(w, r, err)
		return
	}

	switch r.FormValue("task") {
	case taskTranscribe:
		upload, closeFn, err := formUpload(r)
		if err != nil {
			h.writeProcessError(w, r, err)
			return
		}
		defer closeFn()

		text, err := h.service.Transcribe(r.Context(), upload)
		if err != nil {
			h.writeProcessError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"text": text})

	case taskSummarize:
		summary, err := h.service.Summarize(r.Context(), r.FormValue("text"))
		if err != nil {
			h.writeProcessError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"summary": summary})

	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": domain.ErrInvalidTask.Error()})
	}
}

func (h *ProcessHandler) writeProcessError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("processing failed", "error", err)
	}
	writeJSON(w, status, processErrorResponse{
		Success: false,
		Error:   err.Error(),
		Details: rootCause(err).Error(),
	})
}

// parseUploadForm parses a multipart or urlencoded form, capping the body so
// an oversized upload is refused while it is being read.
func parseUploadForm(w http.ResponseWriter, r *http.Request, maxUploadBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+multipartOverhead)

	err := r.ParseMultipartForm(formMemory)
	if err == nil || errors.Is(err, http.ErrNotMultipart) {
		return nil
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
		return fmt.Errorf("%w (max %dMB). Please try a shorter clip", domain.ErrFileTooLarge, maxUploadBytes/(1<<20))
	}
	return fmt.Errorf("%w: malformed form: %v", domain.ErrValidation, err)
}

// formUpload returns the "file" form field as an upload.
func formUpload(r *http.Request) (ports.Upload, func(), error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return ports.Upload{}, nil, domain.ErrMissingFile
		}
		return ports.Upload{}, nil, err
	}

	upload := ports.Upload{
		Filename: header.Filename,
		Size:     header.Size,
		Reader:   file,
	}
	return upload, func() { file.Close() }, nil
}
