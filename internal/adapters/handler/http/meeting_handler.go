package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vncsmyrnk/meetmind/internal/core/domain"
	"github.com/vncsmyrnk/meetmind/internal/core/ports"
	"github.com/vncsmyrnk/meetmind/internal/logger"
)

const (
	googleAccessTokenHeader = "X-Google-Access-Token"

	maxPresentationBytes int64 = 25 << 20
)

type MeetingHandler struct {
	meetings       ports.MeetingService
	processing     ports.ProcessingService
	share          ports.ShareService
	maxUploadBytes int64
	now            func() time.Time
}

func NewMeetingHandler(meetings ports.MeetingService, processing ports.ProcessingService, share ports.ShareService, maxUploadBytes int64) *MeetingHandler {
	return &MeetingHandler{
		meetings:       meetings,
		processing:     processing,
		share:          share,
		maxUploadBytes: maxUploadBytes,
		now:            time.Now,
	}
}

type updateMeetingRequest struct {
	ID string `json:"id"`
	ports.MeetingPatch
}

func (h *MeetingHandler) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	var input ports.CreateMeetingInput
	if err := parseJSON(r, &input); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", domain.ErrValidation))
		return
	}
	input.GoogleAccessToken = r.Header.Get(googleAccessTokenHeader)

	meeting, err := h.meetings.Create(r.Context(), input)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, domain.NewMeetingView(meeting, h.now()))
}

func (h *MeetingHandler) ListMeetings(w http.ResponseWriter, r *http.Request) {
	meetings, err := h.meetings.List(r.Context(), r.URL.Query().Get("userId"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	now := h.now()
	views := make([]domain.MeetingView, 0, len(meetings))
	for _, m := range meetings {
		views = append(views, domain.NewMeetingView(m, now))
	}
	writeData(w, views)
}

func (h *MeetingHandler) GetMeeting(w http.ResponseWriter, r *http.Request) {
	meeting, err := h.meetings.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, domain.NewMeetingView(meeting, h.now()))
}

// UpdateMeeting applies a partial update. The id comes from the path or, for
// PUT /api/meetings, from the "id" field of the body.
func (h *MeetingHandler) UpdateMeeting(w http.ResponseWriter, r *http.Request) {
	var req updateMeetingRequest
	if err := parseJSON(r, &req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", domain.ErrValidation))
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		id = req.ID
	}

	meeting, err := h.meetings.Update(r.Context(), id, req.MeetingPatch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, domain.NewMeetingView(meeting, h.now()))
}

func (h *MeetingHandler) DeleteMeeting(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		id = r.URL.Query().Get("id")
	}

	if err := h.meetings.Delete(r.Context(), id, r.Header.Get(googleAccessTokenHeader)); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *MeetingHandler) UploadPresentation(w http.ResponseWriter, r *http.Request) {
	if err := parseUploadForm(w, r, maxPresentationBytes); err != nil {
		h.fail(w, r, err)
		return
	}
	upload, closeFn, err := formUpload(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer closeFn()

	meeting, err := h.meetings.AttachPresentation(r.Context(), chi.URLParam(r, "id"), upload.Filename, upload.Reader)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, domain.NewMeetingView(meeting, h.now()))
}

// UploadRecording stores a recording and runs it through transcription and
// summarization before responding.
func (h *MeetingHandler) UploadRecording(w http.ResponseWriter, r *http.Request) {
	if err := parseUploadForm(w, r, h.maxUploadBytes); err != nil {
		h.fail(w, r, err)
		return
	}
	upload, closeFn, err := formUpload(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer closeFn()

	meeting, err := h.processing.ProcessRecording(r.Context(), chi.URLParam(r, "id"), upload)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, domain.NewMeetingView(meeting, h.now()))
}

func (h *MeetingHandler) ShareMeeting(w http.ResponseWriter, r *http.Request) {
	err := h.share.Share(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		logger.FromContext(r.Context()).Warn("share failed", "error", err)
		writeJSON(w, status, errorResponse{Success: false, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *MeetingHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if statusFor(err) >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("meeting request failed", "error", err, "path", r.URL.Path)
	}
	writeError(w, err)
}
