package http

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/meetmind/internal/core/domain"
	"github.com/vncsmyrnk/meetmind/internal/core/ports"
)

type fakeMeetingService struct {
	create             func(ctx context.Context, input ports.CreateMeetingInput) (*domain.Meeting, error)
	get                func(ctx context.Context, id string) (*domain.Meeting, error)
	list               func(ctx context.Context, userID string) ([]*domain.Meeting, error)
	update             func(ctx context.Context, id string, patch ports.MeetingPatch) (*domain.Meeting, error)
	delete             func(ctx context.Context, id string, token string) error
	attachPresentation func(ctx context.Context, id string, filename string, r io.Reader) (*domain.Meeting, error)
}

func (f *fakeMeetingService) Create(ctx context.Context, input ports.CreateMeetingInput) (*domain.Meeting, error) {
	return f.create(ctx, input)
}

func (f *fakeMeetingService) Get(ctx context.Context, id string) (*domain.Meeting, error) {
	return f.get(ctx, id)
}

func (f *fakeMeetingService) List(ctx context.Context, userID string) ([]*domain.Meeting, error) {
	return f.list(ctx, userID)
}

func (f *fakeMeetingService) Update(ctx context.Context, id string, patch ports.MeetingPatch) (*domain.Meeting, error) {
	return f.update(ctx, id, patch)
}

func (f *fakeMeetingService) Delete(ctx context.Context, id string, token string) error {
	return f.delete(ctx, id, token)
}

func (f *fakeMeetingService) AttachPresentation(ctx context.Context, id string, filename string, r io.Reader) (*domain.Meeting, error) {
	return f.attachPresentation(ctx, id, filename, r)
}

type fakeProcessingService struct {
	transcribe       func(ctx context.Context, upload ports.Upload) (string, error)
	summarize        func(ctx context.Context, text string) (string, error)
	processRecording func(ctx context.Context, id string, upload ports.Upload) (*domain.Meeting, error)
}

func (f *fakeProcessingService) Transcribe(ctx context.Context, upload ports.Upload) (string, error) {
	return f.transcribe(ctx, upload)
}

func (f *fakeProcessingService) Summarize(ctx context.Context, text string) (string, error) {
	return f.summarize(ctx, text)
}

func (f *fakeProcessingService) ProcessRecording(ctx context.Context, id string, upload ports.Upload) (*domain.Meeting, error) {
	return f.processRecording(ctx, id, upload)
}

type fakeShareService struct {
	share func(ctx context.Context, id string) error
}

func (f *fakeShareService) Share(ctx context.Context, id string) error {
	return f.share(ctx, id)
}

func newTestRouter(meetings *fakeMeetingService, processing *fakeProcessingService, share *fakeShareService, maxUploadBytes int64) http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(log,
		NewMeetingHandler(meetings, processing, share, maxUploadBytes),
		NewProcessHandler(processing, maxUploadBytes))
}

// multipartBody builds a form with the given fields and an optional file.
func multipartBody(t *testing.T, fields map[string]string, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}
