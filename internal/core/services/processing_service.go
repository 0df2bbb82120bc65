package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/vncsmyrnk/meetmind/internal/core/domain"
	"github.com/vncsmyrnk/meetmind/internal/core/ports"
	"github.com/vncsmyrnk/meetmind/internal/logger"
	"github.com/vncsmyrnk/meetmind/internal/metrics"
)

const SummaryPrompt = "You are an expert meeting secretary. Create a concise executive summary (HTML format) and list key action items from the transcript provided."

// DefaultMaxUploadBytes matches the 4MB request cap of the hosting platform.
const DefaultMaxUploadBytes int64 = 4 * 1024 * 1024

var codeFence = regexp.MustCompile("```html|```")

type processingService struct {
	repo           ports.MeetingRepository
	transcriber    ports.Transcriber
	summarizer     ports.Summarizer
	blobs          ports.BlobStore
	maxUploadBytes int64
}

func NewProcessingService(repo ports.MeetingRepository, transcriber ports.Transcriber, summarizer ports.Summarizer, blobs ports.BlobStore, maxUploadBytes int64) ports.ProcessingService {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &processingService{
		repo:           repo,
		transcriber:    transcriber,
		summarizer:     summarizer,
		blobs:          blobs,
		maxUploadBytes: maxUploadBytes,
	}
}

func (s *processingService) Transcribe(ctx context.Context, upload ports.Upload) (string, error) {
	data, err := s.readUpload(upload)
	if err != nil {
		return "", err
	}
	return s.transcribe(ctx, upload.Filename, data)
}

func (s *processingService) Summarize(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", domain.ErrMissingText
	}

	start := time.Now()
	summary, err := s.summarizer.Complete(ctx, SummaryPrompt, text)
	metrics.ObservePipelineStep(metrics.StepSummarize, start, err)
	if err != nil {
		return "", err
	}

	logger.FromContext(ctx).Info("summary complete", slog.Int("chars", len(summary)))
	return CleanSummary(summary), nil
}

func (s *processingService) ProcessRecording(ctx context.Context, meetingID string, upload ports.Upload) (*domain.Meeting, error) {
	if strings.TrimSpace(meetingID) == "" {
		return nil, domain.ErrInvalidMeetingID
	}
	if _, err := s.repo.GetByID(ctx, meetingID); err != nil {
		return nil, err
	}

	data, err := s.readUpload(upload)
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx).With(slog.String("meeting_id", meetingID))

	name := sanitizeFilename(upload.Filename)
	start := time.Now()
	url, err := s.blobs.Put(ctx, meetingBlobPrefix(meetingID)+"recording/"+name, bytes.NewReader(data), contentTypeFor(name))
	metrics.ObservePipelineStep(metrics.StepStore, start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to store recording: %w", err)
	}

	processing := domain.StatusProcessing
	if _, err := s.repo.Update(ctx, meetingID, ports.MeetingPatch{RecordingURL: &url, Status: &processing}); err != nil {
		return nil, err
	}

	text, err := s.transcribe(ctx, name, data)
	if err != nil {
		s.markFailed(ctx, log, meetingID)
		return nil, err
	}

	// Persist the transcript first. Meetings left without a summary are
	// retried by SummarizePending.
	text = strings.TrimSpace(text)
	if _, err := s.repo.Update(ctx, meetingID, ports.MeetingPatch{Transcription: &text}); err != nil {
		s.markFailed(ctx, log, meetingID)
		return nil, err
	}

	completed := domain.StatusCompleted
	if text == "" {
		log.Info("recording has no speech, skipping summary")
		return s.repo.Update(ctx, meetingID, ports.MeetingPatch{Status: &completed})
	}

	summary, err := s.Summarize(ctx, text)
	if err != nil {
		s.markFailed(ctx, log, meetingID)
		return nil, err
	}

	meeting, err := s.repo.Update(ctx, meetingID, ports.MeetingPatch{
		Summary: &summary,
		Status:  &completed,
	})
	if err != nil {
		return nil, err
	}

	log.Info("recording processed", slog.Int("transcript_chars", len(text)))
	return meeting, nil
}

func (s *processingService) transcribe(ctx context.Context, filename string, data []byte) (string, error) {
	log := logger.FromContext(ctx)
	log.Info("file received", slog.String("filename", filename), slog.Int("bytes", len(data)))

	start := time.Now()
	text, err := s.transcriber.Transcribe(ctx, filename, bytes.NewReader(data))
	metrics.ObservePipelineStep(metrics.StepTranscribe, start, err)
	if err != nil {
		return "", err
	}

	log.Info("transcription complete", slog.Int("chars", len(text)))
	return text, nil
}

// readUpload buffers the upload, refusing anything over the size cap before
// it reaches the transcriber.
func (s *processingService) readUpload(upload ports.Upload) ([]byte, error) {
	if upload.Reader == nil {
		return nil, domain.ErrMissingFile
	}
	if upload.Size > s.maxUploadBytes {
		return nil, s.tooLarge()
	}

	data, err := io.ReadAll(io.LimitReader(upload.Reader, s.maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxUploadBytes {
		return nil, s.tooLarge()
	}
	if len(data) == 0 {
		return nil, domain.ErrMissingFile
	}
	return data, nil
}

func (s *processingService) tooLarge() error {
	return fmt.Errorf("%w (max %dMB). Please try a shorter clip", domain.ErrFileTooLarge, s.maxUploadBytes/(1024*1024))
}

func (s *processingService) markFailed(ctx context.Context, log *slog.Logger, meetingID string) {
	failed := domain.StatusFailed
	if _, err := s.repo.Update(ctx, meetingID, ports.MeetingPatch{Status: &failed}); err != nil && !errors.Is(err, context.Canceled) {
		log.Warn("failed to mark meeting as failed", slog.String("error", err.Error()))
	}
}

// CleanSummary strips markdown code fences the model wraps around its HTML.
func CleanSummary(text string) string {
	return strings.TrimSpace(codeFence.ReplaceAllString(text, ""))
}
