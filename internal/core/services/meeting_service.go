package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/meetmind/internal/core/domain"
	"github.com/vncsmyrnk/meetmind/internal/core/ports"
	"github.com/vncsmyrnk/meetmind/internal/logger"
)

type meetingService struct {
	repo            ports.MeetingRepository
	calendar        ports.Calendar
	blobs           ports.BlobStore
	defaultTimeZone string
	now             func() time.Time
}

func NewMeetingService(repo ports.MeetingRepository, calendar ports.Calendar, blobs ports.BlobStore, defaultTimeZone string) ports.MeetingService {
	return &meetingService{
		repo:            repo,
		calendar:        calendar,
		blobs:           blobs,
		defaultTimeZone: defaultTimeZone,
		now:             time.Now,
	}
}

func (s *meetingService) Create(ctx context.Context, input ports.CreateMeetingInput) (*domain.Meeting, error) {
	if strings.TrimSpace(input.UserID) == "" || strings.TrimSpace(input.Title) == "" {
		return nil, domain.ErrMissingFields
	}
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	meeting := &domain.Meeting{
		ID:              uuid.New().String(),
		UserID:          input.UserID,
		Title:           strings.TrimSpace(input.Title),
		Description:     input.Description,
		StartTime:       input.StartTime,
		EndTime:         input.EndTime,
		TimeZone:        input.TimeZone,
		Attendees:       input.Attendees,
		PresentationURL: input.PresentationURL,
		Polls:           cleanPolls(input.Polls, now),
		Status:          domain.StatusScheduled,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if meeting.TimeZone == "" {
		meeting.TimeZone = s.defaultTimeZone
	}

	if input.GoogleAccessToken != "" {
		event, err := s.calendar.CreateEvent(ctx, input.GoogleAccessToken, meeting)
		if err != nil {
			return nil, fmt.Errorf("failed to schedule calendar event: %w", err)
		}
		meeting.CalendarEventID = event.ID
		meeting.MeetingLink = event.HTMLLink
	}

	if err := s.repo.Save(ctx, meeting); err != nil {
		if meeting.CalendarEventID != "" {
			if delErr := s.calendar.DeleteEvent(ctx, input.GoogleAccessToken, meeting.CalendarEventID); delErr != nil {
				logger.FromContext(ctx).Warn("failed to delete calendar event of unsaved meeting",
					slog.String("event_id", meeting.CalendarEventID),
					slog.String("error", delErr.Error()))
			}
		}
		return nil, err
	}

	logger.FromContext(ctx).Info("meeting created",
		slog.String("meeting_id", meeting.ID),
		slog.Bool("calendar_synced", meeting.CalendarEventID != ""))

	return meeting, nil
}

func (s *meetingService) Get(ctx context.Context, id string) (*domain.Meeting, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrInvalidMeetingID
	}
	return s.repo.GetByID(ctx, id)
}

func (s *meetingService) List(ctx context.Context, userID string) ([]*domain.Meeting, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrMissingUserID
	}

	meetings, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if meetings == nil {
		meetings = []*domain.Meeting{}
	}
	return meetings, nil
}

func (s *meetingService) Update(ctx context.Context, id string, patch ports.MeetingPatch) (*domain.Meeting, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrInvalidMeetingID
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, domain.ErrMissingFields
	}
	if patch.Polls != nil {
		polls := cleanPolls(*patch.Polls, s.now().UTC())
		patch.Polls = &polls
	}
	return s.repo.Update(ctx, id, patch)
}

func (s *meetingService) Delete(ctx context.Context, id string, googleAccessToken string) error {
	meeting, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	log := logger.FromContext(ctx).With(slog.String("meeting_id", id))

	if googleAccessToken != "" && meeting.CalendarEventID != "" {
		if err := s.calendar.DeleteEvent(ctx, googleAccessToken, meeting.CalendarEventID); err != nil {
			log.Warn("failed to delete calendar event", slog.String("error", err.Error()))
		}
	}

	if err := s.blobs.DeletePrefix(ctx, meetingBlobPrefix(id)); err != nil {
		log.Warn("failed to delete meeting files", slog.String("error", err.Error()))
	}

	log.Info("meeting deleted")
	return nil
}

func (s *meetingService) AttachPresentation(ctx context.Context, id string, filename string, r io.Reader) (*domain.Meeting, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	name := sanitizeFilename(filename)
	url, err := s.blobs.Put(ctx, meetingBlobPrefix(id)+"presentation/"+name, r, contentTypeFor(name))
	if err != nil {
		return nil, fmt.Errorf("failed to store presentation: %w", err)
	}

	return s.repo.Update(ctx, id, ports.MeetingPatch{PresentationURL: &url})
}

func cleanPolls(polls []domain.Poll, now time.Time) []domain.Poll {
	cleaned := make([]domain.Poll, 0, len(polls))
	for _, p := range polls {
		if !p.Clean() {
			continue
		}
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		cleaned = append(cleaned, p)
	}
	return cleaned
}

func meetingBlobPrefix(id string) string {
	return "meetings/" + id + "/"
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
	if name == "" || name == "." || name == ".." || name == "_" {
		return "upload"
	}
	return name
}

func contentTypeFor(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
