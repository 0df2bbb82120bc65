package services

import (
	"context"

	"github.com/vncsmyrnk/meetmind/internal/core/ports"
)

type shareService struct {
	repo     ports.MeetingRepository
	notifier ports.Notifier
}

func NewShareService(repo ports.MeetingRepository, notifier ports.Notifier) ports.ShareService {
	return &shareService{
		repo:     repo,
		notifier: notifier,
	}
}

func (s *shareService) Share(ctx context.Context, meetingID string) error {
	meeting, err := s.repo.GetByID(ctx, meetingID)
	if err != nil {
		return err
	}

	return s.notifier.Notify(ctx, ports.SharePayload{
		MeetingID:     meeting.ID,
		Title:         meeting.Title,
		Summary:       meeting.Summary,
		Transcription: meeting.Transcription,
		Attendees:     meeting.Attendees,
	})
}
