package ports

import (
	"context"
)

// SharePayload is what gets posted to the post-meeting webhook.
type SharePayload struct {
	MeetingID     string `json:"meetingId"`
	Title         string `json:"title"`
	Summary       string `json:"summary"`
	Transcription string `json:"transcription"`
	Attendees     string `json:"attendees"`
}

type Notifier interface {
	Notify(ctx context.Context, payload SharePayload) error
}

type ShareService interface {
	Share(ctx context.Context, meetingID string) error
}
