package ports

import (
	"context"
	"io"

	"github.com/vncsmyrnk/meetmind/internal/core/domain"
)

type MeetingRepository interface {
	Save(ctx context.Context, meeting *domain.Meeting) error
	GetByID(ctx context.Context, id string) (*domain.Meeting, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Meeting, error)
	ListPendingSummary(ctx context.Context) ([]*domain.Meeting, error)
	Update(ctx context.Context, id string, patch MeetingPatch) (*domain.Meeting, error)
	Delete(ctx context.Context, id string) error
}

type CreateMeetingInput struct {
	UserID          string        `json:"userId" validate:"required"`
	Title           string        `json:"title" validate:"required"`
	Description     string        `json:"description"`
	StartTime       string        `json:"startTime" validate:"required"`
	EndTime         string        `json:"endTime" validate:"required"`
	TimeZone        string        `json:"timeZone"`
	Attendees       string        `json:"attendees"`
	PresentationURL string        `json:"pptUrl"`
	Polls           []domain.Poll `json:"polls"`

	// GoogleAccessToken enables calendar sync when set.
	GoogleAccessToken string `json:"-"`
}

// MeetingPatch carries a partial update. Nil fields are left untouched.
type MeetingPatch struct {
	Title           *string               `json:"title,omitempty"`
	Description     *string               `json:"description,omitempty"`
	StartTime       *string               `json:"startTime,omitempty"`
	EndTime         *string               `json:"endTime,omitempty"`
	TimeZone        *string               `json:"timeZone,omitempty"`
	Attendees       *string               `json:"attendees,omitempty"`
	PresentationURL *string               `json:"pptUrl,omitempty"`
	Polls           *[]domain.Poll        `json:"polls,omitempty"`
	Status          *domain.MeetingStatus `json:"status,omitempty"`
	MeetingLink     *string               `json:"meetingLink,omitempty"`
	CalendarEventID *string               `json:"calendarEventId,omitempty"`
	RecordingURL    *string               `json:"recordingUrl,omitempty"`
	Transcription   *string               `json:"transcription,omitempty"`
	Summary         *string               `json:"summary,omitempty"`
}

// Apply copies the set fields of the patch onto m.
func (p MeetingPatch) Apply(m *domain.Meeting) {
	setString(&m.Title, p.Title)
	setString(&m.Description, p.Description)
	setString(&m.StartTime, p.StartTime)
	setString(&m.EndTime, p.EndTime)
	setString(&m.TimeZone, p.TimeZone)
	setString(&m.Attendees, p.Attendees)
	setString(&m.PresentationURL, p.PresentationURL)
	setString(&m.MeetingLink, p.MeetingLink)
	setString(&m.CalendarEventID, p.CalendarEventID)
	setString(&m.RecordingURL, p.RecordingURL)
	setString(&m.Transcription, p.Transcription)
	setString(&m.Summary, p.Summary)
	if p.Polls != nil {
		m.Polls = *p.Polls
	}
	if p.Status != nil {
		m.Status = *p.Status
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

type MeetingService interface {
	Create(ctx context.Context, input CreateMeetingInput) (*domain.Meeting, error)
	Get(ctx context.Context, id string) (*domain.Meeting, error)
	List(ctx context.Context, userID string) ([]*domain.Meeting, error)
	Update(ctx context.Context, id string, patch MeetingPatch) (*domain.Meeting, error)
	Delete(ctx context.Context, id string, googleAccessToken string) error
	AttachPresentation(ctx context.Context, id string, filename string, r io.Reader) (*domain.Meeting, error)
}
