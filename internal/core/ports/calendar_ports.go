package ports

import (
	"context"

	"github.com/vncsmyrnk/meetmind/internal/core/domain"
)

// CalendarEvent is the outcome of scheduling a meeting on a calendar.
type CalendarEvent struct {
	ID       string
	HTMLLink string
	MeetLink string
}

// Calendar schedules meetings on the calendar of the user owning accessToken.
type Calendar interface {
	CreateEvent(ctx context.Context, accessToken string, meeting *domain.Meeting) (*CalendarEvent, error)
	DeleteEvent(ctx context.Context, accessToken string, eventID string) error
}
