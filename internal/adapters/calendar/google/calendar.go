package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/vncsmyrnk/meetmind/internal/core/domain"
	"github.com/vncsmyrnk/meetmind/internal/core/ports"
)

const (
	primaryCalendar = "primary"
	eventFooter     = "\n\n--\nScheduled via MeetMind"
	eventTimeLayout = "2006-01-02T15:04:05"
)

// Calendar creates Google Calendar events with a Meet link on behalf of the
// user whose OAuth access token is passed in.
type Calendar struct {
	endpoint string
}

// NewCalendar returns a Calendar. An empty endpoint uses the public Google API.
func NewCalendar(endpoint string) ports.Calendar {
	return &Calendar{endpoint: endpoint}
}

func (c *Calendar) CreateEvent(ctx context.Context, accessToken string, meeting *domain.Meeting) (*ports.CalendarEvent, error) {
	svc, err := c.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	event, err := buildEvent(meeting)
	if err != nil {
		return nil, err
	}

	created, err := svc.Events.Insert(primaryCalendar, event).
		ConferenceDataVersion(1).
		SendUpdates("all").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to insert calendar event: %w", err)
	}

	return &ports.CalendarEvent{
		ID:       created.Id,
		HTMLLink: created.HtmlLink,
		MeetLink: created.HangoutLink,
	}, nil
}

func (c *Calendar) DeleteEvent(ctx context.Context, accessToken string, eventID string) error {
	svc, err := c.service(ctx, accessToken)
	if err != nil {
		return err
	}

	err = svc.Events.Delete(primaryCalendar, eventID).SendUpdates("all").Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && (apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone) {
			return nil
		}
		return fmt.Errorf("failed to delete calendar event: %w", err)
	}
	return nil
}

func (c *Calendar) service(ctx context.Context, accessToken string) (*calendar.Service, error) {
	if accessToken == "" {
		return nil, domain.ErrCalendarTokenMissing
	}

	opts := []option.ClientOption{
		option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})),
	}
	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.endpoint))
	}

	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar client: %w", err)
	}
	return svc, nil
}

func buildEvent(m *domain.Meeting) (*calendar.Event, error) {
	loc := time.UTC
	if m.TimeZone != "" {
		l, err := time.LoadLocation(m.TimeZone)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown timeZone %q", domain.ErrValidation, m.TimeZone)
		}
		loc = l
	}

	start, ok := domain.ParseMeetingTime(m.StartTime, loc)
	if !ok {
		return nil, fmt.Errorf("%w: invalid startTime %q", domain.ErrValidation, m.StartTime)
	}
	end, ok := domain.ParseMeetingTime(m.EndTime, loc)
	if !ok {
		return nil, fmt.Errorf("%w: invalid endTime %q", domain.ErrValidation, m.EndTime)
	}

	var attendees []*calendar.EventAttendee
	for _, email := range m.AttendeeEmails() {
		attendees = append(attendees, &calendar.EventAttendee{Email: email})
	}

	return &calendar.Event{
		Summary:     m.Title,
		Description: m.Description + eventFooter,
		Start: &calendar.EventDateTime{
			DateTime: start.Format(eventTimeLayout),
			TimeZone: loc.String(),
		},
		End: &calendar.EventDateTime{
			DateTime: end.Format(eventTimeLayout),
			TimeZone: loc.String(),
		},
		Attendees: attendees,
		Reminders: &calendar.EventReminders{
			UseDefault: false,
			Overrides: []*calendar.EventReminder{
				{Method: "email", Minutes: 30},
				{Method: "popup", Minutes: 10},
			},
			ForceSendFields: []string{"UseDefault"},
		},
		ConferenceData: &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId: uuid.New().String(),
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{
					Type: "hangoutsMeet",
				},
			},
		},
	}, nil
}
