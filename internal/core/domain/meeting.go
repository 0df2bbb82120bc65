package domain

import (
	"strings"
	"time"
)

type MeetingStatus string

const (
	StatusScheduled  MeetingStatus = "scheduled"
	StatusProcessing MeetingStatus = "processing"
	StatusCompleted  MeetingStatus = "completed"
	StatusFailed     MeetingStatus = "failed"
)

type Phase string

const (
	PhaseUpcoming  Phase = "upcoming"
	PhaseOngoing   Phase = "ongoing"
	PhaseCompleted Phase = "completed"
)

// Layouts accepted for StartTime and EndTime. HTML datetime-local inputs
// omit seconds and zone.
var meetingTimeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

type Meeting struct {
	ID              string        `json:"_id" bson:"_id"`
	UserID          string        `json:"userId" bson:"userId"`
	Title           string        `json:"title" bson:"title"`
	Description     string        `json:"description" bson:"description"`
	StartTime       string        `json:"startTime" bson:"startTime"`
	EndTime         string        `json:"endTime" bson:"endTime"`
	TimeZone        string        `json:"timeZone" bson:"timeZone"`
	Attendees       string        `json:"attendees" bson:"attendees"`
	PresentationURL string        `json:"pptUrl" bson:"pptUrl"`
	Polls           []Poll        `json:"polls" bson:"polls"`
	Status          MeetingStatus `json:"status" bson:"status"`
	MeetingLink     string        `json:"meetingLink,omitempty" bson:"meetingLink,omitempty"`
	CalendarEventID string        `json:"calendarEventId,omitempty" bson:"calendarEventId,omitempty"`
	RecordingURL    string        `json:"recordingUrl,omitempty" bson:"recordingUrl,omitempty"`
	Transcription   string        `json:"transcription,omitempty" bson:"transcription,omitempty"`
	Summary         string        `json:"summary,omitempty" bson:"summary,omitempty"`
	CreatedAt       time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// AttendeeEmails splits the comma-separated attendee list.
func (m *Meeting) AttendeeEmails() []string {
	var emails []string
	for _, part := range strings.Split(m.Attendees, ",") {
		email := strings.TrimSpace(part)
		if email == "" {
			continue
		}
		emails = append(emails, email)
	}
	return emails
}

// Phase places now relative to the meeting window. A missing or unparsable
// window counts as upcoming.
func (m *Meeting) Phase(now time.Time) Phase {
	loc := time.UTC
	if m.TimeZone != "" {
		if l, err := time.LoadLocation(m.TimeZone); err == nil {
			loc = l
		}
	}

	start, ok := ParseMeetingTime(m.StartTime, loc)
	if !ok {
		return PhaseUpcoming
	}
	end, ok := ParseMeetingTime(m.EndTime, loc)
	if !ok {
		return PhaseUpcoming
	}

	if now.After(end) {
		return PhaseCompleted
	}
	if !now.Before(start) {
		return PhaseOngoing
	}
	return PhaseUpcoming
}

// ParseMeetingTime parses a StartTime/EndTime value in loc.
func ParseMeetingTime(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range meetingTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// MeetingView is a Meeting as returned by the API, with its derived phase.
type MeetingView struct {
	*Meeting
	Phase Phase `json:"phase"`
}

func NewMeetingView(m *Meeting, now time.Time) MeetingView {
	if m.Polls == nil {
		m.Polls = []Poll{}
	}
	return MeetingView{Meeting: m, Phase: m.Phase(now)}
}
