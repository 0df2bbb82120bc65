package domain

import "errors"

var (
	ErrMeetingNotFound      = errors.New("meeting not found")
	ErrInvalidMeetingID     = errors.New("invalid meeting id")
	ErrMissingFields        = errors.New("Missing fields")
	ErrValidation           = errors.New("validation failed")
	ErrMissingUserID        = errors.New("No User ID")
	ErrFileTooLarge         = errors.New("file is too large")
	ErrMissingFile          = errors.New("No file uploaded")
	ErrMissingText          = errors.New("No text provided for summarization")
	ErrInvalidTask          = errors.New("Invalid task specified")
	ErrAIUnavailable        = errors.New("Server Configuration Error: GROQ_API_KEY is missing.")
	ErrCalendarTokenMissing = errors.New("google access token is required for calendar sync")
	ErrWebhookDisabled      = errors.New("post-meeting webhook is not configured")
)
