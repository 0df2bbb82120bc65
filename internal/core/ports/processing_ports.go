package ports

import (
	"context"
	"io"

	"github.com/vncsmyrnk/meetmind/internal/core/domain"
)

// Upload is an audio or video file received from a client.
type Upload struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

// Transcriber turns recorded speech into plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, r io.Reader) (string, error)
}

// Summarizer sends a system prompt and a user message to a language model
// and returns its reply.
type Summarizer interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

type ProcessingService interface {
	Transcribe(ctx context.Context, upload Upload) (string, error)
	Summarize(ctx context.Context, text string) (string, error)
	ProcessRecording(ctx context.Context, meetingID string, upload Upload) (*domain.Meeting, error)
}

type SummaryService interface {
	SummarizePending(ctx context.Context) (int, error)
}
