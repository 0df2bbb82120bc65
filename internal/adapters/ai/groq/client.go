package groq

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/vncsmyrnk/meetmind/internal/core/domain"
)

const DefaultBaseURL = "https://api.groq.com/openai/v1"

type Config struct {
	APIKey             string
	BaseURL            string
	TranscriptionModel string
	SummaryModel       string
	Timeout            time.Duration
}

// Client talks to Groq through its OpenAI-compatible API. It implements both
// ports.Transcriber and ports.Summarizer. A client built without an API key
// fails every call with domain.ErrAIUnavailable.
type Client struct {
	api                *openai.Client
	transcriptionModel string
	summaryModel       string
}

func NewClient(cfg Config) *Client {
	c := &Client{
		transcriptionModel: cfg.TranscriptionModel,
		summaryModel:       cfg.SummaryModel,
	}
	if cfg.APIKey == "" {
		return c
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	apiCfg.BaseURL = DefaultBaseURL
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.Timeout > 0 {
		apiCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	c.api = openai.NewClientWithConfig(apiCfg)
	return c
}

func (c *Client) Transcribe(ctx context.Context, filename string, r io.Reader) (string, error) {
	if c.api == nil {
		return "", domain.ErrAIUnavailable
	}

	resp, err := c.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.transcriptionModel,
		FilePath: filename,
		Reader:   r,
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", upstreamError(err)
	}
	return resp.Text, nil
}

func (c *Client) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	if c.api == nil {
		return "", domain.ErrAIUnavailable
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.summaryModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
	})
	if err != nil {
		return "", upstreamError(err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("groq returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// upstreamError keeps the provider's own message so callers can relay it.
func upstreamError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: %w", apiErr.Message, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("groq request failed with status %d: %w", reqErr.HTTPStatusCode, err)
	}
	return err
}
