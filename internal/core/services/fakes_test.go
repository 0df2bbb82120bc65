package services

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/vncsmyrnk/meetmind/internal/core/domain"
	"github.com/vncsmyrnk/meetmind/internal/core/ports"
)

type memRepository struct {
	mu       sync.Mutex
	meetings map[string]*domain.Meeting
	updates  []ports.MeetingPatch
	saveErr  error
}

func newMemRepository(meetings ...*domain.Meeting) *memRepository {
	r := &memRepository{meetings: map[string]*domain.Meeting{}}
	for _, m := range meetings {
		r.meetings[m.ID] = m
	}
	return r
}

func (r *memRepository) Save(_ context.Context, m *domain.Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	cp := *m
	r.meetings[m.ID] = &cp
	return nil
}

func (r *memRepository) GetByID(_ context.Context, id string) (*domain.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.meetings[id]
	if !ok {
		return nil, domain.ErrMeetingNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *memRepository) ListByUser(_ context.Context, userID string) ([]*domain.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Meeting
	for _, m := range r.meetings {
		if m.UserID == userID {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memRepository) ListPendingSummary(_ context.Context) ([]*domain.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Meeting
	for _, m := range r.meetings {
		if m.Transcription != "" && m.Summary == "" {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memRepository) Update(_ context.Context, id string, patch ports.MeetingPatch) (*domain.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.meetings[id]
	if !ok {
		return nil, domain.ErrMeetingNotFound
	}
	r.updates = append(r.updates, patch)
	patch.Apply(m)
	cp := *m
	return &cp, nil
}

func (r *memRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.meetings[id]; !ok {
		return domain.ErrMeetingNotFound
	}
	delete(r.meetings, id)
	return nil
}

func (r *memRepository) get(id string) *domain.Meeting {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.meetings[id]
}

type fakeCalendar struct {
	created []*domain.Meeting
	deleted []string
	err     error
}

func (c *fakeCalendar) CreateEvent(_ context.Context, token string, m *domain.Meeting) (*ports.CalendarEvent, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.created = append(c.created, m)
	return &ports.CalendarEvent{ID: "evt-" + m.ID, HTMLLink: "https://calendar.google.com/event?eid=" + m.ID}, nil
}

func (c *fakeCalendar) DeleteEvent(_ context.Context, token string, eventID string) error {
	c.deleted = append(c.deleted, eventID)
	return c.err
}

type fakeBlobStore struct {
	mu      sync.Mutex
	objects map[string]string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: map[string]string{}}
}

func (b *fakeBlobStore) Put(_ context.Context, key string, r io.Reader, _ string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = string(data)
	return "mem://" + key, nil
}

func (b *fakeBlobStore) DeletePrefix(_ context.Context, prefix string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for k := range b.objects {
		if strings.HasPrefix(k, prefix) {
			delete(b.objects, k)
		}
	}
	return nil
}

type fakeTranscriber struct {
	calls int
	text  string
	err   error
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ string, r io.Reader) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	_, _ = io.ReadAll(r)
	return f.text, nil
}

type fakeSummarizer struct {
	mu     sync.Mutex
	prompt string
	inputs []string
	reply  string
	err    error
}

func (f *fakeSummarizer) Complete(_ context.Context, systemPrompt, userMessage string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompt = systemPrompt
	f.inputs = append(f.inputs, userMessage)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeNotifier struct {
	payloads []ports.SharePayload
	err      error
}

func (n *fakeNotifier) Notify(_ context.Context, payload ports.SharePayload) error {
	if n.err != nil {
		return n.err
	}
	n.payloads = append(n.payloads, payload)
	return nil
}
