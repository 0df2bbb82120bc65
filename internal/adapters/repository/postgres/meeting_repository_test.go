package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/meetmind/internal/core/domain"
	"github.com/vncsmyrnk/meetmind/internal/core/ports"
)

func newMeeting(userID, title string, createdAt time.Time) *domain.Meeting {
	return &domain.Meeting{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		StartTime: "2026-03-10T10:00",
		EndTime:   "2026-03-10T11:00",
		TimeZone:  "UTC",
		Attendees: "a@example.com,b@example.com",
		Status:    domain.StatusScheduled,
		Polls: []domain.Poll{
			{ID: uuid.New().String(), Question: "Agenda?", Options: []string{"A", "B"}, CreatedAt: createdAt},
			{ID: uuid.New().String(), Question: "Lunch?", Options: []string{"Pizza"}, CreatedAt: createdAt},
		},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestMeetingRepositoryLifecycle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMeetingRepository(db)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Microsecond)
	older := newMeeting("user-1", "Kickoff", base.Add(-time.Hour))
	newer := newMeeting("user-1", "Retro", base)
	other := newMeeting("user-2", "Other", base)

	for _, m := range []*domain.Meeting{older, newer, other} {
		require.NoError(t, repo.Save(ctx, m))
	}

	// Get keeps poll order
	got, err := repo.GetByID(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kickoff", got.Title)
	require.Len(t, got.Polls, 2)
	assert.Equal(t, "Agenda?", got.Polls[0].Question)
	assert.Equal(t, []string{"A", "B"}, got.Polls[0].Options)
	assert.Equal(t, "Lunch?", got.Polls[1].Question)

	// List is per user, newest first
	list, err := repo.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)

	// Partial update leaves other fields alone
	summary := "<p>done</p>"
	completed := domain.StatusCompleted
	updated, err := repo.Update(ctx, older.ID, ports.MeetingPatch{Summary: &summary, Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, summary, updated.Summary)
	assert.Equal(t, domain.StatusCompleted, updated.Status)
	assert.Equal(t, "Kickoff", updated.Title)
	assert.Equal(t, older.Attendees, updated.Attendees)
	assert.Len(t, updated.Polls, 2)

	// Replacing polls
	polls := []domain.Poll{{ID: uuid.New().String(), Question: "Only one", Options: []string{"yes", "no"}, CreatedAt: base}}
	updated, err = repo.Update(ctx, older.ID, ports.MeetingPatch{Polls: &polls})
	require.NoError(t, err)
	require.Len(t, updated.Polls, 1)
	assert.Equal(t, "Only one", updated.Polls[0].Question)

	// Delete removes it from list results
	require.NoError(t, repo.Delete(ctx, older.ID))
	list, err = repo.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, newer.ID, list[0].ID)

	_, err = repo.GetByID(ctx, older.ID)
	assert.ErrorIs(t, err, domain.ErrMeetingNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, older.ID), domain.ErrMeetingNotFound)
}

func TestMeetingRepositoryUpdateMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMeetingRepository(db)

	title := "nope"
	_, err := repo.Update(context.Background(), uuid.New().String(), ports.MeetingPatch{Title: &title})
	assert.ErrorIs(t, err, domain.ErrMeetingNotFound)
}

func TestMeetingRepositoryListPendingSummary(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMeetingRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	pending := newMeeting("user-1", "Pending", now)
	pending.Transcription = "we talked"
	done := newMeeting("user-1", "Done", now)
	done.Transcription = "we talked"
	done.Summary = "<p>summary</p>"
	fresh := newMeeting("user-1", "Fresh", now)

	for _, m := range []*domain.Meeting{pending, done, fresh} {
		require.NoError(t, repo.Save(ctx, m))
	}

	list, err := repo.ListPendingSummary(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, pending.ID, list[0].ID)
}
