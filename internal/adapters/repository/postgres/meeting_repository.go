package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/vncsmyrnk/meetmind/internal/core/domain"
	"github.com/vncsmyrnk/meetmind/internal/core/ports"
)

const meetingColumns = `
	id, user_id, title, description, start_time, end_time, time_zone, attendees,
	ppt_url, status, meeting_link, calendar_event_id, recording_url,
	transcription, summary, created_at, updated_at
`

type meetingRepository struct {
	db *sql.DB
}

func NewMeetingRepository(db *sql.DB) ports.MeetingRepository {
	return &meetingRepository{
		db: db,
	}
}

func (r *meetingRepository) Save(ctx context.Context, m *domain.Meeting) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO meetings (` + meetingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err = tx.ExecContext(ctx, query,
		m.ID, m.UserID, m.Title, m.Description, m.StartTime, m.EndTime, m.TimeZone, m.Attendees,
		m.PresentationURL, string(m.Status), m.MeetingLink, m.CalendarEventID, m.RecordingURL,
		m.Transcription, m.Summary, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert meeting: %w", err)
	}

	if err := insertPolls(ctx, tx, m.ID, m.Polls); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *meetingRepository) GetByID(ctx context.Context, id string) (*domain.Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE id = $1`

	m, err := scanMeeting(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to get meeting: %w", err)
	}

	polls, err := r.fetchPolls(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	m.Polls = polls

	return m, nil
}

func (r *meetingRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Meeting, error) {
	query := `
		SELECT ` + meetingColumns + `
		FROM meetings
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	defer rows.Close()

	return r.scanMeetings(ctx, rows)
}

func (r *meetingRepository) ListPendingSummary(ctx context.Context) ([]*domain.Meeting, error) {
	query := `
		SELECT ` + meetingColumns + `
		FROM meetings
		WHERE transcription <> '' AND summary = ''
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings pending summary: %w", err)
	}
	defer rows.Close()

	return r.scanMeetings(ctx, rows)
}

func (r *meetingRepository) Update(ctx context.Context, id string, patch ports.MeetingPatch) (*domain.Meeting, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sets, args := patchAssignments(patch)
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE meetings SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update meeting: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return nil, domain.ErrMeetingNotFound
	}

	if patch.Polls != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM meeting_polls WHERE meeting_id = $1`, id); err != nil {
			return nil, fmt.Errorf("failed to clear polls: %w", err)
		}
		if err := insertPolls(ctx, tx, id, *patch.Polls); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *meetingRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM meetings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete meeting: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrMeetingNotFound
	}
	return nil
}

// patchAssignments turns the set fields of patch into SET clauses with
// positional arguments starting at $1.
func patchAssignments(patch ports.MeetingPatch) ([]string, []any) {
	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	addString := func(column string, value *string) {
		if value != nil {
			add(column, *value)
		}
	}

	addString("title", patch.Title)
	addString("description", patch.Description)
	addString("start_time", patch.StartTime)
	addString("end_time", patch.EndTime)
	addString("time_zone", patch.TimeZone)
	addString("attendees", patch.Attendees)
	addString("ppt_url", patch.PresentationURL)
	addString("meeting_link", patch.MeetingLink)
	addString("calendar_event_id", patch.CalendarEventID)
	addString("recording_url", patch.RecordingURL)
	addString("transcription", patch.Transcription)
	addString("summary", patch.Summary)
	if patch.Status != nil {
		add("status", string(*patch.Status))
	}

	return sets, args
}

func insertPolls(ctx context.Context, tx *sql.Tx, meetingID string, polls []domain.Poll) error {
	if len(polls) == 0 {
		return nil
	}

	query := `
		INSERT INTO meeting_polls (id, meeting_id, position, question, options, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare poll statement: %w", err)
	}
	defer stmt.Close()

	for i, p := range polls {
		options := p.Options
		if options == nil {
			options = []string{}
		}
		_, err = stmt.ExecContext(ctx, p.ID, meetingID, i, p.Question, pq.Array(options), p.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert poll: %w", err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeeting(row rowScanner) (*domain.Meeting, error) {
	var (
		m      domain.Meeting
		status string
	)
	err := row.Scan(
		&m.ID, &m.UserID, &m.Title, &m.Description, &m.StartTime, &m.EndTime, &m.TimeZone, &m.Attendees,
		&m.PresentationURL, &status, &m.MeetingLink, &m.CalendarEventID, &m.RecordingURL,
		&m.Transcription, &m.Summary, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Status = domain.MeetingStatus(status)
	return &m, nil
}

func (r *meetingRepository) scanMeetings(ctx context.Context, rows *sql.Rows) ([]*domain.Meeting, error) {
	meetings := []*domain.Meeting{}
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meeting: %w", err)
		}
		meetings = append(meetings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating meetings: %w", err)
	}

	for _, m := range meetings {
		polls, err := r.fetchPolls(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		m.Polls = polls
	}
	return meetings, nil
}

func (r *meetingRepository) fetchPolls(ctx context.Context, meetingID string) ([]domain.Poll, error) {
	query := `
		SELECT id, question, options, created_at
		FROM meeting_polls
		WHERE meeting_id = $1
		ORDER BY position
	`
	rows, err := r.db.QueryContext(ctx, query, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get meeting polls: %w", err)
	}
	defer rows.Close()

	polls := []domain.Poll{}
	for rows.Next() {
		var p domain.Poll
		if err := rows.Scan(&p.ID, &p.Question, pq.Array(&p.Options), &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		polls = append(polls, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating polls: %w", err)
	}
	return polls, nil
}
