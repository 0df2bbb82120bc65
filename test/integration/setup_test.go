package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/vncsmyrnk/meetmind/internal/adapters/ai/groq"
	"github.com/vncsmyrnk/meetmind/internal/adapters/calendar/google"
	handler "github.com/vncsmyrnk/meetmind/internal/adapters/handler/http"
	repo "github.com/vncsmyrnk/meetmind/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/meetmind/internal/adapters/storage/local"
	"github.com/vncsmyrnk/meetmind/internal/adapters/webhook"
	"github.com/vncsmyrnk/meetmind/internal/core/services"
)

const testMaxUploadBytes int64 = 1 << 20

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}
	return pgContainer, connStr, nil
}

func applyMigrations(db *sql.DB) error {
	dirPath := "../../internal/adapters/repository/postgres/migrations"

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), "up.sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(dirPath, name))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", name, err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", name, err)
		}
	}
	return nil
}

// upstreams fakes Groq, Google Calendar and the post-meeting webhook.
type upstreams struct {
	mu                 sync.Mutex
	transcriptions     int
	completions        int
	createdEvents      []map[string]any
	deletedEvents      []string
	webhookPayloads    []map[string]any
	transcriptionReply string
	completionReply    string
}

// read runs fn while holding the lock, for assertions from the test goroutine.
func (u *upstreams) read(fn func(u *upstreams)) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fn(u)
}

func (u *upstreams) groq(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	defer u.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/openai/v1/audio/transcriptions":
		u.transcriptions++
		_ = json.NewEncoder(w).Encode(map[string]string{"text": u.transcriptionReply})
	case "/openai/v1/chat/completions":
		u.completions++
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": "chatcmpl-1",
			"choices": []map[string]any{
				{"index": 0, "message": map[string]string{"role": "assistant", "content": u.completionReply}},
			},
		})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (u *upstreams) calendar(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	defer u.mu.Unlock()

	const eventsPath = "/calendar/v3/calendars/primary/events"
	switch {
	case r.Method == http.MethodPost && r.URL.Path == eventsPath:
		var event map[string]any
		_ = json.NewDecoder(r.Body).Decode(&event)
		u.createdEvents = append(u.createdEvents, event)
		id := fmt.Sprintf("evt-%d", len(u.createdEvents))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"id":          id,
			"htmlLink":    "https://calendar.google.com/event?eid=" + id,
			"hangoutLink": "https://meet.google.com/" + id,
		})
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, eventsPath+"/"):
		u.deletedEvents = append(u.deletedEvents, strings.TrimPrefix(r.URL.Path, eventsPath+"/"))
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (u *upstreams) webhook(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	defer u.mu.Unlock()

	var payload map[string]any
	_ = json.NewDecoder(r.Body).Decode(&payload)
	u.webhookPayloads = append(u.webhookPayloads, payload)
	w.WriteHeader(http.StatusOK)
}

type TestApp struct {
	DB          *sql.DB
	Server      *httptest.Server
	Client      *http.Client
	Upstreams   *upstreams
	StoragePath string
}

func setupTestApp(t *testing.T) *TestApp {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := dbContainer.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, applyMigrations(db))

	up := &upstreams{
		transcriptionReply: "We agreed to ship the release on Friday.",
		completionReply:    "```html\n<h2>Summary</h2><ul><li>Ship on Friday</li></ul>\n```",
	}
	groqServer := httptest.NewServer(http.HandlerFunc(up.groq))
	calendarServer := httptest.NewServer(http.HandlerFunc(up.calendar))
	webhookServer := httptest.NewServer(http.HandlerFunc(up.webhook))
	t.Cleanup(groqServer.Close)
	t.Cleanup(calendarServer.Close)
	t.Cleanup(webhookServer.Close)

	storagePath := t.TempDir()
	blobs, err := local.NewStore(storagePath, "")
	require.NoError(t, err)

	ai := groq.NewClient(groq.Config{
		APIKey:             "test-key",
		BaseURL:            groqServer.URL + "/openai/v1",
		TranscriptionModel: "whisper-large-v3",
		SummaryModel:       "openai/gpt-oss-120b",
	})

	meetingRepo := repo.NewMeetingRepository(db)
	meetingSvc := services.NewMeetingService(meetingRepo, google.NewCalendar(calendarServer.URL+"/calendar/v3/"), blobs, "UTC")
	processingSvc := services.NewProcessingService(meetingRepo, ai, ai, blobs, testMaxUploadBytes)
	shareSvc := services.NewShareService(meetingRepo, webhook.NewNotifier(webhookServer.URL, 5*time.Second))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := handler.NewHandler(log,
		handler.NewMeetingHandler(meetingSvc, processingSvc, shareSvc, testMaxUploadBytes),
		handler.NewProcessHandler(processingSvc, testMaxUploadBytes))

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &TestApp{
		DB:          db,
		Server:      server,
		Client:      server.Client(),
		Upstreams:   up,
		StoragePath: storagePath,
	}
}
