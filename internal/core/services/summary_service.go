package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/vncsmyrnk/meetmind/internal/core/domain"
	"github.com/vncsmyrnk/meetmind/internal/core/ports"
	"github.com/vncsmyrnk/meetmind/internal/logger"
)

type summaryService struct {
	repo       ports.MeetingRepository
	processing ports.ProcessingService
}

func NewSummaryService(repo ports.MeetingRepository, processing ports.ProcessingService) ports.SummaryService {
	return &summaryService{
		repo:       repo,
		processing: processing,
	}
}

// SummarizePending summarizes every meeting that has a transcription but no
// summary yet. It returns how many meetings were summarized.
func (s *summaryService) SummarizePending(ctx context.Context) (int, error) {
	meetings, err := s.repo.ListPendingSummary(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch pending meetings: %w", err)
	}

	var (
		wg      sync.WaitGroup
		done    atomic.Int64
		errChan = make(chan error, len(meetings))
	)

	for _, meeting := range meetings {
		wg.Add(1)
		go func(m *domain.Meeting) {
			defer wg.Done()
			if err := s.summarize(ctx, m); err != nil {
				errChan <- fmt.Errorf("failed to summarize meeting %s: %w", m.ID, err)
				return
			}
			done.Add(1)
		}(meeting)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		if err != nil {
			return int(done.Load()), err
		}
	}

	return int(done.Load()), nil
}

func (s *summaryService) summarize(ctx context.Context, m *domain.Meeting) error {
	summary, err := s.processing.Summarize(ctx, m.Transcription)
	if err != nil {
		return err
	}

	completed := domain.StatusCompleted
	if _, err := s.repo.Update(ctx, m.ID, ports.MeetingPatch{Summary: &summary, Status: &completed}); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("meeting summarized", slog.String("meeting_id", m.ID))
	return nil
}
