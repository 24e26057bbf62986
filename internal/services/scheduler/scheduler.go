// Package services runs the publication sweep: it claims scheduled
// articles whose release time has passed, marks them live and emits a
// publication event for each.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/jotanews/content-api/internal/lib/rabbitmq"
	"github.com/jotanews/content-api/internal/lib/sl"
	"github.com/jotanews/content-api/internal/models"
)

// ArticleRepository claims due scheduled articles. The claim is a
// single conditional update, so concurrent sweeps never release the
// same article twice.
type ArticleRepository interface {
	ClaimDueScheduledArticles(ctx context.Context, now time.Time) ([]int64, error)
}

// EventPublisher publishes publication events to the broker.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// SchedulerService drives the periodic publication sweep.
type SchedulerService struct {
	repo      ArticleRepository
	publisher EventPublisher
	interval  time.Duration
	log       *slog.Logger
}

// NewSchedulerService creates a new SchedulerService.
func NewSchedulerService(repo ArticleRepository, publisher EventPublisher,
	interval time.Duration, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo:      repo,
		publisher: publisher,
		interval:  interval,
		log:       log,
	}
}

// Run sweeps immediately and then on every tick until the context is
// cancelled.
func (s *SchedulerService) Run(ctx context.Context) {
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("publication sweep stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *SchedulerService) sweep(ctx context.Context) {
	count, err := s.RunSweep(ctx, time.Now())
	if err != nil {
		s.log.Error("publication sweep failed", sl.Err(err))
		return
	}
	if count > 0 {
		s.log.Info("publication sweep released articles", slog.Int("count", count))
	}
}

// RunSweep claims every article due at the given instant and emits a
// publication event per released article. A failed event is logged and
// does not block the others; the article is already live at that point.
func (s *SchedulerService) RunSweep(ctx context.Context, now time.Time) (int, error) {
	ids, err := s.repo.ClaimDueScheduledArticles(ctx, now)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		event := models.ArticlePublishedEvent{ArticleID: id}
		if err := s.publisher.Publish(rabbitmq.ArticlePublishedKey, event); err != nil {
			s.log.Error("failed to publish article event",
				slog.Int64("article_id", id), sl.Err(err))
		}
	}
	return len(ids), nil
}
