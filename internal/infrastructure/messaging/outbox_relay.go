package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/bibbank/credit-module/internal/domain/port"
)

// OutboxRelay moves committed outbox entries to the event publisher on a
// cron schedule. Delivery is at-least-once: an entry is marked published
// only after the publisher accepted it.
type OutboxRelay struct {
	outbox    port.OutboxRepository
	publisher port.EventPublisher
	batchSize int
	logger    *slog.Logger

	mu   sync.Mutex
	cron *cron.Cron
}

func NewOutboxRelay(outbox port.OutboxRepository, publisher port.EventPublisher, batchSize int, logger *slog.Logger) *OutboxRelay {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &OutboxRelay{
		outbox:    outbox,
		publisher: publisher,
		batchSize: batchSize,
		logger:    logger,
	}
}

// RelayOnce publishes one batch and returns how many entries were relayed.
func (r *OutboxRelay) RelayOnce(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.outbox.FetchUnpublished(ctx, r.batchSize)
	if err != nil {
		return 0, fmt.Errorf("fetch unpublished: %w", err)
	}
	if len(entries) == 0 {
		return 0, nil
	}

	if err := r.publisher.Publish(ctx, entries...); err != nil {
		return 0, fmt.Errorf("publish: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	if err := r.outbox.MarkPublished(ctx, ids); err != nil {
		return 0, fmt.Errorf("mark published: %w", err)
	}
	return len(entries), nil
}

// Start schedules RelayOnce with a cron spec such as "@every 5s". Runs that
// overlap a slow predecessor are skipped.
func (r *OutboxRelay) Start(ctx context.Context, schedule string) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(schedule, func() {
		n, err := r.RelayOnce(ctx)
		if err != nil {
			r.logger.ErrorContext(ctx, "outbox relay failed", "error", err)
			return
		}
		if n > 0 {
			r.logger.InfoContext(ctx, "outbox entries relayed", "count", n)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid outbox schedule %q: %w", schedule, err)
	}

	r.cron = c
	c.Start()
	r.logger.Info("outbox relay started", "schedule", schedule, "batch_size", r.batchSize)
	return nil
}

// Stop halts the schedule and waits for a running relay to finish.
func (r *OutboxRelay) Stop() {
	if r.cron == nil {
		return
	}
	<-r.cron.Stop().Done()
}
