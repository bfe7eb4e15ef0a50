package postgres

import (
	"context"
	"fmt"

	"github.com/bibbank/credit-module/pkg/events"
	pgutil "github.com/bibbank/credit-module/pkg/postgres"
)

// OutboxRepo implements events.OutboxRepository.
type OutboxRepo struct {
	db pgutil.Querier
}

func NewOutboxRepo(db pgutil.Querier) *OutboxRepo {
	return &OutboxRepo{db: db}
}

// Store appends entries. Inside a unit of work they commit with the state
// change that produced them.
func (r *OutboxRepo) Store(ctx context.Context, entries []events.OutboxEntry) error {
	const query = `
		INSERT INTO outbox (id, aggregate_id, aggregate_type, event_type, payload, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`
	for _, e := range entries {
		if _, err := r.db.Exec(ctx, query,
			e.ID, e.AggregateID, e.AggregateType, e.EventType, e.Payload, e.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert outbox entry %s: %w", e.EventType, err)
		}
	}
	return nil
}

// FetchUnpublished returns the oldest unpublished entries first.
func (r *OutboxRepo) FetchUnpublished(ctx context.Context, batchSize int) ([]events.OutboxEntry, error) {
	const query = `
		SELECT id, aggregate_id, aggregate_type, event_type, payload, created_at
		FROM outbox
		WHERE published_at IS NULL
		ORDER BY created_at, id
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, batchSize)
	if err != nil {
		return nil, fmt.Errorf("query outbox: %w", err)
	}
	defer rows.Close()

	var result []events.OutboxEntry
	for rows.Next() {
		var e events.OutboxEntry
		if err := rows.Scan(&e.ID, &e.AggregateID, &e.AggregateType, &e.EventType, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func (r *OutboxRepo) MarkPublished(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	const query = `UPDATE outbox SET published_at = NOW() WHERE id = ANY($1::uuid[])`
	if _, err := r.db.Exec(ctx, query, ids); err != nil {
		return fmt.Errorf("mark outbox published: %w", err)
	}
	return nil
}
