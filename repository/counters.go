package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/careerloop/backend/realtime"
	"github.com/jackc/pgx/v5/pgxpool"
)

// allowedCounters whitelists the denormalized counter columns that may be
// incremented. Table and column names are interpolated into SQL, so nothing
// outside this map is ever accepted.
var allowedCounters = map[string]map[string]bool{
	"discussions": {"likes_count": true},
	"challenges":  {"participants_count": true},
	"referrals":   {"registered_count": true},
	"campaigns":   {"outreach_count": true, "response_count": true},
}

// CounterStore performs atomic increments on denormalized counter columns.
// A single UPDATE with RETURNING avoids the read-modify-write race that a
// load-increment-save cycle through the ORM would have under concurrency.
type CounterStore struct {
	pool *pgxpool.Pool
	feed *realtime.Hub
}

func NewCounterStore(pool *pgxpool.Pool, feed *realtime.Hub) *CounterStore {
	return &CounterStore{pool: pool, feed: feed}
}

// Increment adds delta to the named counter column and returns the new value.
// Table and column must be in the whitelist; delta may be negative for undo
// operations but the column is floored at zero.
func (s *CounterStore) Increment(ctx context.Context, table, column, recordID string, delta int) (int, error) {
	columns, ok := allowedCounters[table]
	if !ok || !columns[column] {
		return 0, fmt.Errorf("counter %s.%s is not incrementable", table, column)
	}

	query := fmt.Sprintf(
		"UPDATE %s SET %s = GREATEST(%s + $1, 0), updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL RETURNING %s",
		table, column, column, column,
	)

	var value int
	if err := s.pool.QueryRow(ctx, query, delta, recordID).Scan(&value); err != nil {
		slog.Error("Failed to increment counter", "error", err, "table", table, "column", column, "record_id", recordID)
		return 0, err
	}

	if s.feed != nil {
		s.feed.Publish(realtime.Event{Table: table, Action: "update", RecordID: recordID})
	}
	return value, nil
}
