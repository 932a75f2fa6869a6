package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/nordkaliber/checkout/internal/database"
)

// EventRepository records processed webhook event ids so duplicate
// deliveries can be recognized.
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository() *EventRepository {
	return &EventRepository{
		db: database.DB,
	}
}

// NewEventRepositoryWithDB creates a new event repository with a specific database connection
func NewEventRepositoryWithDB(db *sql.DB) *EventRepository {
	return &EventRepository{
		db: db,
	}
}

// MarkProcessed records the event id and reports whether this delivery was
// the first. A conflicting insert means the event was already handled.
func (r *EventRepository) MarkProcessed(eventID, eventType string) (bool, error) {
	query := `
		INSERT INTO processed_events (event_id, event_type, processed_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id) DO NOTHING
	`

	result, err := r.db.Exec(query, eventID, eventType, time.Now())
	if err != nil {
		return false, fmt.Errorf("failed to record processed event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// PruneOlderThan deletes ledger entries older than the cutoff. The ledger
// only needs to cover the processor's redelivery horizon.
func (r *EventRepository) PruneOlderThan(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM processed_events WHERE processed_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune processed events: %w", err)
	}

	return result.RowsAffected()
}
