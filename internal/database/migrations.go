package database

import (
	"fmt"
	"log"
)

// RunMigrations creates the necessary database tables
func RunMigrations() error {
	if DB == nil {
		return fmt.Errorf("database connection not initialized")
	}

	// The processed_events table is the idempotency ledger for webhook
	// deliveries: the processor delivers at least once, this table makes
	// notification dispatch happen at most once per event.
	createProcessedEventsTable := `
	CREATE TABLE IF NOT EXISTS processed_events (
		event_id VARCHAR(255) PRIMARY KEY,
		event_type VARCHAR(100) NOT NULL,
		processed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_processed_events_processed_at ON processed_events(processed_at);
	`

	_, err := DB.Exec(createProcessedEventsTable)
	if err != nil {
		return fmt.Errorf("failed to create processed_events table: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}
