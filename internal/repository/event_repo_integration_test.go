//go:build integration
// +build integration

package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nordkaliber/checkout/internal/repository/testutil"
)

func TestEventRepository_MarkProcessed_Integration(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	defer testDB.Teardown(t)

	repo := NewEventRepositoryWithDB(testDB.DB)

	eventID := "evt_" + uuid.New().String()

	first, err := repo.MarkProcessed(eventID, "payment_intent.succeeded")
	if err != nil {
		t.Fatalf("MarkProcessed() error = %v", err)
	}
	if !first {
		t.Error("MarkProcessed() first delivery = false, want true")
	}

	// Redelivery of the same event id must not count as first.
	first, err = repo.MarkProcessed(eventID, "payment_intent.succeeded")
	if err != nil {
		t.Fatalf("MarkProcessed() redelivery error = %v", err)
	}
	if first {
		t.Error("MarkProcessed() redelivery = true, want false")
	}
}

func TestEventRepository_MarkProcessed_DistinctEvents_Integration(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	defer testDB.Teardown(t)

	repo := NewEventRepositoryWithDB(testDB.DB)

	for i := 0; i < 3; i++ {
		eventID := "evt_" + uuid.New().String()
		first, err := repo.MarkProcessed(eventID, "checkout.session.completed")
		if err != nil {
			t.Fatalf("MarkProcessed() error = %v", err)
		}
		if !first {
			t.Errorf("MarkProcessed() for distinct event %d = false, want true", i)
		}
	}
}

func TestEventRepository_PruneOlderThan_Integration(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	defer testDB.Teardown(t)

	repo := NewEventRepositoryWithDB(testDB.DB)

	oldID := "evt_" + uuid.New().String()
	if _, err := repo.MarkProcessed(oldID, "payment_intent.succeeded"); err != nil {
		t.Fatalf("MarkProcessed() error = %v", err)
	}

	// Backdate the entry past the cutoff.
	_, err := testDB.DB.Exec(`UPDATE processed_events SET processed_at = $1 WHERE event_id = $2`,
		time.Now().Add(-60*24*time.Hour), oldID)
	if err != nil {
		t.Fatalf("failed to backdate event: %v", err)
	}

	recentID := "evt_" + uuid.New().String()
	if _, err := repo.MarkProcessed(recentID, "payment_intent.succeeded"); err != nil {
		t.Fatalf("MarkProcessed() error = %v", err)
	}

	pruned, err := repo.PruneOlderThan(time.Now().Add(-30 * 24 * time.Hour))
	if err != nil {
		t.Fatalf("PruneOlderThan() error = %v", err)
	}
	if pruned != 1 {
		t.Errorf("PruneOlderThan() = %d, want 1", pruned)
	}

	// The recent event must still be known.
	first, err := repo.MarkProcessed(recentID, "payment_intent.succeeded")
	if err != nil {
		t.Fatalf("MarkProcessed() error = %v", err)
	}
	if first {
		t.Error("recent event should survive pruning")
	}
}
