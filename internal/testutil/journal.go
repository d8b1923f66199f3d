package testutil

import (
	"testing"

	"cleardir/internal/database"
)

// NewTestJournal creates an in-memory SQLite journal with schema applied.
// The journal is closed when the test completes.
func NewTestJournal(t *testing.T) *database.SQLiteJournal {
	t.Helper()

	j, err := database.NewSQLiteJournal(":memory:")
	if err != nil {
		t.Fatalf("failed to create journal: %v", err)
	}
	t.Cleanup(func() {
		j.Close()
	})
	return j
}
