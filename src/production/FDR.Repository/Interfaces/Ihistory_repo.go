package interfaces

import (
	"context"

	feedermodels "gitlab.com/pawsense1/fdr.feeder_server/src/production/FDR.Models"
)

type HistoryRepository interface {
	// Create history entry
	CreateHistory(ctx context.Context, scheduleID int64) (int64, error)

	// ListHistory returns dispense log entries joined with their
	// schedules, newest first. Entries whose schedule was deleted keep
	// their row with nil schedule fields.
	ListHistory(ctx context.Context) ([]feedermodels.HistoryEntry, error)

	// Delete history entry
	DeleteHistory(ctx context.Context, historyID int64) error
}
