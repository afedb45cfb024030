package implementation

import (
	"context"
	"database/sql"
	"time"

	feedermodels "gitlab.com/pawsense1/fdr.feeder_server/src/production/FDR.Models"
)

type SqliteHistoryRepository struct {
	db *sql.DB
}

func NewSqliteHistoryRepository(db *sql.DB) *SqliteHistoryRepository {
	return &SqliteHistoryRepository{db: db}
}

// Create history entry
func (r *SqliteHistoryRepository) CreateHistory(ctx context.Context, scheduleID int64) (int64, error) {
	query := `INSERT INTO history (schedule_id, created_at) VALUES (?, ?)`

	result, err := r.db.ExecContext(ctx, query, scheduleID, time.Now().UTC())
	if err != nil {
		return 0, err
	}

	return result.LastInsertId()
}

// ListHistory returns entries joined with their schedules, newest
// first. LEFT JOIN so dangling entries survive schedule deletion.
func (r *SqliteHistoryRepository) ListHistory(ctx context.Context) ([]feedermodels.HistoryEntry, error) {
	query := `
		SELECT h.history_id, h.created_at, s.schedule_id, s.module_id, s.feed_time, s.amount, s.status
		FROM history h
		LEFT JOIN schedules s ON h.schedule_id = s.schedule_id
		ORDER BY h.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]feedermodels.HistoryEntry, 0)
	for rows.Next() {
		var entry feedermodels.HistoryEntry
		if err := rows.Scan(&entry.HistoryID, &entry.CreatedAt, &entry.ScheduleID, &entry.ModuleID,
			&entry.FeedTime, &entry.Amount, &entry.Status); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// Delete history entry
func (r *SqliteHistoryRepository) DeleteHistory(ctx context.Context, historyID int64) error {
	query := `DELETE FROM history WHERE history_id = ?`

	_, err := r.db.ExecContext(ctx, query, historyID)
	return err
}
