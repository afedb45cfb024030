package implementation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	feedermodels "gitlab.com/pawsense1/fdr.feeder_server/src/production/FDR.Models"
)

type SqliteScheduleRepository struct {
	db *sql.DB
}

func NewSqliteScheduleRepository(db *sql.DB) *SqliteScheduleRepository {
	return &SqliteScheduleRepository{db: db}
}

// Create schedule; status defaults to pending when empty
func (r *SqliteScheduleRepository) CreateSchedule(ctx context.Context, schedule feedermodels.Schedule) (int64, error) {
	if schedule.Status == "" {
		schedule.Status = feedermodels.ScheduleStatusPending
	}

	query := `INSERT INTO schedules (module_id, feed_time, amount, status) VALUES (?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, schedule.ModuleID, schedule.FeedTime, schedule.Amount, schedule.Status)
	if err != nil {
		return 0, err
	}

	return result.LastInsertId()
}

// Read schedule
func (r *SqliteScheduleRepository) GetSchedule(ctx context.Context, scheduleID int64) (*feedermodels.Schedule, error) {
	query := `SELECT schedule_id, module_id, feed_time, amount, status FROM schedules WHERE schedule_id = ?`

	var schedule feedermodels.Schedule
	err := r.db.QueryRowContext(ctx, query, scheduleID).Scan(
		&schedule.ScheduleID, &schedule.ModuleID, &schedule.FeedTime, &schedule.Amount, &schedule.Status)
	if err != nil {
		return nil, err
	}

	return &schedule, nil
}

// List schedules
func (r *SqliteScheduleRepository) ListSchedules(ctx context.Context) ([]feedermodels.Schedule, error) {
	query := `SELECT schedule_id, module_id, feed_time, amount, status FROM schedules ORDER BY schedule_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedules := make([]feedermodels.Schedule, 0)
	for rows.Next() {
		var schedule feedermodels.Schedule
		if err := rows.Scan(&schedule.ScheduleID, &schedule.ModuleID, &schedule.FeedTime, &schedule.Amount, &schedule.Status); err != nil {
			return nil, err
		}
		schedules = append(schedules, schedule)
	}

	return schedules, rows.Err()
}

// Update schedule (full replacement of mutable fields). This is the
// only path that can move a schedule back to pending.
func (r *SqliteScheduleRepository) UpdateSchedule(ctx context.Context, schedule feedermodels.Schedule) error {
	query := `UPDATE schedules SET module_id = ?, feed_time = ?, amount = ?, status = ? WHERE schedule_id = ?`

	_, err := r.db.ExecContext(ctx, query, schedule.ModuleID, schedule.FeedTime, schedule.Amount, schedule.Status, schedule.ScheduleID)
	return err
}

// Delete schedule (non-cascading: history rows keep their schedule_id)
func (r *SqliteScheduleRepository) DeleteSchedule(ctx context.Context, scheduleID int64) error {
	query := `DELETE FROM schedules WHERE schedule_id = ?`

	_, err := r.db.ExecContext(ctx, query, scheduleID)
	return err
}

// ClaimDue claims the first pending schedule for the module at exactly
// the given HH:MM minute. The status guard on the UPDATE keeps the
// claim at-most-once even when two polls race on the same row: the
// loser sees zero rows affected and reports no dispense.
func (r *SqliteScheduleRepository) ClaimDue(ctx context.Context, moduleID, feedTime string) (*feedermodels.Dispense, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin claim: %w", err)
	}
	defer tx.Rollback()

	var dispense feedermodels.Dispense
	err = tx.QueryRowContext(ctx, `
		SELECT schedule_id, amount FROM schedules
		WHERE module_id = ? AND feed_time = ? AND status = ?
		ORDER BY schedule_id LIMIT 1
	`, moduleID, feedTime, feedermodels.ScheduleStatusPending).Scan(&dispense.ScheduleID, &dispense.Amount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select due schedule: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE schedules SET status = ? WHERE schedule_id = ? AND status = ?`,
		feedermodels.ScheduleStatusDone, dispense.ScheduleID, feedermodels.ScheduleStatusPending)
	if err != nil {
		return nil, fmt.Errorf("mark schedule done: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		// Lost the race to a concurrent poll.
		return nil, nil
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO history (schedule_id, created_at) VALUES (?, ?)`,
		dispense.ScheduleID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("append history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit claim: %w", err)
	}

	return &dispense, nil
}
