package feedermodels

import "time"

// History represents an append-only dispense log entry
type History struct {
	HistoryID  int64     `json:"history_id" db:"history_id"`
	ScheduleID *int64    `json:"schedule_id" db:"schedule_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// HistoryEntry is a history row joined with its schedule for operator
// listings. The schedule fields are nil when the schedule was deleted
// after the dispense (deletes do not cascade).
type HistoryEntry struct {
	HistoryID  int64     `json:"history_id"`
	CreatedAt  time.Time `json:"created_at"`
	ScheduleID *int64    `json:"schedule_id"`
	ModuleID   *string   `json:"module_id"`
	FeedTime   *string   `json:"feed_time"`
	Amount     *float64  `json:"amount"`
	Status     *string   `json:"status"`
}
