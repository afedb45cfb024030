package interfaces

import (
	"context"

	feedermodels "gitlab.com/pawsense1/fdr.feeder_server/src/production/FDR.Models"
)

type ScheduleRepository interface {
	// Create schedule; status defaults to pending when empty
	CreateSchedule(ctx context.Context, schedule feedermodels.Schedule) (int64, error)

	// Read schedules
	GetSchedule(ctx context.Context, scheduleID int64) (*feedermodels.Schedule, error)
	ListSchedules(ctx context.Context) ([]feedermodels.Schedule, error)

	// Update schedule (replaces all mutable fields)
	UpdateSchedule(ctx context.Context, schedule feedermodels.Schedule) error

	// Delete schedule. Does not cascade to history.
	DeleteSchedule(ctx context.Context, scheduleID int64) error

	// ClaimDue atomically claims the first pending schedule for the
	// module at exactly the given HH:MM minute: it marks the row done
	// and appends a history entry in one transaction. Returns nil when
	// nothing is due, which is a normal no-dispense result. Concurrent
	// claims for the same schedule yield at most one non-nil result.
	ClaimDue(ctx context.Context, moduleID, feedTime string) (*feedermodels.Dispense, error)
}
