package feedermodels

// Schedule statuses. A schedule starts pending and flips to done exactly
// once, the first time a matching device poll lands on its feed_time
// minute. There is no date dimension: a schedule fires at most once
// total unless an operator resets it through the management API.
const (
	ScheduleStatusPending = "pending"
	ScheduleStatusDone    = "done"
)

// Schedule represents a single scheduled feeding event
type Schedule struct {
	ScheduleID int64   `json:"schedule_id" db:"schedule_id"`
	ModuleID   string  `json:"module_id" db:"module_id"`
	FeedTime   string  `json:"feed_time" db:"feed_time"` // wall-clock HH:MM, no date
	Amount     float64 `json:"amount" db:"amount"`
	Status     string  `json:"status" db:"status"`
}

// Dispense is the outcome of claiming a due schedule for a device poll
type Dispense struct {
	ScheduleID int64   `json:"schedule_id"`
	Amount     float64 `json:"amount"`
}
