package feedermodels

// Module represents a physical feeder unit attached to a camera.
// Weight is the latest telemetry reading and is nil until the device
// first reports.
type Module struct {
	ModuleID string   `json:"module_id" db:"module_id"`
	CamID    string   `json:"cam_id" db:"cam_id"`
	Status   string   `json:"status" db:"status"`
	Weight   *float64 `json:"weight" db:"weight"`
}
