package feedermodels

// Camera represents a monitoring camera unit
type Camera struct {
	CamID  string `json:"cam_id" db:"cam_id"`
	Status string `json:"status" db:"status"` // free-text operator label
}
