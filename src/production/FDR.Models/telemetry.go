package feedermodels

import "time"

// WeightReport is a single weight telemetry reading received from a
// feeder device, either over HTTP or through the MQTT bridge.
type WeightReport struct {
	DeviceID   string    `json:"device_id"`
	Weight     float64   `json:"weight"`
	Topic      string    `json:"topic,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}
