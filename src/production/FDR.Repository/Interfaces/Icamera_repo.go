package interfaces

import (
	"context"

	feedermodels "gitlab.com/pawsense1/fdr.feeder_server/src/production/FDR.Models"
)

type CameraRepository interface {
	// Create camera
	CreateCamera(ctx context.Context, camera feedermodels.Camera) error

	// Read cameras
	GetCamera(ctx context.Context, camID string) (*feedermodels.Camera, error)
	ListCameras(ctx context.Context) ([]feedermodels.Camera, error)

	// Update camera status (the only mutable field)
	UpdateCamera(ctx context.Context, camID, status string) error

	// Delete camera. Does not cascade: dependent modules keep their
	// cam_id reference even when it no longer resolves.
	DeleteCamera(ctx context.Context, camID string) error
}
